package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/maturity/internal/analytics"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show assessment funnel statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		repo := e.db.EventRepo()

		counts, err := repo.CountAnalyticsByType(ctx)
		if err != nil {
			return fmt.Errorf("count events: %w", err)
		}
		if len(counts) == 0 {
			fmt.Println("No analytics events recorded yet.")
			return nil
		}

		fmt.Printf("%-16s  %s\n", "Event", "Count")
		fmt.Println(strings.Repeat("─", 26))
		for _, c := range counts {
			fmt.Printf("%-16s  %d\n", c.EventType, c.Count)
		}

		f, err := analytics.LoadFunnel(ctx, repo)
		if err != nil {
			return err
		}
		fmt.Println()
		fmt.Printf("Sessions started:    %d\n", f.Started)
		fmt.Printf("Sessions completed:  %d (%.0f%%)\n", f.Completed, f.CompletionRate()*100)
		fmt.Printf("Emails captured:     %d (%.0f%% of completed)\n", f.Submitted, f.CaptureRate()*100)
		fmt.Printf("Email skipped:       %d\n", f.Skipped)
		if f.AvgCompletionMs > 0 {
			avg := time.Duration(f.AvgCompletionMs) * time.Millisecond
			fmt.Printf("Avg. time to finish: %s\n", avg.Round(time.Second))
		}
		return nil
	},
}
