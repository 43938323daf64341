package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/abhisek/maturity/internal/quiz"
	"github.com/abhisek/maturity/internal/report"
	"github.com/abhisek/maturity/internal/session"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render the saved assessment to a PDF report",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		sess := session.New(ctx, quiz.NewMachine(e.bank), e.kv)
		b, err := report.NewBundle("", sess.State())
		if errors.Is(err, report.ErrNoScores) {
			return fmt.Errorf("no completed assessment to export; run `maturity` first")
		}
		if err != nil {
			return err
		}
		b.GeneratedAt = time.Now()

		renderer := report.ChromeRenderer{ExecPath: e.cfg.ChromePath, Timeout: e.cfg.PDFTimeout}
		doc, err := renderer.Render(ctx, b)
		if err != nil {
			return err
		}

		out, _ := cmd.Flags().GetString("output")
		if out == "" {
			out = doc.Filename
		}
		if err := os.WriteFile(out, doc.Data, 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Printf("Report written to %s\n", out)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("output", "o", "", "Output file (default: report filename in the current directory)")
}
