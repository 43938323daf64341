package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/abhisek/maturity/internal/insight"
	"github.com/abhisek/maturity/internal/llm"
	"github.com/abhisek/maturity/internal/store"
	"github.com/spf13/cobra"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect AI commentary requests and their cost",
}

// withEvents opens only the database; the LLM commands never touch the
// snapshot store or question bank.
func withEvents(cmd *cobra.Command, fn func(*store.EventStore) error) error {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer s.Close()
	return fn(s.EventRepo())
}

const ruleWidth = 96

func rule() string { return strings.Repeat("─", ruleWidth) }

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		return withEvents(cmd, func(repo *store.EventStore) error {
			events, err := repo.QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit})
			if err != nil {
				return fmt.Errorf("query events: %w", err)
			}

			shown := 0
			for _, e := range events {
				if purpose != "" && e.Purpose != purpose {
					continue
				}
				if shown == 0 {
					fmt.Printf("%-5s  %-19s  %-10s  %-28s  %6s  %6s  %7s  %s\n",
						"ID", "Time", "Purpose", "Model", "In", "Out", "Ms", "OK")
					fmt.Println(rule())
				}
				shown++
				status := "yes"
				if !e.Success {
					status = "no"
				}
				fmt.Printf("%-5d  %-19s  %-10s  %-28s  %6d  %6d  %7d  %s\n",
					e.ID, e.Timestamp.Local().Format("2006-01-02 15:04:05"), e.Purpose,
					truncate(e.Model, 28), e.InputTokens, e.OutputTokens, e.LatencyMs, status)
			}
			if shown == 0 {
				fmt.Println("No LLM requests recorded.")
			}
			return nil
		})
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the full prompt and reply of one request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		return withEvents(cmd, func(repo *store.EventStore) error {
			e, err := repo.GetLLMEvent(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("get event: %w", err)
			}
			if e == nil {
				return fmt.Errorf("event %d not found", id)
			}

			fmt.Printf("Request %d  %s\n", e.ID, e.Timestamp.Local().Format("2006-01-02 15:04:05"))
			fmt.Printf("  %s / %s, purpose %q\n", e.Provider, e.Model, e.Purpose)
			fmt.Printf("  %d tokens in, %d out, %dms\n", e.InputTokens, e.OutputTokens, e.LatencyMs)
			if cost := llm.LookupCost(e.Model); cost != nil {
				fmt.Printf("  estimated %s\n", formatCost(cost.Cost(e.InputTokens, e.OutputTokens)))
			}
			if !e.Success {
				fmt.Printf("  failed: %s\n", e.ErrorMessage)
			}

			printBody("Request", e.RequestBody)
			printBody("Response", e.ResponseBody)
			return nil
		})
	},
}

// printBody prints a captured body, indenting it when it is JSON.
func printBody(label, body string) {
	fmt.Println()
	fmt.Println(label)
	fmt.Println(rule())
	if body == "" {
		fmt.Println("(not captured)")
		return
	}
	var buf bytes.Buffer
	if json.Indent(&buf, []byte(body), "", "  ") == nil {
		fmt.Println(buf.String())
		return
	}
	fmt.Println(body)
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage and estimated cost per purpose and model",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEvents(cmd, func(repo *store.EventStore) error {
			ctx := cmd.Context()
			byPurpose, err := repo.LLMUsageByPurpose(ctx)
			if err != nil {
				return fmt.Errorf("query usage: %w", err)
			}
			if len(byPurpose) == 0 {
				fmt.Println("No LLM usage recorded yet.")
				return nil
			}

			fmt.Printf("%-16s  %6s  %10s  %10s  %8s\n", "Purpose", "Calls", "Input", "Output", "Avg Ms")
			fmt.Println(rule())
			for _, u := range byPurpose {
				fmt.Printf("%-16s  %6d  %10d  %10d  %8d\n",
					u.Purpose, u.Calls, u.InputTokens, u.OutputTokens, u.AvgLatencyMs)
			}

			byModel, err := repo.LLMUsageByModel(ctx)
			if err != nil {
				return fmt.Errorf("query model usage: %w", err)
			}
			fmt.Println()
			fmt.Printf("%-32s  %6s  %10s  %10s  %10s\n", "Model", "Calls", "Input", "Output", "Cost")
			fmt.Println(rule())

			var total float64
			var unpriced []string
			for _, u := range byModel {
				cost := "?"
				if c := llm.LookupCost(u.Model); c != nil {
					usd := c.Cost(u.InputTokens, u.OutputTokens)
					total += usd
					cost = formatCost(usd)
				} else {
					unpriced = append(unpriced, u.Model)
				}
				fmt.Printf("%-32s  %6d  %10d  %10d  %10s\n",
					truncate(u.Model, 32), u.Calls, u.InputTokens, u.OutputTokens, cost)
			}
			fmt.Println(rule())
			fmt.Printf("%-32s  %42s\n", "Total", formatCost(total))
			if len(unpriced) > 0 {
				fmt.Printf("\nNo pricing for %s; total excludes them.\n", strings.Join(unpriced, ", "))
			}
			return nil
		})
	},
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of requests to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Only show requests with this purpose (e.g. "+insight.Purpose+")")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd)
}
