package cmd

import (
	"github.com/abhisek/maturity/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "maturity",
	Short: "Experimentation maturity assessment",
	Long: "Maturity is a terminal quiz that scores how mature a team's experimentation " +
		"program is across process, strategy, insight and culture.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides MATURITY_DB env var)")
	rootCmd.PersistentFlags().String("store", "", "Snapshot store: sqlite or redis (overrides MATURITY_STORE env var)")
	rootCmd.PersistentFlags().String("questions", "", "Question bank JSON file (overrides MATURITY_QUESTIONS env var)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(questionsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then MATURITY_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
