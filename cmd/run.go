package cmd

import (
	"path/filepath"

	"github.com/abhisek/maturity/internal/analytics"
	"github.com/abhisek/maturity/internal/app"
	"github.com/abhisek/maturity/internal/effects"
	"github.com/abhisek/maturity/internal/quiz"
	"github.com/abhisek/maturity/internal/session"
	"github.com/abhisek/maturity/internal/store"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Take the assessment in the terminal (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func init() {
	runCmd.Flags().Bool("no-splash", false, "Skip the welcome animation")
}

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	reports, err := e.reportService()
	if err != nil {
		return err
	}
	defer reports.Wait()

	tracker := analytics.NewTracker([]analytics.Sink{
		analytics.RepoSink{Repo: e.db.EventRepo()},
		analytics.LogSink{},
	})
	coord := effects.New(tracker, e.crmOptions()...)
	defer coord.Wait()

	sess := session.New(ctx, quiz.NewMachine(e.bank), e.kv)
	detach := coord.Attach(sess)
	defer detach()

	opts := app.Options{
		Store:     sess,
		Reports:   reports,
		SessionID: tracker.SessionID,
	}
	if svc := e.insightService(ctx); svc != nil {
		opts.Commentator = svc
	}
	if dir, err := store.DataDir(); err == nil {
		p := filepath.Join(dir, "maturity.log")
		if store.EnsureDir(p) == nil {
			opts.LogPath = p
		}
	}
	opts.SkipSplash, _ = cmd.Flags().GetBool("no-splash")

	return app.Run(opts)
}
