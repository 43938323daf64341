package cmd

import (
	"log"
	"os/signal"
	"syscall"

	"github.com/abhisek/maturity/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the PDF and CRM endpoints for web front ends",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			e.cfg.Addr = addr
		}

		reports, err := e.reportService()
		if err != nil {
			return err
		}
		defer reports.Wait()

		deps := server.Deps{Reports: reports, CORSOrigin: e.cfg.CORSOrigin}
		if ml := e.mailerLite(); ml != nil {
			deps.List = ml
		} else {
			log.Printf("[server] MailerLite not configured, /api/subscribe will fail")
		}
		if sf := e.salesforce(); sf != nil {
			deps.Leads = sf
		} else {
			log.Printf("[server] Salesforce not configured, /api/salesforce/lead will fail")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return server.Run(ctx, e.cfg.Addr, server.NewRouter(deps))
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides MATURITY_ADDR env var)")
}
