package cmd

import (
	"fmt"

	"github.com/abhisek/maturity/internal/session"
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard the saved assessment so the next run starts fresh",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.kv.Delete(cmd.Context(), session.StateKey); err != nil {
			return fmt.Errorf("delete saved state: %w", err)
		}
		fmt.Println("Saved assessment cleared.")
		return nil
	},
}
