package cmd

import (
	"fmt"
	"os"

	"github.com/abhisek/maturity/internal/questions"
	"github.com/spf13/cobra"
)

var questionsCmd = &cobra.Command{
	Use:   "questions [file]",
	Short: "Validate and summarize a question bank",
	Long: "Validates the given question bank file, or the built-in bank when no\n" +
		"file is given, and prints a per-category summary.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("questions")
		if len(args) == 1 {
			path = args[0]
		}
		bank, err := loadBank(path)
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			data, err := bank.Marshal()
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(append(data, '\n'))
			return err
		}

		fmt.Printf("%s (version %s)\n", bank.Title(), bank.Version())
		for _, c := range questions.AllCategories() {
			fmt.Printf("  %-12s %d questions\n", c.DisplayName(), bank.CountIn(c))
		}
		fmt.Printf("  %-12s %d questions\n", "Total", bank.Len())
		if !bank.Compatible(questions.Canonical().Version()) {
			fmt.Println("Note: saved sessions from the built-in bank will not restore against this one.")
		}
		return nil
	},
}

func init() {
	questionsCmd.Flags().Bool("json", false, "Print the normalized bank as JSON")
}
