package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <productId>",
	Short: "Run the catalog validator against a product with optional edits",
	Long: `Fetch a product, apply the given edits and send the resulting payload to
the validator. Nothing is written to the catalog.

Examples:
  productctl validate 7012345678901
  productctl validate 7012345678901 -s title="New title" -m 0=cotton`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		orch, err := openSession(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		outcome, err := orch.Validate(cmd.Context())
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(cmd, outcome)
		}

		if outcome.Pass {
			cmd.Printf("Validation passed (%d checks)\n", outcome.Total)
			return nil
		}
		cmd.Printf("Validation failed: %d of %d checks\n", outcome.Failed, outcome.Total)
		for _, issue := range outcome.Issues {
			level := issue.Level
			if level == "" {
				level = "error"
			}
			cmd.Printf("  %-7s %s: %s\n", level, issue.FieldPath, issue.Message)
		}
		return fmt.Errorf("product %s has validation issues", orch.ProductID())
	},
}

func init() {
	addEditFlags(validateCmd)
	rootCmd.AddCommand(validateCmd)
}
