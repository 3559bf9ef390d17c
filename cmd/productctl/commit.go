package main

import (
	"errors"

	"github.com/spf13/cobra"
)

var (
	commitYes    bool
	skipValidate bool
)

var commitCmd = &cobra.Command{
	Use:   "commit <productId>",
	Short: "Apply edits to a product and write them back to the catalog",
	Long: `Fetch a product, apply the given edits, validate and commit.
The commit is refused when validation fails unless --skip-validate is set.

Examples:
  productctl commit 7012345678901 -s vendor=Acme --yes`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(sets) == 0 && len(metafields) == 0 {
			return errors.New("nothing to commit: pass at least one --set or --metafield")
		}

		orch, err := openSession(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if !skipValidate {
			outcome, err := orch.Validate(cmd.Context())
			if err != nil {
				return err
			}
			if !outcome.Pass {
				for _, issue := range outcome.Issues {
					cmd.Printf("  %s: %s\n", issue.FieldPath, issue.Message)
				}
				return errors.New("validation failed, commit aborted")
			}
		}

		payload, err := orch.Payload()
		if err != nil {
			return err
		}
		if !commitYes {
			cmd.Println("Dry run, payload that would be committed:")
			return printJSON(cmd, payload)
		}

		if err := orch.Commit(cmd.Context()); err != nil {
			return err
		}
		cmd.Printf("Committed product %s to account %d\n", orch.ProductID(), orch.AccountID())
		return nil
	},
}

func init() {
	addEditFlags(commitCmd)
	commitCmd.Flags().BoolVarP(&commitYes, "yes", "y", false, "write to the catalog (dry run otherwise)")
	commitCmd.Flags().BoolVar(&skipValidate, "skip-validate", false, "commit without running the validator")
	rootCmd.AddCommand(commitCmd)
}
