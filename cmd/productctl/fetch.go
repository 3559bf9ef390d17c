package main

import (
	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <productId>",
	Short: "Fetch a product and show its editable fields",
	Long: `Fetch a product from the catalog and print its summary and metafields.

The product id may be numeric or a gid://shopify/Product/ id.

Examples:
  productctl fetch 7012345678901
  productctl fetch gid://shopify/Product/7012345678901 --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		orch, err := openSession(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(cmd, orch.Snapshot())
		}
		printView(cmd, orch.Snapshot())
		return nil
	},
}

func init() {
	addEditFlags(fetchCmd)
	rootCmd.AddCommand(fetchCmd)
}
