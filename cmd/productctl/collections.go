package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jafarshop/productconsole/internal/service"
)

var collectionsCmd = &cobra.Command{
	Use:   "collections",
	Short: "List smart collections that are driven by product tags",
	Long: `List the Shopify smart collections with TAG EQUALS rules. These are the
collections whose titles make up a product's tagsTitle.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.Shopify.Configured() {
			return errors.New("SHOPIFY_SHOP_DOMAIN and SHOPIFY_ACCESS_TOKEN must be set")
		}
		collections, err := service.NewShopifyService(cfg.Shopify, logger).ListTagCollections(cmd.Context())
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(cmd, collections)
		}
		if len(collections) == 0 {
			cmd.Println("No tag-driven collections found.")
			return nil
		}
		cmd.Printf("Found %d collection(s)\n\n", len(collections))
		for _, c := range collections {
			cmd.Printf("%-12d %-32s tags: %s\n", c.ID, c.Title, strings.Join(c.Tags, ", "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(collectionsCmd)
}
