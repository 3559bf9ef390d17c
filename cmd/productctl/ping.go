package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jafarshop/productconsole/internal/service"
)

var pingCmd = &cobra.Command{
	Use:   "ping-shopify",
	Short: "Check the configured Shopify credentials",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.Shopify.Configured() {
			return errors.New("SHOPIFY_SHOP_DOMAIN and SHOPIFY_ACCESS_TOKEN must be set")
		}
		name, err := service.NewShopifyService(cfg.Shopify, logger).Ping(cmd.Context())
		if err != nil {
			cmd.PrintErrln("Please check:")
			cmd.PrintErrln("  1. SHOPIFY_SHOP_DOMAIN format: should be 'store-name.myshopify.com'")
			cmd.PrintErrln("  2. SHOPIFY_ACCESS_TOKEN: should start with 'shpat_' and be the full token")
			cmd.PrintErrln("  3. Token permissions: needs 'read_products' and 'write_products' scopes")
			return fmt.Errorf("connection failed: %w", err)
		}
		cmd.Printf("Connected to %s (%s)\n", name, cfg.Shopify.ShopDomain)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pingCmd)
}
