package main

import (
	"github.com/spf13/cobra"
)

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "List catalog accounts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		accounts, err := catalog.ListAccounts(cmd.Context())
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(cmd, accounts)
		}
		if len(accounts) == 0 {
			cmd.Println("No accounts configured.")
			return nil
		}
		for _, a := range accounts {
			marker := " "
			if a.IsDefault {
				marker = "*"
			}
			cmd.Printf("%s %d\t%s\t%s\n", marker, a.ID, a.ShopDomain, a.Name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(accountsCmd)
}
