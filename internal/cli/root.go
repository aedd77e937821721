// Package cli assembles the shoplite command tree.
package cli

import (
	"context"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "shoplite",
	Short: "Retail management client",
	Long: `shoplite is the command-line client for the ShopLite retail backend.
It manages the signed-in session, the shopping cart and checkout, the product
catalogue, customer debts, expenditures and sales reports.`,
	SilenceUsage: true,
}

// Execute runs the root command against the given context.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(cartCmd)
	rootCmd.AddCommand(productCmd)
	rootCmd.AddCommand(debtCmd)
	rootCmd.AddCommand(expenditureCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(dashboardCmd)
}
