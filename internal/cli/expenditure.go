package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/shoplite/client/api/transport"
)

var expenditureCmd = &cobra.Command{
	Use:   "spend",
	Short: "Raise and approve expenditures",
}

var spendCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Raise a spend request",
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, _ := cmd.Flags().GetFloat64("amount")
		description, _ := cmd.Flags().GetString("description")
		category, _ := cmd.Flags().GetString("category")
		notes, _ := cmd.Flags().GetString("notes")

		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		session := a.Session.Current()
		item, err := a.Expenditures.Create(cmd.Context(), transport.ExpenditureCreateRequest{
			Amount:       amount,
			Description:  description,
			EmployeeName: session.Username,
			EmployeeID:   session.UserID,
			Category:     category,
			Notes:        notes,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Raised %s for %.2f [%s]\n", item.ID, item.Amount, item.Status)
		return nil
	},
}

var spendListCmd = &cobra.Command{
	Use:   "list",
	Short: "List spend requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, _ := cmd.Flags().GetString("status")
		query := url.Values{}
		if status != "" {
			query.Set("status", status)
		}
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		items, page, err := a.Expenditures.List(cmd.Context(), query)
		if err != nil {
			return err
		}
		for _, item := range items {
			fmt.Printf("%s  %8.2f  %-24s [%s]\n", item.ID, item.Amount, item.Description, item.Status)
		}
		if page.TotalPages > 1 {
			fmt.Printf("Page %d of %d\n", page.CurrentPage, page.TotalPages)
		}
		return nil
	},
}

var spendApproveCmd = &cobra.Command{
	Use:   "approve [expenditureID]",
	Short: "Approve a pending request (admin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		item, err := a.Expenditures.Approve(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s is now %s\n", item.ID, item.Status)
		return nil
	},
}

var spendCompleteCmd = &cobra.Command{
	Use:   "complete [expenditureID]",
	Short: "Mark an approved request completed (admin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		item, err := a.Expenditures.Complete(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s is now %s\n", item.ID, item.Status)
		return nil
	},
}

var spendStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Aggregate spend by approval state",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		stats, err := a.Expenditures.Statistics(cmd.Context(), nil)
		if err != nil {
			return err
		}
		fmt.Printf("Total:     %.2f\n", stats.TotalAmount)
		fmt.Printf("Pending:   %d\n", stats.PendingCount)
		fmt.Printf("Approved:  %d\n", stats.ApprovedCount)
		fmt.Printf("Completed: %d\n", stats.CompletedCount)
		return nil
	},
}

func init() {
	spendCreateCmd.Flags().Float64("amount", 0, "spend amount")
	spendCreateCmd.Flags().String("description", "", "what the money is for")
	spendCreateCmd.Flags().String("category", "", "spend category")
	spendCreateCmd.Flags().String("notes", "", "extra notes")

	spendListCmd.Flags().String("status", "", "filter by status")

	expenditureCmd.AddCommand(spendCreateCmd)
	expenditureCmd.AddCommand(spendListCmd)
	expenditureCmd.AddCommand(spendApproveCmd)
	expenditureCmd.AddCommand(spendCompleteCmd)
	expenditureCmd.AddCommand(spendStatsCmd)
}
