package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/shoplite/client/domain"
)

var debtCmd = &cobra.Command{
	Use:   "debt",
	Short: "Track customer debts",
}

var debtListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your debts",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		debts, err := a.Debts.UserDebts(cmd.Context())
		if err != nil {
			return err
		}
		printDebts(debts)
		return nil
	},
}

var debtAllCmd = &cobra.Command{
	Use:   "all",
	Short: "List every customer debt (admin)",
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
		debts, page, err := a.Debts.All(cmd.Context(), query)
		if err != nil {
			return err
		}
		printDebts(debts)
		if page.TotalPages > 1 {
			fmt.Printf("Page %d of %d\n", page.CurrentPage, page.TotalPages)
		}
		return nil
	},
}

var debtOverdueCmd = &cobra.Command{
	Use:   "overdue",
	Short: "List overdue debts (admin)",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		debts, total, err := a.Debts.Overdue(cmd.Context())
		if err != nil {
			return err
		}
		printDebts(debts)
		fmt.Printf("Total overdue: %.2f\n", total)
		return nil
	},
}

var debtPayCmd = &cobra.Command{
	Use:   "pay [debtID]",
	Short: "Record a repayment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, _ := cmd.Flags().GetFloat64("amount")
		method, _ := cmd.Flags().GetString("method")
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		debt, msg, err := a.Debts.Pay(cmd.Context(), args[0], domain.DebtPayment{
			Amount: amount,
			Method: method,
		})
		if err != nil {
			return err
		}
		if msg != "" {
			fmt.Println(msg)
		}
		fmt.Printf("Outstanding: %.2f (%s)\n", debt.Outstanding(), debt.Status)
		return nil
	},
}

var debtStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate debt figures",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		stats, err := a.Debts.Statistics(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Debts:       %d\n", stats.TotalDebts)
		fmt.Printf("Outstanding: %.2f\n", stats.TotalOutstanding)
		fmt.Printf("Collected:   %.2f\n", stats.TotalCollected)
		fmt.Printf("Overdue:     %d\n", stats.OverdueCount)
		return nil
	},
}

var debtRemindCmd = &cobra.Command{
	Use:   "remind [debtID]",
	Short: "Send a payment reminder (admin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		msg, err := a.Debts.Remind(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Println(msg)
		return nil
	},
}

func printDebts(debts []domain.Debt) {
	if len(debts) == 0 {
		fmt.Println("No debts.")
		return
	}
	for _, d := range debts {
		fmt.Printf("%s  %-20s %8.2f owed, %8.2f paid  [%s]\n",
			d.ID, d.CustomerName, d.Amount, d.AmountPaid, d.Status)
	}
}

func init() {
	debtAllCmd.Flags().String("status", "", "filter by status")
	debtPayCmd.Flags().Float64("amount", 0, "repayment amount")
	debtPayCmd.Flags().String("method", "cash", "payment method")

	debtCmd.AddCommand(debtListCmd)
	debtCmd.AddCommand(debtAllCmd)
	debtCmd.AddCommand(debtOverdueCmd)
	debtCmd.AddCommand(debtPayCmd)
	debtCmd.AddCommand(debtStatsCmd)
	debtCmd.AddCommand(debtRemindCmd)
}
