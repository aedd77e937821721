package cli

import (
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/cobra"

	"github.com/shoplite/client/api/transport"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Sales analytics and report housekeeping",
}

var reportSalesCmd = &cobra.Command{
	Use:   "sales",
	Short: "Show the aggregated sales series",
	RunE: func(cmd *cobra.Command, args []string) error {
		query := reportQuery(cmd)
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		points, err := a.Reports.Sales(cmd.Context(), query)
		if err != nil {
			return err
		}
		for _, p := range points {
			fmt.Printf("%-12s %10.2f  (%d orders)\n", p.Date, p.TotalSales, p.TotalOrders)
		}
		return nil
	},
}

var reportProductsCmd = &cobra.Command{
	Use:   "products",
	Short: "Rank products by sales volume",
	RunE: func(cmd *cobra.Command, args []string) error {
		query := reportQuery(cmd)
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		products, err := a.Reports.Products(cmd.Context(), query)
		if err != nil {
			return err
		}
		for _, p := range products {
			fmt.Printf("%-24s x%-5d %10.2f\n", p.Name, p.QuantitySold, p.TotalSales)
		}
		return nil
	},
}

var reportCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Aggregate sales per category",
	RunE: func(cmd *cobra.Command, args []string) error {
		query := reportQuery(cmd)
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		categories, err := a.Reports.Categories(cmd.Context(), query)
		if err != nil {
			return err
		}
		for _, c := range categories {
			fmt.Printf("%-24s x%-5d %10.2f\n", c.Category, c.QuantitySold, c.TotalSales)
		}
		return nil
	},
}

var reportMethodsCmd = &cobra.Command{
	Use:   "payment-methods",
	Short: "Break revenue down by payment method",
	RunE: func(cmd *cobra.Command, args []string) error {
		query := reportQuery(cmd)
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		methods, err := a.Reports.PaymentMethods(cmd.Context(), query)
		if err != nil {
			return err
		}
		for _, m := range methods {
			fmt.Printf("%-12s %5d orders  %10.2f\n", m.Method, m.OrderCount, m.TotalAmount)
		}
		return nil
	},
}

var reportValuationCmd = &cobra.Command{
	Use:   "valuation",
	Short: "Show the current inventory valuation",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		valuation, err := a.Reports.InventoryValuation(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Products: %d\n", valuation.TotalProducts)
		fmt.Printf("Units:    %d\n", valuation.TotalQuantity)
		fmt.Printf("Value:    %.2f\n", valuation.TotalValue)
		return nil
	},
}

var reportExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Download the sales report document",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			return fmt.Errorf("--out is required")
		}
		query := reportQuery(cmd)
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		export, err := a.Reports.ExportSales(cmd.Context(), query)
		if err != nil {
			return err
		}
		if err := os.WriteFile(out, export.Data, 0o644); err != nil {
			return err
		}
		fmt.Printf("Wrote %s (%s, %d bytes)\n", out, export.ContentType, len(export.Data))
		return nil
	},
}

var reportDeleteCmd = &cobra.Command{
	Use:   "delete [reportID]",
	Short: "Delete report records (admin)",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		start, _ := cmd.Flags().GetString("start")
		end, _ := cmd.Flags().GetString("end")
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		if all {
			count, err := a.Reports.DeleteAll(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Deleted %d reports.\n", count)
			return nil
		}
		if start != "" || end != "" {
			count, err := a.Reports.DeleteRange(cmd.Context(), transport.ReportDeleteRequest{
				StartDate: start,
				EndDate:   end,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Deleted %d reports.\n", count)
			return nil
		}
		if len(args) != 1 {
			return fmt.Errorf("a report ID, --start/--end or --all is required")
		}
		if err := a.Reports.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Report deleted.")
		return nil
	},
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the aggregate dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("refresh")
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		data, err := a.Dashboard.Get(cmd.Context(), force)
		if err != nil {
			return err
		}
		fmt.Printf("Sales:        %.2f (%d orders)\n", data.TotalSales, data.TotalOrders)
		fmt.Printf("Expenditures: %.2f\n", data.TotalExpenditure)
		fmt.Printf("Debts:        %.2f\n", data.TotalDebts)
		fmt.Printf("Products:     %d (%d low stock)\n", data.ProductCount, data.LowStockCount)
		return nil
	},
}

var dashboardResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Wipe the dashboard history (admin)",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			return fmt.Errorf("this permanently deletes the dashboard history; rerun with --yes to confirm")
		}
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		count, msg, err := a.Dashboard.Reset(cmd.Context())
		if err != nil {
			return err
		}
		if msg != "" {
			fmt.Println(msg)
		}
		fmt.Printf("Removed %d records.\n", count)
		return nil
	},
}

func reportQuery(cmd *cobra.Command) url.Values {
	query := url.Values{}
	if period, _ := cmd.Flags().GetString("period"); period != "" {
		query.Set("period", period)
	}
	if start, _ := cmd.Flags().GetString("start"); start != "" {
		query.Set("startDate", start)
	}
	if end, _ := cmd.Flags().GetString("end"); end != "" {
		query.Set("endDate", end)
	}
	return query
}

func addReportRangeFlags(cmd *cobra.Command) {
	cmd.Flags().String("period", "", "daily, weekly, monthly or yearly")
	cmd.Flags().String("start", "", "range start (YYYY-MM-DD)")
	cmd.Flags().String("end", "", "range end (YYYY-MM-DD)")
}

func init() {
	addReportRangeFlags(reportSalesCmd)
	addReportRangeFlags(reportProductsCmd)
	addReportRangeFlags(reportCategoriesCmd)
	addReportRangeFlags(reportMethodsCmd)
	addReportRangeFlags(reportExportCmd)
	reportExportCmd.Flags().String("out", "", "output file path")
	reportDeleteCmd.Flags().Bool("all", false, "delete every report")
	reportDeleteCmd.Flags().String("start", "", "range start (YYYY-MM-DD)")
	reportDeleteCmd.Flags().String("end", "", "range end (YYYY-MM-DD)")

	reportCmd.AddCommand(reportSalesCmd)
	reportCmd.AddCommand(reportProductsCmd)
	reportCmd.AddCommand(reportCategoriesCmd)
	reportCmd.AddCommand(reportMethodsCmd)
	reportCmd.AddCommand(reportValuationCmd)
	reportCmd.AddCommand(reportExportCmd)
	reportCmd.AddCommand(reportDeleteCmd)

	dashboardCmd.Flags().Bool("refresh", false, "bypass the cached snapshot")
	dashboardResetCmd.Flags().Bool("yes", false, "confirm the destructive reset")
	dashboardCmd.AddCommand(dashboardResetCmd)
}
