package cli

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/shoplite/client/repository"
)

var productCmd = &cobra.Command{
	Use:   "product",
	Short: "Manage the product catalogue",
}

var productListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalogue products",
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")
		search, _ := cmd.Flags().GetString("search")
		page, _ := cmd.Flags().GetInt("page")

		query := url.Values{}
		if category != "" {
			query.Set("category", category)
		}
		if search != "" {
			query.Set("search", search)
		}
		if page > 0 {
			query.Set("page", fmt.Sprint(page))
		}

		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		products, pageInfo, err := a.Products.List(cmd.Context(), query)
		if err != nil {
			return err
		}
		for _, p := range products {
			fmt.Printf("%s  %-24s %8.2f  x%d %s\n", p.ID, p.Name, p.Price, p.Quantity, p.Unit)
		}
		if pageInfo.TotalPages > 1 {
			fmt.Printf("Page %d of %d (%d products)\n",
				pageInfo.CurrentPage, pageInfo.TotalPages, pageInfo.Total)
		}
		return nil
	},
}

var productGetCmd = &cobra.Command{
	Use:   "get [productID]",
	Short: "Show one product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		p, err := a.Products.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Name:     %s\n", p.Name)
		fmt.Printf("Price:    %.2f\n", p.Price)
		fmt.Printf("Quantity: %d %s\n", p.Quantity, p.Unit)
		if p.Category != "" {
			fmt.Printf("Category: %s\n", p.Category)
		}
		if p.Description != "" {
			fmt.Printf("About:    %s\n", p.Description)
		}
		return nil
	},
}

var productCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Add a catalogue product",
	RunE: func(cmd *cobra.Command, args []string) error {
		form, err := productFormFromFlags(cmd)
		if err != nil {
			return err
		}
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		p, err := a.Products.Create(cmd.Context(), form)
		if err != nil {
			return err
		}
		fmt.Printf("Created %s (%s)\n", p.Name, p.ID)
		return nil
	},
}

var productUpdateCmd = &cobra.Command{
	Use:   "update [productID]",
	Short: "Edit a catalogue product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		form, err := productFormFromFlags(cmd)
		if err != nil {
			return err
		}
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		p, err := a.Products.Update(cmd.Context(), args[0], form)
		if err != nil {
			return err
		}
		fmt.Printf("Updated %s (%s)\n", p.Name, p.ID)
		return nil
	},
}

var productDeleteCmd = &cobra.Command{
	Use:   "delete [productID]",
	Short: "Remove a catalogue product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		if err := a.Products.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Product deleted.")
		return nil
	},
}

var productStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show inventory statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		stats, err := a.Products.InventoryStats(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Products:     %d\n", stats.TotalProducts)
		fmt.Printf("Stock value:  %.2f\n", stats.TotalValue)
		fmt.Printf("Low stock:    %d\n", stats.LowStock)
		fmt.Printf("Out of stock: %d\n", stats.OutOfStock)
		return nil
	},
}

func productFormFromFlags(cmd *cobra.Command) (repository.ProductForm, error) {
	name, _ := cmd.Flags().GetString("name")
	description, _ := cmd.Flags().GetString("description")
	category, _ := cmd.Flags().GetString("category")
	unit, _ := cmd.Flags().GetString("unit")
	price, _ := cmd.Flags().GetFloat64("price")
	quantity, _ := cmd.Flags().GetInt("quantity")
	imagePath, _ := cmd.Flags().GetString("image")

	form := repository.ProductForm{
		Name:        name,
		Description: description,
		Category:    category,
		Unit:        unit,
		Price:       price,
		Quantity:    quantity,
	}
	if imagePath != "" {
		data, err := os.ReadFile(imagePath)
		if err != nil {
			return form, fmt.Errorf("read image: %w", err)
		}
		form.Image = data
		form.ImageName = filepath.Base(imagePath)
	}
	return form, nil
}

func addProductFormFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", "", "product name")
	cmd.Flags().String("description", "", "product description")
	cmd.Flags().String("category", "", "product category")
	cmd.Flags().String("unit", "", "sale unit")
	cmd.Flags().Float64("price", 0, "unit price")
	cmd.Flags().Int("quantity", 0, "stock quantity")
	cmd.Flags().String("image", "", "path to a product image")
}

func init() {
	productListCmd.Flags().String("category", "", "filter by category")
	productListCmd.Flags().String("search", "", "search term")
	productListCmd.Flags().Int("page", 0, "page number")

	addProductFormFlags(productCreateCmd)
	addProductFormFlags(productUpdateCmd)

	productCmd.AddCommand(productListCmd)
	productCmd.AddCommand(productGetCmd)
	productCmd.AddCommand(productCreateCmd)
	productCmd.AddCommand(productUpdateCmd)
	productCmd.AddCommand(productDeleteCmd)
	productCmd.AddCommand(productStatsCmd)
}
