package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shoplite/client/domain"
	cartUC "github.com/shoplite/client/usecase/cart"
)

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Manage the shopping cart and checkout",
}

var cartShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current cart",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		cart, err := a.Cart.Sync(cmd.Context())
		if err != nil {
			return err
		}
		printCart(cart)
		return nil
	},
}

var cartAddCmd = &cobra.Command{
	Use:   "add [productID]",
	Short: "Add a product to the cart",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		quantity, _ := cmd.Flags().GetInt("quantity")
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		cart, err := a.Cart.Add(cmd.Context(), args[0], quantity)
		if err != nil {
			return err
		}
		printCart(cart)
		return nil
	},
}

var cartUpdateCmd = &cobra.Command{
	Use:   "update [itemID]",
	Short: "Change the quantity of a cart line",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		quantity, _ := cmd.Flags().GetInt("quantity")
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		cart, err := a.Cart.UpdateQuantity(cmd.Context(), args[0], quantity)
		if err != nil {
			return err
		}
		printCart(cart)
		return nil
	},
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove [itemID]",
	Short: "Remove a cart line",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		cart, err := a.Cart.Remove(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printCart(cart)
		return nil
	},
}

var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the cart",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		if _, err := a.Cart.Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Cart cleared.")
		return nil
	},
}

var cartScanCmd = &cobra.Command{
	Use:   "scan [qrRef]",
	Short: "Add a product to the cart from a scanned QR code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		quantity, _ := cmd.Flags().GetInt("quantity")
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		cart, product, err := a.Cart.ScanQR(cmd.Context(), args[0], quantity)
		if err != nil {
			return err
		}
		if product != nil {
			fmt.Printf("Scanned: %s (%.2f)\n", product.Name, product.Price)
		}
		printCart(cart)
		return nil
	},
}

var cartCheckoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Submit the cart for settlement",
	Long: `Submit the cart for settlement. --paid below the cart total records a
partial payment; the remainder is carried as a customer debt.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		method, _ := cmd.Flags().GetString("method")
		paid, _ := cmd.Flags().GetFloat64("paid")
		name, _ := cmd.Flags().GetString("customer")
		phone, _ := cmd.Flags().GetString("phone")

		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		result, err := a.Cart.Checkout(cmd.Context(), cartUC.CheckoutInput{
			PaymentMethod: method,
			CustomerInfo:  domain.CustomerInfo{Name: name, Phone: phone},
			AmountPaid:    paid,
		})
		if err != nil {
			var unavailable *domain.UnavailableError
			if errors.As(err, &unavailable) {
				fmt.Println("Checkout rejected, some items are out of stock:")
				for _, item := range unavailable.Items {
					fmt.Printf("  %s: requested %d, available %d\n",
						item.Name, item.Requested, item.Available)
				}
			}
			return err
		}
		if result.Message != "" {
			fmt.Println(result.Message)
		}
		fmt.Printf("Order:     %s\n", result.OrderID)
		fmt.Printf("Status:    %s\n", result.PaymentStatus)
		fmt.Printf("Paid:      %.2f\n", result.AmountPaid)
		fmt.Printf("Remaining: %.2f\n", result.RemainingBalance)
		return nil
	},
}

func printCart(cart domain.Cart) {
	if cart.IsEmpty() {
		fmt.Println("Cart is empty.")
		return
	}
	for _, item := range cart.Items {
		fmt.Printf("%s  %-24s x%-3d %8.2f\n", item.ID, item.Name, item.Quantity, item.Price)
	}
	fmt.Printf("Subtotal: %.2f  Discount: %.2f  Total: %.2f\n",
		cart.Subtotal, cart.Discount, cart.Total)
}

func init() {
	cartAddCmd.Flags().Int("quantity", 1, "units to add")
	cartUpdateCmd.Flags().Int("quantity", 1, "new quantity")
	cartScanCmd.Flags().Int("quantity", 1, "units to add")

	cartCheckoutCmd.Flags().String("method", "cash", "payment method")
	cartCheckoutCmd.Flags().Float64("paid", 0, "amount paid now")
	cartCheckoutCmd.Flags().String("customer", "", "customer name")
	cartCheckoutCmd.Flags().String("phone", "", "customer phone")

	cartCmd.AddCommand(cartShowCmd)
	cartCmd.AddCommand(cartAddCmd)
	cartCmd.AddCommand(cartUpdateCmd)
	cartCmd.AddCommand(cartRemoveCmd)
	cartCmd.AddCommand(cartClearCmd)
	cartCmd.AddCommand(cartScanCmd)
	cartCmd.AddCommand(cartCheckoutCmd)
}
