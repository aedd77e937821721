package domain

import "fmt"

// PaymentStatus tracks how much of an order's total has been settled.
type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "unpaid"
	PaymentPartial PaymentStatus = "partial"
	PaymentPaid    PaymentStatus = "paid"
)

// DerivePaymentStatus resolves the status for a given total and paid amount:
// paid iff amountPaid >= total, partial iff 0 < amountPaid < total.
func DerivePaymentStatus(total, amountPaid float64) PaymentStatus {
	switch {
	case amountPaid <= 0:
		return PaymentUnpaid
	case amountPaid >= total:
		return PaymentPaid
	default:
		return PaymentPartial
	}
}

// RemainingBalance returns max(0, total - amountPaid).
func RemainingBalance(total, amountPaid float64) float64 {
	if balance := total - amountPaid; balance > 0 {
		return balance
	}
	return 0
}

// CartItem is a single line of the server-side cart. The backend uses
// Mongo-style identifiers, hence the _id tags.
type CartItem struct {
	ID        string  `json:"_id"`
	ProductID string  `json:"product"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image,omitempty"`
	Unit      string  `json:"unit,omitempty"`
}

// Cart mirrors the server's authoritative cart snapshot. The client never
// recomputes totals for persistence, only for optimistic display.
type Cart struct {
	Items            []CartItem    `json:"items"`
	Subtotal         float64       `json:"subtotal"`
	Discount         float64       `json:"discount"`
	Total            float64       `json:"total"`
	PaymentStatus    PaymentStatus `json:"paymentStatus,omitempty"`
	AmountPaid       float64       `json:"amountPaid,omitempty"`
	RemainingBalance float64       `json:"remainingBalance,omitempty"`
}

// IsEmpty reports whether the cart holds no items.
func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}

// CustomerInfo identifies the buyer on a checkout request.
type CustomerInfo struct {
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

// UnavailableItem describes a cart line the server could not fulfil.
type UnavailableItem struct {
	Name      string `json:"name"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

// UnavailableError is returned by checkout when the server reports specific
// out-of-stock lines. Callers branch on it to render an actionable error
// instead of a generic one.
type UnavailableError struct {
	Msg   string
	Items []UnavailableItem
}

func (e *UnavailableError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return fmt.Sprintf("%d items are no longer available", len(e.Items))
}
