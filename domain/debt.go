package domain

import "time"

// Debt statuses as reported by the backend.
const (
	DebtPending = "pending"
	DebtPartial = "partial"
	DebtPaid    = "paid"
	DebtOverdue = "overdue"
)

// Debt is a customer balance tracked against past orders.
type Debt struct {
	ID            string    `json:"_id"`
	CustomerName  string    `json:"customerName"`
	CustomerPhone string    `json:"customerPhone,omitempty"`
	OrderID       string    `json:"orderId,omitempty"`
	Amount        float64   `json:"amount"`
	AmountPaid    float64   `json:"amountPaid"`
	Status        string    `json:"status"`
	DueDate       time.Time `json:"dueDate,omitempty"`
	CreatedAt     time.Time `json:"createdAt,omitempty"`
}

// Outstanding is the unpaid remainder of the debt.
func (d *Debt) Outstanding() float64 {
	return RemainingBalance(d.Amount, d.AmountPaid)
}

// DebtPayment records a repayment against a debt.
type DebtPayment struct {
	Amount float64 `json:"amount"`
	Method string  `json:"paymentMethod,omitempty"`
	Note   string  `json:"note,omitempty"`
}

// DebtStatistics aggregates debt figures for the dashboard.
type DebtStatistics struct {
	TotalDebts       int     `json:"totalDebts"`
	TotalOutstanding float64 `json:"totalOutstanding"`
	TotalCollected   float64 `json:"totalCollected"`
	OverdueCount     int     `json:"overdueCount"`
}
