package domain

import "time"

// Expenditure approval flow: pending until an admin approves, completed once
// the money has actually left the till. Transitions are enforced server-side;
// the client only surfaces the verdict.
const (
	ExpenditurePending   = "pending"
	ExpenditureApproved  = "approved"
	ExpenditureCompleted = "completed"
	ExpenditureRejected  = "rejected"
)

// Expenditure is a spend request raised by an employee.
type Expenditure struct {
	ID           string    `json:"_id"`
	Amount       float64   `json:"amount"`
	Description  string    `json:"description"`
	EmployeeName string    `json:"employeeName"`
	EmployeeID   string    `json:"employeeId"`
	Category     string    `json:"category,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	ReceiptImage string    `json:"receiptImage,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt,omitempty"`
}

// ExpenditureStats aggregates spend by approval state.
type ExpenditureStats struct {
	TotalAmount    float64            `json:"totalAmount"`
	PendingCount   int                `json:"pendingCount"`
	ApprovedCount  int                `json:"approvedCount"`
	CompletedCount int                `json:"completedCount"`
	ByCategory     map[string]float64 `json:"byCategory,omitempty"`
}
