package transport

import "github.com/shoplite/client/domain"

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type VerifyEmailRequest struct {
	Email            string `json:"email"`
	VerificationCode string `json:"verificationCode"`
}

type EnsureAdminRequest struct {
	Email string `json:"email"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type ProfileUpdateRequest struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

type PasswordUpdateRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type ProfileImageRequest struct {
	ProfileImage string `json:"ProfileImage"`
}

type PasswordResetRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

type ContactFormRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Message  string `json:"message"`
}

type ToggleAdminRequest struct {
	UserID    string `json:"userId"`
	MakeAdmin bool   `json:"makeAdmin"`
}

type BulkDeleteRequest struct {
	UserIDs []string `json:"userIds"`
}

type CartAddRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type CartQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type CheckoutItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type CheckoutRequest struct {
	PaymentMethod    string               `json:"paymentMethod"`
	CustomerInfo     domain.CustomerInfo  `json:"customerInfo"`
	PaymentStatus    domain.PaymentStatus `json:"paymentStatus"`
	AmountPaid       float64              `json:"amountPaid"`
	RemainingBalance float64              `json:"remainingBalance"`
	Items            []CheckoutItem       `json:"items"`
}

type ExpenditureCreateRequest struct {
	Amount       float64 `json:"amount"`
	Description  string  `json:"description"`
	EmployeeName string  `json:"employeeName"`
	EmployeeID   string  `json:"employeeId"`
	Category     string  `json:"category,omitempty"`
	Notes        string  `json:"notes,omitempty"`
	ReceiptImage string  `json:"receiptImage,omitempty"`
}

type DebtUpdateRequest struct {
	CustomerName  string  `json:"customerName,omitempty"`
	CustomerPhone string  `json:"customerPhone,omitempty"`
	Amount        float64 `json:"amount,omitempty"`
	DueDate       string  `json:"dueDate,omitempty"`
	Status        string  `json:"status,omitempty"`
}

type ReportDeleteRequest struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Category  string `json:"category,omitempty"`
}
