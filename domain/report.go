package domain

import "time"

// Report periods accepted by the sales endpoints.
const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
	PeriodYearly  = "yearly"
)

// SalesPoint is one bucket of an aggregated sales series.
type SalesPoint struct {
	Date         string  `json:"date"`
	TotalSales   float64 `json:"totalSales"`
	TotalOrders  int     `json:"totalOrders"`
	AverageOrder float64 `json:"averageOrder,omitempty"`
}

// ProductSales ranks a product by sales volume.
type ProductSales struct {
	ProductID    string  `json:"productId"`
	Name         string  `json:"name"`
	Category     string  `json:"category,omitempty"`
	QuantitySold int     `json:"quantitySold"`
	TotalSales   float64 `json:"totalSales"`
}

// CategorySales aggregates sales per product category.
type CategorySales struct {
	Category     string  `json:"category"`
	QuantitySold int     `json:"quantitySold"`
	TotalSales   float64 `json:"totalSales"`
}

// PaymentMethodSales breaks revenue down by payment method.
type PaymentMethodSales struct {
	Method      string  `json:"method"`
	OrderCount  int     `json:"orderCount"`
	TotalAmount float64 `json:"totalAmount"`
}

// InventoryValuation is a point-in-time valuation of the stock on hand.
type InventoryValuation struct {
	GeneratedAt   time.Time `json:"generatedAt,omitempty"`
	TotalProducts int       `json:"totalProducts"`
	TotalQuantity int       `json:"totalQuantity"`
	TotalValue    float64   `json:"totalValue"`
}

// DashboardData is the aggregate snapshot behind the landing dashboard.
type DashboardData struct {
	TotalSales       float64      `json:"totalSales"`
	TotalOrders      int          `json:"totalOrders"`
	TotalExpenditure float64      `json:"totalExpenditure"`
	TotalDebts       float64      `json:"totalDebts"`
	ProductCount     int          `json:"productCount"`
	LowStockCount    int          `json:"lowStockCount"`
	RecentSales      []SalesPoint `json:"recentSales,omitempty"`
}
