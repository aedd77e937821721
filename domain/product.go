package domain

import "time"

// Product is an inventory entry.
type Product struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	Price       float64   `json:"price"`
	Quantity    int       `json:"quantity"`
	Unit        string    `json:"unit,omitempty"`
	Image       string    `json:"image,omitempty"`
	QRCode      string    `json:"qrCode,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
}

// InventoryStats summarizes stock levels across the catalogue.
type InventoryStats struct {
	TotalProducts int     `json:"totalProducts"`
	TotalValue    float64 `json:"totalValue"`
	LowStock      int     `json:"lowStockCount"`
	OutOfStock    int     `json:"outOfStockCount"`
}
