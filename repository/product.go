package repository

import (
	"context"
	"net/url"

	"github.com/shoplite/client/api/transport"
	"github.com/shoplite/client/domain"
)

// ProductForm is the multipart payload for creating or updating a product.
// Image is optional; when present it is uploaded as a form file.
type ProductForm struct {
	Name        string
	Description string
	Category    string
	Unit        string
	Price       float64
	Quantity    int
	ImageName   string
	Image       []byte
}

// ProductAPI is the inventory surface of the backend. Catalogue reads are
// public; mutations require an authorized session.
type ProductAPI interface {
	List(ctx context.Context, query url.Values) ([]domain.Product, transport.Page, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetByQR(ctx context.Context, qrRef string) (*domain.Product, error)
	Create(ctx context.Context, form ProductForm) (*domain.Product, error)
	Update(ctx context.Context, id string, form ProductForm) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	InventoryStats(ctx context.Context) (*domain.InventoryStats, error)
}
