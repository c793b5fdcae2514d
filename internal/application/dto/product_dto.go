package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. La categoría debe existir.
type CreateProductRequest struct {
	ProductID         string          `json:"product_id" validate:"required,min=1,max=100"`
	Name              string          `json:"name" validate:"required,min=1,max=200"`
	Description       string          `json:"description"`
	Quantity          int             `json:"quantity"`
	Price             decimal.Decimal `json:"price"`
	SupplierInfo      *string         `json:"supplier_info"`
	CategoryID        string          `json:"category_id" validate:"required,uuid"`
	LowStockThreshold *int            `json:"low_stock_threshold"` // nil = 10
}

// UpdateProductRequest parche parcial: solo se aplican los campos presentes.
// id, quantity, created_at y updated_at no se pueden parchear; si llegan, se rechaza la petición.
type UpdateProductRequest struct {
	ProductID         *string          `json:"product_id" validate:"omitempty,min=1,max=100"`
	Name              *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description       *string          `json:"description"`
	Price             *decimal.Decimal `json:"price"`
	SupplierInfo      *string          `json:"supplier_info"`
	CategoryID        *string          `json:"category_id" validate:"omitempty,uuid"`
	LowStockThreshold *int             `json:"low_stock_threshold"`

	ID        json.RawMessage `json:"id"`
	Quantity  json.RawMessage `json:"quantity"`
	CreatedAt json.RawMessage `json:"created_at"`
	UpdatedAt json.RawMessage `json:"updated_at"`
}

// ImmutableFields devuelve los campos inmutables presentes en el parche.
func (r UpdateProductRequest) ImmutableFields() []string {
	var fields []string
	for _, f := range []struct {
		name string
		raw  json.RawMessage
	}{
		{"id", r.ID}, {"quantity", r.Quantity}, {"created_at", r.CreatedAt}, {"updated_at", r.UpdatedAt},
	} {
		if len(f.raw) > 0 {
			fields = append(fields, f.name)
		}
	}
	return fields
}

// UpdateStockRequest fija la cantidad absoluta de un producto (no es un delta).
type UpdateStockRequest struct {
	ID       string `json:"id" validate:"required"`
	Quantity *int   `json:"quantity" validate:"required"`
}

// SearchProductsRequest filtros opcionales de búsqueda; nil = sin restricción.
type SearchProductsRequest struct {
	CategoryID *string
	Name       *string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
}

// ProductResponse salida de un producto. Price siempre con dos decimales.
type ProductResponse struct {
	ID                string    `json:"id"`
	ProductID         string    `json:"product_id"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	Quantity          int       `json:"quantity"`
	Price             string    `json:"price"`
	SupplierInfo      *string   `json:"supplier_info,omitempty"`
	LowStockThreshold int       `json:"low_stock_threshold"`
	IsLowStock        bool      `json:"is_low_stock"`
	CategoryID        *string   `json:"category_id"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ProductDetailResponse producto con su categoría resuelta.
type ProductDetailResponse struct {
	ProductResponse
	Category *CategoryResponse `json:"category"`
}

// ProductListResponse lista de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Total int               `json:"total"`
}
