package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultLowStockThreshold umbral de stock bajo cuando el cliente no envía uno.
const DefaultLowStockThreshold = 10

// Product representa un producto del catálogo con su cantidad actual en stock.
// ProductID es la clave de negocio (única); ID es el identificador interno generado por el servidor.
type Product struct {
	ID                string
	ProductID         string
	Name              string
	Description       string
	Quantity          int
	Price             decimal.Decimal // 2 decimales (NUMERIC(12,2))
	SupplierInfo      *string
	LowStockThreshold int
	CategoryID        *string // nil si la categoría fue eliminada
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// HasCategory indica si el producto conserva una categoría asignada.
func (p *Product) HasCategory() bool {
	return p.CategoryID != nil && *p.CategoryID != ""
}

// ProductWithCategory producto junto con su categoría (consulta explícita con JOIN).
// Category es nil cuando el producto no tiene categoría.
type ProductWithCategory struct {
	Product  Product
	Category *Category
}
