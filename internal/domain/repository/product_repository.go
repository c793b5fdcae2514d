package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
)

// ProductFilter criterios opcionales de búsqueda; los campos nil no restringen (AND lógico).
type ProductFilter struct {
	CategoryID *string
	Name       *string // subcadena, sin distinguir mayúsculas
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
}

// IsEmpty indica que no hay ningún filtro (equivale a listar todo).
func (f ProductFilter) IsEmpty() bool {
	return f.CategoryID == nil && f.Name == nil && f.MinPrice == nil && f.MaxPrice == nil
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// Los Get* devuelven (nil, nil) cuando no hay fila. Los listados se ordenan por creación ascendente.
type ProductRepository interface {
	// Create persiste un producto. ErrConflict si ProductID ya existe; ErrNotFound si la categoría no existe.
	Create(ctx context.Context, product *entity.Product) error
	// GetByID obtiene solo el producto, sin su categoría.
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetWithCategory obtiene el producto y su categoría en una sola consulta.
	GetWithCategory(ctx context.Context, id string) (*entity.ProductWithCategory, error)
	// GetByProductID busca por clave de negocio.
	GetByProductID(ctx context.Context, productID string) (*entity.Product, error)
	// Update reescribe los campos editables (no toca Quantity).
	Update(ctx context.Context, product *entity.Product) error
	// UpdateQuantity reemplaza la cantidad de forma atómica (una sola fila) y devuelve el producto resultante.
	UpdateQuantity(ctx context.Context, id string, quantity int, updatedAt time.Time) (*entity.Product, error)
	List(ctx context.Context) ([]*entity.Product, error)
	ListByCategory(ctx context.Context, categoryID string) ([]*entity.Product, error)
	Search(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
	// ListLowStock productos con quantity <= low_stock_threshold.
	ListLowStock(ctx context.Context) ([]*entity.Product, error)
	ListOutOfStock(ctx context.Context) ([]*entity.Product, error)
	// Delete elimina el producto; ErrNotFound si no existe.
	Delete(ctx context.Context, id string) error
}
