package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-stock/internal/application/dto"
	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
	"github.com/jhoicas/inventario-stock/internal/domain/stock"
)

// StockUseCase es el único punto que modifica la cantidad de un producto.
// La escritura es un reemplazo absoluto en una sola sentencia; no hay lectura previa.
type StockUseCase struct {
	products repository.ProductRepository
	now      func() time.Time
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(products repository.ProductRepository) *StockUseCase {
	return &StockUseCase{products: products, now: time.Now}
}

// SetStock fija la cantidad del producto con ID interno id.
// ErrInvalidInput si quantity < 0 (sin tocar el almacén); ErrNotFound si el producto no existe.
func (uc *StockUseCase) SetStock(ctx context.Context, id string, quantity int) (*dto.ProductResponse, error) {
	if err := stock.ValidateQuantity(quantity); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	p, err := uc.products.UpdateQuantity(ctx, id, quantity, uc.now())
	if err != nil {
		return nil, fmt.Errorf("set stock: %w", err)
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	out := dto.NewProductResponse(p)
	return &out, nil
}
