package usecase

import (
	"context"
	"strings"

	"github.com/jhoicas/inventario-stock/internal/application/dto"
	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

// SearchUseCase resuelve filtros opcionales (categoría, nombre, rango de precio) en productos.
type SearchUseCase struct {
	products repository.ProductRepository
}

// NewSearchUseCase construye el caso de uso.
func NewSearchUseCase(products repository.ProductRepository) *SearchUseCase {
	return &SearchUseCase{products: products}
}

// Search aplica solo los filtros presentes (AND). Sin filtros equivale a List.
// Cadenas vacías o solo con espacios cuentan como filtro ausente; min > max devuelve una lista vacía.
func (uc *SearchUseCase) Search(ctx context.Context, in dto.SearchProductsRequest) (*dto.ProductListResponse, error) {
	var f repository.ProductFilter
	if in.CategoryID != nil && strings.TrimSpace(*in.CategoryID) != "" {
		v := strings.TrimSpace(*in.CategoryID)
		f.CategoryID = &v
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) != "" {
		// Los espacios forman parte de la subcadena buscada.
		f.Name = in.Name
	}
	if in.MinPrice != nil {
		if in.MinPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		f.MinPrice = in.MinPrice
	}
	if in.MaxPrice != nil {
		if in.MaxPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		f.MaxPrice = in.MaxPrice
	}
	if f.MinPrice != nil && f.MaxPrice != nil && f.MinPrice.GreaterThan(*f.MaxPrice) {
		return dto.NewProductListResponse(nil), nil
	}
	if f.CategoryID != nil && !validID(*f.CategoryID) {
		// Un ID mal formado no puede coincidir con ninguna categoría.
		return dto.NewProductListResponse(nil), nil
	}

	if f.IsEmpty() {
		list, err := uc.products.List(ctx)
		if err != nil {
			return nil, err
		}
		return dto.NewProductListResponse(list), nil
	}
	list, err := uc.products.Search(ctx, f)
	if err != nil {
		return nil, err
	}
	return dto.NewProductListResponse(list), nil
}
