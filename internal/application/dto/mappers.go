package dto

import (
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/stock"
)

// NewProductResponse convierte la entidad en su salida HTTP.
func NewProductResponse(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:                p.ID,
		ProductID:         p.ProductID,
		Name:              p.Name,
		Description:       p.Description,
		Quantity:          p.Quantity,
		Price:             p.Price.StringFixed(stock.PriceScale),
		SupplierInfo:      p.SupplierInfo,
		LowStockThreshold: p.LowStockThreshold,
		IsLowStock:        stock.IsLowStock(p),
		CategoryID:        p.CategoryID,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

// NewProductListResponse convierte una lista de entidades; nunca devuelve Items nil.
func NewProductListResponse(list []*entity.Product) *ProductListResponse {
	items := make([]ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, NewProductResponse(p))
	}
	return &ProductListResponse{Items: items, Total: len(items)}
}

// NewCategoryResponse convierte una categoría.
func NewCategoryResponse(c *entity.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
}
