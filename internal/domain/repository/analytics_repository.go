package repository

import (
	"context"

	"github.com/shopspring/decimal"
)

// CategoryStockResult resultado crudo de la suma de cantidades por categoría.
type CategoryStockResult struct {
	CategoryID   string
	CategoryName string
	TotalStock   int64
	ProductCount int
}

// AnalyticsRepository define las consultas agregadas de solo lectura sobre el catálogo.
type AnalyticsRepository interface {
	// TotalStockValue suma quantity × price de todos los productos (0 si el catálogo está vacío).
	TotalStockValue(ctx context.Context) (decimal.Decimal, error)

	// CategoryStockDistribution agrupa por categoría; solo aparecen categorías con productos.
	// Los productos sin categoría no se contabilizan.
	CategoryStockDistribution(ctx context.Context) ([]CategoryStockResult, error)
}
