// Package analytics contiene las consultas agregadas sobre el catálogo de stock.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/inventario-stock/internal/application/dto"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
	"github.com/jhoicas/inventario-stock/internal/domain/stock"
)

// StockAnalyticsUseCase responde consultas de solo lectura; todo se calcula en vivo.
type StockAnalyticsUseCase struct {
	products  repository.ProductRepository
	analytics repository.AnalyticsRepository
	now       func() time.Time
}

// NewStockAnalyticsUseCase construye el caso de uso.
func NewStockAnalyticsUseCase(products repository.ProductRepository, analytics repository.AnalyticsRepository) *StockAnalyticsUseCase {
	return &StockAnalyticsUseCase{products: products, analytics: analytics, now: time.Now}
}

// TotalStockValue suma quantity × price de todo el catálogo ("0.00" si está vacío).
func (uc *StockAnalyticsUseCase) TotalStockValue(ctx context.Context) (*dto.TotalStockValueDTO, error) {
	total, err := uc.analytics.TotalStockValue(ctx)
	if err != nil {
		return nil, fmt.Errorf("total stock value: %w", err)
	}
	return &dto.TotalStockValueDTO{TotalValue: total.StringFixed(stock.PriceScale)}, nil
}

// OutOfStockItems productos con cantidad exactamente 0.
func (uc *StockAnalyticsUseCase) OutOfStockItems(ctx context.Context) (*dto.ProductListResponse, error) {
	list, err := uc.products.ListOutOfStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("out of stock: %w", err)
	}
	return dto.NewProductListResponse(list), nil
}

// LowStockAlerts productos con cantidad <= umbral, evaluado en cada llamada.
func (uc *StockAnalyticsUseCase) LowStockAlerts(ctx context.Context) (*dto.ProductListResponse, error) {
	list, err := uc.products.ListLowStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("low stock: %w", err)
	}
	return dto.NewProductListResponse(list), nil
}

// CategoryStockDistribution unidades por categoría; solo categorías con productos.
func (uc *StockAnalyticsUseCase) CategoryStockDistribution(ctx context.Context) (*dto.CategoryStockDistributionDTO, error) {
	rows, err := uc.analytics.CategoryStockDistribution(ctx)
	if err != nil {
		return nil, fmt.Errorf("category stock: %w", err)
	}
	return toDistribution(rows), nil
}

// Summary ejecuta los cuatro agregados en paralelo. Si uno falla, falla el resumen.
func (uc *StockAnalyticsUseCase) Summary(ctx context.Context) (*dto.StockSummaryDTO, error) {
	type valueResult struct {
		v   *dto.TotalStockValueDTO
		err error
	}
	type listResult struct {
		n   int
		err error
	}
	type distResult struct {
		d   *dto.CategoryStockDistributionDTO
		err error
	}

	valueCh := make(chan valueResult, 1)
	outCh := make(chan listResult, 1)
	lowCh := make(chan listResult, 1)
	distCh := make(chan distResult, 1)

	go func() {
		v, err := uc.TotalStockValue(ctx)
		valueCh <- valueResult{v, err}
	}()
	go func() {
		l, err := uc.products.ListOutOfStock(ctx)
		outCh <- listResult{len(l), err}
	}()
	go func() {
		l, err := uc.products.ListLowStock(ctx)
		lowCh <- listResult{len(l), err}
	}()
	go func() {
		d, err := uc.CategoryStockDistribution(ctx)
		distCh <- distResult{d, err}
	}()

	value := <-valueCh
	out := <-outCh
	low := <-lowCh
	dist := <-distCh

	if value.err != nil {
		return nil, fmt.Errorf("summary: %w", value.err)
	}
	if out.err != nil {
		return nil, fmt.Errorf("summary: out of stock: %w", out.err)
	}
	if low.err != nil {
		return nil, fmt.Errorf("summary: low stock: %w", low.err)
	}
	if dist.err != nil {
		return nil, fmt.Errorf("summary: %w", dist.err)
	}

	return &dto.StockSummaryDTO{
		TotalStockValue: value.v.TotalValue,
		OutOfStockCount: out.n,
		LowStockCount:   low.n,
		Distribution:    *dist.d,
		GeneratedAt:     uc.now(),
	}, nil
}

func toDistribution(rows []repository.CategoryStockResult) *dto.CategoryStockDistributionDTO {
	out := &dto.CategoryStockDistributionDTO{
		Items:      make([]dto.CategoryStockDTO, 0, len(rows)),
		ByCategory: make(map[string]int64, len(rows)),
	}
	for _, r := range rows {
		out.Items = append(out.Items, dto.CategoryStockDTO{
			CategoryID:   r.CategoryID,
			CategoryName: r.CategoryName,
			TotalStock:   r.TotalStock,
			ProductCount: r.ProductCount,
		})
		out.ByCategory[r.CategoryID] = r.TotalStock
	}
	return out
}
