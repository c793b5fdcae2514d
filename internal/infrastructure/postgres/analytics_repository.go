package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas agregadas de solo lectura sobre el catálogo.
type AnalyticsRepo struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepo {
	return &AnalyticsRepo{pool: pool}
}

// TotalStockValue suma quantity × price en NUMERIC; COALESCE devuelve cero con el catálogo vacío.
func (r *AnalyticsRepo) TotalStockValue(ctx context.Context) (decimal.Decimal, error) {
	const query = `SELECT COALESCE(SUM(p.quantity * p.price), 0) FROM products p`
	var total decimal.Decimal
	if err := r.pool.QueryRow(ctx, query).Scan(&total); err != nil {
		return decimal.Zero, mapError("analytics.TotalStockValue", err)
	}
	return total, nil
}

// CategoryStockDistribution agrupa por categoría. El JOIN interno excluye productos sin categoría
// y nunca materializa categorías vacías.
func (r *AnalyticsRepo) CategoryStockDistribution(ctx context.Context) ([]repository.CategoryStockResult, error) {
	const query = `
	SELECT
	    c.id::text                   AS category_id,
	    c.name                       AS category_name,
	    SUM(p.quantity)::bigint      AS total_stock,
	    COUNT(p.id)::int             AS product_count
	FROM products   p
	JOIN categories c ON c.id = p.category_id
	GROUP BY c.id, c.name
	ORDER BY c.id::text`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, mapError("analytics.CategoryStockDistribution", err)
	}
	defer rows.Close()

	results := []repository.CategoryStockResult{}
	for rows.Next() {
		var row repository.CategoryStockResult
		if err := rows.Scan(&row.CategoryID, &row.CategoryName, &row.TotalStock, &row.ProductCount); err != nil {
			return nil, mapError("analytics.CategoryStockDistribution scan", err)
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("analytics.CategoryStockDistribution rows", err)
	}
	return results, nil
}
