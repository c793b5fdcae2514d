package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `p.id::text, p.product_id, p.name, p.description, p.quantity, p.price,
	p.supplier_info, p.low_stock_threshold, p.category_id::text, p.created_at, p.updated_at`

// Orden por defecto de todos los listados: orden de creación.
const productOrder = ` ORDER BY p.created_at ASC, p.id ASC`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.ProductID, &p.Name, &p.Description, &p.Quantity, &p.Price,
		&p.SupplierInfo, &p.LowStockThreshold, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (id, product_id, name, description, quantity, price, supplier_info,
			low_stock_threshold, category_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.ProductID, product.Name, product.Description, product.Quantity, product.Price,
		product.SupplierInfo, product.LowStockThreshold, product.CategoryID, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return mapError("insert product", err)
	}
	return nil
}

// GetByID obtiene un producto por ID (sin categoría).
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products p WHERE p.id = $1`
	p, err := scanProduct(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get product", err)
	}
	return p, nil
}

// GetWithCategory obtiene el producto con su categoría (LEFT JOIN explícito).
func (r *ProductRepo) GetWithCategory(ctx context.Context, id string) (*entity.ProductWithCategory, error) {
	query := `
		SELECT ` + productColumns + `, c.id::text, c.name, c.created_at, c.updated_at
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1`
	var (
		out                  entity.ProductWithCategory
		catID, catName       *string
		catCreated, catUpdtd *time.Time
	)
	p := &out.Product
	err := r.q.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.ProductID, &p.Name, &p.Description, &p.Quantity, &p.Price,
		&p.SupplierInfo, &p.LowStockThreshold, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt,
		&catID, &catName, &catCreated, &catUpdtd,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get product with category", err)
	}
	if catID != nil {
		out.Category = &entity.Category{ID: *catID, Name: *catName, CreatedAt: *catCreated, UpdatedAt: *catUpdtd}
	}
	return &out, nil
}

// GetByProductID obtiene un producto por su clave de negocio.
func (r *ProductRepo) GetByProductID(ctx context.Context, productID string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products p WHERE p.product_id = $1`
	p, err := scanProduct(r.q.QueryRow(ctx, query, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get product by product_id", err)
	}
	return p, nil
}

// Update actualiza los campos editables. No modifica quantity (se maneja vía UpdateQuantity).
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	query := `
		UPDATE products SET product_id = $2, name = $3, description = $4, price = $5, supplier_info = $6,
			low_stock_threshold = $7, category_id = $8, updated_at = $9
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		product.ID, product.ProductID, product.Name, product.Description, product.Price,
		product.SupplierInfo, product.LowStockThreshold, product.CategoryID, product.UpdatedAt,
	)
	if err != nil {
		return mapError("update product", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateQuantity reemplaza la cantidad en una sola sentencia (atómica por fila) y devuelve la fila resultante.
func (r *ProductRepo) UpdateQuantity(ctx context.Context, id string, quantity int, updatedAt time.Time) (*entity.Product, error) {
	query := `
		UPDATE products p SET quantity = $2, updated_at = $3
		WHERE p.id = $1
		RETURNING ` + productColumns
	p, err := scanProduct(r.q.QueryRow(ctx, query, id, quantity, updatedAt))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("update product quantity", err)
	}
	return p, nil
}

// List lista todos los productos.
func (r *ProductRepo) List(ctx context.Context) ([]*entity.Product, error) {
	return r.query(ctx, "list products", `SELECT `+productColumns+` FROM products p`+productOrder)
}

// ListByCategory lista los productos de una categoría.
func (r *ProductRepo) ListByCategory(ctx context.Context, categoryID string) ([]*entity.Product, error) {
	return r.query(ctx, "list products by category",
		`SELECT `+productColumns+` FROM products p WHERE p.category_id = $1`+productOrder, categoryID)
}

// Search arma el WHERE solo con los filtros presentes.
func (r *ProductRepo) Search(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.CategoryID != nil {
		add("p.category_id = $%d", *f.CategoryID)
	}
	if f.Name != nil {
		add(`p.name ILIKE $%d ESCAPE '\'`, containsPattern(*f.Name))
	}
	if f.MinPrice != nil {
		add("p.price >= $%d", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		add("p.price <= $%d", *f.MaxPrice)
	}
	query := `SELECT ` + productColumns + ` FROM products p`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	return r.query(ctx, "search products", query+productOrder, args...)
}

// ListLowStock usa la regla canónica: quantity <= low_stock_threshold.
func (r *ProductRepo) ListLowStock(ctx context.Context) ([]*entity.Product, error) {
	return r.query(ctx, "list low stock",
		`SELECT `+productColumns+` FROM products p WHERE p.quantity <= p.low_stock_threshold`+productOrder)
}

// ListOutOfStock lista productos con cantidad cero.
func (r *ProductRepo) ListOutOfStock(ctx context.Context) ([]*entity.Product, error) {
	return r.query(ctx, "list out of stock",
		`SELECT `+productColumns+` FROM products p WHERE p.quantity = 0`+productOrder)
}

// Delete elimina un producto por ID.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return mapError("delete product", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProductRepo) query(ctx context.Context, op, query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer rows.Close()
	list := []*entity.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, mapError(op+" scan", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(op, err)
	}
	return list, nil
}
