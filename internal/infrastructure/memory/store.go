// Package memory implementa los puertos de persistencia en memoria.
// Se usa con STORE_DRIVER=memory (desarrollo local) y en las pruebas de casos de uso.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"

	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
	"github.com/jhoicas/inventario-stock/internal/domain/stock"
)

var (
	_ repository.ProductRepository   = (*ProductRepo)(nil)
	_ repository.CategoryRepository  = (*CategoryRepo)(nil)
	_ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)
)

// Store estado compartido por los tres adaptadores, como una base de datos única.
// El mutex solo se mantiene durante la operación en memoria.
type Store struct {
	mu         sync.RWMutex
	products   map[string]*entity.Product
	categories map[string]*entity.Category
	seq        map[string]int64 // orden de inserción por ID
	next       int64
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		products:   make(map[string]*entity.Product),
		categories: make(map[string]*entity.Category),
		seq:        make(map[string]int64),
	}
}

// Products devuelve el adaptador de productos.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

// Categories devuelve el adaptador de categorías.
func (s *Store) Categories() *CategoryRepo { return &CategoryRepo{s: s} }

// Analytics devuelve el adaptador de analítica.
func (s *Store) Analytics() *AnalyticsRepo { return &AnalyticsRepo{s: s} }

func cloneProduct(p *entity.Product) *entity.Product {
	c := *p
	if p.SupplierInfo != nil {
		v := *p.SupplierInfo
		c.SupplierInfo = &v
	}
	if p.CategoryID != nil {
		v := *p.CategoryID
		c.CategoryID = &v
	}
	return &c
}

func cloneCategory(c *entity.Category) *entity.Category {
	v := *c
	return &v
}

// sorted devuelve copias de los productos que cumplen keep, en orden de inserción. Requiere s.mu.
func (s *Store) sorted(keep func(p *entity.Product) bool) []*entity.Product {
	list := make([]*entity.Product, 0, len(s.products))
	for _, p := range s.products {
		if keep == nil || keep(p) {
			list = append(list, cloneProduct(p))
		}
	}
	sort.Slice(list, func(i, j int) bool {
		return s.seq[list[i].ID] < s.seq[list[j].ID]
	})
	return list
}

// ProductRepo adaptador en memoria de ProductRepository.
type ProductRepo struct {
	s *Store
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[product.ID]; ok {
		return domain.ErrConflict
	}
	for _, p := range r.s.products {
		if p.ProductID == product.ProductID {
			return domain.ErrConflict
		}
	}
	if product.CategoryID != nil {
		if _, ok := r.s.categories[*product.CategoryID]; !ok {
			return domain.ErrNotFound
		}
	}
	r.s.products[product.ID] = cloneProduct(product)
	r.s.next++
	r.s.seq[product.ID] = r.s.next
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return cloneProduct(p), nil
}

// GetWithCategory obtiene producto y categoría.
func (r *ProductRepo) GetWithCategory(ctx context.Context, id string) (*entity.ProductWithCategory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	out := &entity.ProductWithCategory{Product: *cloneProduct(p)}
	if p.CategoryID != nil {
		if c, ok := r.s.categories[*p.CategoryID]; ok {
			out.Category = cloneCategory(c)
		}
	}
	return out, nil
}

// GetByProductID busca por clave de negocio.
func (r *ProductRepo) GetByProductID(ctx context.Context, productID string) (*entity.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.products {
		if p.ProductID == productID {
			return cloneProduct(p), nil
		}
	}
	return nil, nil
}

// Update reescribe los campos editables; la cantidad se conserva.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.products[product.ID]
	if !ok {
		return domain.ErrNotFound
	}
	for _, p := range r.s.products {
		if p.ID != product.ID && p.ProductID == product.ProductID {
			return domain.ErrConflict
		}
	}
	if product.CategoryID != nil {
		if _, ok := r.s.categories[*product.CategoryID]; !ok {
			return domain.ErrNotFound
		}
	}
	next := cloneProduct(product)
	next.Quantity = current.Quantity
	next.CreatedAt = current.CreatedAt
	r.s.products[product.ID] = next
	return nil
}

// UpdateQuantity reemplaza la cantidad bajo el lock de escritura.
func (r *ProductRepo) UpdateQuantity(ctx context.Context, id string, quantity int, updatedAt time.Time) (*entity.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	p.Quantity = quantity
	p.UpdatedAt = updatedAt
	return cloneProduct(p), nil
}

// List lista todos los productos.
func (r *ProductRepo) List(ctx context.Context) ([]*entity.Product, error) {
	return r.list(ctx, nil)
}

// ListByCategory lista los productos de una categoría.
func (r *ProductRepo) ListByCategory(ctx context.Context, categoryID string) ([]*entity.Product, error) {
	return r.list(ctx, func(p *entity.Product) bool {
		return p.CategoryID != nil && *p.CategoryID == categoryID
	})
}

// Search aplica los filtros presentes.
func (r *ProductRepo) Search(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	var needle string
	fold := cases.Fold()
	if f.Name != nil {
		needle = fold.String(*f.Name)
	}
	return r.list(ctx, func(p *entity.Product) bool {
		if f.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *f.CategoryID) {
			return false
		}
		if f.Name != nil && !strings.Contains(fold.String(p.Name), needle) {
			return false
		}
		if f.MinPrice != nil && p.Price.LessThan(*f.MinPrice) {
			return false
		}
		if f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice) {
			return false
		}
		return true
	})
}

// ListLowStock usa la regla canónica del dominio.
func (r *ProductRepo) ListLowStock(ctx context.Context) ([]*entity.Product, error) {
	return r.list(ctx, stock.IsLowStock)
}

// ListOutOfStock productos agotados.
func (r *ProductRepo) ListOutOfStock(ctx context.Context) ([]*entity.Product, error) {
	return r.list(ctx, stock.IsOutOfStock)
}

// Delete elimina un producto.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.products, id)
	delete(r.s.seq, id)
	return nil
}

func (r *ProductRepo) list(ctx context.Context, keep func(p *entity.Product) bool) ([]*entity.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.sorted(keep), nil
}

// CategoryRepo adaptador en memoria de CategoryRepository.
type CategoryRepo struct {
	s *Store
}

// Create persiste una categoría.
func (r *CategoryRepo) Create(ctx context.Context, category *entity.Category) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[category.ID]; ok {
		return domain.ErrConflict
	}
	r.s.categories[category.ID] = cloneCategory(category)
	r.s.next++
	r.s.seq[category.ID] = r.s.next
	return nil
}

// GetByID obtiene una categoría por ID.
func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.categories[id]
	if !ok {
		return nil, nil
	}
	return cloneCategory(c), nil
}

// Update actualiza nombre y fecha.
func (r *CategoryRepo) Update(ctx context.Context, category *entity.Category) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.categories[category.ID]
	if !ok {
		return domain.ErrNotFound
	}
	current.Name = category.Name
	current.UpdatedAt = category.UpdatedAt
	return nil
}

// List lista categorías en orden de creación.
func (r *CategoryRepo) List(ctx context.Context) ([]*entity.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := make([]*entity.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		list = append(list, cloneCategory(c))
	}
	sort.Slice(list, func(i, j int) bool {
		return r.s.seq[list[i].ID] < r.s.seq[list[j].ID]
	})
	return list, nil
}

// Delete elimina la categoría y desasocia sus productos (equivalente a ON DELETE SET NULL).
func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[id]; !ok {
		return domain.ErrNotFound
	}
	for _, p := range r.s.products {
		if p.CategoryID != nil && *p.CategoryID == id {
			p.CategoryID = nil
		}
	}
	delete(r.s.categories, id)
	delete(r.s.seq, id)
	return nil
}

// AnalyticsRepo adaptador en memoria de AnalyticsRepository.
type AnalyticsRepo struct {
	s *Store
}

// TotalStockValue suma quantity × price con aritmética decimal.
func (r *AnalyticsRepo) TotalStockValue(ctx context.Context) (decimal.Decimal, error) {
	if err := ctx.Err(); err != nil {
		return decimal.Zero, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	total := decimal.Zero
	for _, p := range r.s.products {
		total = total.Add(stock.StockValue(p))
	}
	return total, nil
}

// CategoryStockDistribution suma cantidades por categoría, ordenado por ID de categoría.
func (r *AnalyticsRepo) CategoryStockDistribution(ctx context.Context) ([]repository.CategoryStockResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	byCategory := make(map[string]*repository.CategoryStockResult)
	for _, p := range r.s.products {
		if !p.HasCategory() {
			continue
		}
		row, ok := byCategory[*p.CategoryID]
		if !ok {
			row = &repository.CategoryStockResult{CategoryID: *p.CategoryID}
			if c, found := r.s.categories[*p.CategoryID]; found {
				row.CategoryName = c.Name
			}
			byCategory[*p.CategoryID] = row
		}
		row.TotalStock += int64(p.Quantity)
		row.ProductCount++
	}
	results := make([]repository.CategoryStockResult, 0, len(byCategory))
	for _, row := range byCategory {
		results = append(results, *row)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].CategoryID < results[j].CategoryID })
	return results, nil
}
