package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-stock/internal/application/dto"
	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
	"github.com/jhoicas/inventario-stock/internal/domain/stock"
)

// ProductUseCase casos de uso CRUD para productos. La cantidad solo cambia vía StockUseCase.
type ProductUseCase struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	now        func() time.Time
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(products repository.ProductRepository, categories repository.CategoryRepository) *ProductUseCase {
	return &ProductUseCase{products: products, categories: categories, now: time.Now}
}

// Create crea un producto. Valida todo antes de escribir: categoría existente, clave de negocio única,
// cantidad, precio y umbral no negativos.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	in.ProductID = strings.TrimSpace(in.ProductID)
	in.Name = strings.TrimSpace(in.Name)
	if in.ProductID == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := stock.ValidateQuantity(in.Quantity); err != nil {
		return nil, err
	}
	if err := stock.ValidatePrice(in.Price); err != nil {
		return nil, err
	}
	threshold := entity.DefaultLowStockThreshold
	if in.LowStockThreshold != nil {
		threshold = *in.LowStockThreshold
	}
	if err := stock.ValidateThreshold(threshold); err != nil {
		return nil, err
	}
	if err := uc.requireCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}
	existing, err := uc.products.GetByProductID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrConflict
	}

	now := uc.now()
	categoryID := in.CategoryID
	product := &entity.Product{
		ID:                uuid.New().String(),
		ProductID:         in.ProductID,
		Name:              in.Name,
		Description:       in.Description,
		Quantity:          in.Quantity,
		Price:             in.Price,
		SupplierInfo:      in.SupplierInfo,
		LowStockThreshold: threshold,
		CategoryID:        &categoryID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.products.Create(ctx, product); err != nil {
		return nil, err
	}
	out := dto.NewProductResponse(product)
	return &out, nil
}

// GetByID obtiene un producto junto con su categoría.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductDetailResponse, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	found, err := uc.products.GetWithCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, domain.ErrNotFound
	}
	out := &dto.ProductDetailResponse{ProductResponse: dto.NewProductResponse(&found.Product)}
	if found.Category != nil {
		c := dto.NewCategoryResponse(found.Category)
		out.Category = &c
	}
	return out, nil
}

// GetByProductID busca por clave de negocio (sin categoría).
func (uc *ProductUseCase) GetByProductID(ctx context.Context, productID string) (*dto.ProductResponse, error) {
	p, err := uc.products.GetByProductID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	out := dto.NewProductResponse(p)
	return &out, nil
}

// List lista todo el catálogo en orden de creación.
func (uc *ProductUseCase) List(ctx context.Context) (*dto.ProductListResponse, error) {
	list, err := uc.products.List(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewProductListResponse(list), nil
}

// Update aplica solo los campos presentes del parche. Los campos inmutables se rechazan
// antes de leer el producto.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if fields := in.ImmutableFields(); len(fields) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrImmutableField, strings.Join(fields, ", "))
	}
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	product, err := uc.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	if in.ProductID != nil {
		key := strings.TrimSpace(*in.ProductID)
		if key == "" {
			return nil, domain.ErrInvalidInput
		}
		if key != product.ProductID {
			other, err := uc.products.GetByProductID(ctx, key)
			if err != nil {
				return nil, err
			}
			if other != nil {
				return nil, domain.ErrConflict
			}
		}
		product.ProductID = key
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		product.Name = name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		if err := stock.ValidatePrice(*in.Price); err != nil {
			return nil, err
		}
		product.Price = *in.Price
	}
	if in.SupplierInfo != nil {
		if *in.SupplierInfo == "" {
			product.SupplierInfo = nil
		} else {
			product.SupplierInfo = in.SupplierInfo
		}
	}
	if in.LowStockThreshold != nil {
		if err := stock.ValidateThreshold(*in.LowStockThreshold); err != nil {
			return nil, err
		}
		product.LowStockThreshold = *in.LowStockThreshold
	}
	if in.CategoryID != nil {
		if err := uc.requireCategory(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
		categoryID := *in.CategoryID
		product.CategoryID = &categoryID
	}

	product.UpdatedAt = uc.now()
	if err := uc.products.Update(ctx, product); err != nil {
		return nil, err
	}
	out := dto.NewProductResponse(product)
	return &out, nil
}

// Delete elimina un producto sin importar su stock.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	return uc.products.Delete(ctx, id)
}

func (uc *ProductUseCase) requireCategory(ctx context.Context, id string) error {
	if !validID(id) {
		return fmt.Errorf("categoría %q: %w", id, domain.ErrNotFound)
	}
	c, err := uc.categories.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return fmt.Errorf("categoría %q: %w", id, domain.ErrNotFound)
	}
	return nil
}
