package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-stock/internal/application/dto"
	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

// CategoryUseCase casos de uso de categorías.
type CategoryUseCase struct {
	categories repository.CategoryRepository
	products   repository.ProductRepository
	now        func() time.Time
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(categories repository.CategoryRepository, products repository.ProductRepository) *CategoryUseCase {
	return &CategoryUseCase{categories: categories, products: products, now: time.Now}
}

// Create crea una categoría con nombre no vacío.
func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	c := &entity.Category{ID: uuid.New().String(), Name: name, CreatedAt: now, UpdatedAt: now}
	if err := uc.categories.Create(ctx, c); err != nil {
		return nil, err
	}
	out := dto.NewCategoryResponse(c)
	return &out, nil
}

// List lista las categorías (sin productos).
func (uc *CategoryUseCase) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	list, err := uc.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.NewCategoryResponse(c))
	}
	return out, nil
}

// GetWithProducts obtiene la categoría y, en una segunda consulta explícita, sus productos.
func (uc *CategoryUseCase) GetWithProducts(ctx context.Context, id string) (*dto.CategoryWithProductsResponse, error) {
	c, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	products, err := uc.products.ListByCategory(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	return &dto.CategoryWithProductsResponse{
		CategoryResponse: dto.NewCategoryResponse(c),
		Products:         dto.NewProductListResponse(products).Items,
	}, nil
}

// Update renombra la categoría; el id es inmutable.
func (uc *CategoryUseCase) Update(ctx context.Context, id string, in dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	if len(in.ID) > 0 {
		return nil, domain.ErrImmutableField
	}
	c, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		c.Name = name
	}
	c.UpdatedAt = uc.now()
	if err := uc.categories.Update(ctx, c); err != nil {
		return nil, err
	}
	out := dto.NewCategoryResponse(c)
	return &out, nil
}

// Delete elimina la categoría; sus productos quedan sin categoría.
func (uc *CategoryUseCase) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	return uc.categories.Delete(ctx, id)
}

func (uc *CategoryUseCase) get(ctx context.Context, id string) (*entity.Category, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	c, err := uc.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return c, nil
}
