package dto

import (
	"encoding/json"
	"time"
)

// CreateCategoryRequest entrada para crear una categoría.
type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,min=1,max=120"`
}

// UpdateCategoryRequest parche de categoría; el id no se puede cambiar.
type UpdateCategoryRequest struct {
	Name *string         `json:"name" validate:"omitempty,min=1,max=120"`
	ID   json.RawMessage `json:"id"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CategoryWithProductsResponse categoría con sus productos (consulta explícita).
type CategoryWithProductsResponse struct {
	CategoryResponse
	Products []ProductResponse `json:"products"`
}
