package entity

import "time"

// Category agrupa productos. No es dueña de ellos: al eliminarla, los productos quedan sin categoría.
type Category struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
