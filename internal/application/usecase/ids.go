package usecase

import "github.com/google/uuid"

// validID descarta IDs mal formados antes de llegar al almacén (se tratan como inexistentes).
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
