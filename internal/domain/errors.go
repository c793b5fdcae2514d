package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound         = errors.New("recurso no encontrado")
	ErrInvalidInput     = errors.New("entrada inválida")
	ErrConflict         = errors.New("conflicto con el estado actual")
	ErrImmutableField   = errors.New("campo inmutable")
	ErrNotifierFailure  = errors.New("fallo del notificador")
	ErrStoreUnavailable = errors.New("almacén de datos no disponible")
	ErrTickInProgress   = errors.New("ya hay una revisión de stock en curso")
)
