// Package alerts revisa periódicamente el stock bajo y avisa a un Notifier por cada producto.
package alerts

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
)

// Notifier entrega un aviso de stock bajo (correo, log, ...).
type Notifier interface {
	Notify(ctx context.Context, name string, quantity, threshold int) error
}

// LowStockSource lee los productos con cantidad <= umbral.
type LowStockSource interface {
	ListLowStock(ctx context.Context) ([]*entity.Product, error)
}

// Clock abstrae el tiempo para poder disparar revisiones en pruebas sin esperas reales.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

// TickLock impide revisiones simultáneas. TryLock devuelve domain.ErrTickInProgress si ya está tomado.
type TickLock interface {
	TryLock(ctx context.Context) (unlock func(), err error)
}

// SystemClock usa el reloj del sistema.
type SystemClock struct{}

func (SystemClock) Now() time.Time                         { return time.Now() }
func (SystemClock) After(d time.Duration) <-chan time.Time { return time.After(d) }
