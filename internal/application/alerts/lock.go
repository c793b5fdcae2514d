package alerts

import (
	"context"
	"sync/atomic"

	"github.com/jhoicas/inventario-stock/internal/domain"
)

// LocalTickLock candado en proceso; sirve cuando hay una sola réplica.
type LocalTickLock struct {
	held atomic.Bool
}

// NewLocalTickLock construye un candado libre.
func NewLocalTickLock() *LocalTickLock {
	return &LocalTickLock{}
}

// TryLock toma el candado sin esperar.
func (l *LocalTickLock) TryLock(_ context.Context) (func(), error) {
	if !l.held.CompareAndSwap(false, true) {
		return nil, domain.ErrTickInProgress
	}
	var once atomic.Bool
	return func() {
		if once.CompareAndSwap(false, true) {
			l.held.Store(false)
		}
	}, nil
}
