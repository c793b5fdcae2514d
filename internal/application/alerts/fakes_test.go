package alerts_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/infrastructure/memory"
)

type notification struct {
	Name      string
	Quantity  int
	Threshold int
}

// recordingNotifier guarda cada aviso; failOn hace fallar los nombres indicados.
type recordingNotifier struct {
	mu     sync.Mutex
	sent   []notification
	failOn map[string]bool
	block  chan struct{} // si no es nil, Notify espera hasta que se cierre
	called chan string
}

func (n *recordingNotifier) Notify(ctx context.Context, name string, quantity, threshold int) error {
	if n.called != nil {
		n.called <- name
	}
	if n.block != nil {
		select {
		case <-n.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.failOn[name] {
		return errors.New("smtp: conexión rechazada")
	}
	n.sent = append(n.sent, notification{Name: name, Quantity: quantity, Threshold: threshold})
	return nil
}

func (n *recordingNotifier) Sent() []notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notification(nil), n.sent...)
}

type failingSource struct{ err error }

func (s failingSource) ListLowStock(context.Context) ([]*entity.Product, error) {
	return nil, s.err
}

// fakeClock reloj manual: After solo dispara cuando Advance alcanza el instante.
type fakeClock struct {
	mu      sync.Mutex
	now     time.Time
	waiters []waiter
	added   chan struct{}
}

type waiter struct {
	at time.Time
	ch chan time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now, added: make(chan struct{}, 16)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch := make(chan time.Time, 1)
	if d <= 0 {
		ch <- c.now
		return ch
	}
	c.waiters = append(c.waiters, waiter{at: c.now.Add(d), ch: ch})
	select {
	case c.added <- struct{}{}:
	default:
	}
	return ch
}

// WaitForWaiter bloquea hasta que alguien llame a After con un plazo positivo.
func (c *fakeClock) WaitForWaiter(timeout time.Duration) bool {
	select {
	case <-c.added:
		return true
	case <-time.After(timeout):
		return false
	}
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	kept := c.waiters[:0]
	for _, w := range c.waiters {
		if !w.at.After(c.now) {
			w.ch <- c.now
			continue
		}
		kept = append(kept, w)
	}
	c.waiters = kept
}

func seedProduct(store *memory.Store, productID, name string, quantity, threshold int) {
	now := time.Now()
	err := store.Products().Create(context.Background(), &entity.Product{
		ID:                uuid.New().String(),
		ProductID:         productID,
		Name:              name,
		Quantity:          quantity,
		Price:             decimal.RequireFromString("1.00"),
		LowStockThreshold: threshold,
		CreatedAt:         now,
		UpdatedAt:         now,
	})
	if err != nil {
		panic(err)
	}
}
