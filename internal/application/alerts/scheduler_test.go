package alerts_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-stock/internal/application/alerts"
	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/infrastructure/memory"
)

func testConfig(policy alerts.OverlapPolicy) alerts.Config {
	return alerts.Config{
		Schedule:      alerts.Schedule{Hour: 9, Minute: 0},
		Location:      time.UTC,
		Overlap:       policy,
		StoreTimeout:  time.Second,
		NotifyTimeout: time.Second,
	}
}

func TestTick_NotificaSoloStockBajoInclusivo(t *testing.T) {
	store := memory.NewStore()
	seedProduct(store, "P-1", "Tornillos", 3, 10)
	seedProduct(store, "P-2", "Tuercas", 10, 10) // igual al umbral cuenta como bajo
	seedProduct(store, "P-3", "Arandelas", 11, 10)

	n := &recordingNotifier{}
	s := alerts.NewScheduler(testConfig(alerts.OverlapSkip), store.Products(), n, nil, nil, nil)

	report, err := s.Tick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Scanned)
	assert.Equal(t, 2, report.Notified)
	assert.Empty(t, report.Failures)
	assert.Equal(t, []notification{
		{Name: "Tornillos", Quantity: 3, Threshold: 10},
		{Name: "Tuercas", Quantity: 10, Threshold: 10},
	}, n.Sent())
	assert.Same(t, report, s.LastRun())
}

func TestTick_FalloDeUnAvisoNoDetieneLosDemas(t *testing.T) {
	store := memory.NewStore()
	seedProduct(store, "P-1", "A", 1, 5)
	seedProduct(store, "P-2", "B", 2, 5)
	seedProduct(store, "P-3", "C", 3, 5)

	n := &recordingNotifier{failOn: map[string]bool{"B": true}}
	s := alerts.NewScheduler(testConfig(alerts.OverlapSkip), store.Products(), n, nil, nil, nil)

	report, err := s.Tick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, report.Scanned)
	assert.Equal(t, 2, report.Notified)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "P-2", report.Failures[0].ProductID)
	assert.ErrorIs(t, report.Failures[0].Err, domain.ErrNotifierFailure)

	names := []string{}
	for _, sent := range n.Sent() {
		names = append(names, sent.Name)
	}
	assert.Equal(t, []string{"A", "C"}, names)
}

type panickingNotifier struct{}

func (panickingNotifier) Notify(context.Context, string, int, int) error { panic("boom") }

func TestTick_PanicoDelNotifierSeCuentaComoFallo(t *testing.T) {
	store := memory.NewStore()
	seedProduct(store, "P-1", "A", 1, 5)

	s := alerts.NewScheduler(testConfig(alerts.OverlapSkip), store.Products(), panickingNotifier{}, nil, nil, nil)
	report, err := s.Tick(context.Background())
	require.NoError(t, err)
	assert.Len(t, report.Failures, 1)
}

func TestTick_AlmacenCaidoOmiteLaRevision(t *testing.T) {
	n := &recordingNotifier{}
	src := failingSource{err: errors.New("dial tcp: connection refused")}
	s := alerts.NewScheduler(testConfig(alerts.OverlapSkip), src, n, nil, nil, nil)

	report, err := s.Tick(context.Background())
	require.Error(t, err)
	assert.Nil(t, report)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.Empty(t, n.Sent())
	assert.Nil(t, s.LastRun())
}

func TestTick_SinCambiosDosRevisionesAvisanLoMismo(t *testing.T) {
	store := memory.NewStore()
	seedProduct(store, "P-1", "A", 0, 5)
	seedProduct(store, "P-2", "B", 5, 5)

	first := &recordingNotifier{}
	_, err := alerts.NewScheduler(testConfig(alerts.OverlapSkip), store.Products(), first, nil, nil, nil).Tick(context.Background())
	require.NoError(t, err)

	second := &recordingNotifier{}
	_, err = alerts.NewScheduler(testConfig(alerts.OverlapSkip), store.Products(), second, nil, nil, nil).Tick(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.Sent(), second.Sent())
	assert.Len(t, first.Sent(), 2)
}

func TestTick_PoliticaSkipRechazaSolapamiento(t *testing.T) {
	store := memory.NewStore()
	seedProduct(store, "P-1", "A", 1, 5)

	n := &recordingNotifier{block: make(chan struct{}), called: make(chan string, 4)}
	s := alerts.NewScheduler(testConfig(alerts.OverlapSkip), store.Products(), n, nil, nil, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := s.Tick(context.Background())
		assert.NoError(t, err)
	}()

	select {
	case <-n.called:
	case <-time.After(2 * time.Second):
		t.Fatal("la primera revisión no llegó al notifier")
	}

	_, err := s.Tick(context.Background())
	assert.ErrorIs(t, err, domain.ErrTickInProgress)

	close(n.block)
	wg.Wait()

	// Con el candado liberado vuelve a aceptar revisiones.
	_, err = s.Tick(context.Background())
	assert.NoError(t, err)
}

func TestTick_PoliticaAllowPermiteSolapamiento(t *testing.T) {
	store := memory.NewStore()
	seedProduct(store, "P-1", "A", 1, 5)

	n := &recordingNotifier{block: make(chan struct{}), called: make(chan string, 4)}
	s := alerts.NewScheduler(testConfig(alerts.OverlapAllow), store.Products(), n, nil, nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Tick(context.Background())
			assert.NoError(t, err)
		}()
	}
	for i := 0; i < 2; i++ {
		select {
		case <-n.called:
		case <-time.After(2 * time.Second):
			t.Fatal("las dos revisiones debían correr a la vez")
		}
	}
	close(n.block)
	wg.Wait()
	assert.Len(t, n.Sent(), 2)
}

func TestTriggerNow_UsaElMismoCandado(t *testing.T) {
	store := memory.NewStore()
	seedProduct(store, "P-1", "A", 1, 5)

	lock := alerts.NewLocalTickLock()
	unlock, err := lock.TryLock(context.Background())
	require.NoError(t, err)

	s := alerts.NewScheduler(testConfig(alerts.OverlapSkip), store.Products(), &recordingNotifier{}, nil, lock, nil)
	_, err = s.TriggerNow(context.Background())
	assert.ErrorIs(t, err, domain.ErrTickInProgress)

	unlock()
	report, err := s.TriggerNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Notified)
}

func TestScheduler_DisparaALaHoraConfigurada(t *testing.T) {
	store := memory.NewStore()
	seedProduct(store, "P-1", "Tornillos", 2, 10)

	clock := newFakeClock(time.Date(2026, 3, 10, 8, 59, 0, 0, time.UTC))
	n := &recordingNotifier{called: make(chan string, 4)}
	s := alerts.NewScheduler(testConfig(alerts.OverlapSkip), store.Products(), n, clock, nil, nil)

	require.NoError(t, s.Start(context.Background()))
	require.True(t, clock.WaitForWaiter(2*time.Second))
	assert.Equal(t, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC), s.NextRunAt())

	clock.Advance(time.Minute)
	select {
	case name := <-n.called:
		assert.Equal(t, "Tornillos", name)
	case <-time.After(2 * time.Second):
		t.Fatal("la revisión programada no se ejecutó")
	}

	// Tras disparar, el siguiente turno es al día siguiente.
	require.True(t, clock.WaitForWaiter(2*time.Second))
	assert.Equal(t, time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC), s.NextRunAt())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
}

func TestScheduler_StopSinStartNoFalla(t *testing.T) {
	s := alerts.NewScheduler(testConfig(alerts.OverlapSkip), memory.NewStore().Products(), &recordingNotifier{}, nil, nil, nil)
	assert.NoError(t, s.Stop(context.Background()))
}

func TestLocalTickLock_UnlockIdempotente(t *testing.T) {
	lock := alerts.NewLocalTickLock()
	unlock, err := lock.TryLock(context.Background())
	require.NoError(t, err)
	unlock()
	unlock()

	second, err := lock.TryLock(context.Background())
	require.NoError(t, err)
	_, err = lock.TryLock(context.Background())
	assert.ErrorIs(t, err, domain.ErrTickInProgress)
	second()
}
