package alerts

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/pkg/logger"
)

// OverlapPolicy qué hacer si llega una revisión mientras otra sigue en curso.
type OverlapPolicy string

const (
	OverlapSkip  OverlapPolicy = "skip"
	OverlapAllow OverlapPolicy = "allow"
)

// Config configuración del programador.
type Config struct {
	Schedule      Schedule
	Location      *time.Location
	Overlap       OverlapPolicy
	StoreTimeout  time.Duration // 0 = sin límite propio
	NotifyTimeout time.Duration // 0 = sin límite propio
}

// DefaultConfig todos los días a las 09:00 hora local, sin solapamiento.
func DefaultConfig() Config {
	return Config{
		Schedule:      Schedule{Hour: 9, Minute: 0},
		Location:      time.Local,
		Overlap:       OverlapSkip,
		StoreTimeout:  30 * time.Second,
		NotifyTimeout: 15 * time.Second,
	}
}

// NotifyFailure fallo de aviso de un producto concreto.
type NotifyFailure struct {
	ProductID string
	Name      string
	Err       error
}

// TickReport resultado de una revisión.
type TickReport struct {
	StartedAt  time.Time
	FinishedAt time.Time
	Scanned    int
	Notified   int
	Failures   []NotifyFailure
}

// Scheduler dispara la revisión de stock bajo a la hora configurada.
// Lee del almacén sin mantener candados de datos mientras llama al Notifier.
type Scheduler struct {
	cfg      Config
	source   LowStockSource
	notifier Notifier
	clock    Clock
	lock     TickLock
	log      *logger.Logger

	mu        sync.Mutex
	running   bool
	cancel    context.CancelFunc
	loopWG    sync.WaitGroup
	ticksWG   sync.WaitGroup
	nextRunAt time.Time
	lastRun   *TickReport
}

// NewScheduler construye el programador. clock y lock nil usan SystemClock y LocalTickLock.
func NewScheduler(cfg Config, source LowStockSource, notifier Notifier, clock Clock, lock TickLock, log *logger.Logger) *Scheduler {
	if clock == nil {
		clock = SystemClock{}
	}
	if lock == nil {
		lock = NewLocalTickLock()
	}
	if log == nil {
		log = logger.Nop()
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Overlap == "" {
		cfg.Overlap = OverlapSkip
	}
	return &Scheduler{
		cfg:      cfg,
		source:   source,
		notifier: notifier,
		clock:    clock,
		lock:     lock,
		log:      log.Component("low_stock_scheduler"),
	}
}

// Start arranca el bucle en segundo plano. Llamarlo dos veces no tiene efecto.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running = true

	s.loopWG.Add(1)
	go s.loop(ctx)

	s.log.Info().
		Str("schedule", s.cfg.Schedule.String()).
		Str("location", s.cfg.Location.String()).
		Str("overlap", string(s.cfg.Overlap)).
		Msg("programador de stock bajo iniciado")
	return nil
}

// Stop detiene el bucle y espera a las revisiones en curso o a que ctx expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	cancel := s.cancel
	s.mu.Unlock()

	cancel()

	done := make(chan struct{})
	go func() {
		s.loopWG.Wait()
		s.ticksWG.Wait()
		close(done)
	}()
	select {
	case <-done:
		s.log.Info().Msg("programador de stock bajo detenido")
		return nil
	case <-ctx.Done():
		s.log.Warn().Msg("timeout deteniendo el programador de stock bajo")
		return ctx.Err()
	}
}

// NextRunAt próximo disparo programado (cero si no está en marcha).
func (s *Scheduler) NextRunAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextRunAt
}

// LastRun último informe completo, o nil.
func (s *Scheduler) LastRun() *TickReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun
}

func (s *Scheduler) loop(ctx context.Context) {
	defer s.loopWG.Done()

	var prev time.Time
	for {
		from := s.clock.Now()
		if from.Before(prev) {
			from = prev
		}
		next := s.cfg.Schedule.Next(from, s.cfg.Location)
		s.mu.Lock()
		s.nextRunAt = next
		s.mu.Unlock()

		select {
		case <-ctx.Done():
			return
		case <-s.clock.After(next.Sub(s.clock.Now())):
			prev = next
			// La revisión corre aparte para que el bucle nunca se bloquee.
			s.ticksWG.Add(1)
			go func() {
				defer s.ticksWG.Done()
				if _, err := s.Tick(ctx); err != nil {
					s.logTickError(err)
				}
			}()
		}
	}
}

// TriggerNow ejecuta una revisión fuera de horario, sujeta a la misma política de solapamiento.
func (s *Scheduler) TriggerNow(ctx context.Context) (*TickReport, error) {
	s.log.Info().Msg("revisión de stock bajo manual")
	return s.Tick(ctx)
}

// Tick ejecuta una revisión completa.
// Si la lectura falla no se envía ningún aviso y se devuelve ErrStoreUnavailable.
// El fallo de un aviso no detiene los demás; queda en TickReport.Failures.
func (s *Scheduler) Tick(ctx context.Context) (*TickReport, error) {
	if s.cfg.Overlap == OverlapSkip {
		unlock, err := s.lock.TryLock(ctx)
		if err != nil {
			return nil, err
		}
		defer unlock()
	}

	report := &TickReport{StartedAt: s.clock.Now()}

	storeCtx, cancel := withTimeout(ctx, s.cfg.StoreTimeout)
	products, err := s.source.ListLowStock(storeCtx)
	cancel()
	if err != nil {
		if errors.Is(err, domain.ErrStoreUnavailable) {
			return nil, fmt.Errorf("low stock tick: %w", err)
		}
		return nil, fmt.Errorf("low stock tick: %w: %w", domain.ErrStoreUnavailable, err)
	}
	report.Scanned = len(products)

	for _, p := range products {
		if ctx.Err() != nil {
			break
		}
		nctx, cancel := withTimeout(ctx, s.cfg.NotifyTimeout)
		err := s.notify(nctx, p.Name, p.Quantity, p.LowStockThreshold)
		cancel()
		if err != nil {
			report.Failures = append(report.Failures, NotifyFailure{
				ProductID: p.ProductID,
				Name:      p.Name,
				Err:       fmt.Errorf("%w: %w", domain.ErrNotifierFailure, err),
			})
			s.log.Warn().Err(err).
				Str("product_id", p.ProductID).
				Str("name", p.Name).
				Int("quantity", p.Quantity).
				Int("threshold", p.LowStockThreshold).
				Msg("no se pudo enviar el aviso de stock bajo")
			continue
		}
		report.Notified++
	}

	report.FinishedAt = s.clock.Now()
	s.mu.Lock()
	s.lastRun = report
	s.mu.Unlock()

	s.log.Info().
		Int("scanned", report.Scanned).
		Int("notified", report.Notified).
		Int("failed", len(report.Failures)).
		Msg("revisión de stock bajo completada")
	return report, nil
}

// notify aísla pánicos del Notifier para que un producto no tumbe la revisión.
func (s *Scheduler) notify(ctx context.Context, name string, quantity, threshold int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic en notifier: %v", r)
		}
	}()
	return s.notifier.Notify(ctx, name, quantity, threshold)
}

func (s *Scheduler) logTickError(err error) {
	if errors.Is(err, domain.ErrTickInProgress) {
		s.log.Warn().Msg("revisión de stock bajo omitida: otra sigue en curso")
		return
	}
	s.log.Error().Err(err).Msg("revisión de stock bajo omitida")
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
