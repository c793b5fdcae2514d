package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/inventario-stock/internal/application/alerts"
	appanalytics "github.com/jhoicas/inventario-stock/internal/application/analytics"
	"github.com/jhoicas/inventario-stock/internal/application/inventory"
	"github.com/jhoicas/inventario-stock/internal/application/usecase"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
	"github.com/jhoicas/inventario-stock/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-stock/internal/infrastructure/notifier"
	"github.com/jhoicas/inventario-stock/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-stock/internal/infrastructure/redislock"
	httpRouter "github.com/jhoicas/inventario-stock/internal/interfaces/http"
	"github.com/jhoicas/inventario-stock/pkg/config"
	"github.com/jhoicas/inventario-stock/pkg/logger"
)

// stores agrupa los puertos de persistencia del driver elegido.
type stores struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	analytics  repository.AnalyticsRepository
	close      func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacén")
	}
	defer st.close()

	productUC := usecase.NewProductUseCase(st.products, st.categories)
	categoryUC := usecase.NewCategoryUseCase(st.categories, st.products)
	searchUC := usecase.NewSearchUseCase(st.products)
	stockUC := inventory.NewStockUseCase(st.products)
	analyticsUC := appanalytics.NewStockAnalyticsUseCase(st.products, st.analytics)

	scheduler, closeScheduler, err := buildScheduler(ctx, cfg, st.products, log)
	if err != nil {
		log.Fatal().Err(err).Msg("programador de alertas")
	}
	defer closeScheduler()
	if cfg.Alert.Enabled {
		if err := scheduler.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("arrancar programador de alertas")
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Inventario Stock API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:    productUC,
		CategoryUC:   categoryUC,
		SearchUC:     searchUC,
		StockUC:      stockUC,
		AnalyticsUC:  analyticsUC,
		AlertTrigger: scheduler,
		JWTSecret:    cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if err := scheduler.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del programador de alertas")
	}

	log.Info().Msg("aplicación detenida")
}

func openStores(ctx context.Context, cfg *config.Config, log *logger.Logger) (*stores, error) {
	if cfg.DB.Driver == config.StoreDriverMemory {
		log.Warn().Msg("STORE_DRIVER=memory: los datos se pierden al reiniciar")
		s := memory.NewStore()
		return &stores{products: s.Products(), categories: s.Categories(), analytics: s.Analytics(), close: func() {}}, nil
	}

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(cfg.DB.ConnectionString()); err != nil {
			return nil, err
		}
		log.Info().Msg("migraciones aplicadas")
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	return &stores{
		products:   postgres.NewProductRepository(pool),
		categories: postgres.NewCategoryRepository(pool),
		analytics:  postgres.NewAnalyticsRepository(pool),
		close:      pool.Close,
	}, nil
}

// buildScheduler elige notificador (SMTP o log) y candado (Redis o en proceso).
func buildScheduler(ctx context.Context, cfg *config.Config, source alerts.LowStockSource, log *logger.Logger) (*alerts.Scheduler, func(), error) {
	schedule, err := alerts.ParseCronSchedule(cfg.Alert.Cron)
	if err != nil {
		return nil, nil, err
	}
	loc, err := cfg.Alert.Location()
	if err != nil {
		return nil, nil, err
	}

	var n alerts.Notifier
	if cfg.SMTP.Enabled() {
		email, err := notifier.NewEmailNotifier(cfg.SMTP, log)
		if err != nil {
			return nil, nil, err
		}
		n = email
	} else {
		log.Warn().Msg("SMTP_HOST vacío: los avisos de stock bajo solo se registran en el log")
		n = notifier.NewLogNotifier(log)
	}

	closeFn := func() {}
	var lock alerts.TickLock
	if cfg.Redis.Addr != "" {
		client, err := redislock.NewClient(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		lock = redislock.New(client, "", cfg.Alert.LockTTL)
		closeFn = func() { _ = client.Close() }
	}

	s := alerts.NewScheduler(alerts.Config{
		Schedule:      schedule,
		Location:      loc,
		Overlap:       alerts.OverlapPolicy(cfg.Alert.OverlapPolicy),
		StoreTimeout:  cfg.Alert.StoreTimeout,
		NotifyTimeout: cfg.Alert.NotifyTimeout,
	}, source, n, alerts.SystemClock{}, lock, log)
	return s, closeFn, nil
}
