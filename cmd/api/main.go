package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/juju/clock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "github.com/jhoicas/Refugio-api/docs"
	appkennel "github.com/jhoicas/Refugio-api/internal/application/kennel"
	"github.com/jhoicas/Refugio-api/internal/application/usecase"
	"github.com/jhoicas/Refugio-api/internal/domain/repository"
	"github.com/jhoicas/Refugio-api/internal/infrastructure/memory"
	"github.com/jhoicas/Refugio-api/internal/infrastructure/metrics"
	"github.com/jhoicas/Refugio-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Refugio-api/internal/interfaces/http"
	"github.com/jhoicas/Refugio-api/pkg/config"
	"github.com/jhoicas/Refugio-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

// storage puertos que necesita la API, igual para postgres y memoria.
type storage struct {
	txRunner appkennel.TxRunner
	animals  repository.AnimalRepository
	kennels  repository.KennelRepository
	stays    repository.KennelStayRepository
	close    func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		App:   cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("storage", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer store.close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	moveMetrics := metrics.NewMoveCollector()
	registry.MustRegister(moveMetrics)

	clk := clock.WallClock
	moveUC := appkennel.NewMoveAnimalUseCase(store.txRunner, clk, log.Component("kennel.move"), moveMetrics)
	kennelUC := usecase.NewKennelUseCase(store.kennels, store.stays, store.animals, clk)
	animalUC := usecase.NewAnimalUseCase(store.animals, store.stays, clk)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Refugio API",
		}))
	} else {
		log.Warn().Str("file", swaggerFile).Msg("swagger.json no encontrado, /docs deshabilitado")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "storage": cfg.DB.Driver})
	})
	if cfg.Metrics.Enabled {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		KennelUC:    kennelUC,
		AnimalUC:    animalUC,
		MoveAnimal:  moveUC,
		CanOverflow: cfg.Shelter.CanOverflow,
		JWTSecret:   cfg.JWT.Secret,
		Log:         log.Component("http"),
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

	log.Info().Msg("aplicación detenida")
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.DB.Driver == config.StorageMemory {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		s := memory.NewStore()
		return &storage{txRunner: s, animals: s.Animals(), kennels: s.Kennels(), stays: s.Stays(), close: func() {}}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.DB.MigrateOnStart {
		if err := postgres.Migrate(ctx, pool, log.Component("migrate")); err != nil {
			pool.Close()
			return nil, err
		}
	}
	return &storage{
		txRunner: postgres.NewTxRunner(pool, cfg.DB.LockTimeout),
		animals:  postgres.NewAnimalRepository(pool),
		kennels:  postgres.NewKennelRepository(pool),
		stays:    postgres.NewKennelStayRepository(pool),
		close:    pool.Close,
	}, nil
}
