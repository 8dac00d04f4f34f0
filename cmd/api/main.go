package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/lims-api/internal/application/analysis"
	"github.com/jhoicas/lims-api/internal/application/auth"
	"github.com/jhoicas/lims-api/internal/application/catalog"
	"github.com/jhoicas/lims-api/internal/application/dashboard"
	"github.com/jhoicas/lims-api/internal/application/equipment"
	"github.com/jhoicas/lims-api/internal/application/inventory"
	"github.com/jhoicas/lims-api/internal/application/manufacturing"
	"github.com/jhoicas/lims-api/internal/application/ports"
	"github.com/jhoicas/lims-api/internal/application/sampling"
	"github.com/jhoicas/lims-api/internal/application/statemachine"
	"github.com/jhoicas/lims-api/internal/application/traceability"
	"github.com/jhoicas/lims-api/internal/domain"
	"github.com/jhoicas/lims-api/internal/domain/repository"
	infraamqp "github.com/jhoicas/lims-api/internal/infrastructure/amqp"
	"github.com/jhoicas/lims-api/internal/infrastructure/memory"
	inframetrics "github.com/jhoicas/lims-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/lims-api/internal/infrastructure/pdf"
	"github.com/jhoicas/lims-api/internal/infrastructure/postgres"
	"github.com/jhoicas/lims-api/internal/infrastructure/rediscache"
	httpRouter "github.com/jhoicas/lims-api/internal/interfaces/http"
	"github.com/jhoicas/lims-api/pkg/config"
	"github.com/jhoicas/lims-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.App.Store).
		Msg("iniciando aplicación")

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("la aplicación terminó con error")
	}
	log.Info().Msg("aplicación detenida")
}

// run arma dependencias y sirve HTTP hasta SIGINT/SIGTERM. Los recursos abiertos se
// cierran con defer también cuando el arranque falla.
func run(cfg *config.Config, log *logger.Logger) error {
	ctx := context.Background()

	// Ledger Store: PostgreSQL o memoria (desarrollo / demos)
	var (
		txRunner repository.TxRunner
		repos    repository.Repos
	)
	switch cfg.App.Store {
	case "memory":
		store := memory.New()
		store.SeedDefaultCatalogs()
		txRunner, repos = store, store.Repos()
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB, log.Component("postgres"))
		if err != nil {
			return fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool); err != nil {
			return fmt.Errorf("migraciones: %w", err)
		}
		txRunner, repos = postgres.NewTxRunner(pool), postgres.NewRepos(pool)
	}

	// Caché de nombres de catálogo (opcional)
	var cache ports.CatalogCache = ports.NoCache{}
	if client := rediscache.NewClient(ctx, cfg.Redis); client != nil {
		defer client.Close()
		cache = rediscache.NewCatalogCache(client, time.Duration(cfg.Redis.CatalogTTLSeconds)*time.Second)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("caché de catálogos en Redis")
	} else if cfg.Redis.Addr != "" {
		log.Warn().Str("addr", cfg.Redis.Addr).Msg("Redis no disponible, se sigue sin caché")
	}

	// Eventos de trazabilidad (opcional)
	var events ports.EventPublisher = ports.NoopPublisher{}
	if cfg.RabbitMQ.URL != "" {
		pub, err := infraamqp.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, log.Component("amqp"))
		if err != nil {
			log.Warn().Err(err).Msg("RabbitMQ no disponible, eventos descartados")
		} else {
			defer pub.Close()
			events = pub
		}
	}

	var metrics ports.Metrics = ports.NoopMetrics{}
	var prom *inframetrics.Prometheus
	if cfg.Metrics.Enabled {
		prom = inframetrics.New()
		metrics = prom
	}

	clock := domain.SystemClock{}
	engine := statemachine.NewEngine(txRunner, repos.States, repos.History, clock, events, metrics, log.Component("statemachine"))

	catalogUC := catalog.NewUseCase(txRunner, repos.Catalog, cache, clock, log.Component("catalog"))
	equipmentUC := equipment.NewUseCase(txRunner, repos.Equipment, engine, log.Component("equipment"))
	manufacturingUC := manufacturing.NewUseCase(txRunner, repos.Manufacturing, engine)
	samplingUC := sampling.NewUseCase(txRunner, repos.Sampling, engine)
	analysisUC := analysis.NewUseCase(txRunner, repos.Analysis, repos.Specifications, engine, metrics, log.Component("analysis"))
	inventoryUC := inventory.NewUseCase(txRunner, repos.Stock, repos.Media, clock, events, metrics, log.Component("inventory"))

	// PDF: registro de lote (trazabilidad de la orden)
	pdfGenerator := infrapdf.NewMarotoPDFGenerator(cfg.App.Name)
	traceabilityUC := traceability.NewUseCase(repos.Manufacturing, repos.History, catalogUC, pdfGenerator, clock)
	dashboardUC := dashboard.NewUseCase(repos.Dashboard, catalogUC, clock)

	authUC := auth.NewAuthUseCase(txRunner, repos.Users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	created, err := authUC.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password)
	if err != nil {
		return fmt.Errorf("crear administrador inicial: %w", err)
	}
	if created {
		log.Info().Str("email", cfg.Admin.Email).Msg("administrador inicial creado")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "LIMS API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.App.Store})
	})
	if prom != nil {
		app.Get(cfg.Metrics.Path, adaptor.HTTPHandler(promhttp.HandlerFor(prom.Registry(), promhttp.HandlerOpts{})))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:          authUC,
		EquipmentUC:     equipmentUC,
		ManufacturingUC: manufacturingUC,
		SamplingUC:      samplingUC,
		AnalysisUC:      analysisUC,
		InventoryUC:     inventoryUC,
		CatalogUC:       catalogUC,
		TraceabilityUC:  traceabilityUC,
		DashboardUC:     dashboardUC,
		JWTSecret:       cfg.JWT.Secret,
	})

	listenErr := make(chan error, 1)
	go func() {
		listenErr <- app.Listen(cfg.HTTP.Addr())
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-listenErr:
		if err != nil {
			return fmt.Errorf("servidor HTTP: %w", err)
		}
		return nil
	case <-quit:
	}

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	return nil
}
