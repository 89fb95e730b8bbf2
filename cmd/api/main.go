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
	"github.com/hibiken/asynq"

	"github.com/jhoicas/Equipos-api/internal/application/auth"
	"github.com/jhoicas/Equipos-api/internal/application/inventory"
	"github.com/jhoicas/Equipos-api/internal/application/labels"
	"github.com/jhoicas/Equipos-api/internal/application/report"
	"github.com/jhoicas/Equipos-api/internal/domain/barcode"
	"github.com/jhoicas/Equipos-api/internal/infrastructure/cache"
	"github.com/jhoicas/Equipos-api/internal/infrastructure/datastore"
	"github.com/jhoicas/Equipos-api/internal/infrastructure/events"
	"github.com/jhoicas/Equipos-api/internal/infrastructure/observability"
	infrapdf "github.com/jhoicas/Equipos-api/internal/infrastructure/pdf"
	httpRouter "github.com/jhoicas/Equipos-api/internal/interfaces/http"
	"github.com/jhoicas/Equipos-api/internal/jobs"
	"github.com/jhoicas/Equipos-api/pkg/config"
	"github.com/jhoicas/Equipos-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: "api",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("backend", cfg.Backend).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, closeStore, err := datastore.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacén")
	}
	defer closeStore()

	metrics := observability.NewMetrics()

	// Redis opcional: caché de reportes, aviso entre instancias y cola del worker.
	var reportCache *cache.Cache
	var audits httpRouter.AuditEnqueuer
	if cfg.Redis.Enabled() {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer client.Close()
		reportCache = cache.New(client, time.Duration(cfg.Redis.ReportCacheTTL)*time.Second)

		jobsClient := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer jobsClient.Close()
		audits = jobsClient
	} else {
		log.Warn().Msg("REDIS_ADDR vacío: reportes sin caché y auditoría solo síncrona")
	}

	deps := inventory.Deps{
		TxRunner:   repos.TxRunner,
		Products:   repos.Products,
		Movements:  repos.Movements,
		Categories: repos.Categories,
		Locations:  repos.Locations,
		Barcodes:   inventory.NewBarcodeAllocator(barcode.NewGenerator(cfg.Barcode.Prefix), cfg.Barcode.MaxAttempts),
		Metrics:    metrics,
		Logger:     log,
	}
	if reportCache != nil {
		deps.Notifier = reportCache
	}
	if publisher := events.NewKafkaPublisher(cfg.Kafka, log); publisher != nil {
		defer publisher.Close()
		deps.Events = publisher
	}
	svc := inventory.NewService(deps)
	if err := svc.Load(ctx); err != nil {
		log.Fatal().Err(err).Msg("carga inicial del inventario")
	}
	reportCache.Subscribe(ctx, func(ctx context.Context) {
		if err := svc.Refresh(ctx); err != nil {
			log.Error().Err(err).Msg("recarga tras cambio en otra instancia")
		}
	})

	authUC := auth.NewAuthUseCase(repos.Users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	created, err := authUC.EnsureAdmin(ctx, cfg.Bootstrap.AdminUsername, cfg.Bootstrap.AdminPassword)
	if err != nil {
		log.Fatal().Err(err).Msg("crear administrador inicial")
	}
	if created {
		log.Info().Str("username", cfg.Bootstrap.AdminUsername).Msg("administrador inicial creado")
	}

	var summaryCache report.Cache
	if reportCache != nil {
		summaryCache = reportCache
	}
	reportUC := report.NewReportUseCase(svc, summaryCache)
	labelsUC := labels.NewLabelsUseCase(svc, infrapdf.NewLabelGenerator(cfg.App.Name))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    16 * 1024 * 1024,
	})
	app.Use(recover.New())
	app.Use(httpRouter.SecureHeaders(cfg.App.Env == "production", cfg.Security.AllowedHosts))
	app.Use(metrics.Middleware())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Equipos API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "backend": repos.Backend})
	})
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:             authUC,
		Inventory:          svc,
		ReportUC:           reportUC,
		LabelsUC:           labelsUC,
		Audits:             audits,
		JWTSecret:          cfg.JWT.Secret,
		LoginRatePerMinute: cfg.Security.LoginRatePerMinute,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
