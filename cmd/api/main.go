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

	"github.com/jhoicas/MateriasPrimas-api/internal/application/auth"
	"github.com/jhoicas/MateriasPrimas-api/internal/application/inventory"
	"github.com/jhoicas/MateriasPrimas-api/internal/application/monitor"
	"github.com/jhoicas/MateriasPrimas-api/internal/application/orders"
	"github.com/jhoicas/MateriasPrimas-api/internal/application/reports"
	"github.com/jhoicas/MateriasPrimas-api/internal/catalog"
	"github.com/jhoicas/MateriasPrimas-api/internal/infrastructure/export"
	"github.com/jhoicas/MateriasPrimas-api/internal/infrastructure/pedidosok"
	"github.com/jhoicas/MateriasPrimas-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/MateriasPrimas-api/internal/interfaces/http"
	"github.com/jhoicas/MateriasPrimas-api/pkg/config"
	"github.com/jhoicas/MateriasPrimas-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	// Catálogo estático: se carga una vez y se inyecta, nunca estado global.
	cat, err := catalog.Load(cfg.Catalog.MaterialIDsPath, cfg.Catalog.BOMPath)
	if err != nil {
		log.Fatal().Err(err).Msg("cargar catálogo")
	}
	log.Info().
		Int("materiales", len(cat.MaterialNames())).
		Int("skus", len(cat.SKUs())).
		Msg("catálogo cargado")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("crear esquema")
	}

	matRepo := postgres.NewMaterialRepository(pool)
	movRepo := postgres.NewStockMovementRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	if err := inventory.SeedCatalog(ctx, matRepo, cat, cfg.Stock.DefaultLowThreshold); err != nil {
		log.Fatal().Err(err).Msg("seed de materiales")
	}

	if err := os.MkdirAll(cfg.Reports.ExportDir, 0o755); err != nil {
		log.Fatal().Err(err).Msg("crear directorio de exportación")
	}

	stockUC := inventory.NewStockUseCase(txRunner, matRepo, movRepo)
	reconcileUC := orders.NewReconcileUseCase(cat, txRunner)
	reportsUC := reports.NewUseCase(
		matRepo,
		export.NewExcelWriter(),
		export.NewBarChartRenderer(),
		export.NewMarotoSummaryGenerator(),
		cfg.Reports.ExportDir,
	)
	authUC := auth.NewAuthUseCase(cfg.JWT.AdminUser, cfg.JWT.AdminPasswordHash, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	// Cola de pedidos en segundo plano (modo asíncrono del webhook) con
	// callback de resultado hacia PedidosOK.
	notifier := pedidosok.NewClient(cfg.Pedidos.BaseURL, cfg.Pedidos.MockAPI, log)
	orderQueue := orders.NewQueue(reconcileUC, notifier, log, 128)

	// Monitor de stock bajo: tarea recurrente cancelable.
	monitorCtx, cancelMonitor := context.WithCancel(context.Background())
	lowStockMonitor := monitor.New(
		stockUC,
		log,
		time.Duration(cfg.Stock.MonitorIntervalSeconds)*time.Second,
		time.Duration(cfg.Stock.MonitorRetrySeconds)*time.Second,
	)
	monitorDone := make(chan struct{})
	go func() {
		defer close(monitorDone)
		lowStockMonitor.Run(monitorCtx)
	}()

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
		Title:    "Materias Primas API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Catalog:      cat,
		StockUC:      stockUC,
		ReconcileUC:  reconcileUC,
		OrderQueue:   orderQueue,
		ReportsUC:    reportsUC,
		AuthUC:       authUC,
		JWTSecret:    cfg.JWT.Secret,
		WebhookToken: cfg.Webhook.Token,
		WebhookAsync: cfg.Webhook.Async,
		ExportDir:    cfg.Reports.ExportDir,
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

	// Detener el monitor y esperar a que observe la cancelación.
	cancelMonitor()
	select {
	case <-monitorDone:
	case <-shutdownCtx.Done():
		log.Warn().Msg("el monitor no terminó dentro del timeout de apagado")
	}

	// Drenar la cola de pedidos pendientes antes de salir.
	if err := orderQueue.Stop(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("la cola de pedidos no drenó dentro del timeout")
	}

	log.Info().Msg("aplicación detenida")
}
