package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/MateriasPrimas-api/internal/application/auth"
	"github.com/jhoicas/MateriasPrimas-api/internal/application/inventory"
	"github.com/jhoicas/MateriasPrimas-api/internal/application/orders"
	"github.com/jhoicas/MateriasPrimas-api/internal/application/reports"
	"github.com/jhoicas/MateriasPrimas-api/internal/catalog"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Catalog      *catalog.Catalog
	StockUC      *inventory.StockUseCase
	ReconcileUC  *orders.ReconcileUseCase
	OrderQueue   *orders.Queue
	ReportsUC    *reports.UseCase
	AuthUC       *auth.AuthUseCase
	JWTSecret    string
	WebhookToken string
	WebhookAsync bool
	ExportDir    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	// Webhook de pedidos (autenticado por shared secret, no por JWT)
	pedidoHandler := NewPedidoHandler(deps.ReconcileUC, deps.OrderQueue, deps.Catalog, deps.WebhookAsync)
	app.Post("/webhook/pedidook", WebhookTokenMiddleware(deps.WebhookToken), pedidoHandler.Webhook)

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas del panel: protegidas con Bearer Token cuando hay JWT_SECRET
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Stock (ledger)
	stock := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.StockUC, deps.Catalog)
	stock.Get("/", stockHandler.ListMaterials)
	stock.Post("/in", stockHandler.StockIn)
	stock.Post("/in/form", stockHandler.StockInForm)
	stock.Get("/materials", stockHandler.ListMaterialNames)
	stock.Get("/:id/movements", stockHandler.ListMovements)
	stock.Get("/:id", stockHandler.GetMaterial)

	// Pedidos por formulario (una línea, síncrono)
	pedidos := protected.Group("/pedidos")
	pedidos.Post("/form", pedidoHandler.PedidoForm)
	pedidos.Get("/skus", pedidoHandler.ListSKUs)

	// Reportes
	reportsGroup := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportsUC)
	reportsGroup.Get("/generate", reportHandler.Generate)

	// Archivos exportados, recuperables por nombre generado
	app.Static("/exports", deps.ExportDir)
}
