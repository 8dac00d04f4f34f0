package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/lims-api/internal/application/analysis"
	"github.com/jhoicas/lims-api/internal/application/auth"
	"github.com/jhoicas/lims-api/internal/application/catalog"
	"github.com/jhoicas/lims-api/internal/application/dashboard"
	"github.com/jhoicas/lims-api/internal/application/equipment"
	"github.com/jhoicas/lims-api/internal/application/inventory"
	"github.com/jhoicas/lims-api/internal/application/manufacturing"
	"github.com/jhoicas/lims-api/internal/application/sampling"
	"github.com/jhoicas/lims-api/internal/application/traceability"
	"github.com/jhoicas/lims-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC          *auth.AuthUseCase
	EquipmentUC     *equipment.UseCase
	ManufacturingUC *manufacturing.UseCase
	SamplingUC      *sampling.UseCase
	AnalysisUC      *analysis.UseCase
	InventoryUC     *inventory.UseCase
	CatalogUC       *catalog.UseCase
	TraceabilityUC  *traceability.UseCase
	DashboardUC     *dashboard.UseCase
	JWTSecret       string
}

const (
	admin     = entity.RoleAdmin
	analyst   = entity.RoleAnalyst
	qa        = entity.RoleQA
	operator  = entity.RoleOperator
	warehouse = entity.RoleWarehouse
)

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (login público; alta de usuarios solo admin)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Post("/auth/register", RequireRole(admin), authHandler.Register)

	// Equipos
	eq := protected.Group("/equipment")
	eqHandler := NewEquipmentHandler(deps.EquipmentUC, deps.CatalogUC)
	eq.Post("/", RequireRole(admin, qa), eqHandler.Create)
	eq.Get("/", RequireRole(), eqHandler.List)
	eq.Get("/:id", RequireRole(), eqHandler.GetByID)
	eq.Put("/:id/state", RequireRole(admin, qa, operator, analyst), eqHandler.ChangeState)
	eq.Get("/:id/history", RequireRole(), eqHandler.History)
	eq.Delete("/:id", RequireRole(admin, qa), eqHandler.Deactivate)
	eq.Post("/:id/calibrations", RequireRole(admin, qa), eqHandler.RecordCalibration)
	eq.Get("/:id/calibrations", RequireRole(), eqHandler.Calibrations)

	// Manufactura y trazabilidad
	mf := protected.Group("/manufacturing")
	mfHandler := NewManufacturingHandler(deps.ManufacturingUC, deps.TraceabilityUC, deps.CatalogUC)
	mf.Post("/orders", RequireRole(admin, operator), mfHandler.CreateOrder)
	mf.Get("/orders/:id", RequireRole(), mfHandler.GetOrder)
	mf.Post("/orders/:id/processes", RequireRole(admin, operator), mfHandler.CreateProcess)
	mf.Get("/orders/:id/processes", RequireRole(), mfHandler.ListProcesses)
	mf.Get("/orders/:id/traceability", RequireRole(admin, qa, analyst), mfHandler.Traceability)
	mf.Get("/orders/:id/report.pdf", RequireRole(admin, qa), mfHandler.ReportPDF)
	mf.Put("/processes/:id/state", RequireRole(admin, operator, qa), mfHandler.ChangeProcessState)
	mf.Get("/processes/:id/history", RequireRole(), mfHandler.ProcessHistory)

	// Muestreo
	sm := protected.Group("/sampling")
	smHandler := NewSamplingHandler(deps.SamplingUC, deps.CatalogUC)
	sm.Post("/requests", RequireRole(admin, qa, analyst, operator), smHandler.CreateRequest)
	sm.Get("/requests/:id", RequireRole(), smHandler.GetRequest)
	sm.Put("/requests/:id/state", RequireRole(admin, qa, analyst, operator), smHandler.ChangeState)
	sm.Get("/requests/:id/history", RequireRole(), smHandler.History)
	sm.Post("/requests/:id/sessions", RequireRole(admin, analyst, operator), smHandler.RegisterSession)
	sm.Post("/shipments", RequireRole(admin, analyst, operator), smHandler.ShipSample)
	sm.Post("/receptions", RequireRole(admin, analyst), smHandler.ReceiveSample)

	// Análisis
	an := protected.Group("/analysis")
	anHandler := NewAnalysisHandler(deps.AnalysisUC, deps.CatalogUC)
	an.Post("/", RequireRole(admin, analyst), anHandler.Create)
	an.Get("/:id", RequireRole(), anHandler.GetByID)
	an.Put("/:id/state", RequireRole(admin, analyst, qa), anHandler.ChangeState)
	an.Get("/:id/history", RequireRole(), anHandler.History)
	an.Post("/:id/incubations", RequireRole(admin, analyst), anHandler.StartIncubation)
	an.Post("/:id/results", RequireRole(admin, analyst), anHandler.RecordResult)
	an.Get("/:id/results", RequireRole(), anHandler.Results)
	an.Post("/:id/evaluate", RequireRole(admin, analyst, qa), anHandler.Evaluate)
	an.Post("/:id/media", RequireRole(admin, analyst), anHandler.UseMediaBatch)

	// Inventario de polvos y medios
	inv := protected.Group("/inventory")
	invHandler := NewInventoryHandler(deps.InventoryUC)
	inv.Post("/lots", RequireRole(admin, warehouse), invHandler.ReceiveLot)
	inv.Get("/lots/:id/stock", RequireRole(), invHandler.GetStock)
	inv.Post("/preparations", RequireRole(admin, analyst, warehouse), invHandler.PrepareMedia)
	inv.Get("/preparations/:id", RequireRole(), invHandler.GetPreparation)
	inv.Post("/batches/:id/review", RequireRole(admin, qa), invHandler.ReviewBatch)

	// Catálogos
	cat := protected.Group("/catalogs")
	catHandler := NewCatalogHandler(deps.CatalogUC)
	cat.Get("/:kind", RequireRole(), catHandler.List)
	cat.Put("/:kind/:id", RequireRole(admin), catHandler.Rename)

	// Panel principal
	dashHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard/stats", RequireRole(), dashHandler.Stats)
}
