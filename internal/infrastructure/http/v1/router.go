// Package v1 provides HTTP API version 1.
package v1

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"ledgerpos/internal/domain/catalogs/counterparty"
	"ledgerpos/internal/infrastructure/http/v1/handlers"
	"ledgerpos/internal/infrastructure/http/v1/middleware"
	"ledgerpos/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	// Health is pinged by the readiness probe. Nil reports healthy.
	Health handlers.Pinger

	// Version is reported by the liveness probe
	Version string

	// CORSAllowedOrigins enables CORS when not empty. "*" allows any origin.
	CORSAllowedOrigins []string

	Services Services
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())
	if len(cfg.CORSAllowedOrigins) > 0 {
		router.Use(cors.New(corsConfig(cfg.CORSAllowedOrigins)))
	}

	healthHandler := handlers.NewHealthHandler(cfg.Health, cfg.Version)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	v1 := router.Group("/api/v1")
	{
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator)) // 1. Validate JWT, session into context
		protected.Use(middleware.TenantMatch())          // 2. X-Tenant-ID must agree with the token

		registerCatalogRoutes(protected, cfg.Services)
		registerDocumentRoutes(protected, cfg.Services)
		registerTillRoutes(protected, cfg.Services)
		registerReportRoutes(protected, cfg.Services)
	}

	return router
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.TenantHeader, "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 1 && origins[0] == "*" {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = origins
	c.AllowCredentials = true
	return c
}

// registerCatalogRoutes registers item, customer and supplier endpoints.
func registerCatalogRoutes(rg *gin.RouterGroup, svc Services) {
	baseHandler := handlers.NewBaseHandler()

	items := handlers.NewItemHandler(baseHandler, svc.Items)
	RegisterCatalogRoutes(rg.Group("/items"), items, "catalog:item")

	customers := handlers.NewCounterpartyHandler(baseHandler, svc.Counterparties, counterparty.KindCustomer)
	RegisterCatalogRoutes(rg.Group("/customers"), customers, "catalog:customer")

	suppliers := handlers.NewCounterpartyHandler(baseHandler, svc.Counterparties, counterparty.KindSupplier)
	RegisterCatalogRoutes(rg.Group("/suppliers"), suppliers, "catalog:supplier")
}

// registerDocumentRoutes registers sales, purchases, purchase orders,
// payments and returns.
func registerDocumentRoutes(rg *gin.RouterGroup, svc Services) {
	baseHandler := handlers.NewBaseHandler()

	RegisterDocumentRoutes(rg.Group("/sales"), handlers.NewSaleHandler(baseHandler, svc.Sales), "document:sale")
	RegisterDocumentRoutes(rg.Group("/purchases"), handlers.NewPurchaseHandler(baseHandler, svc.Purchases), "document:purchase")

	// --- PURCHASE ORDERS ---
	{
		const perm = "document:purchase_order"
		handler := handlers.NewPurchaseOrderHandler(baseHandler, svc.PurchaseOrders)
		group := rg.Group("/purchase-orders")
		RegisterDocumentRoutes(group, handler, perm)
		group.POST("/:id/send", middleware.RequirePermission(perm+":update"), handler.Send)
		group.POST("/:id/cancel", middleware.RequirePermission(perm+":update"), handler.Cancel)
		group.POST("/:id/convert", middleware.RequirePermission(perm+":convert"), handler.Convert)
	}

	// --- PAYMENTS ---
	{
		handler := handlers.NewPaymentHandler(baseHandler, svc.Payments)
		group := rg.Group("/payments")
		group.GET("/customers", middleware.RequirePermission("document:customer_payment:read"), handler.ListCustomers)
		group.POST("/customers", middleware.RequirePermission("document:customer_payment:create"), handler.CreateCustomer)
		group.GET("/suppliers", middleware.RequirePermission("document:supplier_payment:read"), handler.ListSuppliers)
		group.POST("/suppliers", middleware.RequirePermission("document:supplier_payment:create"), handler.CreateSupplier)
	}

	// --- RETURNS ---
	{
		handler := handlers.NewReturnHandler(baseHandler, svc.Returns)
		group := rg.Group("/returns")
		group.GET("/customers", middleware.RequirePermission("document:customer_return:read"), handler.ListCustomers)
		group.POST("/customers", middleware.RequirePermission("document:customer_return:create"), handler.CreateCustomer)
		group.GET("/suppliers", middleware.RequirePermission("document:supplier_return:read"), handler.ListSuppliers)
		group.POST("/suppliers", middleware.RequirePermission("document:supplier_return:create"), handler.CreateSupplier)
	}
}

// registerTillRoutes registers cash register shift endpoints.
func registerTillRoutes(rg *gin.RouterGroup, svc Services) {
	handler := handlers.NewTillHandler(handlers.NewBaseHandler(), svc.Till)

	till := rg.Group("/till")
	till.POST("/open", middleware.RequirePermission("till:open"), handler.Open)
	till.POST("/close", middleware.RequirePermission("till:close"), handler.Close)
	till.GET("/current", middleware.RequirePermission("till:read"), handler.Current)
	till.GET("/history", middleware.RequirePermission("till:read"), handler.History)
	till.POST("/expenses", middleware.RequirePermission("till:expense"), handler.RecordExpense)
}

// registerReportRoutes registers report endpoints. Profit checks its own
// permission inside the service.
func registerReportRoutes(rg *gin.RouterGroup, svc Services) {
	handler := handlers.NewReportsHandler(handlers.NewBaseHandler(), svc.Reports, svc.Consistency)

	reports := rg.Group("/reports")
	reports.Use(middleware.RequirePermission("report:read"))
	reports.GET("/daily-revenue", handler.DailyRevenue)
	reports.GET("/payment-methods", handler.PaymentMethods)
	reports.GET("/top-items", handler.TopItems)
	reports.GET("/debtors", handler.Debtors)
	reports.GET("/creditors", handler.Creditors)
	reports.GET("/profit", handler.Profit)
	reports.GET("/consistency", handler.Consistency)
}
