package v1

import (
	"github.com/gin-gonic/gin"

	"ledgerpos/internal/infrastructure/http/v1/middleware"
)

// CatalogRouteHandler defines the interface for catalog handlers.
type CatalogRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
}

// CatalogUpdateHandler is an optional interface for catalogs that support editing.
type CatalogUpdateHandler interface {
	Update(c *gin.Context)
}

// DocumentRouteHandler defines the interface for document handlers.
// Delete voids sales and purchases and removes purchase order drafts.
type DocumentRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

// RegisterCatalogRoutes registers standard routes for a catalog.
// If the handler also implements CatalogUpdateHandler, PUT /:id is registered.
//
// Usage:
//
//	handler := handlers.NewItemHandler(baseHandler, svc.Items)
//	RegisterCatalogRoutes(rg.Group("/items"), handler, "catalog:item")
func RegisterCatalogRoutes(group *gin.RouterGroup, handler CatalogRouteHandler, permission string) {
	group.GET("", middleware.RequirePermission(permission+":read"), handler.List)
	group.POST("", middleware.RequirePermission(permission+":create"), handler.Create)
	group.GET("/:id", middleware.RequirePermission(permission+":read"), handler.Get)

	if updater, ok := handler.(CatalogUpdateHandler); ok {
		group.PUT("/:id", middleware.RequirePermission(permission+":update"), updater.Update)
	}
}

// RegisterDocumentRoutes registers the create, read, edit and delete routes
// shared by every document type.
//
// Usage:
//
//	handler := handlers.NewSaleHandler(baseHandler, svc.Sales)
//	RegisterDocumentRoutes(rg.Group("/sales"), handler, "document:sale")
func RegisterDocumentRoutes(group *gin.RouterGroup, handler DocumentRouteHandler, permission string) {
	group.GET("", middleware.RequirePermission(permission+":read"), handler.List)
	group.POST("", middleware.RequirePermission(permission+":create"), handler.Create)
	group.GET("/:id", middleware.RequirePermission(permission+":read"), handler.Get)
	group.PUT("/:id", middleware.RequirePermission(permission+":update"), handler.Update)
	group.DELETE("/:id", middleware.RequirePermission(permission+":delete"), handler.Delete)
}
