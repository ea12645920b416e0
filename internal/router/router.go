// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/jortegar/agroscout/internal/handler"
	"github.com/jortegar/agroscout/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Load balancers and monitoring systems use this endpoint to verify that
	// the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAPI registers the authenticated API under /v1.  Every endpoint in
// the group requires a valid access token issued by the external identity
// provider and a SCOUT or ADMIN role claim; the supplied limiter middleware
// throttles the whole group.
func RegisterAPI(e *echo.Echo, g *handler.GridHandler, inv *handler.InventoryHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	api := e.Group("/v1")
	api.Use(middleware.JWTAuth(jwtSecret))
	api.Use(middleware.RequireRole("SCOUT", "ADMIN"))
	api.Use(limiter)

	// Incidence grid: state, record lifecycle, derived views and exports.
	api.GET("/grid", g.GetGrid)
	api.GET("/grid/rows", g.GetRows)
	api.GET("/grid/rows/:id/subsections", g.GetRowSubsections)
	api.POST("/grid/records", g.CreateRecord)
	api.PATCH("/grid/records/:id", g.UpdateRecord)
	api.DELETE("/grid/records/:id", g.DeleteRecord)
	api.GET("/grid/heatmap", g.GetHeatmap)
	api.GET("/grid/stats", g.GetStats)
	api.GET("/grid/export", g.GetExport)

	// Referential collections, one CRUD+export block per entity.
	api.GET("/locations", inv.ListLocations)
	api.POST("/locations", inv.CreateLocation)
	api.PUT("/locations/:id", inv.UpdateLocation)
	api.DELETE("/locations/:id", inv.DeleteLocation)
	api.GET("/locations/export", inv.ExportLocations)

	api.GET("/activities", inv.ListActivities)
	api.POST("/activities", inv.CreateActivity)
	api.PUT("/activities/:id", inv.UpdateActivity)
	api.DELETE("/activities/:id", inv.DeleteActivity)
	api.GET("/activities/export", inv.ExportActivities)

	api.GET("/supplies", inv.ListSupplies)
	api.POST("/supplies", inv.CreateSupply)
	api.PUT("/supplies/:id", inv.UpdateSupply)
	api.DELETE("/supplies/:id", inv.DeleteSupply)
	api.GET("/supplies/export", inv.ExportSupplies)

	api.GET("/tools", inv.ListTools)
	api.POST("/tools", inv.CreateTool)
	api.PUT("/tools/:id", inv.UpdateTool)
	api.DELETE("/tools/:id", inv.DeleteTool)
	api.GET("/tools/export", inv.ExportTools)

	api.GET("/users", inv.ListUsers)
	api.POST("/users", inv.CreateUser)
	api.PUT("/users/:id", inv.UpdateUser)
	api.DELETE("/users/:id", inv.DeleteUser)
	api.GET("/users/export", inv.ExportUsers)
}
