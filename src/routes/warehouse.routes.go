package routes

import (
	"github.com/apaltseff-maker/igla-app-sub000/src/handlers"

	"github.com/gin-gonic/gin"
)

func RegisterWarehouseRoutes(r *gin.RouterGroup, handler *handlers.WarehouseHandler) {
	// GET endpoints
	r.GET("/items/:id/balance", handler.GetBalance)
	r.GET("/items/:id/movements", handler.GetMovements)
	r.GET("/summary", handler.GetOrganizationSummary)

	// POST endpoints
	r.POST("/items", handler.CreateItem)
	r.POST("/movements", handler.CreateMovement)

	// PUT endpoint
	r.PUT("/movements/:id", handler.UpdateMovement)

	// DELETE endpoint
	r.DELETE("/movements/:id", handler.DeleteMovement)
}
