package routes

import (
	"github.com/apaltseff-maker/igla-app-sub000/src/handlers"

	"github.com/gin-gonic/gin"
)

func RegisterProductionRoutes(r *gin.RouterGroup, handler *handlers.ProductionHandler) {
	// Cutting
	r.POST("/cuts", handler.RecordCut)

	// Bundles
	r.GET("/bundles/:id", handler.GetBundleOverview)
	r.PUT("/bundles/:id/capacity", handler.UpdateBundleCapacity)
	r.DELETE("/bundles/:id", handler.DeleteBundle)
	r.GET("/party", handler.ResolvePartyNumber)

	// Assignments
	r.POST("/assignments", handler.CreateAssignment)
	r.PUT("/assignments/:id", handler.UpdateAssignment)
	r.DELETE("/assignments/:id", handler.DeleteAssignment)

	// Packaging
	r.POST("/packaging", handler.CreatePackagingEvent)
	r.DELETE("/packaging/:id", handler.DeletePackagingEvent)

	// Reporting
	r.GET("/worker-output", handler.GetWorkerOutput)
}
