package routes

import (
	"github.com/apaltseff-maker/igla-app-sub000/src/handlers"

	"github.com/gin-gonic/gin"
)

func RegisterInvoiceRoutes(r *gin.RouterGroup, handler *handlers.InvoiceHandler) {
	// GET endpoints
	r.GET("/preview/:cutId", handler.PreviewByCut)
	r.GET("/:id", handler.GetInvoice)

	// POST endpoints
	r.POST("", handler.CreateOrUpdateInvoice)

	// PUT endpoints
	r.PUT("/:id/lines", handler.UpdateLines)
	r.PUT("/:id/status", handler.SetStatus)
}
