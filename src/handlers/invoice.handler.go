package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/apaltseff-maker/igla-app-sub000/src/models"
	"github.com/apaltseff-maker/igla-app-sub000/src/requests"
	"github.com/apaltseff-maker/igla-app-sub000/src/services"
)

type InvoiceHandler struct {
	Service *services.InvoiceService
}

// PreviewByCut - Billable positions of a cut with remembered prices
func (h *InvoiceHandler) PreviewByCut(c *gin.Context) {
	orgID, err := uuid.Parse(c.Query("organization_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid organization_id"})
		return
	}
	cutID, err := uuid.Parse(c.Param("cutId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cut id"})
		return
	}
	counterpartyID, err := uuid.Parse(c.Query("counterparty_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid counterparty_id"})
		return
	}

	rows, err := h.Service.PreviewByCut(orgID, cutID, counterpartyID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": rows})
}

// CreateOrUpdateInvoice - Upsert the invoice of a cut from agreed prices
func (h *InvoiceHandler) CreateOrUpdateInvoice(c *gin.Context) {
	var req requests.UpsertInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	serviceReq := services.UpsertInvoiceRequest{
		OrganizationID:  req.OrganizationID,
		CutID:           req.CutID,
		CounterpartyID:  req.CounterpartyID,
		Number:          req.Number,
		AllowIncomplete: req.AllowIncomplete,
	}
	for _, p := range req.Prices {
		serviceReq.Prices = append(serviceReq.Prices, services.PositionPrice{
			ProductID: p.ProductID,
			ColorID:   p.ColorID,
			Price:     p.Price,
		})
	}

	invoice, err := h.Service.CreateOrUpdateInvoice(serviceReq)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Invoice saved successfully",
		"data":    invoice,
	})
}

// GetInvoice - One invoice with its lines
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	orgID, err := uuid.Parse(c.Query("organization_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid organization_id"})
		return
	}
	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice id"})
		return
	}

	invoice, err := h.Service.GetInvoice(orgID, invoiceID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": invoice})
}

// UpdateLines - Apply service/inventory line mutations to an invoice
func (h *InvoiceHandler) UpdateLines(c *gin.Context) {
	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice id"})
		return
	}

	var req requests.UpdateLinesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	diffs := make([]services.LineDiff, 0, len(req.Lines))
	for _, l := range req.Lines {
		diffs = append(diffs, services.LineDiff{
			LineID:          l.LineID,
			Delete:          l.Delete,
			LineType:        models.InvoiceLineType(l.LineType),
			Description:     l.Description,
			InventoryItemID: l.InventoryItemID,
			Qty:             l.Qty,
			Price:           l.Price,
			Amount:          l.Amount,
		})
	}

	invoice, err := h.Service.UpdateLines(req.OrganizationID, invoiceID, diffs, req.ChangedBy)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Invoice lines updated successfully",
		"data":    invoice,
	})
}

// SetStatus - Switch the invoice between draft and final billing basis
func (h *InvoiceHandler) SetStatus(c *gin.Context) {
	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice id"})
		return
	}

	var req requests.SetInvoiceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	invoice, err := h.Service.SetStatus(req.OrganizationID, invoiceID, models.InvoiceStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Invoice status updated successfully",
		"data":    invoice,
	})
}
