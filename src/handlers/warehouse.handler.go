package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/apaltseff-maker/igla-app-sub000/src/models"
	"github.com/apaltseff-maker/igla-app-sub000/src/requests"
	"github.com/apaltseff-maker/igla-app-sub000/src/services"
)

type WarehouseHandler struct {
	Service *services.WarehouseService
}

// CreateItem - Register a warehouse item (fabric, notion, packaging material)
func (h *WarehouseHandler) CreateItem(c *gin.Context) {
	var req requests.CreateWarehouseItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.Service.CreateItem(req.OrganizationID, models.WarehouseItemKind(req.Kind), req.Name, req.Unit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Warehouse item created successfully",
		"data":    item,
	})
}

// GetBalance - Current on-hand figures for one item
func (h *WarehouseHandler) GetBalance(c *gin.Context) {
	orgID, err := uuid.Parse(c.Query("organization_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid organization_id"})
		return
	}
	itemID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}

	balance, err := h.Service.GetBalance(orgID, uint(itemID))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": balance})
}

// GetMovements - Movement history for one item with pagination
func (h *WarehouseHandler) GetMovements(c *gin.Context) {
	orgID, err := uuid.Parse(c.Query("organization_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid organization_id"})
		return
	}
	itemID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}

	var fromDate, toDate time.Time
	if s := c.Query("from_date"); s != "" {
		fromDate, _ = parseDate(s)
	}
	if s := c.Query("to_date"); s != "" {
		toDate, _ = parseDate(s)
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	movements, total, err := h.Service.GetMovements(orgID, uint(itemID), fromDate, toDate, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": movements,
		"meta": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetOrganizationSummary - On-hand balances of every item in the organization
func (h *WarehouseHandler) GetOrganizationSummary(c *gin.Context) {
	orgID, err := uuid.Parse(c.Query("organization_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid organization_id"})
		return
	}

	summary, err := h.Service.GetOrganizationSummary(orgID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": summary})
}

// CreateMovement - Post a warehouse movement and fold it into the balance
func (h *WarehouseHandler) CreateMovement(c *gin.Context) {
	var req requests.CreateWarehouseMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	movementDate, err := parseDate(req.MovementDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid movement_date format. Use RFC3339 or YYYY-MM-DD"})
		return
	}

	movement, err := h.Service.CreateMovement(services.CreateWarehouseMovementRequest{
		OrganizationID: req.OrganizationID,
		ItemID:         req.ItemID,
		Reason:         models.MovementReason(req.Reason),
		Rolls:          req.Rolls,
		Meters:         req.Meters,
		Qty:            req.Qty,
		TotalCost:      req.TotalCost,
		MovementDate:   movementDate,
		RefID:          req.RefID,
		Notes:          req.Notes,
		CreatedBy:      req.CreatedBy,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Movement created successfully",
		"data":    movement,
	})
}

// UpdateMovement - Supersede a movement via reversal and reapply
func (h *WarehouseHandler) UpdateMovement(c *gin.Context) {
	movementID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid movement id"})
		return
	}

	var req requests.UpdateWarehouseMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	movementDate, err := parseDate(req.MovementDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid movement_date format. Use RFC3339 or YYYY-MM-DD"})
		return
	}

	movement, err := h.Service.UpdateMovement(services.UpdateWarehouseMovementRequest{
		MovementID:     movementID,
		OrganizationID: req.OrganizationID,
		Reason:         models.MovementReason(req.Reason),
		Rolls:          req.Rolls,
		Meters:         req.Meters,
		Qty:            req.Qty,
		TotalCost:      req.TotalCost,
		MovementDate:   movementDate,
		Notes:          req.Notes,
		ChangedBy:      req.ChangedBy,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Movement updated successfully",
		"data":    movement,
	})
}

// DeleteMovement - Reverse a movement's effect and soft-delete it
func (h *WarehouseHandler) DeleteMovement(c *gin.Context) {
	orgID, err := uuid.Parse(c.Query("organization_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid organization_id"})
		return
	}
	movementID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid movement id"})
		return
	}

	var req requests.DeleteMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Service.DeleteMovement(orgID, movementID, req.DeletedBy); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Movement deleted successfully"})
}
