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

type InventoryHandler struct {
	Service *services.InventoryService
}

// CreateItem - Register a sewing-accessory item
func (h *InventoryHandler) CreateItem(c *gin.Context) {
	var req requests.CreateInventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.Service.CreateItem(req.OrganizationID, req.Code, req.Name, req.Unit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Inventory item created successfully",
		"data":    item,
	})
}

// GetBalance - Current on-hand quantity and derived unit cost for one item
func (h *InventoryHandler) GetBalance(c *gin.Context) {
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
func (h *InventoryHandler) GetMovements(c *gin.Context) {
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
func (h *InventoryHandler) GetOrganizationSummary(c *gin.Context) {
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

// CreateMovement - Post an inventory movement and fold it into the balance
func (h *InventoryHandler) CreateMovement(c *gin.Context) {
	var req requests.CreateInventoryMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	movementDate, err := parseDate(req.MovementDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid movement_date format. Use RFC3339 or YYYY-MM-DD"})
		return
	}

	movement, err := h.Service.CreateMovement(services.CreateInventoryMovementRequest{
		OrganizationID: req.OrganizationID,
		ItemID:         req.ItemID,
		Reason:         models.MovementReason(req.Reason),
		Qty:            req.Qty,
		TotalCost:      req.TotalCost,
		MovementDate:   movementDate,
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
func (h *InventoryHandler) UpdateMovement(c *gin.Context) {
	movementID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid movement id"})
		return
	}

	var req requests.UpdateInventoryMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	movementDate, err := parseDate(req.MovementDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid movement_date format. Use RFC3339 or YYYY-MM-DD"})
		return
	}

	movement, err := h.Service.UpdateMovement(services.UpdateInventoryMovementRequest{
		MovementID:     movementID,
		OrganizationID: req.OrganizationID,
		Reason:         models.MovementReason(req.Reason),
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
func (h *InventoryHandler) DeleteMovement(c *gin.Context) {
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
