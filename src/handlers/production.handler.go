package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/apaltseff-maker/igla-app-sub000/src/requests"
	"github.com/apaltseff-maker/igla-app-sub000/src/services"
)

type ProductionHandler struct {
	Service *services.ProductionService
}

// RecordCut - Register a cutting job with its bundles
func (h *ProductionHandler) RecordCut(c *gin.Context) {
	var req requests.RecordCutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cutDate, err := parseDate(req.CutDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cut_date format. Use RFC3339 or YYYY-MM-DD"})
		return
	}

	serviceReq := services.RecordCutRequest{
		OrganizationID: req.OrganizationID,
		Number:         req.Number,
		CutDate:        cutDate,
		FabricItemID:   req.FabricItemID,
		RollsUsed:      req.RollsUsed,
		MetersUsed:     req.MetersUsed,
		FabricCost:     req.FabricCost,
		CreatedBy:      req.CreatedBy,
	}
	for _, b := range req.Bundles {
		serviceReq.Bundles = append(serviceReq.Bundles, services.BundleSpec{
			LotNumber: b.LotNumber,
			ProductID: b.ProductID,
			ColorID:   b.ColorID,
			Size:      b.Size,
			Capacity:  b.Capacity,
			Rate:      b.Rate,
		})
	}

	cut, err := h.Service.RecordCut(serviceReq)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Cut recorded successfully",
		"data":    cut,
	})
}

// GetBundleOverview - Derived bundle status and per-worker breakdown
func (h *ProductionHandler) GetBundleOverview(c *gin.Context) {
	orgID, err := uuid.Parse(c.Query("organization_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid organization_id"})
		return
	}
	bundleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid bundle id"})
		return
	}

	overview, err := h.Service.GetBundleOverview(orgID, bundleID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": overview})
}

// UpdateBundleCapacity - Change capacity of an unreferenced bundle
func (h *ProductionHandler) UpdateBundleCapacity(c *gin.Context) {
	bundleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid bundle id"})
		return
	}

	var req requests.UpdateBundleCapacityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Service.UpdateBundleCapacity(req.OrganizationID, bundleID, req.Capacity); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Bundle capacity updated successfully"})
}

// DeleteBundle - Delete an unreferenced bundle
func (h *ProductionHandler) DeleteBundle(c *gin.Context) {
	orgID, err := uuid.Parse(c.Query("organization_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid organization_id"})
		return
	}
	bundleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid bundle id"})
		return
	}

	if err := h.Service.DeleteBundle(orgID, bundleID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Bundle deleted successfully"})
}

// ResolvePartyNumber - Map "<lot_no>-<worker_code>" to its bundle and worker
func (h *ProductionHandler) ResolvePartyNumber(c *gin.Context) {
	orgID, err := uuid.Parse(c.Query("organization_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid organization_id"})
		return
	}
	partyNumber := c.Query("party_number")
	if partyNumber == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "party_number is required"})
		return
	}

	bundle, worker, err := h.Service.ResolvePartyNumber(orgID, partyNumber)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bundle": bundle,
		"worker": worker,
	})
}

// CreateAssignment - Claim bundle quantity for a worker
func (h *ProductionHandler) CreateAssignment(c *gin.Context) {
	var req requests.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	assignedAt, err := parseDateOrNow(req.AssignedAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid assigned_at format"})
		return
	}

	assignment, err := h.Service.CreateAssignment(services.CreateAssignmentRequest{
		OrganizationID: req.OrganizationID,
		BundleID:       req.BundleID,
		WorkerID:       req.WorkerID,
		Qty:            req.Qty,
		AssignedAt:     assignedAt,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Assignment created successfully",
		"data":    assignment,
	})
}

// UpdateAssignment - Change assignment qty and/or worker
func (h *ProductionHandler) UpdateAssignment(c *gin.Context) {
	assignmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid assignment id"})
		return
	}

	var req requests.UpdateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err = h.Service.UpdateAssignment(services.UpdateAssignmentRequest{
		OrganizationID: req.OrganizationID,
		AssignmentID:   assignmentID,
		Qty:            req.Qty,
		WorkerID:       req.WorkerID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Assignment updated successfully"})
}

// DeleteAssignment - Remove an assignment not yet covered by packaging
func (h *ProductionHandler) DeleteAssignment(c *gin.Context) {
	orgID, err := uuid.Parse(c.Query("organization_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid organization_id"})
		return
	}
	assignmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid assignment id"})
		return
	}

	if err := h.Service.DeleteAssignment(orgID, assignmentID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Assignment deleted successfully"})
}

// CreatePackagingEvent - Record completed output for one (bundle, worker)
func (h *ProductionHandler) CreatePackagingEvent(c *gin.Context) {
	var req requests.CreatePackagingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	packedAt, err := parseDateOrNow(req.PackedAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid packed_at format"})
		return
	}

	event, err := h.Service.CreatePackagingEvent(services.CreatePackagingRequest{
		OrganizationID: req.OrganizationID,
		BundleID:       req.BundleID,
		WorkerID:       req.WorkerID,
		PackedQty:      req.PackedQty,
		DefectQty:      req.DefectQty,
		PackedAt:       packedAt,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Packaging event created successfully",
		"data":    event,
	})
}

// DeletePackagingEvent - Remove a packaging record
func (h *ProductionHandler) DeletePackagingEvent(c *gin.Context) {
	orgID, err := uuid.Parse(c.Query("organization_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid organization_id"})
		return
	}
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid packaging event id"})
		return
	}

	if err := h.Service.DeletePackagingEvent(orgID, eventID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Packaging event deleted successfully"})
}

// GetWorkerOutput - Per-worker packed/defect totals over a period
func (h *ProductionHandler) GetWorkerOutput(c *gin.Context) {
	orgID, err := uuid.Parse(c.Query("organization_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid organization_id"})
		return
	}

	var from, to time.Time
	if s := c.Query("from_date"); s != "" {
		from, _ = parseDate(s)
	}
	if s := c.Query("to_date"); s != "" {
		to, _ = parseDate(s)
	}

	rows, err := h.Service.WorkerOutput(orgID, from, to)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":         rows,
		"generated_at": time.Now().Format(time.RFC3339),
	})
}
