package requests

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ============ CUTTING ============
type BundleSpecRequest struct {
	LotNumber string           `json:"lot_number" binding:"required"`
	ProductID uint             `json:"product_id" binding:"required"`
	ColorID   uint             `json:"color_id" binding:"required"`
	Size      string           `json:"size,omitempty"`
	Capacity  int              `json:"capacity" binding:"required,min=1"`
	Rate      *decimal.Decimal `json:"rate,omitempty"`
}

type RecordCutRequest struct {
	OrganizationID uuid.UUID           `json:"organization_id" binding:"required"`
	Number         string              `json:"number" binding:"required"`
	CutDate        string              `json:"cut_date" binding:"required"`
	FabricItemID   *uint               `json:"fabric_item_id,omitempty"`
	RollsUsed      decimal.Decimal     `json:"rolls_used"`
	MetersUsed     decimal.Decimal     `json:"meters_used"`
	FabricCost     decimal.Decimal     `json:"fabric_cost"`
	CreatedBy      string              `json:"created_by" binding:"required"`
	Bundles        []BundleSpecRequest `json:"bundles" binding:"required,min=1,dive"`
}

type UpdateBundleCapacityRequest struct {
	OrganizationID uuid.UUID `json:"organization_id" binding:"required"`
	Capacity       int       `json:"capacity" binding:"required,min=1"`
}

// ============ ASSIGNMENTS ============
type CreateAssignmentRequest struct {
	OrganizationID uuid.UUID `json:"organization_id" binding:"required"`
	BundleID       uuid.UUID `json:"bundle_id" binding:"required"`
	WorkerID       uuid.UUID `json:"worker_id" binding:"required"`
	Qty            int       `json:"qty" binding:"required,min=1"`
	AssignedAt     string    `json:"assigned_at,omitempty"`
}

type UpdateAssignmentRequest struct {
	OrganizationID uuid.UUID  `json:"organization_id" binding:"required"`
	Qty            *int       `json:"qty,omitempty"`
	WorkerID       *uuid.UUID `json:"worker_id,omitempty"`
}

// ============ PACKAGING ============
type CreatePackagingRequest struct {
	OrganizationID uuid.UUID `json:"organization_id" binding:"required"`
	BundleID       uuid.UUID `json:"bundle_id" binding:"required"`
	WorkerID       uuid.UUID `json:"worker_id" binding:"required"`
	PackedQty      int       `json:"packed_qty" binding:"min=0"`
	DefectQty      int       `json:"defect_qty" binding:"min=0"`
	PackedAt       string    `json:"packed_at,omitempty"`
}
