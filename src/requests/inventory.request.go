package requests

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateInventoryItemRequest struct {
	OrganizationID uuid.UUID `json:"organization_id" binding:"required"`
	Code           string    `json:"code" binding:"required"`
	Name           string    `json:"name" binding:"required"`
	Unit           string    `json:"unit" binding:"required"`
}

type CreateInventoryMovementRequest struct {
	OrganizationID uuid.UUID       `json:"organization_id" binding:"required"`
	ItemID         uint            `json:"item_id" binding:"required"`
	Reason         string          `json:"reason" binding:"required,oneof=receipt issue adjustment return"`
	Qty            int             `json:"qty" binding:"required"`
	TotalCost      decimal.Decimal `json:"total_cost"`
	MovementDate   string          `json:"movement_date" binding:"required"`
	Notes          *string         `json:"notes,omitempty"`
	CreatedBy      string          `json:"created_by" binding:"required"`
}

type UpdateInventoryMovementRequest struct {
	OrganizationID uuid.UUID       `json:"organization_id" binding:"required"`
	Reason         string          `json:"reason" binding:"required,oneof=receipt issue adjustment return"`
	Qty            int             `json:"qty" binding:"required"`
	TotalCost      decimal.Decimal `json:"total_cost"`
	MovementDate   string          `json:"movement_date" binding:"required"`
	Notes          *string         `json:"notes,omitempty"`
	ChangedBy      string          `json:"changed_by" binding:"required"`
}
