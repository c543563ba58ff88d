package requests

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateWarehouseItemRequest struct {
	OrganizationID uuid.UUID `json:"organization_id" binding:"required"`
	Kind           string    `json:"kind" binding:"required,oneof=fabric notion packaging"`
	Name           string    `json:"name" binding:"required"`
	Unit           string    `json:"unit" binding:"required"`
}

type CreateWarehouseMovementRequest struct {
	OrganizationID uuid.UUID       `json:"organization_id" binding:"required"`
	ItemID         uint            `json:"item_id" binding:"required"`
	Reason         string          `json:"reason" binding:"required,oneof=receipt issue adjustment return"`
	Rolls          decimal.Decimal `json:"rolls"`
	Meters         decimal.Decimal `json:"meters"`
	Qty            int             `json:"qty"`
	TotalCost      decimal.Decimal `json:"total_cost"`
	MovementDate   string          `json:"movement_date" binding:"required"`
	RefID          *uuid.UUID      `json:"ref_id,omitempty"`
	Notes          *string         `json:"notes,omitempty"`
	CreatedBy      string          `json:"created_by" binding:"required"`
}

type UpdateWarehouseMovementRequest struct {
	OrganizationID uuid.UUID       `json:"organization_id" binding:"required"`
	Reason         string          `json:"reason" binding:"required,oneof=receipt issue adjustment return"`
	Rolls          decimal.Decimal `json:"rolls"`
	Meters         decimal.Decimal `json:"meters"`
	Qty            int             `json:"qty"`
	TotalCost      decimal.Decimal `json:"total_cost"`
	MovementDate   string          `json:"movement_date" binding:"required"`
	Notes          *string         `json:"notes,omitempty"`
	ChangedBy      string          `json:"changed_by" binding:"required"`
}

type DeleteMovementRequest struct {
	DeletedBy string `json:"deleted_by" binding:"required"`
}
