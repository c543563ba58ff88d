package requests

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PositionPriceRequest struct {
	ProductID uint            `json:"product_id" binding:"required"`
	ColorID   uint            `json:"color_id" binding:"required"`
	Price     decimal.Decimal `json:"price"`
}

type UpsertInvoiceRequest struct {
	OrganizationID  uuid.UUID              `json:"organization_id" binding:"required"`
	CutID           uuid.UUID              `json:"cut_id" binding:"required"`
	CounterpartyID  uuid.UUID              `json:"counterparty_id" binding:"required"`
	Number          string                 `json:"number,omitempty"`
	Prices          []PositionPriceRequest `json:"prices" binding:"dive"`
	AllowIncomplete bool                   `json:"allow_incomplete"`
}

type LineDiffRequest struct {
	LineID          *uuid.UUID      `json:"line_id,omitempty"`
	Delete          bool            `json:"delete,omitempty"`
	LineType        string          `json:"line_type" binding:"omitempty,oneof=work service inventory"`
	Description     string          `json:"description,omitempty"`
	InventoryItemID *uint           `json:"inventory_item_id,omitempty"`
	Qty             int             `json:"qty,omitempty"`
	Price           decimal.Decimal `json:"price"`
	Amount          decimal.Decimal `json:"amount"`
}

type UpdateLinesRequest struct {
	OrganizationID uuid.UUID         `json:"organization_id" binding:"required"`
	ChangedBy      string            `json:"changed_by" binding:"required"`
	Lines          []LineDiffRequest `json:"lines" binding:"required,min=1,dive"`
}

type SetInvoiceStatusRequest struct {
	OrganizationID uuid.UUID `json:"organization_id" binding:"required"`
	Status         string    `json:"status" binding:"required,oneof=draft final"`
}
