package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InventoryItem is a generic stocked item that invoice lines may consume
// (sold or billed materials). Same ledger shape as the warehouse, unit
// quantities only.
type InventoryItem struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index:idx_inv_item_org_code,unique" json:"organization_id"`
	Code           string    `gorm:"type:varchar(50);not null;index:idx_inv_item_org_code,unique" json:"code"`
	Name           string    `gorm:"type:varchar(200);not null" json:"name"`
	Unit           string    `gorm:"type:varchar(20);not null" json:"unit"`
	CreatedAt      time.Time `json:"created_at"`
}

func (InventoryItem) TableName() string {
	return "inventory_items"
}

// InventoryMovement mirrors WarehouseMovement for generic stocked items.
// Movements driven by invoice lines carry the line id so reconciliation can
// post exact compensating deltas on line edits.
type InventoryMovement struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrganizationID uuid.UUID       `gorm:"type:uuid;not null;index:idx_inv_move_org_item_date" json:"organization_id"`
	ItemID         uint            `gorm:"not null;index:idx_inv_move_org_item_date" json:"item_id"`
	Reason         MovementReason  `gorm:"type:varchar(20);not null" json:"reason"`
	Qty            int             `gorm:"not null" json:"qty"`
	TotalCost      decimal.Decimal `gorm:"type:decimal(14,2);default:0" json:"total_cost"`
	MovementDate   time.Time       `gorm:"type:timestamp;not null;index:idx_inv_move_org_item_date" json:"movement_date"`
	InvoiceLineID  *uuid.UUID      `gorm:"type:uuid;index" json:"invoice_line_id,omitempty"`
	Notes          *string         `gorm:"type:text" json:"notes,omitempty"`

	// Audit trail
	CreatedBy string         `gorm:"type:varchar(100);not null" json:"created_by"`
	DeletedBy *string        `gorm:"type:varchar(100)" json:"deleted_by,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (InventoryMovement) TableName() string {
	return "inventory_movements"
}

func (m InventoryMovement) Delta() Delta {
	return Delta{Qty: m.Qty, TotalCost: m.TotalCost}
}

// InventoryBalance holds running totals per (organization, item), maintained
// incrementally like WarehouseBalance.
type InventoryBalance struct {
	ID             uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	OrganizationID uuid.UUID        `gorm:"type:uuid;not null;index:idx_inv_balance_key,unique" json:"organization_id"`
	ItemID         uint             `gorm:"not null;index:idx_inv_balance_key,unique" json:"item_id"`
	QtyOnHand      int              `gorm:"not null;default:0" json:"qty_on_hand"`
	TotalCost      decimal.Decimal  `gorm:"type:decimal(14,2);default:0" json:"total_cost"`
	CostPerUnit    *decimal.Decimal `gorm:"type:decimal(14,4)" json:"cost_per_unit,omitempty"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

func (InventoryBalance) TableName() string {
	return "inventory_balances"
}

func (b *InventoryBalance) InitKey(orgID uuid.UUID, itemID uint) {
	b.OrganizationID = orgID
	b.ItemID = itemID
}

func (b *InventoryBalance) ApplyDelta(d Delta) {
	b.QtyOnHand += d.Qty
	b.TotalCost = b.TotalCost.Add(d.TotalCost)
	b.CostPerUnit = derivedUnitCost(b.TotalCost, decimal.NewFromInt(int64(b.QtyOnHand)))
}
