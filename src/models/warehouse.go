package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ============ ENUMS & TYPES ============
type WarehouseItemKind string

const (
	ItemKindFabric    WarehouseItemKind = "fabric"
	ItemKindNotion    WarehouseItemKind = "notion"
	ItemKindPackaging WarehouseItemKind = "packaging"
)

type MovementReason string

const (
	ReasonReceipt    MovementReason = "receipt"
	ReasonIssue      MovementReason = "issue"
	ReasonAdjustment MovementReason = "adjustment"
	ReasonReturn     MovementReason = "return"
)

// WarehouseItem is a physically stocked material: fabric (tracked in rolls
// and meters) or notions/packaging materials (tracked in units).
type WarehouseItem struct {
	ID             uint              `gorm:"primaryKey;autoIncrement" json:"id"`
	OrganizationID uuid.UUID         `gorm:"type:uuid;not null;index:idx_wh_item_org_name,unique" json:"organization_id"`
	Kind           WarehouseItemKind `gorm:"type:varchar(20);not null" json:"kind"`
	Name           string            `gorm:"type:varchar(200);not null;index:idx_wh_item_org_name,unique" json:"name"`
	Unit           string            `gorm:"type:varchar(20);not null" json:"unit"`
	CreatedAt      time.Time         `json:"created_at"`
}

func (WarehouseItem) TableName() string {
	return "warehouse_items"
}

// WarehouseMovement is an append-only signed quantity/cost delta against one
// warehouse item. Superseded rows are soft-deleted, never rewritten: an edit
// reverses this row's delta on the balance and creates a replacement row.
type WarehouseMovement struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrganizationID uuid.UUID       `gorm:"type:uuid;not null;index:idx_wh_move_org_item_date" json:"organization_id"`
	ItemID         uint            `gorm:"not null;index:idx_wh_move_org_item_date" json:"item_id"`
	Reason         MovementReason  `gorm:"type:varchar(20);not null" json:"reason"`
	Rolls          decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"rolls"`
	Meters         decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"meters"`
	Qty            int             `gorm:"not null;default:0" json:"qty"`
	TotalCost      decimal.Decimal `gorm:"type:decimal(14,2);default:0" json:"total_cost"`
	MovementDate   time.Time       `gorm:"type:timestamp;not null;index:idx_wh_move_org_item_date" json:"movement_date"`
	RefID          *uuid.UUID      `gorm:"type:uuid;index" json:"ref_id,omitempty"`
	Notes          *string         `gorm:"type:text" json:"notes,omitempty"`

	// Audit trail
	CreatedBy string         `gorm:"type:varchar(100);not null" json:"created_by"`
	DeletedBy *string        `gorm:"type:varchar(100)" json:"deleted_by,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (WarehouseMovement) TableName() string {
	return "warehouse_movements"
}

// Delta expresses the movement's full effect on the balance.
func (m WarehouseMovement) Delta() Delta {
	return Delta{Rolls: m.Rolls, Meters: m.Meters, Qty: m.Qty, TotalCost: m.TotalCost}
}

// WarehouseBalance holds the running totals for one (organization, item).
// It is maintained incrementally by delta application and is never rebuilt
// by scanning movement history.
type WarehouseBalance struct {
	ID             uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	OrganizationID uuid.UUID        `gorm:"type:uuid;not null;index:idx_wh_balance_key,unique" json:"organization_id"`
	ItemID         uint             `gorm:"not null;index:idx_wh_balance_key,unique" json:"item_id"`
	RollsOnHand    decimal.Decimal  `gorm:"type:decimal(10,2);default:0" json:"rolls_on_hand"`
	MetersOnHand   decimal.Decimal  `gorm:"type:decimal(12,2);default:0" json:"meters_on_hand"`
	QtyOnHand      int              `gorm:"not null;default:0" json:"qty_on_hand"`
	TotalCost      decimal.Decimal  `gorm:"type:decimal(14,2);default:0" json:"total_cost"`
	CostPerMeter   *decimal.Decimal `gorm:"type:decimal(14,4)" json:"cost_per_meter,omitempty"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

func (WarehouseBalance) TableName() string {
	return "warehouse_balances"
}

func (b *WarehouseBalance) InitKey(orgID uuid.UUID, itemID uint) {
	b.OrganizationID = orgID
	b.ItemID = itemID
}

func (b *WarehouseBalance) ApplyDelta(d Delta) {
	b.RollsOnHand = b.RollsOnHand.Add(d.Rolls)
	b.MetersOnHand = b.MetersOnHand.Add(d.Meters)
	b.QtyOnHand += d.Qty
	b.TotalCost = b.TotalCost.Add(d.TotalCost)
	b.CostPerMeter = derivedUnitCost(b.TotalCost, b.MetersOnHand)
}
