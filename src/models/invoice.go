package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ============ ENUMS & TYPES ============
type InvoiceStatus string

const (
	InvoiceDraft InvoiceStatus = "draft"
	InvoiceFinal InvoiceStatus = "final"
)

type InvoiceLineType string

const (
	LineTypeWork      InvoiceLineType = "work"
	LineTypeService   InvoiceLineType = "service"
	LineTypeInventory InvoiceLineType = "inventory"
)

// Invoice bills the sewing work of one cut to one counterparty. There is at
// most one invoice per (organization, cut): create-or-update is idempotent
// by cut id. Total is always the sum of the persisted lines for the status
// basis, never of an in-memory diff.
type Invoice struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrganizationID uuid.UUID       `gorm:"type:uuid;not null;index:idx_invoice_org_cut,unique" json:"organization_id"`
	CutID          uuid.UUID       `gorm:"type:uuid;not null;index:idx_invoice_org_cut,unique" json:"cut_id"`
	CounterpartyID uuid.UUID       `gorm:"type:uuid;not null;index" json:"counterparty_id"`
	Number         string          `gorm:"type:varchar(50);not null" json:"number"`
	Status         InvoiceStatus   `gorm:"type:varchar(20);not null;default:draft" json:"status"`
	Total          decimal.Decimal `gorm:"type:decimal(14,2);default:0" json:"total"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	Lines []InvoiceLine `gorm:"foreignKey:InvoiceID" json:"lines,omitempty"`
}

func (Invoice) TableName() string {
	return "invoices"
}

// Basis selects which amount column of work lines enters the total: planned
// while the invoice is a draft, final once issued.
func (i Invoice) Basis() InvoiceStatus {
	if i.Status == InvoiceFinal {
		return InvoiceFinal
	}
	return InvoiceDraft
}

// InvoiceLine is one billable row. Work lines are derived from the
// production ledger per (product, color); service lines are free-form;
// inventory lines reference a stocked item and mirror their qty into the
// inventory ledger.
type InvoiceLine struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InvoiceID uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	LineType  InvoiceLineType `gorm:"type:varchar(20);not null" json:"line_type"`

	// Work lines
	ProductID     *uint           `gorm:"index" json:"product_id,omitempty"`
	ColorID       *uint           `json:"color_id,omitempty"`
	PlannedQty    int             `gorm:"not null;default:0" json:"planned_qty"`
	FinalQty      int             `gorm:"not null;default:0" json:"final_qty"`
	DefectQty     int             `gorm:"not null;default:0" json:"defect_qty"`
	Price         decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"price"`
	PlannedAmount decimal.Decimal `gorm:"type:decimal(14,2);default:0" json:"planned_amount"`
	FinalAmount   decimal.Decimal `gorm:"type:decimal(14,2);default:0" json:"final_amount"`

	// Service and inventory lines
	Description     string          `gorm:"type:varchar(300)" json:"description"`
	InventoryItemID *uint           `gorm:"index" json:"inventory_item_id,omitempty"`
	Qty             int             `gorm:"not null;default:0" json:"qty"`
	Amount          decimal.Decimal `gorm:"type:decimal(14,2);default:0" json:"amount"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (InvoiceLine) TableName() string {
	return "invoice_lines"
}

// AmountForBasis picks the line's contribution to the invoice total.
func (l InvoiceLine) AmountForBasis(basis InvoiceStatus) decimal.Decimal {
	if l.LineType != LineTypeWork {
		return l.Amount
	}
	if basis == InvoiceFinal {
		return l.FinalAmount
	}
	return l.PlannedAmount
}

// InvoiceTotal folds the persisted lines into the stored invoice total.
func InvoiceTotal(lines []InvoiceLine, basis InvoiceStatus) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.AmountForBasis(basis))
	}
	return total.Round(2)
}

// LineAmount is the rounded money amount of qty pieces at price.
func LineAmount(qty int, price decimal.Decimal) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(qty))).Round(2)
}
