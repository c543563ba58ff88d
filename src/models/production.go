package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ============ ENUMS & TYPES ============
type BundleStatus string

const (
	BundleNotAssigned BundleStatus = "not_assigned"
	BundleInProgress  BundleStatus = "in_progress"
	BundleComplete    BundleStatus = "complete"
)

type AssignmentSource string

const (
	SourceManual            AssignmentSource = "manual"
	SourceAutoFromPackaging AssignmentSource = "auto_from_packaging"
)

// ============ CUTTING ============

// Cut is one cutting job. RollsUsed is the only fractional quantity in the
// production chain: it is validated against fabric stock at record time and
// never enters the downstream conservation chain.
type Cut struct {
	ID             uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrganizationID uuid.UUID        `gorm:"type:uuid;not null;index:idx_cut_org_number,unique" json:"organization_id"`
	Number         string           `gorm:"type:varchar(50);not null;index:idx_cut_org_number,unique" json:"number"`
	CutDate        time.Time        `gorm:"type:timestamp;not null" json:"cut_date"`
	FabricItemID   *uint            `gorm:"index" json:"fabric_item_id,omitempty"`
	RollsUsed      decimal.Decimal  `gorm:"type:decimal(10,2);default:0" json:"rolls_used"`
	CreatedAt      time.Time        `json:"created_at"`
}

func (Cut) TableName() string {
	return "cuts"
}

// Bundle is a fixed-capacity batch of cut pieces. Capacity may change only
// while nothing references the bundle; afterwards it is the upper bound of
// the whole assignment/packaging chain.
type Bundle struct {
	ID             uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrganizationID uuid.UUID        `gorm:"type:uuid;not null;index:idx_bundle_org_lot,unique" json:"organization_id"`
	CutID          uuid.UUID        `gorm:"type:uuid;not null;index" json:"cut_id"`
	LotNumber      string           `gorm:"type:varchar(50);not null;index:idx_bundle_org_lot,unique" json:"lot_number"`
	ProductID      uint             `gorm:"not null;index" json:"product_id"`
	ColorID        uint             `gorm:"not null;index" json:"color_id"`
	Size           string           `gorm:"type:varchar(20)" json:"size"`
	Capacity       int              `gorm:"not null" json:"capacity"`
	Rate           *decimal.Decimal `gorm:"type:decimal(12,2)" json:"rate,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

func (Bundle) TableName() string {
	return "bundles"
}

// Assignment claims part of a bundle's capacity for one worker. Rows with
// SourceAutoFromPackaging were inferred from a packaging event that closed
// more than the worker had been assigned.
type Assignment struct {
	ID             uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrganizationID uuid.UUID        `gorm:"type:uuid;not null;index:idx_assignment_org_bundle" json:"organization_id"`
	BundleID       uuid.UUID        `gorm:"type:uuid;not null;index:idx_assignment_org_bundle" json:"bundle_id"`
	WorkerID       uuid.UUID        `gorm:"type:uuid;not null;index" json:"worker_id"`
	Qty            int              `gorm:"not null" json:"qty"`
	Source         AssignmentSource `gorm:"type:varchar(30);not null;default:manual" json:"source"`
	AssignedAt     time.Time        `gorm:"type:timestamp;not null" json:"assigned_at"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

func (Assignment) TableName() string {
	return "assignments"
}

// PackagingEvent records completed output of one worker against one bundle.
// It closes quantity: closed = packed + defect.
type PackagingEvent struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index:idx_packaging_org_bundle" json:"organization_id"`
	BundleID       uuid.UUID `gorm:"type:uuid;not null;index:idx_packaging_org_bundle" json:"bundle_id"`
	WorkerID       uuid.UUID `gorm:"type:uuid;not null;index" json:"worker_id"`
	PackedQty      int       `gorm:"not null" json:"packed_qty"`
	DefectQty      int       `gorm:"not null" json:"defect_qty"`
	PackedAt       time.Time `gorm:"type:timestamp;not null" json:"packed_at"`
	CreatedAt      time.Time `json:"created_at"`
}

func (PackagingEvent) TableName() string {
	return "packaging_events"
}

func (e PackagingEvent) Closed() int {
	return e.PackedQty + e.DefectQty
}

// ============ CONSERVATION MATH ============

// BundleTotals is a read-time aggregate over one bundle: total assigned
// quantity and total closed (packed + defect) quantity across all workers.
type BundleTotals struct {
	Capacity int `json:"capacity"`
	Assigned int `json:"assigned"`
	Closed   int `json:"closed"`
}

// Status derives the bundle state. It is never stored.
func (t BundleTotals) Status() BundleStatus {
	switch {
	case t.Assigned == 0:
		return BundleNotAssigned
	case t.Closed >= t.Assigned && t.Assigned >= t.Capacity:
		return BundleComplete
	default:
		return BundleInProgress
	}
}

// CanAssign reports whether addQty more assigned pieces still fit under the
// bundle capacity.
func (t BundleTotals) CanAssign(addQty int) bool {
	return t.Assigned+addQty <= t.Capacity
}

// CanClose reports whether addClosed more closed pieces keep the bundle-wide
// invariant sum(closed) <= capacity.
func (t BundleTotals) CanClose(addClosed int) bool {
	return t.Closed+addClosed <= t.Capacity
}

// WorkerTotals is the same aggregate narrowed to one (bundle, worker) pair.
type WorkerTotals struct {
	Assigned int `json:"assigned"`
	Closed   int `json:"closed"`
}

// Shortfall is the assignment quantity that has to be auto-created so that
// addClosed more closed pieces stay within the worker's assigned quantity.
// Zero when the existing assignment already covers it.
func (w WorkerTotals) Shortfall(addClosed int) int {
	s := w.Closed + addClosed - w.Assigned
	if s < 0 {
		return 0
	}
	return s
}

// ============ PARTY NUMBERS ============

// FormatPartyNumber renders the de facto wire format "<lot_no>-<worker_code>".
func FormatPartyNumber(lotNumber, workerCode string) string {
	return fmt.Sprintf("%s-%s", lotNumber, workerCode)
}

// ParsePartyNumber splits a party number on the last hyphen, since lot
// numbers themselves may contain hyphens.
func ParsePartyNumber(s string) (lotNumber, workerCode string, err error) {
	i := strings.LastIndex(s, "-")
	if i <= 0 || i == len(s)-1 {
		return "", "", fmt.Errorf("invalid party number %q", s)
	}
	return s[:i], s[i+1:], nil
}
