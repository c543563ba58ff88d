package repositories

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/apaltseff-maker/igla-app-sub000/src/apperrors"
	"github.com/apaltseff-maker/igla-app-sub000/src/models"
)

type InvoiceRepository struct {
	DB *gorm.DB
}

// CutPosition is the production aggregate for one (product, color) under a
// cut: what was assigned to sewers versus what actually came back packed.
type CutPosition struct {
	ProductID  uint `json:"product_id"`
	ColorID    uint `json:"color_id"`
	PlannedQty int  `json:"planned_qty"`
	FinalQty   int  `json:"final_qty"`
	DefectQty  int  `json:"defect_qty"`
}

// CutPositions derives billable positions from the production ledger.
func (r *InvoiceRepository) CutPositions(tx *gorm.DB, orgID, cutID uuid.UUID) ([]CutPosition, error) {
	type aggRow struct {
		ProductID uint
		ColorID   uint
		Planned   int
		Final     int
		Defect    int
	}

	var assigned []aggRow
	err := tx.Table("assignments a").
		Select("b.product_id, b.color_id, COALESCE(SUM(a.qty), 0) AS planned").
		Joins("JOIN bundles b ON b.id = a.bundle_id").
		Where("b.organization_id = ? AND b.cut_id = ?", orgID, cutID).
		Group("b.product_id, b.color_id").
		Scan(&assigned).Error
	if err != nil {
		return nil, err
	}

	var packed []aggRow
	err = tx.Table("packaging_events p").
		Select("b.product_id, b.color_id, COALESCE(SUM(p.packed_qty), 0) AS final, COALESCE(SUM(p.defect_qty), 0) AS defect").
		Joins("JOIN bundles b ON b.id = p.bundle_id").
		Where("b.organization_id = ? AND b.cut_id = ?", orgID, cutID).
		Group("b.product_id, b.color_id").
		Scan(&packed).Error
	if err != nil {
		return nil, err
	}

	type key struct {
		product uint
		color   uint
	}
	byKey := make(map[key]*CutPosition)
	order := make([]key, 0, len(assigned))
	for _, a := range assigned {
		k := key{a.ProductID, a.ColorID}
		byKey[k] = &CutPosition{ProductID: a.ProductID, ColorID: a.ColorID, PlannedQty: a.Planned}
		order = append(order, k)
	}
	for _, p := range packed {
		k := key{p.ProductID, p.ColorID}
		pos, ok := byKey[k]
		if !ok {
			pos = &CutPosition{ProductID: p.ProductID, ColorID: p.ColorID}
			byKey[k] = pos
			order = append(order, k)
		}
		pos.FinalQty = p.Final
		pos.DefectQty = p.Defect
	}

	result := make([]CutPosition, 0, len(order))
	for _, k := range order {
		result = append(result, *byKey[k])
	}
	return result, nil
}

func (r *InvoiceRepository) GetCut(orgID, cutID uuid.UUID) (*models.Cut, error) {
	var c models.Cut
	err := r.DB.Where("id = ? AND organization_id = ?", cutID, orgID).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// LockInvoiceByCut fetches the cut's invoice FOR UPDATE, or reports not
// found. Line mutations and the idempotent upsert serialize on this row.
func (r *InvoiceRepository) LockInvoiceByCut(tx *gorm.DB, orgID, cutID uuid.UUID) (*models.Invoice, error) {
	var inv models.Invoice
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("organization_id = ? AND cut_id = ?", orgID, cutID).
		First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *InvoiceRepository) LockInvoice(tx *gorm.DB, orgID, invoiceID uuid.UUID) (*models.Invoice, error) {
	var inv models.Invoice
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND organization_id = ?", invoiceID, orgID).
		First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *InvoiceRepository) GetLines(tx *gorm.DB, invoiceID uuid.UUID) ([]models.InvoiceLine, error) {
	var lines []models.InvoiceLine
	err := tx.Where("invoice_id = ?", invoiceID).
		Order("created_at ASC").
		Find(&lines).Error
	return lines, err
}

// SuggestedPrices returns remembered prices per product for a counterparty.
func (r *InvoiceRepository) SuggestedPrices(orgID, counterpartyID uuid.UUID) (map[uint]decimal.Decimal, error) {
	var rows []models.PriceMemory
	err := r.DB.Where("organization_id = ? AND counterparty_id = ?", orgID, counterpartyID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	prices := make(map[uint]decimal.Decimal, len(rows))
	for _, row := range rows {
		prices[row.ProductID] = row.Price
	}
	return prices, nil
}

// RememberPrice upserts the agreed price into price memory.
func (r *InvoiceRepository) RememberPrice(tx *gorm.DB, orgID, counterpartyID uuid.UUID, productID uint, price decimal.Decimal) error {
	pm := models.PriceMemory{
		OrganizationID: orgID,
		CounterpartyID: counterpartyID,
		ProductID:      productID,
		Price:          price,
		UpdatedAt:      time.Now(),
	}
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "organization_id"},
			{Name: "counterparty_id"},
			{Name: "product_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"price", "updated_at"}),
	}).Create(&pm).Error
}
