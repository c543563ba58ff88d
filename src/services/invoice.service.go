package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/apaltseff-maker/igla-app-sub000/src/apperrors"
	"github.com/apaltseff-maker/igla-app-sub000/src/models"
	"github.com/apaltseff-maker/igla-app-sub000/src/repositories"
)

// ============ REQUEST STRUCTS ============
type PositionPrice struct {
	ProductID uint
	ColorID   uint
	Price     decimal.Decimal
}

type UpsertInvoiceRequest struct {
	OrganizationID  uuid.UUID
	CutID           uuid.UUID
	CounterpartyID  uuid.UUID
	Number          string
	Prices          []PositionPrice
	AllowIncomplete bool
}

// LineDiff describes one mutation of an invoice line. LineID nil means
// insert; Delete true means remove.
type LineDiff struct {
	LineID          *uuid.UUID
	Delete          bool
	LineType        models.InvoiceLineType
	Description     string
	InventoryItemID *uint
	Qty             int
	Price           decimal.Decimal
	Amount          decimal.Decimal
}

// PreviewRow is one billable (product, color) position derived from the
// production ledger, with the remembered price pre-filled.
type PreviewRow struct {
	repositories.CutPosition
	SuggestedPrice *decimal.Decimal `json:"suggested_price,omitempty"`
}

// ============ INVOICE SERVICE ============

// InvoiceService reconciles billable quantities out of the production ledger
// and keeps inventory-consuming lines mirrored into the inventory ledger.
type InvoiceService struct {
	DB        *gorm.DB
	Repo      *repositories.InvoiceRepository
	Inventory *InventoryService
	Log       *logrus.Logger
}

// PreviewByCut derives the billable positions of a cut.
func (s *InvoiceService) PreviewByCut(orgID, cutID, counterpartyID uuid.UUID) ([]PreviewRow, error) {
	if _, err := s.Repo.GetCut(orgID, cutID); err != nil {
		return nil, err
	}
	positions, err := s.Repo.CutPositions(s.DB, orgID, cutID)
	if err != nil {
		return nil, err
	}
	prices, err := s.Repo.SuggestedPrices(orgID, counterpartyID)
	if err != nil {
		return nil, err
	}

	rows := make([]PreviewRow, 0, len(positions))
	for _, pos := range positions {
		row := PreviewRow{CutPosition: pos}
		if p, ok := prices[pos.ProductID]; ok {
			row.SuggestedPrice = &p
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// CreateOrUpdateInvoice upserts the one invoice of a cut: work lines are
// replaced wholesale from the current production aggregates, service and
// inventory lines are left untouched, the total is recomputed from the
// persisted lines and the agreed prices go into price memory.
func (s *InvoiceService) CreateOrUpdateInvoice(req UpsertInvoiceRequest) (*models.Invoice, error) {
	if _, err := s.Repo.GetCut(req.OrganizationID, req.CutID); err != nil {
		return nil, err
	}

	type positionKey struct {
		productID uint
		colorID   uint
	}
	priceByPosition := make(map[positionKey]decimal.Decimal, len(req.Prices))
	for _, p := range req.Prices {
		priceByPosition[positionKey{p.ProductID, p.ColorID}] = p.Price
	}

	var invoice *models.Invoice
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		positions, err := s.Repo.CutPositions(tx, req.OrganizationID, req.CutID)
		if err != nil {
			return err
		}

		if !req.AllowIncomplete {
			for _, pos := range positions {
				price := priceByPosition[positionKey{pos.ProductID, pos.ColorID}]
				if pos.PlannedQty > 0 && !price.IsPositive() {
					return fmt.Errorf("%w: product %d color %d",
						apperrors.ErrMissingPrice, pos.ProductID, pos.ColorID)
				}
			}
		}

		invoice, err = s.Repo.LockInvoiceByCut(tx, req.OrganizationID, req.CutID)
		if errors.Is(err, apperrors.ErrNotFound) {
			invoice = &models.Invoice{
				OrganizationID: req.OrganizationID,
				CutID:          req.CutID,
				CounterpartyID: req.CounterpartyID,
				Number:         req.Number,
				Status:         models.InvoiceDraft,
			}
			if err := tx.Create(invoice).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		} else {
			invoice.CounterpartyID = req.CounterpartyID
			if req.Number != "" {
				invoice.Number = req.Number
			}
		}

		// Work lines are derived state: drop and rebuild.
		err = tx.Where("invoice_id = ? AND line_type = ?", invoice.ID, models.LineTypeWork).
			Delete(&models.InvoiceLine{}).Error
		if err != nil {
			return err
		}

		for _, pos := range positions {
			price := priceByPosition[positionKey{pos.ProductID, pos.ColorID}]
			productID := pos.ProductID
			colorID := pos.ColorID
			line := models.InvoiceLine{
				InvoiceID:     invoice.ID,
				LineType:      models.LineTypeWork,
				ProductID:     &productID,
				ColorID:       &colorID,
				PlannedQty:    pos.PlannedQty,
				FinalQty:      pos.FinalQty,
				DefectQty:     pos.DefectQty,
				Price:         price,
				PlannedAmount: models.LineAmount(pos.PlannedQty, price),
				FinalAmount:   models.LineAmount(pos.FinalQty, price),
			}
			if err := tx.Create(&line).Error; err != nil {
				return err
			}

			if price.IsPositive() {
				if err := s.Repo.RememberPrice(tx, req.OrganizationID, req.CounterpartyID, pos.ProductID, price); err != nil {
					return err
				}
			}
		}

		return s.recomputeTotalTx(tx, invoice)
	})
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

// UpdateLines applies service/inventory line mutations. Inventory lines are
// mirrored into the inventory ledger by exact deltas relative to the
// persisted state, never by blind re-issue of the new quantity.
func (s *InvoiceService) UpdateLines(orgID, invoiceID uuid.UUID, diffs []LineDiff, changedBy string) (*models.Invoice, error) {
	var invoice *models.Invoice

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		invoice, err = s.Repo.LockInvoice(tx, orgID, invoiceID)
		if err != nil {
			return err
		}

		for _, diff := range diffs {
			switch {
			case diff.Delete:
				err = s.deleteLineTx(tx, invoice, diff, changedBy)
			case diff.LineID == nil:
				err = s.insertLineTx(tx, invoice, diff, changedBy)
			default:
				err = s.updateLineTx(tx, invoice, diff, changedBy)
			}
			if err != nil {
				return err
			}
		}

		return s.recomputeTotalTx(tx, invoice)
	})
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

// SetStatus switches the billing basis and recomputes the total under it.
func (s *InvoiceService) SetStatus(orgID, invoiceID uuid.UUID, status models.InvoiceStatus) (*models.Invoice, error) {
	if status != models.InvoiceDraft && status != models.InvoiceFinal {
		return nil, fmt.Errorf("invalid invoice status %q", status)
	}

	var invoice *models.Invoice
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		invoice, err = s.Repo.LockInvoice(tx, orgID, invoiceID)
		if err != nil {
			return err
		}
		invoice.Status = status
		return s.recomputeTotalTx(tx, invoice)
	})
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

func (s *InvoiceService) GetInvoice(orgID, invoiceID uuid.UUID) (*models.Invoice, error) {
	var invoice models.Invoice
	err := s.DB.Preload("Lines").
		Where("id = ? AND organization_id = ?", invoiceID, orgID).
		First(&invoice).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// ============ PRIVATE HELPERS ============

func (s *InvoiceService) deleteLineTx(tx *gorm.DB, invoice *models.Invoice, diff LineDiff, changedBy string) error {
	line, err := s.getLineTx(tx, invoice.ID, *diff.LineID)
	if err != nil {
		return err
	}
	if line.LineType == models.LineTypeInventory && line.InventoryItemID != nil && line.Qty > 0 {
		// Return the consumed stock before the line disappears.
		err = s.Inventory.PostLineMovementTx(tx, invoice.OrganizationID, *line.InventoryItemID,
			line.Qty, models.ReasonReturn, line.ID, changedBy)
		if err != nil {
			return err
		}
	}
	return tx.Delete(line).Error
}

func (s *InvoiceService) insertLineTx(tx *gorm.DB, invoice *models.Invoice, diff LineDiff, changedBy string) error {
	if diff.LineType != models.LineTypeService && diff.LineType != models.LineTypeInventory {
		return errors.New("only service and inventory lines can be added; work lines come from the cut preview")
	}

	line := models.InvoiceLine{
		InvoiceID:       invoice.ID,
		LineType:        diff.LineType,
		Description:     diff.Description,
		InventoryItemID: diff.InventoryItemID,
		Qty:             diff.Qty,
		Price:           diff.Price,
		Amount:          diff.Amount,
	}
	if diff.LineType == models.LineTypeInventory {
		if diff.InventoryItemID == nil {
			return errors.New("inventory line requires an item")
		}
		if diff.Qty <= 0 {
			return errors.New("inventory line qty must be positive")
		}
		line.Amount = models.LineAmount(diff.Qty, diff.Price)
	}
	if err := tx.Create(&line).Error; err != nil {
		return err
	}

	if line.LineType == models.LineTypeInventory {
		return s.Inventory.PostLineMovementTx(tx, invoice.OrganizationID, *line.InventoryItemID,
			-line.Qty, models.ReasonIssue, line.ID, changedBy)
	}
	return nil
}

func (s *InvoiceService) updateLineTx(tx *gorm.DB, invoice *models.Invoice, diff LineDiff, changedBy string) error {
	line, err := s.getLineTx(tx, invoice.ID, *diff.LineID)
	if err != nil {
		return err
	}
	if line.LineType == models.LineTypeWork {
		return errors.New("work lines are managed from the cut preview")
	}

	if line.LineType == models.LineTypeInventory {
		if diff.InventoryItemID == nil {
			return errors.New("inventory line requires an item")
		}
		if diff.Qty <= 0 {
			return errors.New("inventory line qty must be positive")
		}
		for _, mv := range InventoryLineDiff(line.InventoryItemID, diff.InventoryItemID, line.Qty, diff.Qty) {
			err = s.Inventory.PostLineMovementTx(tx, invoice.OrganizationID, mv.ItemID,
				mv.Qty, mv.Reason, line.ID, changedBy)
			if err != nil {
				return err
			}
		}
		line.InventoryItemID = diff.InventoryItemID
		line.Qty = diff.Qty
		line.Price = diff.Price
		line.Amount = models.LineAmount(diff.Qty, diff.Price)
	} else {
		line.Qty = diff.Qty
		line.Price = diff.Price
		line.Amount = diff.Amount
	}
	line.Description = diff.Description

	return tx.Save(line).Error
}

func (s *InvoiceService) getLineTx(tx *gorm.DB, invoiceID, lineID uuid.UUID) (*models.InvoiceLine, error) {
	var line models.InvoiceLine
	err := tx.Where("id = ? AND invoice_id = ?", lineID, invoiceID).First(&line).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// recomputeTotalTx reloads the persisted lines and stores their fold as the
// invoice total. The in-memory diff is never trusted for totals.
func (s *InvoiceService) recomputeTotalTx(tx *gorm.DB, invoice *models.Invoice) error {
	lines, err := s.Repo.GetLines(tx, invoice.ID)
	if err != nil {
		return err
	}
	invoice.Total = models.InvoiceTotal(lines, invoice.Basis())
	return tx.Save(invoice).Error
}

// ============ LINE DIFF MATH ============

// LineMovement is one compensating inventory-ledger posting derived from an
// invoice line mutation.
type LineMovement struct {
	ItemID uint
	Qty    int
	Reason models.MovementReason
}

// InventoryLineDiff computes the exact compensating movements for an
// inventory line edit. Same item: a single movement for the quantity delta.
// Item changed: full return of the old quantity plus full issue of the new.
// Qty follows ledger sign convention (issues negative, returns positive).
func InventoryLineDiff(oldItemID, newItemID *uint, oldQty, newQty int) []LineMovement {
	if oldItemID == nil || newItemID == nil {
		return nil
	}

	if *oldItemID != *newItemID {
		moves := make([]LineMovement, 0, 2)
		if oldQty > 0 {
			moves = append(moves, LineMovement{ItemID: *oldItemID, Qty: oldQty, Reason: models.ReasonReturn})
		}
		if newQty > 0 {
			moves = append(moves, LineMovement{ItemID: *newItemID, Qty: -newQty, Reason: models.ReasonIssue})
		}
		return moves
	}

	switch delta := newQty - oldQty; {
	case delta > 0:
		return []LineMovement{{ItemID: *newItemID, Qty: -delta, Reason: models.ReasonIssue}}
	case delta < 0:
		return []LineMovement{{ItemID: *newItemID, Qty: -delta, Reason: models.ReasonReturn}}
	default:
		return nil
	}
}
