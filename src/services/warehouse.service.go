package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/apaltseff-maker/igla-app-sub000/src/apperrors"
	"github.com/apaltseff-maker/igla-app-sub000/src/models"
	"github.com/apaltseff-maker/igla-app-sub000/src/repositories"
)

// ============ REQUEST STRUCTS ============
type CreateWarehouseMovementRequest struct {
	OrganizationID uuid.UUID
	ItemID         uint
	Reason         models.MovementReason
	Rolls          decimal.Decimal
	Meters         decimal.Decimal
	Qty            int
	TotalCost      decimal.Decimal
	MovementDate   time.Time
	RefID          *uuid.UUID
	Notes          *string
	CreatedBy      string
}

type UpdateWarehouseMovementRequest struct {
	MovementID     uuid.UUID
	OrganizationID uuid.UUID
	Reason         models.MovementReason
	Rolls          decimal.Decimal
	Meters         decimal.Decimal
	Qty            int
	TotalCost      decimal.Decimal
	MovementDate   time.Time
	Notes          *string
	ChangedBy      string
}

// ============ WAREHOUSE SERVICE ============

// WarehouseService keeps the fabric/notion/packaging-material ledger. Every
// mutation is one transaction: the movement row and the balance fold commit
// together. Corrections follow reversal-then-reapply (see correctMovement).
type WarehouseService struct {
	DB   *gorm.DB
	Repo *repositories.WarehouseRepository
	Log  *logrus.Logger
}

func (s *WarehouseService) CreateItem(orgID uuid.UUID, kind models.WarehouseItemKind, name, unit string) (*models.WarehouseItem, error) {
	item := &models.WarehouseItem{
		OrganizationID: orgID,
		Kind:           kind,
		Name:           name,
		Unit:           unit,
	}
	if err := s.DB.Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (s *WarehouseService) GetBalance(orgID uuid.UUID, itemID uint) (*models.WarehouseBalance, error) {
	if _, err := s.Repo.GetItem(orgID, itemID); err != nil {
		return nil, err
	}
	return repositories.GetBalance[models.WarehouseBalance](s.DB, orgID, itemID)
}

func (s *WarehouseService) GetMovements(orgID uuid.UUID, itemID uint,
	fromDate, toDate time.Time, page, limit int) ([]models.WarehouseMovement, int64, error) {
	return s.Repo.GetMovements(orgID, itemID, fromDate, toDate, page, limit)
}

func (s *WarehouseService) GetOrganizationSummary(orgID uuid.UUID) ([]map[string]interface{}, error) {
	return s.Repo.GetOrganizationSummary(orgID)
}

// CreateMovement appends a movement and folds its delta into the balance.
func (s *WarehouseService) CreateMovement(req CreateWarehouseMovementRequest) (*models.WarehouseMovement, error) {
	if _, err := s.Repo.GetItem(req.OrganizationID, req.ItemID); err != nil {
		return nil, err
	}

	m := &models.WarehouseMovement{
		OrganizationID: req.OrganizationID,
		ItemID:         req.ItemID,
		Reason:         req.Reason,
		Rolls:          req.Rolls,
		Meters:         req.Meters,
		Qty:            req.Qty,
		TotalCost:      req.TotalCost,
		MovementDate:   req.MovementDate,
		RefID:          req.RefID,
		Notes:          req.Notes,
		CreatedBy:      req.CreatedBy,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		return s.postMovementTx(tx, m)
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// UpdateMovement supersedes a movement: the old delta is reversed on the
// balance in full, the old row is soft-deleted for audit, and a replacement
// row with the new delta is posted. Derived cost-per-meter falls out of the
// folded totals on each apply; it is never diffed between old and new values.
func (s *WarehouseService) UpdateMovement(req UpdateWarehouseMovementRequest) (*models.WarehouseMovement, error) {
	var created *models.WarehouseMovement

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		old, err := s.Repo.GetMovement(tx, req.OrganizationID, req.MovementID)
		if err != nil {
			return err
		}

		replacement := &models.WarehouseMovement{
			OrganizationID: old.OrganizationID,
			ItemID:         old.ItemID,
			Reason:         req.Reason,
			Rolls:          req.Rolls,
			Meters:         req.Meters,
			Qty:            req.Qty,
			TotalCost:      req.TotalCost,
			MovementDate:   req.MovementDate,
			RefID:          old.RefID,
			Notes:          req.Notes,
			CreatedBy:      req.ChangedBy,
		}

		created = replacement
		return s.correctMovement(tx, old, replacement, req.ChangedBy)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// DeleteMovement reverses the movement's delta and soft-deletes the row.
func (s *WarehouseService) DeleteMovement(orgID, movementID uuid.UUID, deletedBy string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		old, err := s.Repo.GetMovement(tx, orgID, movementID)
		if err != nil {
			return err
		}
		return s.correctMovement(tx, old, nil, deletedBy)
	})
}

// correctMovement is the movement correction protocol: (1) negate the old
// delta, (2) fold the negation into the balance, (3) fold the replacement
// delta in, if any. The balance row stays locked across both folds, so the
// intermediate reversed state is never observable.
func (s *WarehouseService) correctMovement(tx *gorm.DB, old *models.WarehouseMovement, replacement *models.WarehouseMovement, changedBy string) error {
	bal, err := repositories.ApplyDelta[models.WarehouseBalance](tx, old.OrganizationID, old.ItemID, old.Delta().Negate())
	if err != nil {
		return err
	}

	old.DeletedBy = &changedBy
	old.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	if err := tx.Save(old).Error; err != nil {
		return err
	}

	if replacement != nil {
		return s.postMovementTx(tx, replacement)
	}

	if balanceNegative(bal) {
		return fmt.Errorf("%w: removing movement would leave item %d negative", apperrors.ErrInsufficientStock, old.ItemID)
	}

	s.Log.WithFields(logrus.Fields{
		"movement_id": old.ID,
		"item_id":     old.ItemID,
	}).Info("warehouse movement reversed")
	return nil
}

// postMovementTx inserts the movement and folds its delta into the balance
// within the caller's transaction. Issues that would drive any on-hand figure
// negative are rejected, which rolls back every write of the transaction.
func (s *WarehouseService) postMovementTx(tx *gorm.DB, m *models.WarehouseMovement) error {
	if err := validateMovement(m.Reason, m.Delta()); err != nil {
		return err
	}

	bal, err := repositories.ApplyDelta[models.WarehouseBalance](tx, m.OrganizationID, m.ItemID, m.Delta())
	if err != nil {
		return err
	}
	if balanceNegative(bal) {
		return fmt.Errorf("%w: item %d", apperrors.ErrInsufficientStock, m.ItemID)
	}

	return tx.Create(m).Error
}

func balanceNegative(b *models.WarehouseBalance) bool {
	return b.QtyOnHand < 0 || b.RollsOnHand.IsNegative() || b.MetersOnHand.IsNegative() || b.TotalCost.IsNegative()
}

// validateMovement rejects deltas whose sign contradicts the stated reason.
func validateMovement(reason models.MovementReason, d models.Delta) error {
	if d.IsZero() {
		return errors.New("movement delta cannot be zero")
	}
	switch reason {
	case models.ReasonReceipt, models.ReasonReturn:
		if d.Qty < 0 || d.Rolls.IsNegative() || d.Meters.IsNegative() {
			return fmt.Errorf("%s movement must not be negative", reason)
		}
	case models.ReasonIssue:
		if d.Qty > 0 || d.Rolls.IsPositive() || d.Meters.IsPositive() {
			return fmt.Errorf("issue movement must not be positive")
		}
	case models.ReasonAdjustment:
		// either sign
	default:
		return fmt.Errorf("invalid movement reason %q", reason)
	}
	return nil
}
