package services

import (
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
type CreateInventoryMovementRequest struct {
	OrganizationID uuid.UUID
	ItemID         uint
	Reason         models.MovementReason
	Qty            int
	TotalCost      decimal.Decimal
	MovementDate   time.Time
	Notes          *string
	CreatedBy      string
}

type UpdateInventoryMovementRequest struct {
	MovementID     uuid.UUID
	OrganizationID uuid.UUID
	Reason         models.MovementReason
	Qty            int
	TotalCost      decimal.Decimal
	MovementDate   time.Time
	Notes          *string
	ChangedBy      string
}

// ============ INVENTORY SERVICE ============

// InventoryService keeps the generic stocked-item ledger. Shape and
// correction protocol are identical to the warehouse ledger; invoice
// reconciliation posts its compensating movements through here.
type InventoryService struct {
	DB   *gorm.DB
	Repo *repositories.InventoryRepository
	Log  *logrus.Logger
}

func (s *InventoryService) CreateItem(orgID uuid.UUID, code, name, unit string) (*models.InventoryItem, error) {
	item := &models.InventoryItem{
		OrganizationID: orgID,
		Code:           code,
		Name:           name,
		Unit:           unit,
	}
	if err := s.DB.Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (s *InventoryService) GetBalance(orgID uuid.UUID, itemID uint) (*models.InventoryBalance, error) {
	if _, err := s.Repo.GetItem(orgID, itemID); err != nil {
		return nil, err
	}
	return repositories.GetBalance[models.InventoryBalance](s.DB, orgID, itemID)
}

func (s *InventoryService) GetMovements(orgID uuid.UUID, itemID uint,
	fromDate, toDate time.Time, page, limit int) ([]models.InventoryMovement, int64, error) {
	return s.Repo.GetMovements(orgID, itemID, fromDate, toDate, page, limit)
}

func (s *InventoryService) GetOrganizationSummary(orgID uuid.UUID) ([]map[string]interface{}, error) {
	return s.Repo.GetOrganizationSummary(orgID)
}

// CreateMovement appends a movement and folds its delta into the balance.
func (s *InventoryService) CreateMovement(req CreateInventoryMovementRequest) (*models.InventoryMovement, error) {
	if _, err := s.Repo.GetItem(req.OrganizationID, req.ItemID); err != nil {
		return nil, err
	}

	m := &models.InventoryMovement{
		OrganizationID: req.OrganizationID,
		ItemID:         req.ItemID,
		Reason:         req.Reason,
		Qty:            req.Qty,
		TotalCost:      req.TotalCost,
		MovementDate:   req.MovementDate,
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

// UpdateMovement supersedes a movement via reversal-then-reapply, identical
// to WarehouseService.UpdateMovement.
func (s *InventoryService) UpdateMovement(req UpdateInventoryMovementRequest) (*models.InventoryMovement, error) {
	var created *models.InventoryMovement

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		old, err := s.Repo.GetMovement(tx, req.OrganizationID, req.MovementID)
		if err != nil {
			return err
		}

		replacement := &models.InventoryMovement{
			OrganizationID: old.OrganizationID,
			ItemID:         old.ItemID,
			Reason:         req.Reason,
			Qty:            req.Qty,
			TotalCost:      req.TotalCost,
			MovementDate:   req.MovementDate,
			InvoiceLineID:  old.InvoiceLineID,
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
func (s *InventoryService) DeleteMovement(orgID, movementID uuid.UUID, deletedBy string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		old, err := s.Repo.GetMovement(tx, orgID, movementID)
		if err != nil {
			return err
		}
		return s.correctMovement(tx, old, nil, deletedBy)
	})
}

// PostLineMovementTx posts an invoice-line-driven movement inside the
// caller's transaction. qty follows ledger sign convention: negative for
// issues, positive for returns.
func (s *InventoryService) PostLineMovementTx(tx *gorm.DB, orgID uuid.UUID, itemID uint, qty int, reason models.MovementReason, lineID uuid.UUID, createdBy string) error {
	if _, err := s.Repo.GetItem(orgID, itemID); err != nil {
		return err
	}
	m := &models.InventoryMovement{
		OrganizationID: orgID,
		ItemID:         itemID,
		Reason:         reason,
		Qty:            qty,
		MovementDate:   time.Now(),
		InvoiceLineID:  &lineID,
		CreatedBy:      createdBy,
	}
	return s.postMovementTx(tx, m)
}

func (s *InventoryService) correctMovement(tx *gorm.DB, old *models.InventoryMovement, replacement *models.InventoryMovement, changedBy string) error {
	bal, err := repositories.ApplyDelta[models.InventoryBalance](tx, old.OrganizationID, old.ItemID, old.Delta().Negate())
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

	if bal.QtyOnHand < 0 || bal.TotalCost.IsNegative() {
		return fmt.Errorf("%w: removing movement would leave item %d negative", apperrors.ErrInsufficientStock, old.ItemID)
	}

	s.Log.WithFields(logrus.Fields{
		"movement_id": old.ID,
		"item_id":     old.ItemID,
	}).Info("inventory movement reversed")
	return nil
}

func (s *InventoryService) postMovementTx(tx *gorm.DB, m *models.InventoryMovement) error {
	if err := validateMovement(m.Reason, m.Delta()); err != nil {
		return err
	}

	bal, err := repositories.ApplyDelta[models.InventoryBalance](tx, m.OrganizationID, m.ItemID, m.Delta())
	if err != nil {
		return err
	}
	if bal.QtyOnHand < 0 || bal.TotalCost.IsNegative() {
		return fmt.Errorf("%w: item %d", apperrors.ErrInsufficientStock, m.ItemID)
	}

	return tx.Create(m).Error
}
