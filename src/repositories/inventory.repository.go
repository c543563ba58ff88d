package repositories

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/apaltseff-maker/igla-app-sub000/src/apperrors"
	"github.com/apaltseff-maker/igla-app-sub000/src/models"
)

type InventoryRepository struct {
	DB *gorm.DB
}

func (r *InventoryRepository) GetItem(orgID uuid.UUID, itemID uint) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := r.DB.Where("id = ? AND organization_id = ?", itemID, orgID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *InventoryRepository) GetMovement(tx *gorm.DB, orgID, movementID uuid.UUID) (*models.InventoryMovement, error) {
	var m models.InventoryMovement
	err := tx.Where("id = ? AND organization_id = ?", movementID, orgID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// GetMovements - movement history with pagination
func (r *InventoryRepository) GetMovements(orgID uuid.UUID, itemID uint,
	fromDate, toDate time.Time, page, limit int) ([]models.InventoryMovement, int64, error) {

	var movements []models.InventoryMovement
	var total int64

	query := r.DB.Model(&models.InventoryMovement{}).
		Where("organization_id = ? AND item_id = ?", orgID, itemID)

	if !fromDate.IsZero() {
		query = query.Where("movement_date >= ?", fromDate)
	}
	if !toDate.IsZero() {
		query = query.Where("movement_date <= ?", toDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.
		Order("movement_date DESC, created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&movements).Error
	if err != nil {
		return nil, 0, err
	}

	return movements, total, nil
}

// GetOrganizationSummary - current balance of every inventory item in the org
func (r *InventoryRepository) GetOrganizationSummary(orgID uuid.UUID) ([]map[string]interface{}, error) {
	var items []models.InventoryItem
	if err := r.DB.Where("organization_id = ?", orgID).Order("code").Find(&items).Error; err != nil {
		return nil, err
	}

	result := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		balance, err := GetBalance[models.InventoryBalance](r.DB, orgID, item.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, map[string]interface{}{
			"item_id":       item.ID,
			"item_code":     item.Code,
			"item_name":     item.Name,
			"unit":          item.Unit,
			"qty_on_hand":   balance.QtyOnHand,
			"total_cost":    balance.TotalCost,
			"cost_per_unit": balance.CostPerUnit,
		})
	}
	return result, nil
}
