package repositories

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/apaltseff-maker/igla-app-sub000/src/models"
)

// ApplyDelta folds one signed delta into the balance row for (orgID, itemID),
// creating the row with zeros when absent. The row is taken FOR UPDATE so the
// read-fold-write sequence serializes against concurrent appliers on the same
// key. Must be called inside the transaction that persists the movement:
// movement insert and balance apply commit together or not at all.
func ApplyDelta[B any, PB interface {
	*B
	models.BalanceRow
}](tx *gorm.DB, orgID uuid.UUID, itemID uint, d models.Delta) (*B, error) {
	var row B
	PB(&row).InitKey(orgID, itemID)

	res := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("organization_id = ? AND item_id = ?", orgID, itemID).
		FirstOrCreate(&row)
	if res.Error != nil {
		return nil, res.Error
	}

	PB(&row).ApplyDelta(d)
	if err := tx.Save(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// GetBalance reads the current balance row without locking. A missing row
// means nothing has ever moved: callers get a zero-keyed row, not an error.
func GetBalance[B any, PB interface {
	*B
	models.BalanceRow
}](db *gorm.DB, orgID uuid.UUID, itemID uint) (*B, error) {
	var row B
	err := db.Where("organization_id = ? AND item_id = ?", orgID, itemID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		PB(&row).InitKey(orgID, itemID)
		return &row, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}
