package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/apaltseff-maker/igla-app-sub000/src/models"
	"github.com/apaltseff-maker/igla-app-sub000/src/services"
)

func uintPtr(v uint) *uint { return &v }

func TestInventoryLineDiff(t *testing.T) {
	t.Run("same item, qty increased: issue the delta only", func(t *testing.T) {
		moves := services.InventoryLineDiff(uintPtr(5), uintPtr(5), 100, 120)
		assert.Equal(t, []services.LineMovement{
			{ItemID: 5, Qty: -20, Reason: models.ReasonIssue},
		}, moves)
	})

	t.Run("same item, qty decreased: return the delta only", func(t *testing.T) {
		moves := services.InventoryLineDiff(uintPtr(5), uintPtr(5), 100, 70)
		assert.Equal(t, []services.LineMovement{
			{ItemID: 5, Qty: 30, Reason: models.ReasonReturn},
		}, moves)
	})

	t.Run("same item, same qty: nothing to post", func(t *testing.T) {
		assert.Empty(t, services.InventoryLineDiff(uintPtr(5), uintPtr(5), 100, 100))
	})

	t.Run("item changed: full return of old plus full issue of new", func(t *testing.T) {
		moves := services.InventoryLineDiff(uintPtr(5), uintPtr(8), 100, 60)
		assert.Equal(t, []services.LineMovement{
			{ItemID: 5, Qty: 100, Reason: models.ReasonReturn},
			{ItemID: 8, Qty: -60, Reason: models.ReasonIssue},
		}, moves)
	})

	t.Run("nil item on either side posts nothing", func(t *testing.T) {
		assert.Empty(t, services.InventoryLineDiff(nil, uintPtr(8), 0, 60))
		assert.Empty(t, services.InventoryLineDiff(uintPtr(5), nil, 100, 0))
	})
}
