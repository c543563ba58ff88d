package models_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apaltseff-maker/igla-app-sub000/src/models"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestDeltaAlgebra(t *testing.T) {
	a := models.Delta{Rolls: d("2"), Meters: d("100.5"), Qty: 10, TotalCost: d("50000")}
	b := models.Delta{Rolls: d("1"), Meters: d("49.5"), Qty: -4, TotalCost: d("-20000")}

	t.Run("add", func(t *testing.T) {
		sum := a.Add(b)
		assert.True(t, sum.Rolls.Equal(d("3")))
		assert.True(t, sum.Meters.Equal(d("150")))
		assert.Equal(t, 6, sum.Qty)
		assert.True(t, sum.TotalCost.Equal(d("30000")))
	})

	t.Run("delta plus its negation is zero", func(t *testing.T) {
		assert.True(t, a.Add(a.Negate()).IsZero())
		assert.True(t, b.Add(b.Negate()).IsZero())
	})

	t.Run("is zero", func(t *testing.T) {
		assert.True(t, models.Delta{}.IsZero())
		assert.False(t, models.Delta{Qty: 1}.IsZero())
	})
}

func TestWarehouseBalanceFold(t *testing.T) {
	var bal models.WarehouseBalance
	bal.InitKey(uuid.New(), 1)

	receipt := models.Delta{Rolls: d("2"), Meters: d("100"), TotalCost: d("50000")}
	bal.ApplyDelta(receipt)

	t.Run("receipt derives cost per meter", func(t *testing.T) {
		assert.True(t, bal.MetersOnHand.Equal(d("100")))
		require.NotNil(t, bal.CostPerMeter)
		assert.True(t, bal.CostPerMeter.Equal(d("500")))
	})

	t.Run("issue refreshes the derived ratio from folded totals", func(t *testing.T) {
		// Issuing 40m worth 18000 leaves 60m worth 32000. The ratio
		// comes out of the new totals, not out of adjusting 500.
		bal.ApplyDelta(models.Delta{Meters: d("-40"), TotalCost: d("-18000")})
		require.NotNil(t, bal.CostPerMeter)
		assert.True(t, bal.CostPerMeter.Equal(d("533.3333")))
	})

	t.Run("reversal restores the prior state exactly", func(t *testing.T) {
		issue := models.Delta{Rolls: d("-1"), Meters: d("-30"), TotalCost: d("-16000")}
		before := bal
		bal.ApplyDelta(issue)
		bal.ApplyDelta(issue.Negate())

		assert.True(t, bal.RollsOnHand.Equal(before.RollsOnHand))
		assert.True(t, bal.MetersOnHand.Equal(before.MetersOnHand))
		assert.True(t, bal.TotalCost.Equal(before.TotalCost))
	})

	t.Run("empty balance has no derived cost", func(t *testing.T) {
		var empty models.WarehouseBalance
		empty.InitKey(uuid.New(), 2)
		empty.ApplyDelta(models.Delta{Meters: d("50")})
		assert.Nil(t, empty.CostPerMeter)
	})
}

func TestInventoryBalanceFold(t *testing.T) {
	var bal models.InventoryBalance
	bal.InitKey(uuid.New(), 7)

	bal.ApplyDelta(models.Delta{Qty: 200, TotalCost: d("10000")})
	require.NotNil(t, bal.CostPerUnit)
	assert.True(t, bal.CostPerUnit.Equal(d("50")))

	// Drain to zero: no quantity, no derived cost.
	bal.ApplyDelta(models.Delta{Qty: -200, TotalCost: d("-10000")})
	assert.Equal(t, 0, bal.QtyOnHand)
	assert.Nil(t, bal.CostPerUnit)
}
