package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Delta is one signed contribution to a running stock balance. Movements of
// both ledgers (warehouse and inventory) reduce to a Delta, and a balance is
// nothing but the fold of every Delta applied to it. Corrections therefore
// go through Negate: reverse the old delta in full, then apply the new one.
// Derived per-unit costs are never adjusted incrementally - they are a ratio
// of two sums and get recomputed from the folded totals after every apply.
type Delta struct {
	Rolls     decimal.Decimal `json:"rolls"`
	Meters    decimal.Decimal `json:"meters"`
	Qty       int             `json:"qty"`
	TotalCost decimal.Decimal `json:"total_cost"`
}

func (d Delta) Add(o Delta) Delta {
	return Delta{
		Rolls:     d.Rolls.Add(o.Rolls),
		Meters:    d.Meters.Add(o.Meters),
		Qty:       d.Qty + o.Qty,
		TotalCost: d.TotalCost.Add(o.TotalCost),
	}
}

func (d Delta) Negate() Delta {
	return Delta{
		Rolls:     d.Rolls.Neg(),
		Meters:    d.Meters.Neg(),
		Qty:       -d.Qty,
		TotalCost: d.TotalCost.Neg(),
	}
}

func (d Delta) IsZero() bool {
	return d.Rolls.IsZero() && d.Meters.IsZero() && d.Qty == 0 && d.TotalCost.IsZero()
}

// BalanceRow is implemented by the per-(organization, item) running-total
// rows. The repository locks or creates the row, folds the delta in through
// ApplyDelta and saves it inside the caller's transaction.
type BalanceRow interface {
	InitKey(orgID uuid.UUID, itemID uint)
	ApplyDelta(d Delta)
}

// derivedUnitCost recomputes a cost-per-unit ratio from folded totals.
// Returns nil unless both operands are positive.
func derivedUnitCost(totalCost, units decimal.Decimal) *decimal.Decimal {
	if totalCost.IsPositive() && units.IsPositive() {
		c := totalCost.DivRound(units, 4)
		return &c
	}
	return nil
}
