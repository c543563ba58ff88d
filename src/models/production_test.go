package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/apaltseff-maker/igla-app-sub000/src/models"
)

func TestBundleStatus(t *testing.T) {
	t.Run("no assignments means not_assigned even with capacity", func(t *testing.T) {
		totals := models.BundleTotals{Capacity: 100, Assigned: 0, Closed: 0}
		assert.Equal(t, models.BundleNotAssigned, totals.Status())
	})

	t.Run("partially assigned is in_progress", func(t *testing.T) {
		totals := models.BundleTotals{Capacity: 100, Assigned: 60, Closed: 0}
		assert.Equal(t, models.BundleInProgress, totals.Status())
	})

	t.Run("fully closed but under capacity stays in_progress", func(t *testing.T) {
		// 60 of 100 assigned and all 60 closed: the bundle still has
		// 40 unassigned pieces, so it is not complete.
		totals := models.BundleTotals{Capacity: 100, Assigned: 60, Closed: 60}
		assert.Equal(t, models.BundleInProgress, totals.Status())
	})

	t.Run("fully assigned and fully closed is complete", func(t *testing.T) {
		totals := models.BundleTotals{Capacity: 100, Assigned: 100, Closed: 100}
		assert.Equal(t, models.BundleComplete, totals.Status())
	})
}

func TestBundleConservation(t *testing.T) {
	totals := models.BundleTotals{Capacity: 100, Assigned: 60, Closed: 30}

	t.Run("assignment up to capacity is allowed", func(t *testing.T) {
		assert.True(t, totals.CanAssign(40))
	})

	t.Run("assignment over capacity is rejected", func(t *testing.T) {
		assert.False(t, totals.CanAssign(41))
	})

	t.Run("closing up to capacity is allowed", func(t *testing.T) {
		assert.True(t, totals.CanClose(70))
	})

	t.Run("closing over capacity is rejected", func(t *testing.T) {
		assert.False(t, totals.CanClose(71))
	})
}

func TestWorkerShortfall(t *testing.T) {
	t.Run("covered by existing assignment", func(t *testing.T) {
		w := models.WorkerTotals{Assigned: 50, Closed: 20}
		assert.Equal(t, 0, w.Shortfall(30))
	})

	t.Run("closing past the assigned quantity needs inference", func(t *testing.T) {
		w := models.WorkerTotals{Assigned: 30, Closed: 0}
		assert.Equal(t, 20, w.Shortfall(50))
	})

	t.Run("no assignment at all infers the full amount", func(t *testing.T) {
		w := models.WorkerTotals{}
		assert.Equal(t, 25, w.Shortfall(25))
	})
}

func TestPartyNumbers(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		pn := models.FormatPartyNumber("4455", "125")
		assert.Equal(t, "4455-125", pn)

		lot, code, err := models.ParsePartyNumber(pn)
		assert.NoError(t, err)
		assert.Equal(t, "4455", lot)
		assert.Equal(t, "125", code)
	})

	t.Run("lot numbers may contain hyphens", func(t *testing.T) {
		lot, code, err := models.ParsePartyNumber("44-55-A-125")
		assert.NoError(t, err)
		assert.Equal(t, "44-55-A", lot)
		assert.Equal(t, "125", code)
	})

	t.Run("malformed inputs", func(t *testing.T) {
		for _, s := range []string{"", "4455", "-125", "4455-"} {
			_, _, err := models.ParsePartyNumber(s)
			assert.Error(t, err, s)
		}
	})
}

func TestPackagingEventClosed(t *testing.T) {
	e := models.PackagingEvent{PackedQty: 47, DefectQty: 3}
	assert.Equal(t, 50, e.Closed())
}
