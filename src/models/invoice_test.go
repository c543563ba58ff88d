package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/apaltseff-maker/igla-app-sub000/src/models"
)

func TestLineAmount(t *testing.T) {
	assert.True(t, models.LineAmount(100, d("550")).Equal(d("55000")))
	assert.True(t, models.LineAmount(3, d("33.335")).Equal(d("100.01")))
	assert.True(t, models.LineAmount(0, d("550")).IsZero())
}

func TestInvoiceTotal(t *testing.T) {
	lines := []models.InvoiceLine{
		{
			LineType:      models.LineTypeWork,
			PlannedQty:    100,
			FinalQty:      90,
			Price:         d("550"),
			PlannedAmount: d("55000"),
			FinalAmount:   d("49500"),
		},
		{
			LineType: models.LineTypeService,
			Amount:   d("3000"),
		},
		{
			LineType: models.LineTypeInventory,
			Qty:      200,
			Price:    d("12"),
			Amount:   d("2400"),
		},
	}

	t.Run("draft bills planned quantities", func(t *testing.T) {
		total := models.InvoiceTotal(lines, models.InvoiceDraft)
		assert.True(t, total.Equal(d("60400")), total.String())
	})

	t.Run("final bills packed quantities, other lines unchanged", func(t *testing.T) {
		total := models.InvoiceTotal(lines, models.InvoiceFinal)
		assert.True(t, total.Equal(d("54900")), total.String())
	})

	t.Run("empty invoice totals zero", func(t *testing.T) {
		assert.True(t, models.InvoiceTotal(nil, models.InvoiceDraft).IsZero())
	})
}

func TestInvoiceBasis(t *testing.T) {
	assert.Equal(t, models.InvoiceDraft, models.Invoice{Status: models.InvoiceDraft}.Basis())
	assert.Equal(t, models.InvoiceFinal, models.Invoice{Status: models.InvoiceFinal}.Basis())
	// Unset status behaves as draft.
	assert.Equal(t, models.InvoiceDraft, models.Invoice{}.Basis())
}
