package models_test

import (
	"testing"

	"tiny_crm_backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestEnumValidity(t *testing.T) {
	assert.True(t, models.ProcedureRootCanal.IsValid())
	assert.False(t, models.ProcedureCategory("botox").IsValid())
	assert.False(t, models.ProcedureCategory("").IsValid())

	assert.True(t, models.StatusInProgress.IsValid())
	assert.False(t, models.WorkflowStatus("paused").IsValid())

	assert.True(t, models.PaymentRefunded.IsValid())
	assert.False(t, models.PaymentStatus("later").IsValid())
}

func TestRecalculateDerived(t *testing.T) {
	deal := models.Deal{AmountGross: 100, Discount: 10, TaxRate: 0.15}
	deal.RecalculateDerived()
	assert.Equal(t, 15.0, deal.TaxAmount)
	assert.Equal(t, 105.0, deal.AmountNet)

	// Recomputation ignores any previously stored derived values.
	deal.AmountGross = 250
	deal.Discount = 25
	deal.TaxRate = 0.1
	deal.RecalculateDerived()
	assert.Equal(t, 25.0, deal.TaxAmount)
	assert.Equal(t, 250.0, deal.AmountNet)

	// Zero rate and discount collapse to the gross amount.
	deal = models.Deal{AmountGross: 50}
	deal.RecalculateDerived()
	assert.Equal(t, 0.0, deal.TaxAmount)
	assert.Equal(t, 50.0, deal.AmountNet)
}
