package pdf

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tailorflow/internal/domain/entity"
)

func TestGenerate_ProduceUnPDF(t *testing.T) {
	o := entity.Order{
		ID:           "o7f3c9a2e-1111-2222-3333-444455556666",
		CustomerID:   "c1",
		CustomerName: "Asha",
		GarmentType:  entity.GarmentSuit2pc,
		Description:  "Navy wool, peak lapel",
		Measurements: entity.DefaultMeasurements(entity.GarmentSuit2pc),
		Status:       entity.StatusTrialReady,
		OrderDate:    "2026-10-01",
		DueDate:      "2026-10-20",
		Price:        decimal.NewFromInt(12000),
		Advance:      decimal.NewFromInt(5000),
		IsUrgent:     true,
	}
	o.Measurements[0].Value = entity.Number(15.5)
	c := &entity.Customer{ID: "c1", Name: "Asha", Phone: "555-0100"}

	doc, err := NewMarotoSlipGenerator("").Generate(o, c)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
}

func TestGenerate_SinClienteNiMedidas(t *testing.T) {
	o := entity.Order{ID: "o1", CustomerName: "Walk-in", GarmentType: entity.GarmentOther, Status: entity.StatusReceived}
	doc, err := NewMarotoSlipGenerator("Stitch & Co").Generate(o, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, doc)
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "0.00", formatMoney(decimal.Zero))
	assert.Equal(t, "950.00", formatMoney(decimal.NewFromInt(950)))
	assert.Equal(t, "25,000.00", formatMoney(decimal.NewFromInt(25000)))
	assert.Equal(t, "1,234,567.89", formatMoney(decimal.RequireFromString("1234567.891")))
	assert.Equal(t, "-1,500.50", formatMoney(decimal.RequireFromString("-1500.5")))
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "#O7F3C9A2E", shortID("o7f3c9a2e-1111"))
	assert.Equal(t, "#O1", shortID("o1"))
}
