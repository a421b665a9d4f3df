package sheet_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tailorflow/internal/domain/repository"
	"github.com/jhoicas/tailorflow/internal/infrastructure/sheet"
	"github.com/jhoicas/tailorflow/internal/infrastructure/sheet/sheettest"
)

func TestMemoryWorkbook_Contrato(t *testing.T) {
	sheettest.Run(t, func(t *testing.T) repository.Workbook {
		return sheet.NewMemoryWorkbook()
	})
}

func TestMemoryWorkbook_ValuesDevuelveCopia(t *testing.T) {
	ctx := context.Background()
	wb := sheet.NewMemoryWorkbook()
	require.NoError(t, wb.CreateSheet(ctx, "Users"))
	require.NoError(t, wb.AppendRow(ctx, "Users", []string{"u1", "Asha"}))

	rows, err := wb.Values(ctx, "Users")
	require.NoError(t, err)
	rows[0][1] = "otro"

	again, err := wb.Values(ctx, "Users")
	require.NoError(t, err)
	assert.Equal(t, "Asha", again[0][1])
}
