package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tailorflow/internal/domain/repository"
	"github.com/jhoicas/tailorflow/internal/infrastructure/sheet/sheettest"
	"github.com/jhoicas/tailorflow/internal/infrastructure/sqlite"
)

func openTemp(t *testing.T) *sqlite.Workbook {
	t.Helper()
	wb, err := sqlite.Open(filepath.Join(t.TempDir(), "store", "tailorflow.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = wb.Close() })
	return wb
}

func TestSQLiteWorkbook_Contrato(t *testing.T) {
	sheettest.Run(t, func(t *testing.T) repository.Workbook {
		return openTemp(t)
	})
}

func TestSQLiteWorkbook_PersisteEntreAperturas(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tailorflow.db")

	wb, err := sqlite.Open(path)
	require.NoError(t, err)
	require.NoError(t, wb.CreateSheet(ctx, "Customers"))
	require.NoError(t, wb.AppendRow(ctx, "Customers", []string{"ID", "Name"}))
	require.NoError(t, wb.AppendRow(ctx, "Customers", []string{"c1", "Asha"}))
	require.NoError(t, wb.Close())

	wb, err = sqlite.Open(path)
	require.NoError(t, err)
	defer func() { _ = wb.Close() }()

	rows, err := wb.Values(ctx, "Customers")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"ID", "Name"}, {"c1", "Asha"}}, rows)
}
