// Package sheettest verifica que una implementación de repository.Workbook
// cumpla el contrato que espera el record store.
package sheettest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tailorflow/internal/domain/repository"
)

// Run ejecuta el contrato completo sobre un libro vacío que entrega newWorkbook.
func Run(t *testing.T, newWorkbook func(t *testing.T) repository.Workbook) {
	t.Helper()
	ctx := context.Background()

	t.Run("hoja inexistente devuelve nil sin error", func(t *testing.T) {
		wb := newWorkbook(t)
		ok, err := wb.HasSheet(ctx, "Orders")
		require.NoError(t, err)
		assert.False(t, ok)

		rows, err := wb.Values(ctx, "Orders")
		require.NoError(t, err)
		assert.Nil(t, rows)
	})

	t.Run("crear hoja es idempotente", func(t *testing.T) {
		wb := newWorkbook(t)
		require.NoError(t, wb.CreateSheet(ctx, "Users"))
		require.NoError(t, wb.CreateSheet(ctx, "Users"))

		ok, err := wb.HasSheet(ctx, "Users")
		require.NoError(t, err)
		assert.True(t, ok)

		rows, err := wb.Values(ctx, "Users")
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("append conserva el orden y la fila 0 es el encabezado", func(t *testing.T) {
		wb := newWorkbook(t)
		require.NoError(t, wb.CreateSheet(ctx, "Orders"))
		require.NoError(t, wb.AppendRow(ctx, "Orders", []string{"ID", "JSON_Data"}))
		require.NoError(t, wb.AppendRow(ctx, "Orders", []string{"o1", `{"id":"o1"}`}))
		require.NoError(t, wb.AppendRow(ctx, "Orders", []string{"o2", `{"id":"o2"}`}))

		rows, err := wb.Values(ctx, "Orders")
		require.NoError(t, err)
		assert.Equal(t, [][]string{
			{"ID", "JSON_Data"},
			{"o1", `{"id":"o1"}`},
			{"o2", `{"id":"o2"}`},
		}, rows)
	})

	t.Run("set reemplaza solo la fila indicada", func(t *testing.T) {
		wb := newWorkbook(t)
		require.NoError(t, wb.CreateSheet(ctx, "Orders"))
		require.NoError(t, wb.AppendRow(ctx, "Orders", []string{"ID", "Status"}))
		require.NoError(t, wb.AppendRow(ctx, "Orders", []string{"o1", "Received"}))
		require.NoError(t, wb.AppendRow(ctx, "Orders", []string{"o2", "Received"}))

		require.NoError(t, wb.SetRow(ctx, "Orders", 2, []string{"o2", "Cutting"}))

		rows, err := wb.Values(ctx, "Orders")
		require.NoError(t, err)
		assert.Equal(t, []string{"o1", "Received"}, rows[1])
		assert.Equal(t, []string{"o2", "Cutting"}, rows[2])
	})

	t.Run("set fuera de rango falla", func(t *testing.T) {
		wb := newWorkbook(t)
		require.NoError(t, wb.CreateSheet(ctx, "Orders"))
		require.NoError(t, wb.AppendRow(ctx, "Orders", []string{"ID"}))
		assert.Error(t, wb.SetRow(ctx, "Orders", 5, []string{"x"}))
	})

	t.Run("append en hoja inexistente falla", func(t *testing.T) {
		wb := newWorkbook(t)
		assert.Error(t, wb.AppendRow(ctx, "Nope", []string{"x"}))
	})

	t.Run("las hojas son independientes", func(t *testing.T) {
		wb := newWorkbook(t)
		require.NoError(t, wb.CreateSheet(ctx, "Orders"))
		require.NoError(t, wb.CreateSheet(ctx, "Customers"))
		require.NoError(t, wb.AppendRow(ctx, "Orders", []string{"o1"}))

		rows, err := wb.Values(ctx, "Customers")
		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}
