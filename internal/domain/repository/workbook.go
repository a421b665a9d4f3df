package repository

import "context"

// Workbook define el puerto de persistencia del record store: un libro de hojas
// de cálculo con filas de celdas de texto. La fila 0 de cada hoja es el encabezado.
// Implementaciones: memoria, SQLite y PostgreSQL.
type Workbook interface {
	// HasSheet indica si la hoja existe.
	HasSheet(ctx context.Context, sheet string) (bool, error)
	// CreateSheet crea una hoja vacía; no falla si ya existe.
	CreateSheet(ctx context.Context, sheet string) error
	// Values devuelve todas las filas (encabezado incluido). Hoja inexistente → nil, nil.
	Values(ctx context.Context, sheet string) ([][]string, error)
	// AppendRow agrega una fila al final de la hoja.
	AppendRow(ctx context.Context, sheet string, row []string) error
	// SetRow reemplaza la fila index (base 0, mismo índice que Values).
	SetRow(ctx context.Context, sheet string, index int, row []string) error
}

// TxRunner lo implementan los backends con transacciones: fn recibe un Workbook
// cuyas escrituras se confirman juntas o no se confirman.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(wb Workbook) error) error
}
