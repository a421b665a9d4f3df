package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/tailorflow/internal/domain/repository"
)

var _ repository.Workbook = (*Workbook)(nil)

// Querier abstrae pool o tx para ejecutar queries.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const schema = `
CREATE TABLE IF NOT EXISTS sheets (
	name TEXT PRIMARY KEY
);
CREATE TABLE IF NOT EXISTS sheet_rows (
	sheet     TEXT    NOT NULL REFERENCES sheets(name),
	row_index INTEGER NOT NULL,
	cells     JSONB   NOT NULL,
	PRIMARY KEY (sheet, row_index)
);`

// Workbook implementación de repository.Workbook sobre PostgreSQL.
// Cada fila de la hoja es un arreglo JSONB de celdas.
type Workbook struct {
	q Querier
}

// NewWorkbook construye el adaptador y aplica el esquema (idempotente).
func NewWorkbook(ctx context.Context, q Querier) (*Workbook, error) {
	if _, err := q.Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("crear esquema: %w", err)
	}
	return &Workbook{q: q}, nil
}

// HasSheet indica si la hoja existe.
func (w *Workbook) HasSheet(ctx context.Context, sheet string) (bool, error) {
	var exists bool
	err := w.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM sheets WHERE name = $1)`, sheet).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("consultar hoja %s: %w", sheet, err)
	}
	return exists, nil
}

// CreateSheet crea la hoja; si ya existe no hace nada.
func (w *Workbook) CreateSheet(ctx context.Context, sheet string) error {
	_, err := w.q.Exec(ctx, `INSERT INTO sheets (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, sheet)
	if err != nil {
		return fmt.Errorf("crear hoja %s: %w", sheet, err)
	}
	return nil
}

// Values devuelve todas las filas ordenadas por índice.
func (w *Workbook) Values(ctx context.Context, sheet string) ([][]string, error) {
	ok, err := w.HasSheet(ctx, sheet)
	if err != nil || !ok {
		return nil, err
	}
	rows, err := w.q.Query(ctx,
		`SELECT cells FROM sheet_rows WHERE sheet = $1 ORDER BY row_index`, sheet)
	if err != nil {
		return nil, fmt.Errorf("leer hoja %s: %w", sheet, err)
	}
	defer rows.Close()

	out := [][]string{}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan fila: %w", err)
		}
		var cells []string
		if err := json.Unmarshal(raw, &cells); err != nil {
			return nil, fmt.Errorf("decodificar fila de %s: %w", sheet, err)
		}
		out = append(out, cells)
	}
	return out, rows.Err()
}

// AppendRow agrega la fila con el siguiente índice libre.
func (w *Workbook) AppendRow(ctx context.Context, sheet string, row []string) error {
	cells, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("codificar fila: %w", err)
	}
	_, err = w.q.Exec(ctx, `
		INSERT INTO sheet_rows (sheet, row_index, cells)
		SELECT $1, COALESCE(MAX(row_index) + 1, 0), $2::jsonb FROM sheet_rows WHERE sheet = $1`,
		sheet, string(cells))
	if err != nil {
		return fmt.Errorf("agregar fila a %s: %w", sheet, err)
	}
	return nil
}

// SetRow reemplaza la fila index.
func (w *Workbook) SetRow(ctx context.Context, sheet string, index int, row []string) error {
	cells, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("codificar fila: %w", err)
	}
	tag, err := w.q.Exec(ctx,
		`UPDATE sheet_rows SET cells = $3::jsonb WHERE sheet = $1 AND row_index = $2`,
		sheet, index, string(cells))
	if err != nil {
		return fmt.Errorf("actualizar fila de %s: %w", sheet, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("hoja %q: fila %d fuera de rango", sheet, index)
	}
	return nil
}
