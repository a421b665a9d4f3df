// Package sqlite persiste el libro de hojas del record store en un archivo SQLite
// (driver modernc, Go puro). Cada fila se guarda como un arreglo JSON de celdas.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // driver sqlite en Go puro

	"github.com/jhoicas/tailorflow/internal/domain/repository"
)

var _ repository.Workbook = (*Workbook)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS sheets (
	name TEXT PRIMARY KEY
);
CREATE TABLE IF NOT EXISTS sheet_rows (
	sheet     TEXT    NOT NULL,
	row_index INTEGER NOT NULL,
	cells     TEXT    NOT NULL,
	PRIMARY KEY (sheet, row_index)
);`

// Workbook implementación de repository.Workbook sobre SQLite.
type Workbook struct {
	db *sql.DB
}

// Open abre (o crea) el archivo y aplica el esquema.
func Open(path string) (*Workbook, error) {
	if path == "" {
		path = "tailorflow.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("crear directorios: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("abrir sqlite: %w", err)
	}
	// Un solo escritor: evita SQLITE_BUSY entre conexiones del pool.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("crear esquema: %w", err)
	}
	return &Workbook{db: db}, nil
}

// Close cierra la base de datos.
func (w *Workbook) Close() error { return w.db.Close() }

// HasSheet indica si la hoja existe.
func (w *Workbook) HasSheet(ctx context.Context, sheet string) (bool, error) {
	var n int
	if err := w.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sheets WHERE name = ?`, sheet).Scan(&n); err != nil {
		return false, fmt.Errorf("consultar hoja %s: %w", sheet, err)
	}
	return n > 0, nil
}

// CreateSheet crea la hoja si no existe.
func (w *Workbook) CreateSheet(ctx context.Context, sheet string) error {
	if _, err := w.db.ExecContext(ctx, `INSERT OR IGNORE INTO sheets (name) VALUES (?)`, sheet); err != nil {
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
	rows, err := w.db.QueryContext(ctx,
		`SELECT cells FROM sheet_rows WHERE sheet = ? ORDER BY row_index`, sheet)
	if err != nil {
		return nil, fmt.Errorf("leer hoja %s: %w", sheet, err)
	}
	defer func() { _ = rows.Close() }()

	out := [][]string{}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan fila: %w", err)
		}
		var cells []string
		if err := json.Unmarshal([]byte(raw), &cells); err != nil {
			return nil, fmt.Errorf("decodificar fila de %s: %w", sheet, err)
		}
		out = append(out, cells)
	}
	return out, rows.Err()
}

// AppendRow agrega la fila con el siguiente índice libre.
func (w *Workbook) AppendRow(ctx context.Context, sheet string, row []string) error {
	ok, err := w.HasSheet(ctx, sheet)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("hoja %q no existe", sheet)
	}
	cells, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("codificar fila: %w", err)
	}
	_, err = w.db.ExecContext(ctx, `
		INSERT INTO sheet_rows (sheet, row_index, cells)
		SELECT ?, COALESCE(MAX(row_index) + 1, 0), ? FROM sheet_rows WHERE sheet = ?`,
		sheet, string(cells), sheet)
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
	res, err := w.db.ExecContext(ctx,
		`UPDATE sheet_rows SET cells = ? WHERE sheet = ? AND row_index = ?`,
		string(cells), sheet, index)
	if err != nil {
		return fmt.Errorf("actualizar fila de %s: %w", sheet, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("actualizar fila de %s: %w", sheet, err)
	}
	if n == 0 {
		return fmt.Errorf("hoja %q: fila %d fuera de rango", sheet, index)
	}
	return nil
}
