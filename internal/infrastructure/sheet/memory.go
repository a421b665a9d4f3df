// Package sheet implementa un Workbook en memoria: útil en desarrollo y en tests.
// El contenido se pierde al reiniciar el proceso.
package sheet

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/tailorflow/internal/domain/repository"
)

var _ repository.Workbook = (*MemoryWorkbook)(nil)

// MemoryWorkbook libro de hojas en memoria, seguro para uso concurrente.
type MemoryWorkbook struct {
	mu     sync.RWMutex
	sheets map[string][][]string
}

// NewMemoryWorkbook construye un libro vacío.
func NewMemoryWorkbook() *MemoryWorkbook {
	return &MemoryWorkbook{sheets: make(map[string][][]string)}
}

// HasSheet indica si la hoja existe.
func (w *MemoryWorkbook) HasSheet(_ context.Context, sheet string) (bool, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.sheets[sheet]
	return ok, nil
}

// CreateSheet crea la hoja si no existe.
func (w *MemoryWorkbook) CreateSheet(_ context.Context, sheet string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.sheets[sheet]; !ok {
		w.sheets[sheet] = [][]string{}
	}
	return nil
}

// Values devuelve una copia de todas las filas.
func (w *MemoryWorkbook) Values(_ context.Context, sheet string) ([][]string, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	rows, ok := w.sheets[sheet]
	if !ok {
		return nil, nil
	}
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = append([]string(nil), r...)
	}
	return out, nil
}

// AppendRow agrega una fila al final.
func (w *MemoryWorkbook) AppendRow(_ context.Context, sheet string, row []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	rows, ok := w.sheets[sheet]
	if !ok {
		return fmt.Errorf("hoja %q no existe", sheet)
	}
	w.sheets[sheet] = append(rows, append([]string(nil), row...))
	return nil
}

// SetRow reemplaza la fila index.
func (w *MemoryWorkbook) SetRow(_ context.Context, sheet string, index int, row []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	rows, ok := w.sheets[sheet]
	if !ok {
		return fmt.Errorf("hoja %q no existe", sheet)
	}
	if index < 0 || index >= len(rows) {
		return fmt.Errorf("hoja %q: fila %d fuera de rango", sheet, index)
	}
	rows[index] = append([]string(nil), row...)
	return nil
}
