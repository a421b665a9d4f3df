package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/tailorflow/internal/domain/repository"
)

var (
	_ repository.TxRunner = (*TxRunner)(nil)
	_ repository.TxRunner = (*PoolWorkbook)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunInTx inicia una transacción, ejecuta fn con un Workbook atado a la tx y hace Commit o Rollback.
// El esquema ya debe existir (lo crea NewWorkbook).
func (r *TxRunner) RunInTx(ctx context.Context, fn func(wb repository.Workbook) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&Workbook{q: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// PoolWorkbook Workbook sobre el pool que además abre transacciones;
// el record store lo detecta como repository.TxRunner.
type PoolWorkbook struct {
	*Workbook
	*TxRunner
}

// OpenWorkbook aplica el esquema y devuelve el libro transaccional.
func OpenWorkbook(ctx context.Context, pool *pgxpool.Pool) (*PoolWorkbook, error) {
	wb, err := NewWorkbook(ctx, pool)
	if err != nil {
		return nil, err
	}
	return &PoolWorkbook{Workbook: wb, TxRunner: NewTxRunner(pool)}, nil
}
