package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/Solicitudes-api/internal/application/request"
)

// Ensure TxRunner implements request.TxRunner.
var _ request.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con los repos del flujo de
// solicitudes atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repos request.TxRepos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := request.TxRepos{
		Requests:      NewPurchaseRequestRepository(tx),
		Lines:         NewRequestLineRepository(tx),
		Allocations:   NewAllocationRepository(tx),
		Pickings:      NewPickingRepository(tx),
		Moves:         NewStockMoveRepository(tx),
		PurchaseLines: NewPurchaseLineRepository(tx),
		Stocks:        NewStockRepository(tx),
		Notes:         NewRequestNoteRepository(tx),
	}

	if err := fn(repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
