package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Solicitudes-api/internal/domain/entity"
	"github.com/jhoicas/Solicitudes-api/internal/domain/repository"
)

var _ repository.StockMoveRepository = (*StockMoveRepo)(nil)

// StockMoveRepo implementación de StockMoveRepository (usable con pool o tx).
type StockMoveRepo struct {
	q Querier
}

// NewStockMoveRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMoveRepository(q Querier) *StockMoveRepo {
	return &StockMoveRepo{q: q}
}

const stockMoveColumns = `id, picking_id, company_id, product_id, description, qty, unit_of_measure,
	source_location_id, dest_location_id, state, request_line_id, created_at, updated_at`

// Create persiste un movimiento de stock.
func (r *StockMoveRepo) Create(move *entity.StockMove) error {
	query := `
		INSERT INTO stock_moves (` + stockMoveColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		move.ID, move.PickingID, move.CompanyID, move.ProductID, move.Description,
		move.Qty, move.UnitOfMeasure, move.SourceLocationID, move.DestLocationID,
		move.State, move.RequestLineID, move.CreatedAt, move.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock move: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *StockMoveRepo) GetByID(id string) (*entity.StockMove, error) {
	query := `SELECT ` + stockMoveColumns + ` FROM stock_moves WHERE id = $1`
	m, err := scanStockMove(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock move: %w", err)
	}
	return m, nil
}

// Update actualiza un movimiento (estado y cantidades).
func (r *StockMoveRepo) Update(move *entity.StockMove) error {
	query := `
		UPDATE stock_moves SET description = $2, qty = $3, unit_of_measure = $4,
			source_location_id = $5, dest_location_id = $6, state = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		move.ID, move.Description, move.Qty, move.UnitOfMeasure,
		move.SourceLocationID, move.DestLocationID, move.State, move.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update stock move: %w", err)
	}
	return nil
}

// ListByPicking lista los movimientos de un documento de transferencia.
func (r *StockMoveRepo) ListByPicking(pickingID string) ([]*entity.StockMove, error) {
	query := `SELECT ` + stockMoveColumns + ` FROM stock_moves WHERE picking_id = $1 ORDER BY created_at, id`
	rows, err := r.q.Query(context.Background(), query, pickingID)
	if err != nil {
		return nil, fmt.Errorf("list stock moves: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMove
	for rows.Next() {
		m, err := scanStockMove(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock move: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func scanStockMove(row pgx.Row) (*entity.StockMove, error) {
	var m entity.StockMove
	err := row.Scan(
		&m.ID, &m.PickingID, &m.CompanyID, &m.ProductID, &m.Description, &m.Qty,
		&m.UnitOfMeasure, &m.SourceLocationID, &m.DestLocationID, &m.State,
		&m.RequestLineID, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
