package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Solicitudes-api/internal/domain/entity"
	"github.com/jhoicas/Solicitudes-api/internal/domain/repository"
)

var _ repository.RequestLineRepository = (*RequestLineRepo)(nil)

// RequestLineRepo implementación de RequestLineRepository (usable con pool o tx).
type RequestLineRepo struct {
	q Querier
}

// NewRequestLineRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRequestLineRepository(q Querier) *RequestLineRepo {
	return &RequestLineRepo{q: q}
}

const requestLineColumns = `id, request_id, sequence, product_id, description, product_qty, unit_of_measure,
	estimated_cost, cancelled, qty_in_transfer, purchased_qty, unfulfilled_qty, created_at, updated_at`

// Create persiste una línea de solicitud.
func (r *RequestLineRepo) Create(line *entity.PurchaseRequestLine) error {
	query := `
		INSERT INTO purchase_request_lines (` + requestLineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.RequestID, line.Sequence, line.ProductID, line.Description, line.ProductQty,
		line.UnitOfMeasure, line.EstimatedCost, line.Cancelled,
		line.QtyInTransfer, line.PurchasedQty, line.UnfulfilledQty,
		line.CreatedAt, line.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert request line: %w", err)
	}
	return nil
}

// GetByID obtiene una línea por ID.
func (r *RequestLineRepo) GetByID(id string) (*entity.PurchaseRequestLine, error) {
	query := `SELECT ` + requestLineColumns + ` FROM purchase_request_lines WHERE id = $1`
	line, err := scanRequestLine(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get request line: %w", err)
	}
	return line, nil
}

// Update actualiza la línea, incluidas las cantidades derivadas del ledger.
func (r *RequestLineRepo) Update(line *entity.PurchaseRequestLine) error {
	query := `
		UPDATE purchase_request_lines SET product_id = $2, description = $3, product_qty = $4,
			unit_of_measure = $5, estimated_cost = $6, cancelled = $7,
			qty_in_transfer = $8, purchased_qty = $9, unfulfilled_qty = $10, updated_at = $11
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.ProductID, line.Description, line.ProductQty, line.UnitOfMeasure,
		line.EstimatedCost, line.Cancelled,
		line.QtyInTransfer, line.PurchasedQty, line.UnfulfilledQty, line.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update request line: %w", err)
	}
	return nil
}

// Delete elimina la línea y sus asignaciones.
func (r *RequestLineRepo) Delete(id string) error {
	ctx := context.Background()
	if _, err := r.q.Exec(ctx, `DELETE FROM allocations WHERE request_line_id = $1`, id); err != nil {
		return fmt.Errorf("delete line allocations: %w", err)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM purchase_request_lines WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete request line: %w", err)
	}
	return nil
}

// ListByRequest lista las líneas de una solicitud en su orden dentro del
// documento.
func (r *RequestLineRepo) ListByRequest(requestID string) ([]*entity.PurchaseRequestLine, error) {
	query := `SELECT ` + requestLineColumns + `
		FROM purchase_request_lines WHERE request_id = $1 ORDER BY sequence, id`
	rows, err := r.q.Query(context.Background(), query, requestID)
	if err != nil {
		return nil, fmt.Errorf("list request lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseRequestLine
	for rows.Next() {
		line, err := scanRequestLine(rows)
		if err != nil {
			return nil, fmt.Errorf("scan request line: %w", err)
		}
		list = append(list, line)
	}
	return list, rows.Err()
}

func scanRequestLine(row pgx.Row) (*entity.PurchaseRequestLine, error) {
	var l entity.PurchaseRequestLine
	err := row.Scan(
		&l.ID, &l.RequestID, &l.Sequence, &l.ProductID, &l.Description, &l.ProductQty, &l.UnitOfMeasure,
		&l.EstimatedCost, &l.Cancelled, &l.QtyInTransfer, &l.PurchasedQty, &l.UnfulfilledQty,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}
