package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Solicitudes-api/internal/domain/entity"
	"github.com/jhoicas/Solicitudes-api/internal/domain/repository"
)

var _ repository.PurchaseLineRepository = (*PurchaseLineRepo)(nil)

// PurchaseLineRepo implementación de PurchaseLineRepository (usable con pool o tx).
type PurchaseLineRepo struct {
	q Querier
}

// NewPurchaseLineRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseLineRepository(q Querier) *PurchaseLineRepo {
	return &PurchaseLineRepo{q: q}
}

const purchaseLineColumns = `id, company_id, order_name, product_id, qty, unit_of_measure,
	qty_received, state, created_at, updated_at`

// Create persiste una línea de orden de compra.
func (r *PurchaseLineRepo) Create(line *entity.PurchaseOrderLine) error {
	query := `
		INSERT INTO purchase_order_lines (` + purchaseLineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.CompanyID, line.OrderName, line.ProductID, line.Qty,
		line.UnitOfMeasure, line.QtyReceived, line.State, line.CreatedAt, line.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert purchase order line: %w", err)
	}
	return nil
}

// GetByID obtiene una línea de orden de compra por ID.
func (r *PurchaseLineRepo) GetByID(id string) (*entity.PurchaseOrderLine, error) {
	query := `SELECT ` + purchaseLineColumns + ` FROM purchase_order_lines WHERE id = $1`
	var l entity.PurchaseOrderLine
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&l.ID, &l.CompanyID, &l.OrderName, &l.ProductID, &l.Qty, &l.UnitOfMeasure,
		&l.QtyReceived, &l.State, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order line: %w", err)
	}
	return &l, nil
}

// Update actualiza la línea (estado y cantidad recibida).
func (r *PurchaseLineRepo) Update(line *entity.PurchaseOrderLine) error {
	query := `
		UPDATE purchase_order_lines SET order_name = $2, product_id = $3, qty = $4,
			unit_of_measure = $5, qty_received = $6, state = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.OrderName, line.ProductID, line.Qty, line.UnitOfMeasure,
		line.QtyReceived, line.State, line.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update purchase order line: %w", err)
	}
	return nil
}
