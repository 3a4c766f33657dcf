package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Solicitudes-api/internal/domain/entity"
	"github.com/jhoicas/Solicitudes-api/internal/domain/repository"
)

var _ repository.AllocationRepository = (*AllocationRepo)(nil)

// AllocationRepo implementación de AllocationRepository (usable con pool o tx).
type AllocationRepo struct {
	q Querier
}

// NewAllocationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAllocationRepository(q Querier) *AllocationRepo {
	return &AllocationRepo{q: q}
}

const allocationColumns = `id, request_line_id, company_id, stock_move_id, purchase_line_id,
	requested_product_uom_qty, allocated_product_qty, created_at, updated_at`

// Create persiste una asignación.
func (r *AllocationRepo) Create(allocation *entity.Allocation) error {
	query := `
		INSERT INTO allocations (` + allocationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		allocation.ID, allocation.RequestLineID, allocation.CompanyID,
		allocation.StockMoveID, allocation.PurchaseLineID,
		allocation.RequestedProductUomQty, allocation.AllocatedProductQty,
		allocation.CreatedAt, allocation.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert allocation: %w", err)
	}
	return nil
}

// GetByID obtiene una asignación por ID.
func (r *AllocationRepo) GetByID(id string) (*entity.Allocation, error) {
	query := `SELECT ` + allocationColumns + ` FROM allocations WHERE id = $1`
	a, err := scanAllocation(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get allocation: %w", err)
	}
	return a, nil
}

// Update actualiza las cantidades de la asignación.
func (r *AllocationRepo) Update(allocation *entity.Allocation) error {
	query := `
		UPDATE allocations SET requested_product_uom_qty = $2, allocated_product_qty = $3, updated_at = $4
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		allocation.ID, allocation.RequestedProductUomQty, allocation.AllocatedProductQty,
		allocation.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update allocation: %w", err)
	}
	return nil
}

// Delete elimina una asignación por ID.
func (r *AllocationRepo) Delete(id string) error {
	if _, err := r.q.Exec(context.Background(), `DELETE FROM allocations WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete allocation: %w", err)
	}
	return nil
}

// ListByLine lista las asignaciones de una línea de solicitud.
func (r *AllocationRepo) ListByLine(requestLineID string) ([]*entity.Allocation, error) {
	return r.list(`request_line_id`, requestLineID)
}

// ListByStockMove lista las asignaciones atadas a un movimiento de stock.
func (r *AllocationRepo) ListByStockMove(stockMoveID string) ([]*entity.Allocation, error) {
	return r.list(`stock_move_id`, stockMoveID)
}

// ListByPurchaseLine lista las asignaciones atadas a una línea de orden de compra.
func (r *AllocationRepo) ListByPurchaseLine(purchaseLineID string) ([]*entity.Allocation, error) {
	return r.list(`purchase_line_id`, purchaseLineID)
}

func (r *AllocationRepo) list(column, value string) ([]*entity.Allocation, error) {
	query := `SELECT ` + allocationColumns + ` FROM allocations WHERE ` + column + ` = $1 ORDER BY created_at, id`
	rows, err := r.q.Query(context.Background(), query, value)
	if err != nil {
		return nil, fmt.Errorf("list allocations by %s: %w", column, err)
	}
	defer rows.Close()
	var list []*entity.Allocation
	for rows.Next() {
		a, err := scanAllocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan allocation: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func scanAllocation(row pgx.Row) (*entity.Allocation, error) {
	var a entity.Allocation
	err := row.Scan(
		&a.ID, &a.RequestLineID, &a.CompanyID, &a.StockMoveID, &a.PurchaseLineID,
		&a.RequestedProductUomQty, &a.AllocatedProductQty, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
