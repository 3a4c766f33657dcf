package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Solicitudes-api/internal/domain/entity"
	"github.com/jhoicas/Solicitudes-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de existencias. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene la existencia de un producto en una ubicación. Sin fila devuelve
// un quant en cero, no un error.
func (r *StockRepo) Get(productID, locationID string) (*entity.Stock, error) {
	query := `
		SELECT product_id, location_id, quantity, reserved_quantity, updated_at
		FROM stock WHERE product_id = $1 AND location_id = $2`
	var s entity.Stock
	err := r.q.QueryRow(context.Background(), query, productID, locationID).Scan(
		&s.ProductID, &s.LocationID, &s.Quantity, &s.ReservedQuantity, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.Stock{
				ProductID:        productID,
				LocationID:       locationID,
				Quantity:         decimal.Zero,
				ReservedQuantity: decimal.Zero,
			}, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// Upsert inserta o actualiza la existencia (por producto y ubicación).
func (r *StockRepo) Upsert(stock *entity.Stock) error {
	query := `
		INSERT INTO stock (product_id, location_id, quantity, reserved_quantity, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (product_id, location_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, reserved_quantity = EXCLUDED.reserved_quantity, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query,
		stock.ProductID, stock.LocationID, stock.Quantity, stock.ReservedQuantity,
	)
	if err != nil {
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}

// ListWithStockByProduct devuelve las existencias positivas del producto en
// ubicaciones internas de la empresa (candidatas del chequeo de disponibilidad).
func (r *StockRepo) ListWithStockByProduct(companyID, productID string) ([]*entity.Stock, error) {
	query := `
		SELECT s.product_id, s.location_id, s.quantity, s.reserved_quantity, s.updated_at
		FROM stock s
		JOIN locations l ON l.id = s.location_id
		WHERE s.product_id = $1 AND l.company_id = $2 AND l.usage = $3 AND s.quantity > 0
		ORDER BY l.name`
	rows, err := r.q.Query(context.Background(), query, productID, companyID, entity.LocationUsageInternal)
	if err != nil {
		return nil, fmt.Errorf("list stock by product: %w", err)
	}
	defer rows.Close()
	var list []*entity.Stock
	for rows.Next() {
		var s entity.Stock
		if err := rows.Scan(&s.ProductID, &s.LocationID, &s.Quantity, &s.ReservedQuantity, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
