package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Solicitudes-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.CustomerSpendRepository = (*CustomerSpendRepo)(nil)

// CustomerSpendRepo agrega el gasto facturado por cliente desde la tabla de
// facturas. Las notas crédito entran con monto negativo, así el total refleja
// el gasto neto de la ventana.
type CustomerSpendRepo struct {
	q Querier
}

// NewCustomerSpendRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerSpendRepository(q Querier) *CustomerSpendRepo {
	return &CustomerSpendRepo{q: q}
}

// TotalsByCustomer devuelve el gasto neto por cliente dentro de la ventana
// [from, to]. Solo cuentan documentos contabilizados.
func (r *CustomerSpendRepo) TotalsByCustomer(companyID string, from, to time.Time) (map[string]decimal.Decimal, error) {
	query := `
		SELECT customer_id, COALESCE(sum(signed_total), 0)
		FROM invoices
		WHERE company_id = $1 AND status = 'posted' AND date >= $2 AND date <= $3
		GROUP BY customer_id`
	rows, err := r.q.Query(context.Background(), query, companyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("totals by customer: %w", err)
	}
	defer rows.Close()
	totals := make(map[string]decimal.Decimal)
	for rows.Next() {
		var customerID string
		var total decimal.Decimal
		if err := rows.Scan(&customerID, &total); err != nil {
			return nil, fmt.Errorf("scan customer total: %w", err)
		}
		totals[customerID] = total
	}
	return totals, rows.Err()
}
