package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Solicitudes-api/internal/domain"
	"github.com/jhoicas/Solicitudes-api/internal/domain/entity"
	"github.com/jhoicas/Solicitudes-api/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

const customerColumns = `id, company_id, name, tax_id, email, phone, is_b2b,
	b2b_category_id, b2b_total_spend, b2b_progress_pct, b2b_last_notified_at, created_at, updated_at`

// Create persiste un nuevo cliente.
func (r *CustomerRepo) Create(customer *entity.Customer) error {
	query := `
		INSERT INTO customers (` + customerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		customer.ID, customer.CompanyID, customer.Name, customer.TaxID, customer.Email,
		customer.Phone, customer.IsB2B, customer.B2BCategoryID, customer.B2BTotalSpend,
		customer.B2BProgressPct, customer.B2BLastNotifiedAt, customer.CreatedAt, customer.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID.
func (r *CustomerRepo) GetByID(id string) (*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	c, err := scanCustomer(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

// Update actualiza un cliente, incluidos los campos que mantiene el job de
// categorización B2B.
func (r *CustomerRepo) Update(customer *entity.Customer) error {
	query := `
		UPDATE customers SET name = $2, tax_id = $3, email = $4, phone = $5, is_b2b = $6,
			b2b_category_id = $7, b2b_total_spend = $8, b2b_progress_pct = $9,
			b2b_last_notified_at = $10, updated_at = $11
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		customer.ID, customer.Name, customer.TaxID, customer.Email, customer.Phone,
		customer.IsB2B, customer.B2BCategoryID, customer.B2BTotalSpend,
		customer.B2BProgressPct, customer.B2BLastNotifiedAt, customer.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update customer: %w", err)
	}
	return nil
}

// ListByCompany lista clientes de la empresa con paginación.
func (r *CustomerRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Customer, error) {
	query := `SELECT ` + customerColumns + `
		FROM customers WHERE company_id = $1 ORDER BY name LIMIT $2 OFFSET $3`
	return r.listQuery(query, companyID, limit, offset)
}

// ListB2BByCompany devuelve los clientes marcados B2B (candidatos del job de categorización).
func (r *CustomerRepo) ListB2BByCompany(companyID string) ([]*entity.Customer, error) {
	query := `SELECT ` + customerColumns + `
		FROM customers WHERE company_id = $1 AND is_b2b ORDER BY name`
	return r.listQuery(query, companyID)
}

func (r *CustomerRepo) listQuery(query string, args ...any) ([]*entity.Customer, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func scanCustomer(row pgx.Row) (*entity.Customer, error) {
	var c entity.Customer
	err := row.Scan(
		&c.ID, &c.CompanyID, &c.Name, &c.TaxID, &c.Email, &c.Phone, &c.IsB2B,
		&c.B2BCategoryID, &c.B2BTotalSpend, &c.B2BProgressPct, &c.B2BLastNotifiedAt,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
