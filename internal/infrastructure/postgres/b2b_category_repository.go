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

var _ repository.B2BCategoryRepository = (*B2BCategoryRepo)(nil)
var _ repository.B2BNotificationLogRepository = (*B2BNotificationLogRepo)(nil)

// B2BCategoryRepo implementación de B2BCategoryRepository (usable con pool o tx).
type B2BCategoryRepo struct {
	q Querier
}

// NewB2BCategoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewB2BCategoryRepository(q Querier) *B2BCategoryRepo {
	return &B2BCategoryRepo{q: q}
}

const b2bCategoryColumns = `id, company_id, name, code, description, active, lower_limit, upper_limit, created_at, updated_at`

// Create persiste un tramo con sus contactos de notificación.
func (r *B2BCategoryRepo) Create(category *entity.B2BCategory) error {
	ctx := context.Background()
	query := `
		INSERT INTO b2b_categories (` + b2bCategoryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		category.ID, category.CompanyID, category.Name, category.Code, category.Description,
		category.Active, category.LowerLimit, category.UpperLimit, category.CreatedAt, category.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert b2b category: %w", err)
	}
	return r.insertContacts(ctx, category)
}

// GetByID obtiene el tramo con sus contactos.
func (r *B2BCategoryRepo) GetByID(id string) (*entity.B2BCategory, error) {
	query := `SELECT ` + b2bCategoryColumns + ` FROM b2b_categories WHERE id = $1`
	c, err := scanB2BCategory(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get b2b category: %w", err)
	}
	if err := r.loadContacts(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Update actualiza el tramo y reemplaza sus contactos.
func (r *B2BCategoryRepo) Update(category *entity.B2BCategory) error {
	ctx := context.Background()
	query := `
		UPDATE b2b_categories SET name = $2, code = $3, description = $4, active = $5,
			lower_limit = $6, upper_limit = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		category.ID, category.Name, category.Code, category.Description, category.Active,
		category.LowerLimit, category.UpperLimit, category.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update b2b category: %w", err)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM b2b_category_contacts WHERE category_id = $1`, category.ID); err != nil {
		return fmt.Errorf("delete b2b category contacts: %w", err)
	}
	return r.insertContacts(ctx, category)
}

// Delete elimina el tramo y sus contactos.
func (r *B2BCategoryRepo) Delete(id string) error {
	ctx := context.Background()
	if _, err := r.q.Exec(ctx, `DELETE FROM b2b_category_contacts WHERE category_id = $1`, id); err != nil {
		return fmt.Errorf("delete b2b category contacts: %w", err)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM b2b_categories WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete b2b category: %w", err)
	}
	return nil
}

// ListActiveByCompany devuelve los tramos activos ordenados por límite inferior.
func (r *B2BCategoryRepo) ListActiveByCompany(companyID string) ([]*entity.B2BCategory, error) {
	query := `SELECT ` + b2bCategoryColumns + `
		FROM b2b_categories WHERE company_id = $1 AND active ORDER BY lower_limit`
	return r.listQuery(query, companyID)
}

// ListByCompany devuelve todos los tramos de la empresa.
func (r *B2BCategoryRepo) ListByCompany(companyID string) ([]*entity.B2BCategory, error) {
	query := `SELECT ` + b2bCategoryColumns + `
		FROM b2b_categories WHERE company_id = $1 ORDER BY lower_limit`
	return r.listQuery(query, companyID)
}

func (r *B2BCategoryRepo) listQuery(query string, args ...any) ([]*entity.B2BCategory, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list b2b categories: %w", err)
	}
	defer rows.Close()
	var list []*entity.B2BCategory
	for rows.Next() {
		c, err := scanB2BCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan b2b category: %w", err)
		}
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, c := range list {
		if err := r.loadContacts(c); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *B2BCategoryRepo) insertContacts(ctx context.Context, category *entity.B2BCategory) error {
	for _, contact := range category.Contacts {
		_, err := r.q.Exec(ctx, `
			INSERT INTO b2b_category_contacts (id, category_id, name, email, notify)
			VALUES ($1, $2, $3, $4, $5)`,
			contact.ID, category.ID, contact.Name, contact.Email, contact.Notify,
		)
		if err != nil {
			return fmt.Errorf("insert b2b category contact: %w", err)
		}
	}
	return nil
}

func (r *B2BCategoryRepo) loadContacts(category *entity.B2BCategory) error {
	rows, err := r.q.Query(context.Background(), `
		SELECT id, category_id, name, email, notify
		FROM b2b_category_contacts WHERE category_id = $1 ORDER BY name`, category.ID)
	if err != nil {
		return fmt.Errorf("list b2b category contacts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var contact entity.B2BCategoryContact
		if err := rows.Scan(&contact.ID, &contact.CategoryID, &contact.Name, &contact.Email, &contact.Notify); err != nil {
			return fmt.Errorf("scan b2b category contact: %w", err)
		}
		category.Contacts = append(category.Contacts, &contact)
	}
	return rows.Err()
}

func scanB2BCategory(row pgx.Row) (*entity.B2BCategory, error) {
	var c entity.B2BCategory
	err := row.Scan(
		&c.ID, &c.CompanyID, &c.Name, &c.Code, &c.Description, &c.Active,
		&c.LowerLimit, &c.UpperLimit, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// B2BNotificationLogRepo registra notificaciones de umbral enviadas, una por
// (cliente, tramo, ventana).
type B2BNotificationLogRepo struct {
	q Querier
}

// NewB2BNotificationLogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewB2BNotificationLogRepository(q Querier) *B2BNotificationLogRepo {
	return &B2BNotificationLogRepo{q: q}
}

// Exists indica si ya se notificó al cliente en este tramo y ventana.
func (r *B2BNotificationLogRepo) Exists(customerID, categoryID, windowKey string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(context.Background(), `
		SELECT EXISTS (
			SELECT 1 FROM b2b_notification_logs
			WHERE customer_id = $1 AND category_id = $2 AND window_key = $3
		)`, customerID, categoryID, windowKey,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("b2b notification exists: %w", err)
	}
	return exists, nil
}

// Create registra una notificación enviada.
func (r *B2BNotificationLogRepo) Create(log *entity.B2BNotificationLog) error {
	_, err := r.q.Exec(context.Background(), `
		INSERT INTO b2b_notification_logs (id, customer_id, category_id, window_key, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		log.ID, log.CustomerID, log.CategoryID, log.WindowKey, log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert b2b notification log: %w", err)
	}
	return nil
}
