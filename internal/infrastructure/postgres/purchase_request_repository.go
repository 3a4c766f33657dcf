package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Solicitudes-api/internal/domain/entity"
	"github.com/jhoicas/Solicitudes-api/internal/domain/repository"
)

var _ repository.PurchaseRequestRepository = (*PurchaseRequestRepo)(nil)

// PurchaseRequestRepo implementación de PurchaseRequestRepository (usable con pool o tx).
type PurchaseRequestRepo struct {
	q Querier
}

// NewPurchaseRequestRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseRequestRepository(q Querier) *PurchaseRequestRepo {
	return &PurchaseRequestRepo{q: q}
}

const requestColumns = `id, name, origin, description, state, previous_state, on_hold_reason,
	requested_by_id, assigned_to_id, company_id, operation_type_id, date_start, created_at, updated_at`

// Create persiste una nueva solicitud (sin sus líneas; esas van por RequestLineRepository).
func (r *PurchaseRequestRepo) Create(request *entity.PurchaseRequest) error {
	query := `
		INSERT INTO purchase_requests (` + requestColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		request.ID, request.Name, request.Origin, request.Description, request.State,
		request.PreviousState, request.OnHoldReason, request.RequestedByID, request.AssignedToID,
		request.CompanyID, request.OperationTypeID, request.DateStart,
		request.CreatedAt, request.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert purchase request: %w", err)
	}
	return nil
}

// GetByID obtiene la solicitud con sus líneas.
func (r *PurchaseRequestRepo) GetByID(id string) (*entity.PurchaseRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM purchase_requests WHERE id = $1`
	req, err := scanRequest(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase request: %w", err)
	}
	lines, err := NewRequestLineRepository(r.q).ListByRequest(id)
	if err != nil {
		return nil, err
	}
	req.Lines = lines
	return req, nil
}

// Update actualiza la cabecera de la solicitud.
func (r *PurchaseRequestRepo) Update(request *entity.PurchaseRequest) error {
	query := `
		UPDATE purchase_requests SET origin = $2, description = $3, state = $4, previous_state = $5,
			on_hold_reason = $6, assigned_to_id = $7, operation_type_id = $8, date_start = $9, updated_at = $10
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		request.ID, request.Origin, request.Description, request.State, request.PreviousState,
		request.OnHoldReason, request.AssignedToID, request.OperationTypeID, request.DateStart,
		request.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update purchase request: %w", err)
	}
	return nil
}

// Delete elimina la solicitud en cascada: asignaciones, líneas y cabecera.
func (r *PurchaseRequestRepo) Delete(id string) error {
	ctx := context.Background()
	_, err := r.q.Exec(ctx, `
		DELETE FROM allocations
		WHERE request_line_id IN (SELECT id FROM purchase_request_lines WHERE request_id = $1)`, id)
	if err != nil {
		return fmt.Errorf("delete request allocations: %w", err)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM purchase_request_lines WHERE request_id = $1`, id); err != nil {
		return fmt.Errorf("delete request lines: %w", err)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM purchase_requests WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete purchase request: %w", err)
	}
	return nil
}

// ListByCompany lista solicitudes de la empresa, opcionalmente filtradas por estado.
func (r *PurchaseRequestRepo) ListByCompany(companyID, state string, limit, offset int) ([]*entity.PurchaseRequest, error) {
	query := `SELECT ` + requestColumns + `
		FROM purchase_requests
		WHERE company_id = $1 AND ($2 = '' OR state = $2)
		ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, companyID, state, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list purchase requests: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase request: %w", err)
		}
		list = append(list, req)
	}
	return list, rows.Err()
}

// CountCreatedBySince cuenta solicitudes creadas por el usuario desde el instante dado (cupo semanal).
func (r *PurchaseRequestRepo) CountCreatedBySince(userID string, since time.Time) (int, error) {
	var count int
	err := r.q.QueryRow(context.Background(),
		`SELECT count(*) FROM purchase_requests WHERE requested_by_id = $1 AND created_at >= $2`,
		userID, since,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count purchase requests since: %w", err)
	}
	return count, nil
}

// NextName consume la secuencia de referencias de solicitud (PR00042).
func (r *PurchaseRequestRepo) NextName() (string, error) {
	var n int64
	err := r.q.QueryRow(context.Background(), `SELECT nextval('purchase_request_name_seq')`).Scan(&n)
	if err != nil {
		return "", fmt.Errorf("next purchase request name: %w", err)
	}
	return fmt.Sprintf("PR%05d", n), nil
}

func scanRequest(row pgx.Row) (*entity.PurchaseRequest, error) {
	var req entity.PurchaseRequest
	err := row.Scan(
		&req.ID, &req.Name, &req.Origin, &req.Description, &req.State, &req.PreviousState,
		&req.OnHoldReason, &req.RequestedByID, &req.AssignedToID, &req.CompanyID,
		&req.OperationTypeID, &req.DateStart, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &req, nil
}
