package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Solicitudes-api/internal/domain/entity"
	"github.com/jhoicas/Solicitudes-api/internal/domain/repository"
)

var _ repository.PickingRepository = (*PickingRepo)(nil)

// PickingRepo implementación de PickingRepository (usable con pool o tx).
type PickingRepo struct {
	q Querier
}

// NewPickingRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPickingRepository(q Querier) *PickingRepo {
	return &PickingRepo{q: q}
}

const pickingColumns = `id, name, company_id, operation_type_id, source_location_id,
	dest_location_id, origin, state, created_at, updated_at`

// Create persiste un documento de transferencia (sin movimientos).
func (r *PickingRepo) Create(picking *entity.Picking) error {
	query := `
		INSERT INTO pickings (` + pickingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		picking.ID, picking.Name, picking.CompanyID, picking.OperationTypeID,
		picking.SourceLocationID, picking.DestLocationID, picking.Origin, picking.State,
		picking.CreatedAt, picking.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert picking: %w", err)
	}
	return nil
}

// GetByID obtiene el documento con sus movimientos.
func (r *PickingRepo) GetByID(id string) (*entity.Picking, error) {
	query := `SELECT ` + pickingColumns + ` FROM pickings WHERE id = $1`
	p, err := scanPicking(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get picking: %w", err)
	}
	moves, err := NewStockMoveRepository(r.q).ListByPicking(id)
	if err != nil {
		return nil, err
	}
	p.Moves = moves
	return p, nil
}

// Update actualiza la cabecera del documento.
func (r *PickingRepo) Update(picking *entity.Picking) error {
	query := `
		UPDATE pickings SET operation_type_id = $2, source_location_id = $3, dest_location_id = $4,
			origin = $5, state = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		picking.ID, picking.OperationTypeID, picking.SourceLocationID, picking.DestLocationID,
		picking.Origin, picking.State, picking.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update picking: %w", err)
	}
	return nil
}

// ListByOrigin lista los documentos generados desde un documento origen (la solicitud).
func (r *PickingRepo) ListByOrigin(origin string) ([]*entity.Picking, error) {
	query := `SELECT ` + pickingColumns + ` FROM pickings WHERE origin = $1 ORDER BY created_at, id`
	rows, err := r.q.Query(context.Background(), query, origin)
	if err != nil {
		return nil, fmt.Errorf("list pickings by origin: %w", err)
	}
	defer rows.Close()
	var list []*entity.Picking
	for rows.Next() {
		p, err := scanPicking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan picking: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// NextName consume la secuencia de referencias de transferencia (TR00017).
func (r *PickingRepo) NextName() (string, error) {
	var n int64
	err := r.q.QueryRow(context.Background(), `SELECT nextval('picking_name_seq')`).Scan(&n)
	if err != nil {
		return "", fmt.Errorf("next picking name: %w", err)
	}
	return fmt.Sprintf("TR%05d", n), nil
}

func scanPicking(row pgx.Row) (*entity.Picking, error) {
	var p entity.Picking
	err := row.Scan(
		&p.ID, &p.Name, &p.CompanyID, &p.OperationTypeID, &p.SourceLocationID,
		&p.DestLocationID, &p.Origin, &p.State, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
