package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Solicitudes-api/internal/domain/entity"
	"github.com/jhoicas/Solicitudes-api/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo implementación de LocationRepository (usable con pool o tx).
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

const locationColumns = `id, company_id, warehouse_id, name, usage, parent_path`

// Create persiste una ubicación.
func (r *LocationRepo) Create(location *entity.Location) error {
	query := `
		INSERT INTO locations (` + locationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		location.ID, location.CompanyID, location.WarehouseID, location.Name,
		location.Usage, location.ParentPath,
	)
	if err != nil {
		return fmt.Errorf("insert location: %w", err)
	}
	return nil
}

// GetByID obtiene una ubicación por ID.
func (r *LocationRepo) GetByID(id string) (*entity.Location, error) {
	query := `SELECT ` + locationColumns + ` FROM locations WHERE id = $1`
	var l entity.Location
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&l.ID, &l.CompanyID, &l.WarehouseID, &l.Name, &l.Usage, &l.ParentPath,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return &l, nil
}

// ListByWarehouse lista las ubicaciones de una bodega.
func (r *LocationRepo) ListByWarehouse(warehouseID string) ([]*entity.Location, error) {
	query := `SELECT ` + locationColumns + ` FROM locations WHERE warehouse_id = $1 ORDER BY parent_path`
	rows, err := r.q.Query(context.Background(), query, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Location
	for rows.Next() {
		var l entity.Location
		if err := rows.Scan(&l.ID, &l.CompanyID, &l.WarehouseID, &l.Name, &l.Usage, &l.ParentPath); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
