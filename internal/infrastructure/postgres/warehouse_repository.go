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

var _ repository.WarehouseRepository = (*WarehouseRepo)(nil)

// WarehouseRepo implementación de WarehouseRepository (usable con pool o tx).
type WarehouseRepo struct {
	q Querier
}

// NewWarehouseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWarehouseRepository(q Querier) *WarehouseRepo {
	return &WarehouseRepo{q: q}
}

const warehouseColumns = `id, company_id, code, name, address, manager_id, storekeeper_id, created_at, updated_at`

// Create persiste una bodega.
func (r *WarehouseRepo) Create(warehouse *entity.Warehouse) error {
	query := `
		INSERT INTO warehouses (` + warehouseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		warehouse.ID, warehouse.CompanyID, warehouse.Code, warehouse.Name, warehouse.Address,
		warehouse.ManagerID, warehouse.StorekeeperID, warehouse.CreatedAt, warehouse.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert warehouse: %w", err)
	}
	return nil
}

// GetByID obtiene una bodega por ID.
func (r *WarehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	query := `SELECT ` + warehouseColumns + ` FROM warehouses WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get warehouse")
}

// Update actualiza una bodega (incluye responsables).
func (r *WarehouseRepo) Update(warehouse *entity.Warehouse) error {
	query := `
		UPDATE warehouses SET code = $2, name = $3, address = $4, manager_id = $5,
			storekeeper_id = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		warehouse.ID, warehouse.Code, warehouse.Name, warehouse.Address,
		warehouse.ManagerID, warehouse.StorekeeperID, warehouse.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update warehouse: %w", err)
	}
	return nil
}

// ListByCompany lista las bodegas de la empresa.
func (r *WarehouseRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Warehouse, error) {
	query := `SELECT ` + warehouseColumns + `
		FROM warehouses WHERE company_id = $1 ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list warehouses: %w", err)
	}
	defer rows.Close()
	var list []*entity.Warehouse
	for rows.Next() {
		var w entity.Warehouse
		if err := rows.Scan(&w.ID, &w.CompanyID, &w.Code, &w.Name, &w.Address, &w.ManagerID, &w.StorekeeperID, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan warehouse: %w", err)
		}
		list = append(list, &w)
	}
	return list, rows.Err()
}

// FirstByCompany devuelve cualquier bodega de la empresa, o nil si no hay.
func (r *WarehouseRepo) FirstByCompany(companyID string) (*entity.Warehouse, error) {
	query := `SELECT ` + warehouseColumns + ` FROM warehouses WHERE company_id = $1 ORDER BY created_at LIMIT 1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, companyID), "first warehouse by company")
}

func (r *WarehouseRepo) scanOne(row pgx.Row, op string) (*entity.Warehouse, error) {
	var w entity.Warehouse
	err := row.Scan(&w.ID, &w.CompanyID, &w.Code, &w.Name, &w.Address, &w.ManagerID, &w.StorekeeperID, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &w, nil
}
