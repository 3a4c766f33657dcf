package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Solicitudes-api/internal/domain/entity"
	"github.com/jhoicas/Solicitudes-api/internal/domain/repository"
)

var _ repository.OperationTypeRepository = (*OperationTypeRepo)(nil)

// OperationTypeRepo implementación de OperationTypeRepository (usable con pool o tx).
type OperationTypeRepo struct {
	q Querier
}

// NewOperationTypeRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOperationTypeRepository(q Querier) *OperationTypeRepo {
	return &OperationTypeRepo{q: q}
}

const operationTypeColumns = `id, company_id, warehouse_id, name, code, default_dest_location_id`

// Create persiste un tipo de operación.
func (r *OperationTypeRepo) Create(opType *entity.OperationType) error {
	query := `
		INSERT INTO operation_types (` + operationTypeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		opType.ID, opType.CompanyID, opType.WarehouseID, opType.Name, opType.Code,
		opType.DefaultDestLocationID,
	)
	if err != nil {
		return fmt.Errorf("insert operation type: %w", err)
	}
	return nil
}

// GetByID obtiene un tipo de operación por ID.
func (r *OperationTypeRepo) GetByID(id string) (*entity.OperationType, error) {
	query := `SELECT ` + operationTypeColumns + ` FROM operation_types WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get operation type")
}

// FirstByCode devuelve el primer tipo de operación del código dado en la
// empresa, o nil si no hay ninguno.
func (r *OperationTypeRepo) FirstByCode(companyID, code string) (*entity.OperationType, error) {
	query := `SELECT ` + operationTypeColumns + `
		FROM operation_types WHERE company_id = $1 AND code = $2 ORDER BY name LIMIT 1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, companyID, code), "first operation type by code")
}

// FindByWarehouseAndCode devuelve el tipo de operación del código dado en la
// bodega, o nil si la bodega no lo tiene configurado.
func (r *OperationTypeRepo) FindByWarehouseAndCode(warehouseID, code string) (*entity.OperationType, error) {
	query := `SELECT ` + operationTypeColumns + `
		FROM operation_types WHERE warehouse_id = $1 AND code = $2 LIMIT 1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, warehouseID, code), "find operation type by warehouse")
}

func (r *OperationTypeRepo) scanOne(row pgx.Row, op string) (*entity.OperationType, error) {
	var t entity.OperationType
	err := row.Scan(&t.ID, &t.CompanyID, &t.WarehouseID, &t.Name, &t.Code, &t.DefaultDestLocationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &t, nil
}
