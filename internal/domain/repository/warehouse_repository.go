package repository

import "github.com/jhoicas/Solicitudes-api/internal/domain/entity"

// WarehouseRepository define el puerto de persistencia para Warehouse (DIP).
type WarehouseRepository interface {
	Create(warehouse *entity.Warehouse) error
	GetByID(id string) (*entity.Warehouse, error)
	Update(warehouse *entity.Warehouse) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.Warehouse, error)
	// FirstByCompany devuelve cualquier bodega de la empresa (fallback al
	// resolver el tipo de operación interna). nil si no hay bodegas.
	FirstByCompany(companyID string) (*entity.Warehouse, error)
}
