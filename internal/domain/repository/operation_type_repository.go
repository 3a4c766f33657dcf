package repository

import "github.com/jhoicas/Solicitudes-api/internal/domain/entity"

// OperationTypeRepository define el puerto de persistencia para OperationType (DIP).
type OperationTypeRepository interface {
	Create(opType *entity.OperationType) error
	GetByID(id string) (*entity.OperationType, error)
	// FirstByCode devuelve el primer tipo de operación del código dado en la
	// empresa (default de recepción para solicitudes nuevas). nil si no hay.
	FirstByCode(companyID, code string) (*entity.OperationType, error)
	// FindByWarehouseAndCode devuelve el tipo de operación del código dado en
	// la bodega, o nil si la bodega no lo tiene configurado.
	FindByWarehouseAndCode(warehouseID, code string) (*entity.OperationType, error)
}
