package repository

import "github.com/jhoicas/Solicitudes-api/internal/domain/entity"

// AllocationRepository define el puerto de persistencia para asignaciones (DIP).
type AllocationRepository interface {
	Create(allocation *entity.Allocation) error
	GetByID(id string) (*entity.Allocation, error)
	Update(allocation *entity.Allocation) error
	Delete(id string) error
	ListByLine(requestLineID string) ([]*entity.Allocation, error)
	ListByStockMove(stockMoveID string) ([]*entity.Allocation, error)
	ListByPurchaseLine(purchaseLineID string) ([]*entity.Allocation, error)
}
