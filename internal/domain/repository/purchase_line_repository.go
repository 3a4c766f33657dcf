package repository

import "github.com/jhoicas/Solicitudes-api/internal/domain/entity"

// PurchaseLineRepository define el puerto de persistencia para líneas de orden de compra (DIP).
type PurchaseLineRepository interface {
	Create(line *entity.PurchaseOrderLine) error
	GetByID(id string) (*entity.PurchaseOrderLine, error)
	Update(line *entity.PurchaseOrderLine) error
}
