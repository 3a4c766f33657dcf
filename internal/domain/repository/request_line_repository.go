package repository

import "github.com/jhoicas/Solicitudes-api/internal/domain/entity"

// RequestLineRepository define el puerto de persistencia para líneas de solicitud (DIP).
type RequestLineRepository interface {
	Create(line *entity.PurchaseRequestLine) error
	GetByID(id string) (*entity.PurchaseRequestLine, error)
	Update(line *entity.PurchaseRequestLine) error
	Delete(id string) error
	ListByRequest(requestID string) ([]*entity.PurchaseRequestLine, error)
}
