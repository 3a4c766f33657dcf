package repository

import (
	"time"

	"github.com/jhoicas/Solicitudes-api/internal/domain/entity"
)

// PurchaseRequestRepository define el puerto de persistencia para solicitudes de compra (DIP).
// GetByID carga la solicitud con sus líneas. Delete elimina en cascada las
// líneas y sus asignaciones.
type PurchaseRequestRepository interface {
	Create(request *entity.PurchaseRequest) error
	GetByID(id string) (*entity.PurchaseRequest, error)
	Update(request *entity.PurchaseRequest) error
	Delete(id string) error
	ListByCompany(companyID, state string, limit, offset int) ([]*entity.PurchaseRequest, error)
	// CountCreatedBySince cuenta solicitudes creadas por el usuario desde el
	// instante dado (cupo semanal).
	CountCreatedBySince(userID string, since time.Time) (int, error)
	// NextName consume la secuencia de referencias (ej. "PR00042").
	NextName() (string, error)
}
