package repository

import "github.com/jhoicas/Solicitudes-api/internal/domain/entity"

// PickingRepository define el puerto de persistencia para documentos de transferencia (DIP).
type PickingRepository interface {
	Create(picking *entity.Picking) error
	GetByID(id string) (*entity.Picking, error)
	Update(picking *entity.Picking) error
	ListByOrigin(origin string) ([]*entity.Picking, error)
	// NextName consume la secuencia de referencias (ej. "TR00017").
	NextName() (string, error)
}
