package repository

import "github.com/jhoicas/Solicitudes-api/internal/domain/entity"

// RequestNoteRepository define el puerto de persistencia para el hilo de notas de una solicitud (DIP).
type RequestNoteRepository interface {
	Create(note *entity.RequestNote) error
	ListByRequest(requestID string, limit, offset int) ([]*entity.RequestNote, error)
}
