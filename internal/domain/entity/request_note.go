package entity

import "time"

// RequestNote es un mensaje informativo en el hilo de actividad de una solicitud
// (recepciones asignadas, cambios de estado relevantes).
type RequestNote struct {
	ID        string
	RequestID string
	AuthorID  string // vacío cuando lo genera el sistema
	Body      string
	CreatedAt time.Time
}
