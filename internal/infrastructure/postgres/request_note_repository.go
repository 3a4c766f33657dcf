package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Solicitudes-api/internal/domain/entity"
	"github.com/jhoicas/Solicitudes-api/internal/domain/repository"
)

var _ repository.RequestNoteRepository = (*RequestNoteRepo)(nil)

// RequestNoteRepo implementación de RequestNoteRepository (usable con pool o tx).
type RequestNoteRepo struct {
	q Querier
}

// NewRequestNoteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRequestNoteRepository(q Querier) *RequestNoteRepo {
	return &RequestNoteRepo{q: q}
}

// Create persiste una nota en el hilo de la solicitud.
func (r *RequestNoteRepo) Create(note *entity.RequestNote) error {
	query := `
		INSERT INTO request_notes (id, request_id, author_id, body, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		note.ID, note.RequestID, note.AuthorID, note.Body, note.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert request note: %w", err)
	}
	return nil
}

// ListByRequest lista las notas de la solicitud, más reciente primero.
func (r *RequestNoteRepo) ListByRequest(requestID string, limit, offset int) ([]*entity.RequestNote, error) {
	query := `
		SELECT id, request_id, author_id, body, created_at
		FROM request_notes WHERE request_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, requestID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list request notes: %w", err)
	}
	defer rows.Close()
	var list []*entity.RequestNote
	for rows.Next() {
		var n entity.RequestNote
		if err := rows.Scan(&n.ID, &n.RequestID, &n.AuthorID, &n.Body, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan request note: %w", err)
		}
		list = append(list, &n)
	}
	return list, rows.Err()
}
