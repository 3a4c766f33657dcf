package repository

import "github.com/jhoicas/Solicitudes-api/internal/domain/entity"

// PettyCashRepository define el puerto de persistencia para cajas menores (DIP).
// GetByID carga la caja con sus líneas de asignación y gasto.
type PettyCashRepository interface {
	Create(pettyCash *entity.PettyCash) error
	GetByID(id string) (*entity.PettyCash, error)
	Update(pettyCash *entity.PettyCash) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.PettyCash, error)
	AddLine(line *entity.PettyCashLine) error
	// ListLines filtra líneas para el reporte: custodianID y year en cero
	// significan sin filtro.
	ListLines(companyID, custodianID string, year int) ([]*entity.PettyCashLine, error)
}
