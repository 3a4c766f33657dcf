package repository

import "github.com/jhoicas/Solicitudes-api/internal/domain/entity"

// StockMoveRepository define el puerto de persistencia para movimientos de stock (DIP).
type StockMoveRepository interface {
	Create(move *entity.StockMove) error
	GetByID(id string) (*entity.StockMove, error)
	Update(move *entity.StockMove) error
	ListByPicking(pickingID string) ([]*entity.StockMove, error)
}
