package repository

import "github.com/jhoicas/Solicitudes-api/internal/domain/entity"

// StockRepository define el puerto de persistencia para existencias por ubicación (DIP).
type StockRepository interface {
	Get(productID, locationID string) (*entity.Stock, error)
	Upsert(stock *entity.Stock) error
	// ListWithStockByProduct devuelve las existencias positivas del producto en
	// ubicaciones internas de la empresa (candidatas para el chequeo de
	// disponibilidad).
	ListWithStockByProduct(companyID, productID string) ([]*entity.Stock, error)
}
