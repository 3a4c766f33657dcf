package entity

import "time"

// Estados de un documento de transferencia.
const (
	PickingStateDraft  = "draft"
	PickingStateDone   = "done"
	PickingStateCancel = "cancel"
)

// Picking representa un documento de transferencia de stock (agrupa movimientos
// con un mismo origen, destino y tipo de operación).
type Picking struct {
	ID               string
	Name             string // referencia secuencial, ej. "TR00017"
	CompanyID        string
	OperationTypeID  string
	SourceLocationID string
	DestLocationID   string
	Origin           string // nombre del documento origen (la solicitud)
	State            string // ver PickingState*
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Moves []*StockMove
}
