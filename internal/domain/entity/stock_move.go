package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un movimiento de stock.
const (
	MoveStateDraft  = "draft"
	MoveStateDone   = "done"
	MoveStateCancel = "cancel"
)

// StockMove representa un movimiento de producto entre dos ubicaciones,
// agrupado en un Picking. RequestLineID enlaza con la línea de solicitud que
// lo originó, cuando aplica.
type StockMove struct {
	ID               string
	PickingID        string
	CompanyID        string
	ProductID        string
	Description      string
	Qty              decimal.Decimal
	UnitOfMeasure    string
	SourceLocationID string
	DestLocationID   string
	State            string // ver MoveState*
	RequestLineID    *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
