package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseRequestLine representa una línea producto/cantidad dentro de una
// solicitud de compra. Las cantidades derivadas (QtyInTransfer, PurchasedQty,
// UnfulfilledQty) se recalculan desde sus asignaciones por el ledger; nunca se
// escriben directamente desde los handlers.
type PurchaseRequestLine struct {
	ID            string
	RequestID     string
	Sequence      int // posición de la línea dentro de la solicitud
	ProductID     string
	Description   string
	ProductQty    decimal.Decimal
	UnitOfMeasure string
	EstimatedCost decimal.Decimal
	Cancelled     bool

	// Derivadas de las asignaciones.
	QtyInTransfer  decimal.Decimal // suma asignada a movimientos de stock aún no realizados
	PurchasedQty   decimal.Decimal // suma asignada a líneas de orden de compra
	UnfulfilledQty decimal.Decimal // max(0, ProductQty - cubierto); nunca negativa

	CreatedAt time.Time
	UpdatedAt time.Time
}

// FulfilledQty devuelve la cantidad ya cubierta de la línea.
func (l *PurchaseRequestLine) FulfilledQty() decimal.Decimal {
	fulfilled := l.ProductQty.Sub(l.UnfulfilledQty)
	if fulfilled.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return fulfilled
}
