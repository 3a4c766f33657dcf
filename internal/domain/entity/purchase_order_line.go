package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una línea de orden de compra.
const (
	PurchaseLineStateDraft    = "draft"
	PurchaseLineStatePurchase = "purchase"
	PurchaseLineStateDone     = "done"
	PurchaseLineStateCancel   = "cancel"
)

// PurchaseOrderLine representa una línea de orden de compra que puede cubrir
// parte de una línea de solicitud (la otra acción de cumplimiento además de la
// transferencia interna).
type PurchaseOrderLine struct {
	ID            string
	CompanyID     string
	OrderName     string // referencia de la orden, ej. "PO00031"
	ProductID     string
	Qty           decimal.Decimal
	UnitOfMeasure string
	QtyReceived   decimal.Decimal
	State         string // ver PurchaseLineState*
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
