package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Allocation vincula una línea de solicitud con exactamente una acción de
// cumplimiento: un movimiento de stock o una línea de orden de compra. Cada
// acción genera su propia asignación; nunca se reutiliza una existente para
// otra acción.
type Allocation struct {
	ID            string
	RequestLineID string
	CompanyID     string

	StockMoveID    *string // transferencia interna que cubre la línea
	PurchaseLineID *string // línea de orden de compra que cubre la línea

	RequestedProductUomQty decimal.Decimal // cantidad de la línea que esta asignación reclama (UoM de la línea)
	AllocatedProductQty    decimal.Decimal // cantidad efectivamente entregada (UoM base del producto)

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OpenQty devuelve la cantidad abierta de la asignación:
// cero si la línea de compra vinculada está cancelada o cerrada,
// si no max(0, solicitada - entregada).
func (a *Allocation) OpenQty(purchaseLineState string) decimal.Decimal {
	if a.PurchaseLineID != nil &&
		(purchaseLineState == PurchaseLineStateCancel || purchaseLineState == PurchaseLineStateDone) {
		return decimal.Zero
	}
	open := a.RequestedProductUomQty.Sub(a.AllocatedProductQty)
	if open.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return open
}
