package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock representa la existencia de un producto en una ubicación (el "quant").
// ReservedQuantity es lo ya comprometido por movimientos pendientes.
type Stock struct {
	ProductID        string
	LocationID       string
	Quantity         decimal.Decimal
	ReservedQuantity decimal.Decimal
	UpdatedAt        time.Time
}

// Available devuelve la cantidad realmente disponible (en mano menos reservada), nunca negativa.
func (s *Stock) Available() decimal.Decimal {
	avail := s.Quantity.Sub(s.ReservedQuantity)
	if avail.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return avail
}
