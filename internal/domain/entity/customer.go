package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer representa un cliente de la empresa (sujeto a categorización B2B por gasto).
type Customer struct {
	ID        string
	CompanyID string
	Name      string
	TaxID     string
	Email     string
	Phone     string
	IsB2B     bool // solo los clientes B2B entran al job de categorización

	// Campos mantenidos por el job nocturno de categorización.
	B2BCategoryID        *string         // nil = sin categoría (gasto cero o negativo)
	B2BTotalSpend        decimal.Decimal // gasto facturado en la ventana vigente
	B2BProgressPct       decimal.Decimal // avance 0-100 hacia el límite superior del tramo
	B2BLastNotifiedAt    *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
