package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// B2BCategory define un tramo de gasto de clientes B2B ([LowerLimit, UpperLimit)).
// UpperLimit nil significa sin tope. Los tramos activos no deben solaparse.
type B2BCategory struct {
	ID          string
	CompanyID   string
	Name        string
	Code        string // ej. BRONZE/SILVER/GOLD
	Description string
	Active      bool
	LowerLimit  decimal.Decimal
	UpperLimit  *decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Contacts []*B2BCategoryContact
}

// Contains indica si el gasto cae dentro del tramo: spend >= lower y (sin tope o spend < upper).
func (c *B2BCategory) Contains(spend decimal.Decimal) bool {
	if spend.LessThan(c.LowerLimit) {
		return false
	}
	if c.UpperLimit == nil {
		return true
	}
	return spend.LessThan(*c.UpperLimit)
}

// ProgressPct devuelve el avance 0-100 del gasto dentro del tramo.
// Sin tope superior el avance es 100.
func (c *B2BCategory) ProgressPct(spend decimal.Decimal) decimal.Decimal {
	hundred := decimal.NewFromInt(100)
	if c.UpperLimit == nil {
		return hundred
	}
	span := c.UpperLimit.Sub(c.LowerLimit)
	if !span.IsPositive() {
		return decimal.Zero
	}
	pct := spend.Sub(c.LowerLimit).Div(span).Mul(hundred)
	if pct.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	if pct.GreaterThan(hundred) {
		return hundred
	}
	return pct
}

// Overlaps indica si dos tramos se solapan (tratando UpperLimit nil como infinito).
func (c *B2BCategory) Overlaps(other *B2BCategory) bool {
	// max(lo1, lo2) < min(hi1, hi2)
	lo := c.LowerLimit
	if other.LowerLimit.GreaterThan(lo) {
		lo = other.LowerLimit
	}
	if c.UpperLimit == nil && other.UpperLimit == nil {
		return true
	}
	if c.UpperLimit == nil {
		return other.UpperLimit.GreaterThan(lo)
	}
	if other.UpperLimit == nil {
		return c.UpperLimit.GreaterThan(lo)
	}
	hi := *c.UpperLimit
	if other.UpperLimit.LessThan(hi) {
		hi = *other.UpperLimit
	}
	return lo.LessThan(hi)
}

// B2BCategoryContact es un contacto a notificar cuando un cliente del tramo
// se acerca al límite superior.
type B2BCategoryContact struct {
	ID         string
	CategoryID string
	Name       string
	Email      string
	Notify     bool
}

// B2BNotificationLog registra una notificación de umbral ya enviada, para no
// repetirla dentro de la misma ventana de evaluación.
type B2BNotificationLog struct {
	ID         string
	CustomerID string
	CategoryID string
	WindowKey  string // ej. "MTD-2026-08", "YTD-2026", "LAST-30-2026-08-31"
	CreatedAt  time.Time
}
