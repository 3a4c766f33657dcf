package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU solicitable (multi-bodega).
type Product struct {
	ID            string
	CompanyID     string
	SKU           string // código único por empresa
	Name          string
	Description   string
	Price         decimal.Decimal // precio de lista
	Cost          decimal.Decimal // costo estimado (para costo estimado de líneas)
	UnitOfMeasure string          // ej. "unidad", "kg", "caja"
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
