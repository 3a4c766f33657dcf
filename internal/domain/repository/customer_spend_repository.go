package repository

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomerSpendRepository agrega el gasto facturado por cliente dentro de una
// ventana (facturas y notas crédito contabilizadas, monto firmado). Es la
// única consulta del módulo B2B sobre el módulo de facturación.
type CustomerSpendRepository interface {
	TotalsByCustomer(companyID string, from, to time.Time) (map[string]decimal.Decimal, error)
}
