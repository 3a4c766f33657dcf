package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una caja menor.
const (
	PettyCashStateDraft   = "draft"
	PettyCashStateRunning = "running"
	PettyCashStateClosed  = "closed"
)

// PettyCash representa la caja menor de un custodio. Los montos se recalculan
// desde las líneas: saldo inicial (años anteriores), asignado y gastado del
// año en curso, y saldo restante.
type PettyCash struct {
	ID          string
	CompanyID   string
	Name        string
	State       string // ver PettyCashState*
	CustodianID string
	JournalName string // diario de caja asociado
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time

	AmountBroughtForward decimal.Decimal
	AmountAllocated      decimal.Decimal
	AmountExpensed       decimal.Decimal
	AmountLeft           decimal.Decimal

	AllocationLines []*PettyCashLine
	ExpenseLines    []*PettyCashLine
}

// Tipos de línea de caja menor.
const (
	PettyCashLineAllocation = "allocation"
	PettyCashLineExpense    = "expense"
)

// PettyCashLine es una asignación de fondos o un gasto de la caja menor.
type PettyCashLine struct {
	ID          string
	PettyCashID string
	Kind        string // allocation | expense
	Date        time.Time
	Amount      decimal.Decimal
	Description string
	Reference   string // recibo o comprobante (gastos)
	CreatedByID string
	CreatedAt   time.Time
}

// RecomputeAmounts recalcula los montos desde las líneas, separando el año en
// curso del acumulado de años anteriores.
func (p *PettyCash) RecomputeAmounts(now time.Time) {
	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())

	broughtForward := decimal.Zero
	allocated := decimal.Zero
	expensed := decimal.Zero

	for _, line := range p.AllocationLines {
		if line.Date.Before(yearStart) {
			broughtForward = broughtForward.Add(line.Amount)
		} else {
			allocated = allocated.Add(line.Amount)
		}
	}
	for _, line := range p.ExpenseLines {
		if line.Date.Before(yearStart) {
			broughtForward = broughtForward.Sub(line.Amount)
		} else {
			expensed = expensed.Add(line.Amount)
		}
	}

	p.AmountBroughtForward = broughtForward
	p.AmountAllocated = allocated
	p.AmountExpensed = expensed
	p.AmountLeft = broughtForward.Add(allocated).Sub(expensed)
}
