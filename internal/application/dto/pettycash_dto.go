package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePettyCashRequest entrada para abrir una caja menor a un custodio.
type CreatePettyCashRequest struct {
	CustodianID string `json:"custodian_id" validate:"required,uuid"`
	Name        string `json:"name"`
}

// PettyCashLineInput entrada para registrar una asignación o un gasto.
type PettyCashLineInput struct {
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	Description string          `json:"description" validate:"required"`
	Reference   string          `json:"reference"`
	Date        time.Time       `json:"date"`
}

// PettyCashLineResponse una línea del libro de caja menor.
type PettyCashLineResponse struct {
	ID          string          `json:"id"`
	Kind        string          `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
}

// PettyCashResponse salida de una caja menor con sus montos derivados.
type PettyCashResponse struct {
	ID             string                  `json:"id"`
	Name           string                  `json:"name"`
	CustodianID    string                  `json:"custodian_id"`
	State          string                  `json:"state"`
	AllocatedTotal decimal.Decimal         `json:"allocated_total"`
	SpentTotal     decimal.Decimal         `json:"spent_total"`
	Balance        decimal.Decimal         `json:"balance"`
	BroughtForward decimal.Decimal         `json:"brought_forward"`
	Lines          []PettyCashLineResponse `json:"lines,omitempty"`
	CreatedAt      time.Time               `json:"created_at"`
}
