package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// B2BContactInput un contacto a notificar cuando un cliente se acerca al
// umbral de la categoría.
type B2BContactInput struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

// CreateB2BCategoryRequest entrada para crear una categoría de gasto B2B.
type CreateB2BCategoryRequest struct {
	Name      string            `json:"name" validate:"required,min=2,max=100"`
	MinAmount decimal.Decimal   `json:"min_amount"`
	MaxAmount decimal.Decimal   `json:"max_amount"`
	Contacts  []B2BContactInput `json:"contacts" validate:"dive"`
}

// UpdateB2BCategoryRequest entrada para actualizar una categoría existente.
type UpdateB2BCategoryRequest struct {
	Name      string            `json:"name" validate:"required,min=2,max=100"`
	MinAmount decimal.Decimal   `json:"min_amount"`
	MaxAmount decimal.Decimal   `json:"max_amount"`
	Contacts  []B2BContactInput `json:"contacts" validate:"dive"`
}

// B2BCategoryResponse salida de una categoría de gasto.
type B2BCategoryResponse struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	MinAmount decimal.Decimal   `json:"min_amount"`
	MaxAmount decimal.Decimal   `json:"max_amount"`
	Contacts  []B2BContactInput `json:"contacts"`
	CreatedAt time.Time         `json:"created_at"`
}

// B2BCustomerStatus estado de categorización de un cliente B2B.
type B2BCustomerStatus struct {
	CustomerID     string          `json:"customer_id"`
	CustomerName   string          `json:"customer_name"`
	CategoryID     *string         `json:"category_id,omitempty"`
	CategoryName   string          `json:"category_name,omitempty"`
	TotalSpend     decimal.Decimal `json:"total_spend"`
	ProgressPct    decimal.Decimal `json:"progress_pct"`
	LastNotifiedAt *time.Time      `json:"last_notified_at,omitempty"`
}

// B2BRunSummary resumen de una corrida de categorización.
type B2BRunSummary struct {
	Evaluated     int       `json:"evaluated"`
	Categorized   int       `json:"categorized"`
	Uncategorized int       `json:"uncategorized"`
	Notified      int       `json:"notified"`
	WindowFrom    time.Time `json:"window_from"`
	WindowTo      time.Time `json:"window_to"`
}
