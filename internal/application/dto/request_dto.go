package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RequestLineInput una línea producto/cantidad al crear o editar una solicitud.
type RequestLineInput struct {
	ProductID     string          `json:"product_id" validate:"required,uuid"`
	Description   string          `json:"description"`
	Qty           decimal.Decimal `json:"qty" validate:"required"`
	UnitOfMeasure string          `json:"unit_of_measure"`
}

// CreateRequestRequest entrada para crear una solicitud de compra.
// OperationTypeID vacío usa el tipo de recepción por defecto de la empresa.
type CreateRequestRequest struct {
	Origin          string             `json:"origin"`
	Description     string             `json:"description"`
	OperationTypeID string             `json:"operation_type_id"`
	Lines           []RequestLineInput `json:"lines"`
}

// HoldRequestInput entrada para poner en espera (motivo obligatorio).
type HoldRequestInput struct {
	Reason string `json:"reason" validate:"required"`
}

// RequestLineResponse salida de una línea con sus cantidades derivadas.
type RequestLineResponse struct {
	ID             string          `json:"id"`
	ProductID      string          `json:"product_id"`
	Description    string          `json:"description"`
	Qty            decimal.Decimal `json:"qty"`
	UnitOfMeasure  string          `json:"unit_of_measure"`
	EstimatedCost  decimal.Decimal `json:"estimated_cost"`
	Cancelled      bool            `json:"cancelled"`
	QtyInTransfer  decimal.Decimal `json:"qty_in_transfer"`
	PurchasedQty   decimal.Decimal `json:"purchased_qty"`
	UnfulfilledQty decimal.Decimal `json:"unfulfilled_qty"`
}

// RequestResponse salida de una solicitud de compra.
type RequestResponse struct {
	ID              string                `json:"id"`
	Name            string                `json:"name"`
	Origin          string                `json:"origin,omitempty"`
	Description     string                `json:"description,omitempty"`
	State           string                `json:"state"`
	PreviousState   *string               `json:"previous_state,omitempty"`
	OnHoldReason    string                `json:"on_hold_reason,omitempty"`
	RequestedByID   string                `json:"requested_by_id"`
	AssignedToID    *string               `json:"assigned_to_id,omitempty"`
	CompanyID       string                `json:"company_id"`
	OperationTypeID string                `json:"operation_type_id"`
	EstimatedCost   decimal.Decimal       `json:"estimated_cost"`
	DateStart       time.Time             `json:"date_start"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
	Lines           []RequestLineResponse `json:"lines"`
}

// RequestNoteResponse una nota del historial de la solicitud.
type RequestNoteResponse struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id,omitempty"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// AllocatePurchaseInput entrada para vincular una línea de solicitud con una
// línea de orden de compra.
type AllocatePurchaseInput struct {
	PurchaseLineID string          `json:"purchase_line_id" validate:"required,uuid"`
	Qty            decimal.Decimal `json:"qty" validate:"required"`
}

// ReceivePurchaseInput entrada para registrar una recepción sobre una línea de compra.
type ReceivePurchaseInput struct {
	Qty decimal.Decimal `json:"qty" validate:"required"`
}

// PurchaseLineStateInput entrada para cambiar el estado de una línea de compra.
type PurchaseLineStateInput struct {
	State string `json:"state" validate:"required"`
}

// UnfulfilledLineDTO una línea con cantidad pendiente, para la confirmación de cierre.
type UnfulfilledLineDTO struct {
	LineID         string          `json:"line_id"`
	ProductID      string          `json:"product_id"`
	ProductName    string          `json:"product_name"`
	RequestedQty   decimal.Decimal `json:"requested_qty"`
	FulfilledQty   decimal.Decimal `json:"fulfilled_qty"`
	UnfulfilledQty decimal.Decimal `json:"unfulfilled_qty"`
	UnitOfMeasure  string          `json:"unit_of_measure"`
}

// DoneResult resultado de pedir el cierre de una solicitud: o quedó cerrada, o
// requiere confirmación explícita por líneas pendientes.
type DoneResult struct {
	Done         bool            `json:"done"`
	Confirmation *ConfirmDoneDTO `json:"confirmation,omitempty"`
}

// ConfirmDoneDTO paso de confirmación de cierre con las líneas pendientes.
type ConfirmDoneDTO struct {
	RequestID             string               `json:"request_id"`
	RequestName           string               `json:"request_name"`
	Lines                 []UnfulfilledLineDTO `json:"lines"`
	TotalUnfulfilledCount int                  `json:"total_unfulfilled_count"`
	TotalUnfulfilledQty   decimal.Decimal      `json:"total_unfulfilled_qty"`
}
