package dto

import "github.com/shopspring/decimal"

// AvailabilityRow disponibilidad de una línea en una ubicación de origen.
type AvailabilityRow struct {
	LineID       string          `json:"line_id"`
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	LocationID   string          `json:"location_id"`
	LocationName string          `json:"location_name"`
	RequestedQty decimal.Decimal `json:"requested_qty"`
	AvailableQty decimal.Decimal `json:"available_qty"`
	AllocatedQty decimal.Decimal `json:"allocated_qty"`
}

// AvailabilityResponse resultado del chequeo de disponibilidad de una solicitud.
type AvailabilityResponse struct {
	RequestID string            `json:"request_id"`
	Rows      []AvailabilityRow `json:"rows"`
}

// TransferRowInput una fila del plan de transferencia: cuánto mover de cada
// línea y desde qué ubicación.
type TransferRowInput struct {
	LineID           string          `json:"line_id" validate:"required,uuid"`
	SourceLocationID string          `json:"source_location_id" validate:"required,uuid"`
	Qty              decimal.Decimal `json:"qty" validate:"required"`
}

// CreateTransferRequest entrada del asistente de transferencias internas.
type CreateTransferRequest struct {
	OperationTypeID string             `json:"operation_type_id"`
	Rows            []TransferRowInput `json:"rows" validate:"required,min=1,dive"`
}

// TransferMoveResponse un movimiento generado dentro de la transferencia.
type TransferMoveResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	Qty           decimal.Decimal `json:"qty"`
	SourceID      string          `json:"source_location_id"`
	DestinationID string          `json:"destination_location_id"`
	State         string          `json:"state"`
	RequestLineID *string         `json:"request_line_id,omitempty"`
}

// TransferResponse la transferencia creada por el asistente.
type TransferResponse struct {
	ID              string                 `json:"id"`
	Name            string                 `json:"name"`
	Origin          string                 `json:"origin"`
	State           string                 `json:"state"`
	OperationTypeID string                 `json:"operation_type_id"`
	Moves           []TransferMoveResponse `json:"moves"`
}
