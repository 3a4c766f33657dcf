package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")

	// ErrManagerCannotCreate: los jefes de bodega no pueden crear solicitudes de compra.
	ErrManagerCannotCreate = errors.New("los jefes de bodega no pueden crear solicitudes de compra")
	// ErrNoInternalOperationType: no se pudo resolver un tipo de operación interna para la bodega.
	ErrNoInternalOperationType = errors.New("no se encontró un tipo de operación de transferencia interna para la bodega seleccionada")
	// ErrHoldReasonRequired: poner en espera exige un motivo.
	ErrHoldReasonRequired = errors.New("debe indicar un motivo para poner la solicitud en espera")
	// ErrInsufficientPettyCash: un gasto no puede exceder el saldo de la caja menor.
	ErrInsufficientPettyCash = errors.New("el gasto excede el saldo disponible de la caja menor")
)

// QuotaExceededError indica que el solicitante superó su cupo semanal de solicitudes.
type QuotaExceededError struct {
	Limit int
	Count int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf(
		"alcanzó su límite semanal de %d solicitudes de compra: ya creó %d esta semana",
		e.Limit, e.Count,
	)
}

// InvalidTransitionError indica una transición de estado no permitida sobre una solicitud.
type InvalidTransitionError struct {
	Request string // nombre de la solicitud (ej. PR00042)
	From    string
	Action  string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("acción %q no permitida sobre la solicitud %s en estado %q", e.Action, e.Request, e.From)
}

// EmptyRequestError: no se puede enviar a aprobación una solicitud sin líneas activas con cantidad.
type EmptyRequestError struct {
	Request string
}

func (e *EmptyRequestError) Error() string {
	return fmt.Sprintf("no puede solicitar aprobación de una solicitud de compra vacía (%s)", e.Request)
}

// Tipos de violación en validación de asignaciones/transferencias.
const (
	AllocationCapAvailable   = "available"   // excede el stock disponible de la ubicación
	AllocationCapUnfulfilled = "unfulfilled" // excede la cantidad pendiente de la línea
	AllocationCapDestination = "destination" // la ubicación origen es el destino (o descendiente)
)

// AllocationValidationError indica una cantidad de transferencia inválida, nombrando el producto afectado.
type AllocationValidationError struct {
	Product string
	Kind    string // AllocationCap*
	Qty     decimal.Decimal
	Cap     decimal.Decimal
}

func (e *AllocationValidationError) Error() string {
	switch e.Kind {
	case AllocationCapAvailable:
		return fmt.Sprintf("la cantidad a transferir de %s excede la disponible (%s > %s)", e.Product, e.Qty, e.Cap)
	case AllocationCapUnfulfilled:
		return fmt.Sprintf("la cantidad total a transferir de %s (%s) excede la cantidad pendiente (%s)", e.Product, e.Qty, e.Cap)
	case AllocationCapDestination:
		return fmt.Sprintf("no se puede transferir %s desde la ubicación destino de la solicitud", e.Product)
	}
	return fmt.Sprintf("cantidad de transferencia inválida para %s", e.Product)
}
