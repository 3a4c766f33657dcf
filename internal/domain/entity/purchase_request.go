package entity

import "time"

// Estados del ciclo de vida de una solicitud de compra.
const (
	RequestStateDraft      = "draft"
	RequestStateToApprove  = "to_approve"
	RequestStateOnHold     = "on_hold"
	RequestStateApproved   = "approved"
	RequestStateInProgress = "in_progress"
	RequestStateDone       = "done"
	RequestStateRejected   = "rejected"
)

// RequestStates lista los estados válidos en orden de ciclo de vida.
var RequestStates = []string{
	RequestStateDraft,
	RequestStateToApprove,
	RequestStateOnHold,
	RequestStateApproved,
	RequestStateInProgress,
	RequestStateDone,
	RequestStateRejected,
}

// PurchaseRequest representa una solicitud de compra sujeta a flujo de aprobación.
// PreviousState solo tiene valor mientras la solicitud está en espera (on_hold)
// y guarda el estado desde el que se suspendió, para restaurarlo al reanudar.
type PurchaseRequest struct {
	ID              string
	Name            string // referencia secuencial, ej. "PR00042"
	Origin          string // documento origen
	Description     string
	State           string
	PreviousState   *string
	OnHoldReason    string
	RequestedByID   string
	AssignedToID    *string // aprobador; se fija al aprobar
	CompanyID       string
	OperationTypeID string // tipo de operación de entrada (destino de lo solicitado)
	DateStart       time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Lines []*PurchaseRequestLine
}

// IsEditable indica si la solicitud admite cambios de líneas (solo en borrador).
func (r *PurchaseRequest) IsEditable() bool {
	return r.State == RequestStateDraft
}

// CanBeDeleted: una solicitud solo se elimina en borrador.
func (r *PurchaseRequest) CanBeDeleted() bool {
	return r.State == RequestStateDraft
}

// ToApproveAllowed indica si puede enviarse a aprobación: en borrador y con al
// menos una línea no cancelada con cantidad solicitada positiva.
func (r *PurchaseRequest) ToApproveAllowed() bool {
	if r.State != RequestStateDraft {
		return false
	}
	for _, line := range r.Lines {
		if !line.Cancelled && line.ProductQty.IsPositive() {
			return true
		}
	}
	return false
}

// ActiveLines devuelve las líneas no canceladas.
func (r *PurchaseRequest) ActiveLines() []*PurchaseRequestLine {
	active := make([]*PurchaseRequestLine, 0, len(r.Lines))
	for _, line := range r.Lines {
		if !line.Cancelled {
			active = append(active, line)
		}
	}
	return active
}

// AllLinesCancelled indica si toda línea de la solicitud está cancelada (dispara el auto-rechazo).
func (r *PurchaseRequest) AllLinesCancelled() bool {
	if len(r.Lines) == 0 {
		return false
	}
	for _, line := range r.Lines {
		if !line.Cancelled {
			return false
		}
	}
	return true
}

// AllLinesFulfilled indica si toda línea activa quedó sin cantidad pendiente
// (dispara el auto-cierre cuando el estado es approved o in_progress).
func (r *PurchaseRequest) AllLinesFulfilled() bool {
	active := r.ActiveLines()
	if len(active) == 0 {
		return false
	}
	for _, line := range active {
		if line.UnfulfilledQty.IsPositive() {
			return false
		}
	}
	return true
}
