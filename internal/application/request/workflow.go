package request

import (
	"context"

	"github.com/jhoicas/Solicitudes-api/internal/application/dto"
	"github.com/jhoicas/Solicitudes-api/internal/domain"
	"github.com/jhoicas/Solicitudes-api/internal/domain/entity"
	"github.com/jhoicas/Solicitudes-api/internal/domain/role"
)

// Submit envía la solicitud a aprobación (draft -> to_approve). Requiere al
// menos una línea activa con cantidad positiva.
func (uc *UseCase) Submit(ctx context.Context, actor Actor, id string) (*dto.RequestResponse, error) {
	req, err := uc.getOwned(actor, id)
	if err != nil {
		return nil, err
	}
	if actor.Role != role.Admin && req.RequestedByID != actor.ID {
		return nil, domain.ErrForbidden
	}
	if req.State != entity.RequestStateDraft {
		return nil, &domain.InvalidTransitionError{Request: req.Name, From: req.State, Action: "submit"}
	}
	if !req.ToApproveAllowed() {
		return nil, &domain.EmptyRequestError{Request: req.Name}
	}
	req.State = entity.RequestStateToApprove
	req.UpdatedAt = uc.now()
	if err := uc.requests.Update(req); err != nil {
		return nil, err
	}
	uc.log.Info().Str("request", req.Name).Msg("solicitud enviada a aprobación")
	return toRequestResponse(req), nil
}

// Approve aprueba la solicitud (to_approve -> approved) y registra al
// aprobador.
func (uc *UseCase) Approve(ctx context.Context, actor Actor, id string) (*dto.RequestResponse, error) {
	if !role.Can(actor.Role, role.ApproveRequest) {
		return nil, domain.ErrForbidden
	}
	req, err := uc.getOwned(actor, id)
	if err != nil {
		return nil, err
	}
	if req.State != entity.RequestStateToApprove {
		return nil, &domain.InvalidTransitionError{Request: req.Name, From: req.State, Action: "approve"}
	}
	approver := actor.ID
	req.State = entity.RequestStateApproved
	req.AssignedToID = &approver
	req.UpdatedAt = uc.now()
	if err := uc.requests.Update(req); err != nil {
		return nil, err
	}
	uc.log.Info().Str("request", req.Name).Str("approver", actor.ID).Msg("solicitud aprobada")
	return toRequestResponse(req), nil
}

// Reject rechaza la solicitud (draft o to_approve -> rejected) y cancela
// todas sus líneas.
func (uc *UseCase) Reject(ctx context.Context, actor Actor, id string) (*dto.RequestResponse, error) {
	if !role.Can(actor.Role, role.RejectRequest) {
		return nil, domain.ErrForbidden
	}
	req, err := uc.getOwned(actor, id)
	if err != nil {
		return nil, err
	}
	if req.State != entity.RequestStateDraft && req.State != entity.RequestStateToApprove {
		return nil, &domain.InvalidTransitionError{Request: req.Name, From: req.State, Action: "reject"}
	}
	err = uc.tx.Run(ctx, func(r TxRepos) error {
		now := uc.now()
		for _, line := range req.Lines {
			if line.Cancelled {
				continue
			}
			line.Cancelled = true
			line.UpdatedAt = now
			if err := r.Lines.Update(line); err != nil {
				return err
			}
		}
		req.State = entity.RequestStateRejected
		req.UpdatedAt = now
		return r.Requests.Update(req)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("request", req.Name).Msg("solicitud rechazada")
	return toRequestResponse(req), nil
}

// Start pasa la solicitud a ejecución (approved -> in_progress).
func (uc *UseCase) Start(ctx context.Context, actor Actor, id string) (*dto.RequestResponse, error) {
	if !role.Can(actor.Role, role.ApproveRequest) {
		return nil, domain.ErrForbidden
	}
	req, err := uc.getOwned(actor, id)
	if err != nil {
		return nil, err
	}
	if req.State != entity.RequestStateApproved {
		return nil, &domain.InvalidTransitionError{Request: req.Name, From: req.State, Action: "start"}
	}
	req.State = entity.RequestStateInProgress
	req.UpdatedAt = uc.now()
	if err := uc.requests.Update(req); err != nil {
		return nil, err
	}
	return toRequestResponse(req), nil
}

// Done solicita el cierre (approved o in_progress -> done). Si alguna línea
// activa tiene cantidad pendiente, NO transiciona: devuelve el paso de
// confirmación con el detalle por línea, y el cierre requiere ConfirmDone.
func (uc *UseCase) Done(ctx context.Context, actor Actor, id string) (*dto.DoneResult, error) {
	if !role.Can(actor.Role, role.ApproveRequest) {
		return nil, domain.ErrForbidden
	}
	req, err := uc.getOwned(actor, id)
	if err != nil {
		return nil, err
	}
	if req.State != entity.RequestStateApproved && req.State != entity.RequestStateInProgress {
		return nil, &domain.InvalidTransitionError{Request: req.Name, From: req.State, Action: "done"}
	}
	confirmation, err := uc.buildConfirmDone(req)
	if err != nil {
		return nil, err
	}
	if confirmation != nil {
		return &dto.DoneResult{Done: false, Confirmation: confirmation}, nil
	}
	if err := uc.markDone(req); err != nil {
		return nil, err
	}
	return &dto.DoneResult{Done: true}, nil
}

// ConfirmDone cierra la solicitud tras la confirmación explícita, aunque
// queden cantidades pendientes.
func (uc *UseCase) ConfirmDone(ctx context.Context, actor Actor, id string) (*dto.RequestResponse, error) {
	if !role.Can(actor.Role, role.ApproveRequest) {
		return nil, domain.ErrForbidden
	}
	req, err := uc.getOwned(actor, id)
	if err != nil {
		return nil, err
	}
	if req.State != entity.RequestStateApproved && req.State != entity.RequestStateInProgress {
		return nil, &domain.InvalidTransitionError{Request: req.Name, From: req.State, Action: "done"}
	}
	if err := uc.markDone(req); err != nil {
		return nil, err
	}
	return toRequestResponse(req), nil
}

func (uc *UseCase) markDone(req *entity.PurchaseRequest) error {
	req.State = entity.RequestStateDone
	req.UpdatedAt = uc.now()
	if err := uc.requests.Update(req); err != nil {
		return err
	}
	uc.log.Info().Str("request", req.Name).Msg("solicitud cerrada")
	return nil
}

// buildConfirmDone arma el paso de confirmación; nil si nada está pendiente.
func (uc *UseCase) buildConfirmDone(req *entity.PurchaseRequest) (*dto.ConfirmDoneDTO, error) {
	out := &dto.ConfirmDoneDTO{RequestID: req.ID, RequestName: req.Name}
	for _, line := range req.ActiveLines() {
		if !line.UnfulfilledQty.IsPositive() {
			continue
		}
		out.Lines = append(out.Lines, dto.UnfulfilledLineDTO{
			LineID:         line.ID,
			ProductID:      line.ProductID,
			ProductName:    uc.productName(line),
			RequestedQty:   line.ProductQty,
			FulfilledQty:   line.FulfilledQty(),
			UnfulfilledQty: line.UnfulfilledQty,
			UnitOfMeasure:  line.UnitOfMeasure,
		})
		out.TotalUnfulfilledCount++
		out.TotalUnfulfilledQty = out.TotalUnfulfilledQty.Add(line.UnfulfilledQty)
	}
	if out.TotalUnfulfilledCount == 0 {
		return nil, nil
	}
	return out, nil
}

// Hold pone la solicitud en espera recordando el estado de origen. El motivo
// es obligatorio.
func (uc *UseCase) Hold(ctx context.Context, actor Actor, id, reason string) (*dto.RequestResponse, error) {
	if !role.Can(actor.Role, role.HoldRequest) {
		return nil, domain.ErrForbidden
	}
	if reason == "" {
		return nil, domain.ErrHoldReasonRequired
	}
	req, err := uc.getOwned(actor, id)
	if err != nil {
		return nil, err
	}
	switch req.State {
	case entity.RequestStateDraft, entity.RequestStateToApprove,
		entity.RequestStateApproved, entity.RequestStateInProgress:
	default:
		return nil, &domain.InvalidTransitionError{Request: req.Name, From: req.State, Action: "hold"}
	}
	previous := req.State
	req.PreviousState = &previous
	req.OnHoldReason = reason
	req.State = entity.RequestStateOnHold
	req.UpdatedAt = uc.now()
	if err := uc.requests.Update(req); err != nil {
		return nil, err
	}
	uc.log.Info().Str("request", req.Name).Str("from", previous).Msg("solicitud puesta en espera")
	return toRequestResponse(req), nil
}

// Resume reanuda una solicitud en espera restaurando su estado previo y
// limpiando motivo y estado recordado.
func (uc *UseCase) Resume(ctx context.Context, actor Actor, id string) (*dto.RequestResponse, error) {
	if !role.Can(actor.Role, role.HoldRequest) {
		return nil, domain.ErrForbidden
	}
	req, err := uc.getOwned(actor, id)
	if err != nil {
		return nil, err
	}
	if req.State != entity.RequestStateOnHold {
		return nil, &domain.InvalidTransitionError{Request: req.Name, From: req.State, Action: "resume"}
	}
	restored := entity.RequestStateDraft
	if req.PreviousState != nil {
		restored = *req.PreviousState
	}
	req.State = restored
	req.PreviousState = nil
	req.OnHoldReason = ""
	req.UpdatedAt = uc.now()
	if err := uc.requests.Update(req); err != nil {
		return nil, err
	}
	return toRequestResponse(req), nil
}

// ResetToDraft reactiva todas las líneas canceladas de un borrador.
func (uc *UseCase) ResetToDraft(ctx context.Context, actor Actor, id string) (*dto.RequestResponse, error) {
	req, err := uc.getOwned(actor, id)
	if err != nil {
		return nil, err
	}
	if actor.Role != role.Admin && req.RequestedByID != actor.ID {
		return nil, domain.ErrForbidden
	}
	if req.State != entity.RequestStateDraft {
		return nil, &domain.InvalidTransitionError{Request: req.Name, From: req.State, Action: "reset"}
	}
	err = uc.tx.Run(ctx, func(r TxRepos) error {
		now := uc.now()
		for _, line := range req.Lines {
			if !line.Cancelled {
				continue
			}
			line.Cancelled = false
			line.UpdatedAt = now
			if err := r.Lines.Update(line); err != nil {
				return err
			}
		}
		req.UpdatedAt = now
		return r.Requests.Update(req)
	})
	if err != nil {
		return nil, err
	}
	return toRequestResponse(req), nil
}

// applyAutoTransitions aplica auto-rechazo (toda línea cancelada) y
// auto-cierre (todo lo activo cubierto en approved/in_progress). Se invoca
// tras cada mutación de líneas o asignaciones, dentro de la transacción.
func (uc *UseCase) applyAutoTransitions(r TxRepos, req *entity.PurchaseRequest) error {
	switch req.State {
	case entity.RequestStateDone, entity.RequestStateRejected:
		return nil
	}
	if req.AllLinesCancelled() {
		req.State = entity.RequestStateRejected
		req.UpdatedAt = uc.now()
		if err := r.Requests.Update(req); err != nil {
			return err
		}
		uc.log.Info().Str("request", req.Name).Msg("solicitud auto-rechazada: todas las líneas canceladas")
		return nil
	}
	if (req.State == entity.RequestStateApproved || req.State == entity.RequestStateInProgress) &&
		req.AllLinesFulfilled() {
		req.State = entity.RequestStateDone
		req.UpdatedAt = uc.now()
		if err := r.Requests.Update(req); err != nil {
			return err
		}
		uc.log.Info().Str("request", req.Name).Msg("solicitud auto-cerrada: todas las líneas cubiertas")
	}
	return nil
}
