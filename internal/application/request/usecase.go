package request

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Solicitudes-api/internal/application/dto"
	"github.com/jhoicas/Solicitudes-api/internal/domain"
	"github.com/jhoicas/Solicitudes-api/internal/domain/entity"
	"github.com/jhoicas/Solicitudes-api/internal/domain/repository"
	"github.com/jhoicas/Solicitudes-api/internal/domain/role"
	"github.com/jhoicas/Solicitudes-api/pkg/logger"
)

// Actor identifica al usuario que ejecuta la operación (viene del JWT).
type Actor struct {
	ID        string
	CompanyID string
	Role      role.Role
}

// Deps dependencias del caso de uso de solicitudes. El flujo cruza inventario,
// compras y notificaciones, así que se agrupan en struct en vez de argumentos
// posicionales.
type Deps struct {
	Tx            TxRunner
	Requests      repository.PurchaseRequestRepository
	Lines         repository.RequestLineRepository
	Allocations   repository.AllocationRepository
	Users         repository.UserRepository
	Products      repository.ProductRepository
	Locations     repository.LocationRepository
	OpTypes       repository.OperationTypeRepository
	Warehouses    repository.WarehouseRepository
	Stocks        repository.StockRepository
	Pickings      repository.PickingRepository
	Moves         repository.StockMoveRepository
	PurchaseLines repository.PurchaseLineRepository
	Notes         repository.RequestNoteRepository
	Settings      repository.SettingsRepository
	Mailer        Mailer
	Log           *logger.Logger
	Now           func() time.Time
}

// UseCase casos de uso del ciclo de vida de solicitudes de compra: creación
// con cupo semanal, flujo de aprobación, asignaciones y transferencias.
type UseCase struct {
	tx            TxRunner
	requests      repository.PurchaseRequestRepository
	lines         repository.RequestLineRepository
	allocations   repository.AllocationRepository
	users         repository.UserRepository
	products      repository.ProductRepository
	locations     repository.LocationRepository
	opTypes       repository.OperationTypeRepository
	warehouses    repository.WarehouseRepository
	stocks        repository.StockRepository
	pickings      repository.PickingRepository
	moves         repository.StockMoveRepository
	purchaseLines repository.PurchaseLineRepository
	notes         repository.RequestNoteRepository
	settings      repository.SettingsRepository
	mailer        Mailer
	log           *logger.Logger
	now           func() time.Time
}

// NewUseCase construye el caso de uso. Mailer puede ser nil (sin correo).
func NewUseCase(d Deps) *UseCase {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	return &UseCase{
		tx:            d.Tx,
		requests:      d.Requests,
		lines:         d.Lines,
		allocations:   d.Allocations,
		users:         d.Users,
		products:      d.Products,
		locations:     d.Locations,
		opTypes:       d.OpTypes,
		warehouses:    d.Warehouses,
		stocks:        d.Stocks,
		pickings:      d.Pickings,
		moves:         d.Moves,
		purchaseLines: d.PurchaseLines,
		notes:         d.Notes,
		settings:      d.Settings,
		mailer:        d.Mailer,
		log:           d.Log,
		now:           d.Now,
	}
}

// Create crea una solicitud de compra en borrador. Aplica la regla de
// creación por rol: admin siempre, jefe de bodega nunca, solicitante sujeto al
// cupo semanal (contado desde el lunes más reciente; cupo 0 = sin límite).
func (uc *UseCase) Create(ctx context.Context, actor Actor, in dto.CreateRequestRequest) (*dto.RequestResponse, error) {
	if err := uc.checkCreationGate(actor); err != nil {
		return nil, err
	}

	opTypeID := in.OperationTypeID
	if opTypeID == "" {
		opType, err := uc.opTypes.FirstByCode(actor.CompanyID, entity.OperationCodeIncoming)
		if err != nil {
			return nil, err
		}
		if opType == nil {
			return nil, fmt.Errorf("la empresa no tiene tipo de operación de recepción: %w", domain.ErrInvalidInput)
		}
		opTypeID = opType.ID
	} else {
		opType, err := uc.opTypes.GetByID(opTypeID)
		if err != nil {
			return nil, err
		}
		if opType == nil || opType.CompanyID != actor.CompanyID {
			return nil, domain.ErrNotFound
		}
	}

	for _, line := range in.Lines {
		if line.ProductID == "" || line.Qty.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
	}

	now := uc.now()
	req := &entity.PurchaseRequest{
		ID:              uuid.New().String(),
		Origin:          in.Origin,
		Description:     in.Description,
		State:           entity.RequestStateDraft,
		RequestedByID:   actor.ID,
		CompanyID:       actor.CompanyID,
		OperationTypeID: opTypeID,
		DateStart:       now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err := uc.tx.Run(ctx, func(r TxRepos) error {
		name, err := r.Requests.NextName()
		if err != nil {
			return err
		}
		req.Name = name
		if err := r.Requests.Create(req); err != nil {
			return err
		}
		for i, in := range in.Lines {
			line := uc.newLine(req.ID, i+1, in, now)
			if err := r.Lines.Create(line); err != nil {
				return err
			}
			req.Lines = append(req.Lines, line)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("request", req.Name).Str("user", actor.ID).Msg("solicitud de compra creada")
	return toRequestResponse(req), nil
}

// checkCreationGate aplica la regla de quién puede crear solicitudes.
func (uc *UseCase) checkCreationGate(actor Actor) error {
	if actor.Role == role.Admin {
		return nil
	}
	if actor.Role == role.Manager {
		return domain.ErrManagerCannotCreate
	}
	if !role.Can(actor.Role, role.CreateRequest) {
		return domain.ErrForbidden
	}
	limit, err := uc.settings.GetInt(repository.ParamPRCreationLimit, 0)
	if err != nil {
		return err
	}
	if limit <= 0 {
		return nil
	}
	count, err := uc.requests.CountCreatedBySince(actor.ID, mondayStart(uc.now()))
	if err != nil {
		return err
	}
	if count >= limit {
		return &domain.QuotaExceededError{Limit: limit, Count: count}
	}
	return nil
}

// mondayStart devuelve las 00:00 del lunes más reciente (hoy si es lunes).
func mondayStart(now time.Time) time.Time {
	days := (int(now.Weekday()) + 6) % 7
	day := now.AddDate(0, 0, -days)
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
}

func (uc *UseCase) newLine(requestID string, seq int, in dto.RequestLineInput, now time.Time) *entity.PurchaseRequestLine {
	return &entity.PurchaseRequestLine{
		ID:             uuid.New().String(),
		RequestID:      requestID,
		Sequence:       seq,
		ProductID:      in.ProductID,
		Description:    in.Description,
		ProductQty:     in.Qty,
		UnitOfMeasure:  in.UnitOfMeasure,
		UnfulfilledQty: in.Qty,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Get devuelve una solicitud con sus líneas. Solo dentro de la misma empresa.
func (uc *UseCase) Get(actor Actor, id string) (*dto.RequestResponse, error) {
	req, err := uc.getOwned(actor, id)
	if err != nil {
		return nil, err
	}
	return toRequestResponse(req), nil
}

// List lista las solicitudes de la empresa, opcionalmente filtradas por estado.
func (uc *UseCase) List(actor Actor, state string, page dto.PageRequest) ([]*dto.RequestResponse, error) {
	page.DefaultPage()
	reqs, err := uc.requests.ListByCompany(actor.CompanyID, state, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.RequestResponse, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, toRequestResponse(r))
	}
	return out, nil
}

// Delete elimina una solicitud en borrador (con líneas y asignaciones en
// cascada). Solo el solicitante dueño o un admin.
func (uc *UseCase) Delete(actor Actor, id string) error {
	req, err := uc.getOwned(actor, id)
	if err != nil {
		return err
	}
	if actor.Role != role.Admin && req.RequestedByID != actor.ID {
		return domain.ErrForbidden
	}
	if !req.CanBeDeleted() {
		return &domain.InvalidTransitionError{Request: req.Name, From: req.State, Action: "delete"}
	}
	return uc.requests.Delete(id)
}

// Duplicate copia una solicitud: nuevo borrador con referencia nueva y las
// mismas líneas (sin asignaciones, cantidades pendientes completas).
func (uc *UseCase) Duplicate(ctx context.Context, actor Actor, id string) (*dto.RequestResponse, error) {
	if err := uc.checkCreationGate(actor); err != nil {
		return nil, err
	}
	src, err := uc.getOwned(actor, id)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	copyReq := &entity.PurchaseRequest{
		ID:              uuid.New().String(),
		Origin:          src.Origin,
		Description:     src.Description,
		State:           entity.RequestStateDraft,
		RequestedByID:   actor.ID,
		CompanyID:       actor.CompanyID,
		OperationTypeID: src.OperationTypeID,
		DateStart:       now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	err = uc.tx.Run(ctx, func(r TxRepos) error {
		name, err := r.Requests.NextName()
		if err != nil {
			return err
		}
		copyReq.Name = name
		if err := r.Requests.Create(copyReq); err != nil {
			return err
		}
		for _, src := range src.Lines {
			line := &entity.PurchaseRequestLine{
				ID:             uuid.New().String(),
				RequestID:      copyReq.ID,
				Sequence:       src.Sequence,
				ProductID:      src.ProductID,
				Description:    src.Description,
				ProductQty:     src.ProductQty,
				UnitOfMeasure:  src.UnitOfMeasure,
				EstimatedCost:  src.EstimatedCost,
				UnfulfilledQty: src.ProductQty,
				CreatedAt:      now,
				UpdatedAt:      now,
			}
			if err := r.Lines.Create(line); err != nil {
				return err
			}
			copyReq.Lines = append(copyReq.Lines, line)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toRequestResponse(copyReq), nil
}

// CancelLine cancela una línea. Si tras cancelar no queda ninguna línea
// activa, la solicitud se rechaza automáticamente.
func (uc *UseCase) CancelLine(ctx context.Context, actor Actor, lineID string) error {
	return uc.setLineCancelled(ctx, actor, lineID, true)
}

// UncancelLine reactiva una línea cancelada.
func (uc *UseCase) UncancelLine(ctx context.Context, actor Actor, lineID string) error {
	return uc.setLineCancelled(ctx, actor, lineID, false)
}

func (uc *UseCase) setLineCancelled(ctx context.Context, actor Actor, lineID string, cancelled bool) error {
	line, err := uc.lines.GetByID(lineID)
	if err != nil {
		return err
	}
	if line == nil {
		return domain.ErrNotFound
	}
	req, err := uc.getOwned(actor, line.RequestID)
	if err != nil {
		return err
	}
	switch req.State {
	case entity.RequestStateDone, entity.RequestStateRejected:
		action := "cancel_line"
		if !cancelled {
			action = "uncancel_line"
		}
		return &domain.InvalidTransitionError{Request: req.Name, From: req.State, Action: action}
	}
	if line.Cancelled == cancelled {
		return nil
	}
	return uc.tx.Run(ctx, func(r TxRepos) error {
		line.Cancelled = cancelled
		line.UpdatedAt = uc.now()
		if err := r.Lines.Update(line); err != nil {
			return err
		}
		for _, l := range req.Lines {
			if l.ID == line.ID {
				l.Cancelled = cancelled
			}
		}
		return uc.applyAutoTransitions(r, req)
	})
}

// getOwned carga una solicitud validando empresa.
func (uc *UseCase) getOwned(actor Actor, id string) (*entity.PurchaseRequest, error) {
	req, err := uc.requests.GetByID(id)
	if err != nil {
		return nil, err
	}
	if req == nil || req.CompanyID != actor.CompanyID {
		return nil, domain.ErrNotFound
	}
	return req, nil
}

func toRequestResponse(r *entity.PurchaseRequest) *dto.RequestResponse {
	out := &dto.RequestResponse{
		ID:              r.ID,
		Name:            r.Name,
		Origin:          r.Origin,
		Description:     r.Description,
		State:           r.State,
		PreviousState:   r.PreviousState,
		OnHoldReason:    r.OnHoldReason,
		RequestedByID:   r.RequestedByID,
		AssignedToID:    r.AssignedToID,
		CompanyID:       r.CompanyID,
		OperationTypeID: r.OperationTypeID,
		DateStart:       r.DateStart,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
		Lines:           make([]dto.RequestLineResponse, 0, len(r.Lines)),
	}
	for _, l := range r.Lines {
		out.EstimatedCost = out.EstimatedCost.Add(l.EstimatedCost)
		out.Lines = append(out.Lines, dto.RequestLineResponse{
			ID:             l.ID,
			ProductID:      l.ProductID,
			Description:    l.Description,
			Qty:            l.ProductQty,
			UnitOfMeasure:  l.UnitOfMeasure,
			EstimatedCost:  l.EstimatedCost,
			Cancelled:      l.Cancelled,
			QtyInTransfer:  l.QtyInTransfer,
			PurchasedQty:   l.PurchasedQty,
			UnfulfilledQty: l.UnfulfilledQty,
		})
	}
	return out
}
