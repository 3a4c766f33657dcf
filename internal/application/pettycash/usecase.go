package pettycash

import (
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

// UseCase ciclo de vida de cajas menores por custodio: apertura, asignación de
// fondos, registro de gastos contra el saldo y cierre.
type UseCase struct {
	pettyCash repository.PettyCashRepository
	users     repository.UserRepository
	log       *logger.Logger
	now       func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(pettyCash repository.PettyCashRepository, users repository.UserRepository, log *logger.Logger) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{pettyCash: pettyCash, users: users, log: log, now: time.Now}
}

// WithClock fija el reloj (para tests de corte anual).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// Create abre una caja menor en borrador para un custodio de la empresa.
func (uc *UseCase) Create(actor Actor, in dto.CreatePettyCashRequest) (*dto.PettyCashResponse, error) {
	if !role.Can(actor.Role, role.ManagePettyCash) {
		return nil, domain.ErrForbidden
	}
	custodian, err := uc.users.GetByID(in.CustodianID)
	if err != nil {
		return nil, err
	}
	if custodian == nil || custodian.CompanyID != actor.CompanyID {
		return nil, domain.ErrNotFound
	}
	now := uc.now()
	name := in.Name
	if name == "" {
		name = fmt.Sprintf("Caja menor %s", custodian.Name)
	}
	box := &entity.PettyCash{
		ID:          uuid.New().String(),
		CompanyID:   actor.CompanyID,
		Name:        name,
		State:       entity.PettyCashStateDraft,
		CustodianID: in.CustodianID,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.pettyCash.Create(box); err != nil {
		return nil, err
	}
	return uc.toResponse(box, false), nil
}

// Open pasa la caja a en curso (draft -> running).
func (uc *UseCase) Open(actor Actor, id string) (*dto.PettyCashResponse, error) {
	box, err := uc.getManaged(actor, id)
	if err != nil {
		return nil, err
	}
	if box.State != entity.PettyCashStateDraft {
		return nil, domain.ErrConflict
	}
	box.State = entity.PettyCashStateRunning
	box.UpdatedAt = uc.now()
	if err := uc.pettyCash.Update(box); err != nil {
		return nil, err
	}
	return uc.toResponse(box, false), nil
}

// Close cierra la caja (running -> closed). No admite más líneas.
func (uc *UseCase) Close(actor Actor, id string) (*dto.PettyCashResponse, error) {
	box, err := uc.getManaged(actor, id)
	if err != nil {
		return nil, err
	}
	if box.State != entity.PettyCashStateRunning {
		return nil, domain.ErrConflict
	}
	box.State = entity.PettyCashStateClosed
	box.Active = false
	box.UpdatedAt = uc.now()
	if err := uc.pettyCash.Update(box); err != nil {
		return nil, err
	}
	uc.log.Info().Str("petty_cash", box.Name).Msg("caja menor cerrada")
	return uc.toResponse(box, false), nil
}

// Allocate asigna fondos a la caja (monto positivo, caja en curso).
func (uc *UseCase) Allocate(actor Actor, id string, in dto.PettyCashLineInput) (*dto.PettyCashResponse, error) {
	box, err := uc.getManaged(actor, id)
	if err != nil {
		return nil, err
	}
	if box.State != entity.PettyCashStateRunning {
		return nil, domain.ErrConflict
	}
	if !in.Amount.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	line := uc.newLine(box.ID, actor.ID, entity.PettyCashLineAllocation, in)
	if err := uc.pettyCash.AddLine(line); err != nil {
		return nil, err
	}
	box.AllocationLines = append(box.AllocationLines, line)
	return uc.persistRecomputed(box)
}

// Expense registra un gasto contra el saldo de la caja. El monto no puede
// exceder el saldo disponible. Solo el custodio o quien administra cajas.
func (uc *UseCase) Expense(actor Actor, id string, in dto.PettyCashLineInput) (*dto.PettyCashResponse, error) {
	box, err := uc.get(actor, id)
	if err != nil {
		return nil, err
	}
	if !role.Can(actor.Role, role.ManagePettyCash) && box.CustodianID != actor.ID {
		return nil, domain.ErrForbidden
	}
	if box.State != entity.PettyCashStateRunning {
		return nil, domain.ErrConflict
	}
	if !in.Amount.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	box.RecomputeAmounts(uc.now())
	if in.Amount.GreaterThan(box.AmountLeft) {
		return nil, domain.ErrInsufficientPettyCash
	}
	line := uc.newLine(box.ID, actor.ID, entity.PettyCashLineExpense, in)
	if err := uc.pettyCash.AddLine(line); err != nil {
		return nil, err
	}
	box.ExpenseLines = append(box.ExpenseLines, line)
	return uc.persistRecomputed(box)
}

// Get devuelve la caja con sus montos recalculados y líneas.
func (uc *UseCase) Get(actor Actor, id string) (*dto.PettyCashResponse, error) {
	box, err := uc.get(actor, id)
	if err != nil {
		return nil, err
	}
	if !role.Can(actor.Role, role.ManagePettyCash) && box.CustodianID != actor.ID {
		return nil, domain.ErrForbidden
	}
	box.RecomputeAmounts(uc.now())
	return uc.toResponse(box, true), nil
}

// List lista las cajas de la empresa.
func (uc *UseCase) List(actor Actor, page dto.PageRequest) ([]*dto.PettyCashResponse, error) {
	if !role.Can(actor.Role, role.ManagePettyCash) {
		return nil, domain.ErrForbidden
	}
	page.DefaultPage()
	boxes, err := uc.pettyCash.ListByCompany(actor.CompanyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.PettyCashResponse, 0, len(boxes))
	for _, box := range boxes {
		box.RecomputeAmounts(uc.now())
		out = append(out, uc.toResponse(box, false))
	}
	return out, nil
}

func (uc *UseCase) newLine(boxID, userID, kind string, in dto.PettyCashLineInput) *entity.PettyCashLine {
	date := in.Date
	if date.IsZero() {
		date = uc.now()
	}
	return &entity.PettyCashLine{
		ID:          uuid.New().String(),
		PettyCashID: boxID,
		Kind:        kind,
		Date:        date,
		Amount:      in.Amount,
		Description: in.Description,
		Reference:   in.Reference,
		CreatedByID: userID,
		CreatedAt:   uc.now(),
	}
}

func (uc *UseCase) get(actor Actor, id string) (*entity.PettyCash, error) {
	box, err := uc.pettyCash.GetByID(id)
	if err != nil {
		return nil, err
	}
	if box == nil || box.CompanyID != actor.CompanyID {
		return nil, domain.ErrNotFound
	}
	return box, nil
}

func (uc *UseCase) getManaged(actor Actor, id string) (*entity.PettyCash, error) {
	if !role.Can(actor.Role, role.ManagePettyCash) {
		return nil, domain.ErrForbidden
	}
	return uc.get(actor, id)
}

func (uc *UseCase) persistRecomputed(box *entity.PettyCash) (*dto.PettyCashResponse, error) {
	box.RecomputeAmounts(uc.now())
	box.UpdatedAt = uc.now()
	if err := uc.pettyCash.Update(box); err != nil {
		return nil, err
	}
	return uc.toResponse(box, true), nil
}

func (uc *UseCase) toResponse(box *entity.PettyCash, withLines bool) *dto.PettyCashResponse {
	out := &dto.PettyCashResponse{
		ID:             box.ID,
		Name:           box.Name,
		CustodianID:    box.CustodianID,
		State:          box.State,
		AllocatedTotal: box.AmountAllocated,
		SpentTotal:     box.AmountExpensed,
		Balance:        box.AmountLeft,
		BroughtForward: box.AmountBroughtForward,
		CreatedAt:      box.CreatedAt,
	}
	if withLines {
		for _, l := range box.AllocationLines {
			out.Lines = append(out.Lines, toLineResponse(l))
		}
		for _, l := range box.ExpenseLines {
			out.Lines = append(out.Lines, toLineResponse(l))
		}
	}
	return out
}

func toLineResponse(l *entity.PettyCashLine) dto.PettyCashLineResponse {
	return dto.PettyCashLineResponse{
		ID:          l.ID,
		Kind:        l.Kind,
		Amount:      l.Amount,
		Description: l.Description,
		Date:        l.Date,
	}
}
