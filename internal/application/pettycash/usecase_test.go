package pettycash_test

import (
	"sort"
	"testing"
	"time"

	"github.com/jhoicas/Solicitudes-api/internal/application/dto"
	"github.com/jhoicas/Solicitudes-api/internal/application/pettycash"
	"github.com/jhoicas/Solicitudes-api/internal/domain"
	"github.com/jhoicas/Solicitudes-api/internal/domain/entity"
	"github.com/jhoicas/Solicitudes-api/internal/domain/role"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type memPetty struct {
	boxes map[string]*entity.PettyCash
	lines map[string]*entity.PettyCashLine
	users map[string]*entity.User
}

type fakePettyRepo struct{ s *memPetty }

func (f *fakePettyRepo) Create(b *entity.PettyCash) error {
	cp := *b
	f.s.boxes[b.ID] = &cp
	return nil
}

func (f *fakePettyRepo) GetByID(id string) (*entity.PettyCash, error) {
	b, ok := f.s.boxes[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	cp.AllocationLines = nil
	cp.ExpenseLines = nil
	var ids []string
	for lineID := range f.s.lines {
		ids = append(ids, lineID)
	}
	sort.Strings(ids)
	for _, lineID := range ids {
		line := f.s.lines[lineID]
		if line.PettyCashID != id {
			continue
		}
		if line.Kind == entity.PettyCashLineAllocation {
			cp.AllocationLines = append(cp.AllocationLines, line)
		} else {
			cp.ExpenseLines = append(cp.ExpenseLines, line)
		}
	}
	return &cp, nil
}

func (f *fakePettyRepo) Update(b *entity.PettyCash) error {
	cp := *b
	cp.AllocationLines = nil
	cp.ExpenseLines = nil
	f.s.boxes[b.ID] = &cp
	return nil
}

func (f *fakePettyRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.PettyCash, error) {
	var out []*entity.PettyCash
	for id, b := range f.s.boxes {
		if b.CompanyID == companyID {
			full, _ := f.GetByID(id)
			out = append(out, full)
		}
	}
	return out, nil
}

func (f *fakePettyRepo) AddLine(line *entity.PettyCashLine) error {
	f.s.lines[line.ID] = line
	return nil
}

func (f *fakePettyRepo) ListLines(companyID, custodianID string, year int) ([]*entity.PettyCashLine, error) {
	var out []*entity.PettyCashLine
	for _, line := range f.s.lines {
		box := f.s.boxes[line.PettyCashID]
		if box == nil || box.CompanyID != companyID {
			continue
		}
		if custodianID != "" && box.CustodianID != custodianID {
			continue
		}
		if year != 0 && line.Date.Year() != year {
			continue
		}
		out = append(out, line)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

type fakeUserRepo struct{ s *memPetty }

func (f *fakeUserRepo) Create(u *entity.User) error { f.s.users[u.ID] = u; return nil }
func (f *fakeUserRepo) GetByID(id string) (*entity.User, error) {
	return f.s.users[id], nil
}
func (f *fakeUserRepo) FindByEmail(email string) (*entity.User, error) { return nil, nil }
func (f *fakeUserRepo) GetByEmailAndCompany(email, companyID string) (*entity.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.User, error) {
	return nil, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

const (
	companyID   = "c1"
	custodianID = "u-custodio"
)

var (
	adminActor     = pettycash.Actor{ID: "u-admin", CompanyID: companyID, Role: role.Admin}
	custodianActor = pettycash.Actor{ID: custodianID, CompanyID: companyID, Role: role.Requester}
	boxNow         = time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
)

func dec(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func newUC(t *testing.T) (*pettycash.UseCase, *memPetty) {
	t.Helper()
	s := &memPetty{
		boxes: map[string]*entity.PettyCash{},
		lines: map[string]*entity.PettyCashLine{},
		users: map[string]*entity.User{
			custodianID: {ID: custodianID, CompanyID: companyID, Name: "Custodio Obra", Role: role.Requester},
		},
	}
	uc := pettycash.NewUseCase(&fakePettyRepo{s: s}, &fakeUserRepo{s: s}, nil).
		WithClock(func() time.Time { return boxNow })
	return uc, s
}

func runningBox(t *testing.T, uc *pettycash.UseCase) *dto.PettyCashResponse {
	t.Helper()
	box, err := uc.Create(adminActor, dto.CreatePettyCashRequest{CustodianID: custodianID})
	require.NoError(t, err)
	opened, err := uc.Open(adminActor, box.ID)
	require.NoError(t, err)
	return opened
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_NombrePorDefectoConCustodio(t *testing.T) {
	uc, _ := newUC(t)
	box, err := uc.Create(adminActor, dto.CreatePettyCashRequest{CustodianID: custodianID})
	require.NoError(t, err)
	assert.Equal(t, entity.PettyCashStateDraft, box.State)
	assert.Contains(t, box.Name, "Custodio Obra")
}

func TestCreate_RequesterNoPuede(t *testing.T) {
	uc, _ := newUC(t)
	_, err := uc.Create(custodianActor, dto.CreatePettyCashRequest{CustodianID: custodianID})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestAllocate_SoloEnCurso(t *testing.T) {
	uc, _ := newUC(t)
	box, err := uc.Create(adminActor, dto.CreatePettyCashRequest{CustodianID: custodianID})
	require.NoError(t, err)

	_, err = uc.Allocate(adminActor, box.ID, dto.PettyCashLineInput{Amount: dec(100), Description: "fondo inicial"})
	assert.ErrorIs(t, err, domain.ErrConflict, "en borrador no acepta fondos")
}

func TestExpense_NoPuedeExcederSaldo(t *testing.T) {
	uc, _ := newUC(t)
	box := runningBox(t, uc)
	_, err := uc.Allocate(adminActor, box.ID, dto.PettyCashLineInput{Amount: dec(100), Description: "fondo"})
	require.NoError(t, err)

	resp, err := uc.Expense(custodianActor, box.ID, dto.PettyCashLineInput{Amount: dec(60), Description: "tornillos"})
	require.NoError(t, err)
	assert.True(t, resp.Balance.Equal(dec(40)))

	_, err = uc.Expense(custodianActor, box.ID, dto.PettyCashLineInput{Amount: dec(50), Description: "pintura"})
	assert.ErrorIs(t, err, domain.ErrInsufficientPettyCash)
}

func TestExpense_OtroUsuarioNoPuede(t *testing.T) {
	uc, _ := newUC(t)
	box := runningBox(t, uc)
	_, err := uc.Allocate(adminActor, box.ID, dto.PettyCashLineInput{Amount: dec(100), Description: "fondo"})
	require.NoError(t, err)

	otro := pettycash.Actor{ID: "u-otro", CompanyID: companyID, Role: role.Requester}
	_, err = uc.Expense(otro, box.ID, dto.PettyCashLineInput{Amount: dec(10), Description: "x"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// TestRecompute_SeparaSaldoInicialDelAnioEnCurso verifica el corte anual: las
// líneas de años anteriores alimentan el saldo inicial, no el asignado.
func TestRecompute_SeparaSaldoInicialDelAnioEnCurso(t *testing.T) {
	uc, _ := newUC(t)
	box := runningBox(t, uc)

	anterior := time.Date(2025, 11, 10, 0, 0, 0, 0, time.UTC)
	_, err := uc.Allocate(adminActor, box.ID, dto.PettyCashLineInput{Amount: dec(200), Description: "fondo 2025", Date: anterior})
	require.NoError(t, err)
	_, err = uc.Expense(custodianActor, box.ID, dto.PettyCashLineInput{Amount: dec(50), Description: "gasto 2025", Date: anterior})
	require.NoError(t, err)
	resp, err := uc.Allocate(adminActor, box.ID, dto.PettyCashLineInput{Amount: dec(100), Description: "fondo 2026"})
	require.NoError(t, err)

	assert.True(t, resp.BroughtForward.Equal(dec(150)), "200 - 50 de años anteriores")
	assert.True(t, resp.AllocatedTotal.Equal(dec(100)), "solo el año en curso")
	assert.True(t, resp.SpentTotal.IsZero())
	assert.True(t, resp.Balance.Equal(dec(250)))
}

func TestClose_NoAdmiteMasLineas(t *testing.T) {
	uc, _ := newUC(t)
	box := runningBox(t, uc)
	_, err := uc.Allocate(adminActor, box.ID, dto.PettyCashLineInput{Amount: dec(100), Description: "fondo"})
	require.NoError(t, err)

	closed, err := uc.Close(adminActor, box.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PettyCashStateClosed, closed.State)

	_, err = uc.Expense(custodianActor, box.ID, dto.PettyCashLineInput{Amount: dec(10), Description: "tarde"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestReport_FiltraPorCustodioYAnio(t *testing.T) {
	uc, _ := newUC(t)
	box := runningBox(t, uc)
	_, err := uc.Allocate(adminActor, box.ID, dto.PettyCashLineInput{Amount: dec(200), Description: "fondo 2025", Date: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	_, err = uc.Allocate(adminActor, box.ID, dto.PettyCashLineInput{Amount: dec(100), Description: "fondo 2026"})
	require.NoError(t, err)
	_, err = uc.Expense(custodianActor, box.ID, dto.PettyCashLineInput{Amount: dec(30), Description: "gasto 2026"})
	require.NoError(t, err)

	data, err := uc.Report(adminActor, custodianID, 2026)
	require.NoError(t, err)
	require.Len(t, data.Rows, 2, "solo líneas del año filtrado")
	assert.True(t, data.TotalAllocated.Equal(dec(100)))
	assert.True(t, data.TotalExpensed.Equal(dec(30)))
	assert.Equal(t, "Custodio Obra", data.Rows[0].Custodian)
}
