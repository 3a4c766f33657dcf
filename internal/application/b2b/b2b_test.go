package b2b_test

import (
	"context"
	"sort"
	"strconv"
	"testing"
	"time"

	"github.com/jhoicas/Solicitudes-api/internal/application/b2b"
	"github.com/jhoicas/Solicitudes-api/internal/application/dto"
	"github.com/jhoicas/Solicitudes-api/internal/domain"
	"github.com/jhoicas/Solicitudes-api/internal/domain/entity"
	"github.com/jhoicas/Solicitudes-api/internal/domain/repository"
	"github.com/jhoicas/Solicitudes-api/internal/domain/role"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type memB2B struct {
	categories map[string]*entity.B2BCategory
	customers  map[string]*entity.Customer
	totals     map[string]decimal.Decimal
	logs       map[string]bool // customerID|categoryID|windowKey
	settings   map[string]string
}

func newMemB2B() *memB2B {
	return &memB2B{
		categories: map[string]*entity.B2BCategory{},
		customers:  map[string]*entity.Customer{},
		totals:     map[string]decimal.Decimal{},
		logs:       map[string]bool{},
		settings:   map[string]string{},
	}
}

type fakeCategoryRepo struct{ s *memB2B }

func (f *fakeCategoryRepo) Create(c *entity.B2BCategory) error { f.s.categories[c.ID] = c; return nil }
func (f *fakeCategoryRepo) GetByID(id string) (*entity.B2BCategory, error) {
	return f.s.categories[id], nil
}
func (f *fakeCategoryRepo) Update(c *entity.B2BCategory) error { f.s.categories[c.ID] = c; return nil }
func (f *fakeCategoryRepo) Delete(id string) error             { delete(f.s.categories, id); return nil }
func (f *fakeCategoryRepo) ListActiveByCompany(companyID string) ([]*entity.B2BCategory, error) {
	var out []*entity.B2BCategory
	for _, c := range f.s.categories {
		if c.CompanyID == companyID && c.Active {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LowerLimit.LessThan(out[j].LowerLimit) })
	return out, nil
}
func (f *fakeCategoryRepo) ListByCompany(companyID string) ([]*entity.B2BCategory, error) {
	var out []*entity.B2BCategory
	for _, c := range f.s.categories {
		if c.CompanyID == companyID {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeCustomerRepo struct{ s *memB2B }

func (f *fakeCustomerRepo) Create(c *entity.Customer) error { f.s.customers[c.ID] = c; return nil }
func (f *fakeCustomerRepo) GetByID(id string) (*entity.Customer, error) {
	return f.s.customers[id], nil
}
func (f *fakeCustomerRepo) Update(c *entity.Customer) error { f.s.customers[c.ID] = c; return nil }
func (f *fakeCustomerRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Customer, error) {
	return f.ListB2BByCompany(companyID)
}
func (f *fakeCustomerRepo) ListB2BByCompany(companyID string) ([]*entity.Customer, error) {
	var out []*entity.Customer
	for _, c := range f.s.customers {
		if c.CompanyID == companyID && c.IsB2B {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeSpendRepo struct{ s *memB2B }

func (f *fakeSpendRepo) TotalsByCustomer(companyID string, from, to time.Time) (map[string]decimal.Decimal, error) {
	return f.s.totals, nil
}

type fakeNotifyLog struct{ s *memB2B }

func (f *fakeNotifyLog) Exists(customerID, categoryID, windowKey string) (bool, error) {
	return f.s.logs[customerID+"|"+categoryID+"|"+windowKey], nil
}
func (f *fakeNotifyLog) Create(l *entity.B2BNotificationLog) error {
	f.s.logs[l.CustomerID+"|"+l.CategoryID+"|"+l.WindowKey] = true
	return nil
}

type fakeSettings struct{ s *memB2B }

func (f *fakeSettings) GetInt(key string, def int) (int, error) {
	if v, ok := f.s.settings[key]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n, nil
		}
	}
	return def, nil
}
func (f *fakeSettings) GetString(key string, def string) (string, error) {
	if v, ok := f.s.settings[key]; ok {
		return v, nil
	}
	return def, nil
}
func (f *fakeSettings) Set(key, value string) error { f.s.settings[key] = value; return nil }

type fakeMailer struct{ sent [][]string }

func (f *fakeMailer) Send(to []string, subject, body string) error {
	f.sent = append(f.sent, to)
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

const companyID = "c1"

var adminActor = b2b.Actor{ID: "u-admin", CompanyID: companyID, Role: role.Admin}

func dec(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func seedCategory(s *memB2B, id, name string, lower int64, upper *int64, contacts ...string) *entity.B2BCategory {
	c := &entity.B2BCategory{
		ID:         id,
		CompanyID:  companyID,
		Name:       name,
		Active:     true,
		LowerLimit: dec(lower),
	}
	if upper != nil {
		u := dec(*upper)
		c.UpperLimit = &u
	}
	for i, email := range contacts {
		c.Contacts = append(c.Contacts, &entity.B2BCategoryContact{
			ID: id + "-ct" + strconv.Itoa(i), CategoryID: id, Email: email, Notify: true,
		})
	}
	s.categories[id] = c
	return c
}

func seedCustomer(s *memB2B, id, name string) *entity.Customer {
	c := &entity.Customer{ID: id, CompanyID: companyID, Name: name, IsB2B: true}
	s.customers[id] = c
	return c
}

func intPtr(n int64) *int64 { return &n }

func newJob(s *memB2B, mailer *fakeMailer, now time.Time) *b2b.CategorizeUseCase {
	return b2b.NewCategorizeUseCase(
		&fakeCustomerRepo{s: s},
		&fakeCategoryRepo{s: s},
		&fakeSpendRepo{s: s},
		&fakeNotifyLog{s: s},
		&fakeSettings{s: s},
		mailer,
		nil,
	).WithClock(func() time.Time { return now })
}

var jobNow = time.Date(2026, 8, 31, 2, 0, 0, 0, time.UTC)

// ──────────────────────────────────────────────────────────────────────────────
// CRUD de tramos
// ──────────────────────────────────────────────────────────────────────────────

func TestCategoryCreate_RangoSolapadoRechazado(t *testing.T) {
	s := newMemB2B()
	uc := b2b.NewCategoryUseCase(&fakeCategoryRepo{s: s})

	_, err := uc.Create(adminActor, dto.CreateB2BCategoryRequest{
		Name: "Bronce", MinAmount: dec(0), MaxAmount: dec(1000),
	})
	require.NoError(t, err)

	// [500, 2000) se solapa con [0, 1000)
	_, err = uc.Create(adminActor, dto.CreateB2BCategoryRequest{
		Name: "Plata", MinAmount: dec(500), MaxAmount: dec(2000),
	})
	assert.ErrorIs(t, err, domain.ErrConflict)

	// [1000, 2000) es contiguo, no solapa
	_, err = uc.Create(adminActor, dto.CreateB2BCategoryRequest{
		Name: "Plata", MinAmount: dec(1000), MaxAmount: dec(2000),
	})
	assert.NoError(t, err)
}

func TestCategoryCreate_TopeMenorAlPisoRechazado(t *testing.T) {
	s := newMemB2B()
	uc := b2b.NewCategoryUseCase(&fakeCategoryRepo{s: s})

	_, err := uc.Create(adminActor, dto.CreateB2BCategoryRequest{
		Name: "Mal", MinAmount: dec(1000), MaxAmount: dec(500),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCategoryCreate_RequesterNoPuede(t *testing.T) {
	s := newMemB2B()
	uc := b2b.NewCategoryUseCase(&fakeCategoryRepo{s: s})

	requester := b2b.Actor{ID: "u-r", CompanyID: companyID, Role: role.Requester}
	_, err := uc.Create(requester, dto.CreateB2BCategoryRequest{Name: "X", MinAmount: dec(0), MaxAmount: dec(10)})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// Job de categorización
// ──────────────────────────────────────────────────────────────────────────────

func TestRunOnce_AsignaTramoPorGasto(t *testing.T) {
	s := newMemB2B()
	seedCategory(s, "cat-bronce", "Bronce", 0, intPtr(1000))
	seedCategory(s, "cat-plata", "Plata", 1000, intPtr(5000))
	seedCategory(s, "cat-oro", "Oro", 5000, nil)
	seedCustomer(s, "cust1", "Constructora Andes")
	seedCustomer(s, "cust2", "Ferretería Sur")
	seedCustomer(s, "cust3", "Cliente Inactivo")
	s.totals["cust1"] = dec(1500)
	s.totals["cust2"] = dec(7000)
	// cust3 sin gasto

	job := newJob(s, &fakeMailer{}, jobNow)
	summary, err := job.RunOnce(context.Background(), companyID)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Evaluated)
	assert.Equal(t, 2, summary.Categorized)
	assert.Equal(t, 1, summary.Uncategorized)

	require.NotNil(t, s.customers["cust1"].B2BCategoryID)
	assert.Equal(t, "cat-plata", *s.customers["cust1"].B2BCategoryID)
	assert.Equal(t, "cat-oro", *s.customers["cust2"].B2BCategoryID)
	assert.Nil(t, s.customers["cust3"].B2BCategoryID, "gasto cero no categoriza")

	// avance de cust1 en [1000, 5000): (1500-1000)/4000 = 12.5%
	assert.True(t, s.customers["cust1"].B2BProgressPct.Equal(decimal.NewFromFloat(12.5)))
	// tramo sin tope: avance 100
	assert.True(t, s.customers["cust2"].B2BProgressPct.Equal(dec(100)))
}

func TestRunOnce_NotificaUmbralUnaVezPorVentana(t *testing.T) {
	s := newMemB2B()
	seedCategory(s, "cat-plata", "Plata", 1000, intPtr(2000), "gerente@obra.co")
	seedCustomer(s, "cust1", "Constructora Andes")
	s.totals["cust1"] = dec(1900) // 90% del tramo, umbral por defecto 80
	mailer := &fakeMailer{}

	job := newJob(s, mailer, jobNow)
	summary, err := job.RunOnce(context.Background(), companyID)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Notified)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, []string{"gerente@obra.co"}, mailer.sent[0])
	assert.NotNil(t, s.customers["cust1"].B2BLastNotifiedAt)

	// segunda corrida en la misma ventana: dedup por el log
	summary, err = job.RunOnce(context.Background(), companyID)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Notified)
	assert.Len(t, mailer.sent, 1, "no debe repetirse el correo en la misma ventana")
}

func TestRunOnce_BajoUmbralNoNotifica(t *testing.T) {
	s := newMemB2B()
	seedCategory(s, "cat-plata", "Plata", 1000, intPtr(2000), "gerente@obra.co")
	seedCustomer(s, "cust1", "Constructora Andes")
	s.totals["cust1"] = dec(1500) // 50%
	mailer := &fakeMailer{}

	_, err := newJob(s, mailer, jobNow).RunOnce(context.Background(), companyID)
	require.NoError(t, err)
	assert.Empty(t, mailer.sent)
}

func TestRunOnce_ModoDesconocidoFalla(t *testing.T) {
	s := newMemB2B()
	s.settings[repository.ParamB2BEvalMode] = "trimestral"

	_, err := newJob(s, &fakeMailer{}, jobNow).RunOnce(context.Background(), companyID)
	assert.Error(t, err)
}
