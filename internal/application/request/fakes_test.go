package request_test

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/jhoicas/Solicitudes-api/internal/application/request"
	"github.com/jhoicas/Solicitudes-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria para los puertos de persistencia. Una sola memStore
// respalda todos los repos, de modo que el TxRunner falso puede entregar los
// mismos datos "atados a la transacción".
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	requests      map[string]*entity.PurchaseRequest
	lines         map[string]*entity.PurchaseRequestLine
	allocations   map[string]*entity.Allocation
	users         map[string]*entity.User
	products      map[string]*entity.Product
	locations     map[string]*entity.Location
	opTypes       map[string]*entity.OperationType
	warehouses    map[string]*entity.Warehouse
	stocks        map[string]*entity.Stock // clave productID+"|"+locationID
	pickings      map[string]*entity.Picking
	moves         map[string]*entity.StockMove
	purchaseLines map[string]*entity.PurchaseOrderLine
	notes         []*entity.RequestNote
	settings      map[string]string

	requestSeq int
	pickingSeq int
}

func newMemStore() *memStore {
	return &memStore{
		requests:      map[string]*entity.PurchaseRequest{},
		lines:         map[string]*entity.PurchaseRequestLine{},
		allocations:   map[string]*entity.Allocation{},
		users:         map[string]*entity.User{},
		products:      map[string]*entity.Product{},
		locations:     map[string]*entity.Location{},
		opTypes:       map[string]*entity.OperationType{},
		warehouses:    map[string]*entity.Warehouse{},
		stocks:        map[string]*entity.Stock{},
		pickings:      map[string]*entity.Picking{},
		moves:         map[string]*entity.StockMove{},
		purchaseLines: map[string]*entity.PurchaseOrderLine{},
		settings:      map[string]string{},
	}
}

func stockKey(productID, locationID string) string { return productID + "|" + locationID }

// ── PurchaseRequestRepository ────────────────────────────────────────────────

type fakeRequestRepo struct{ s *memStore }

func (f *fakeRequestRepo) Create(r *entity.PurchaseRequest) error {
	cp := *r
	f.s.requests[r.ID] = &cp
	return nil
}

func (f *fakeRequestRepo) GetByID(id string) (*entity.PurchaseRequest, error) {
	r, ok := f.s.requests[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	cp.Lines = nil
	lineRepo := &fakeLineRepo{s: f.s}
	lines, _ := lineRepo.ListByRequest(id)
	cp.Lines = lines
	return &cp, nil
}

func (f *fakeRequestRepo) Update(r *entity.PurchaseRequest) error {
	cp := *r
	cp.Lines = nil
	f.s.requests[r.ID] = &cp
	return nil
}

func (f *fakeRequestRepo) Delete(id string) error {
	delete(f.s.requests, id)
	for lineID, line := range f.s.lines {
		if line.RequestID == id {
			delete(f.s.lines, lineID)
			for allocID, alloc := range f.s.allocations {
				if alloc.RequestLineID == lineID {
					delete(f.s.allocations, allocID)
				}
			}
		}
	}
	return nil
}

func (f *fakeRequestRepo) ListByCompany(companyID, state string, limit, offset int) ([]*entity.PurchaseRequest, error) {
	var out []*entity.PurchaseRequest
	for id, r := range f.s.requests {
		if r.CompanyID != companyID {
			continue
		}
		if state != "" && r.State != state {
			continue
		}
		full, _ := f.GetByID(id)
		out = append(out, full)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeRequestRepo) CountCreatedBySince(userID string, since time.Time) (int, error) {
	count := 0
	for _, r := range f.s.requests {
		if r.RequestedByID == userID && !r.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (f *fakeRequestRepo) NextName() (string, error) {
	f.s.requestSeq++
	return "PR" + pad5(f.s.requestSeq), nil
}

func pad5(n int) string {
	s := strconv.Itoa(n)
	for len(s) < 5 {
		s = "0" + s
	}
	return s
}

// ── RequestLineRepository ────────────────────────────────────────────────────

type fakeLineRepo struct{ s *memStore }

func (f *fakeLineRepo) Create(l *entity.PurchaseRequestLine) error {
	cp := *l
	f.s.lines[l.ID] = &cp
	return nil
}

func (f *fakeLineRepo) GetByID(id string) (*entity.PurchaseRequestLine, error) {
	l, ok := f.s.lines[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (f *fakeLineRepo) Update(l *entity.PurchaseRequestLine) error {
	cp := *l
	f.s.lines[l.ID] = &cp
	return nil
}

func (f *fakeLineRepo) Delete(id string) error {
	delete(f.s.lines, id)
	return nil
}

func (f *fakeLineRepo) ListByRequest(requestID string) ([]*entity.PurchaseRequestLine, error) {
	var out []*entity.PurchaseRequestLine
	for _, l := range f.s.lines {
		if l.RequestID == requestID {
			cp := *l
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Sequence == out[j].Sequence {
			return out[i].ID < out[j].ID
		}
		return out[i].Sequence < out[j].Sequence
	})
	return out, nil
}

// ── AllocationRepository ─────────────────────────────────────────────────────

type fakeAllocationRepo struct{ s *memStore }

func (f *fakeAllocationRepo) Create(a *entity.Allocation) error {
	cp := *a
	f.s.allocations[a.ID] = &cp
	return nil
}

func (f *fakeAllocationRepo) GetByID(id string) (*entity.Allocation, error) {
	a, ok := f.s.allocations[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAllocationRepo) Update(a *entity.Allocation) error {
	cp := *a
	f.s.allocations[a.ID] = &cp
	return nil
}

func (f *fakeAllocationRepo) Delete(id string) error {
	delete(f.s.allocations, id)
	return nil
}

func (f *fakeAllocationRepo) list(match func(*entity.Allocation) bool) []*entity.Allocation {
	var out []*entity.Allocation
	for _, a := range f.s.allocations {
		if match(a) {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (f *fakeAllocationRepo) ListByLine(lineID string) ([]*entity.Allocation, error) {
	return f.list(func(a *entity.Allocation) bool { return a.RequestLineID == lineID }), nil
}

func (f *fakeAllocationRepo) ListByStockMove(moveID string) ([]*entity.Allocation, error) {
	return f.list(func(a *entity.Allocation) bool {
		return a.StockMoveID != nil && *a.StockMoveID == moveID
	}), nil
}

func (f *fakeAllocationRepo) ListByPurchaseLine(polID string) ([]*entity.Allocation, error) {
	return f.list(func(a *entity.Allocation) bool {
		return a.PurchaseLineID != nil && *a.PurchaseLineID == polID
	}), nil
}

// ── Repos maestros ───────────────────────────────────────────────────────────

type fakeUserRepo struct{ s *memStore }

func (f *fakeUserRepo) Create(u *entity.User) error { f.s.users[u.ID] = u; return nil }
func (f *fakeUserRepo) GetByID(id string) (*entity.User, error) {
	return f.s.users[id], nil
}
func (f *fakeUserRepo) FindByEmail(email string) (*entity.User, error) {
	for _, u := range f.s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}
func (f *fakeUserRepo) GetByEmailAndCompany(email, companyID string) (*entity.User, error) {
	for _, u := range f.s.users {
		if u.Email == email && u.CompanyID == companyID {
			return u, nil
		}
	}
	return nil, nil
}
func (f *fakeUserRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range f.s.users {
		if u.CompanyID == companyID {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeProductRepo struct{ s *memStore }

func (f *fakeProductRepo) Create(p *entity.Product) error { f.s.products[p.ID] = p; return nil }
func (f *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	return f.s.products[id], nil
}
func (f *fakeProductRepo) Update(p *entity.Product) error { f.s.products[p.ID] = p; return nil }
func (f *fakeProductRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range f.s.products {
		if p.CompanyID == companyID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeLocationRepo struct{ s *memStore }

func (f *fakeLocationRepo) Create(l *entity.Location) error { f.s.locations[l.ID] = l; return nil }
func (f *fakeLocationRepo) GetByID(id string) (*entity.Location, error) {
	return f.s.locations[id], nil
}
func (f *fakeLocationRepo) ListByWarehouse(warehouseID string) ([]*entity.Location, error) {
	var out []*entity.Location
	for _, l := range f.s.locations {
		if l.WarehouseID == warehouseID {
			out = append(out, l)
		}
	}
	return out, nil
}

type fakeOpTypeRepo struct{ s *memStore }

func (f *fakeOpTypeRepo) Create(o *entity.OperationType) error { f.s.opTypes[o.ID] = o; return nil }
func (f *fakeOpTypeRepo) GetByID(id string) (*entity.OperationType, error) {
	return f.s.opTypes[id], nil
}
func (f *fakeOpTypeRepo) FirstByCode(companyID, code string) (*entity.OperationType, error) {
	var ids []string
	for id := range f.s.opTypes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		o := f.s.opTypes[id]
		if o.CompanyID == companyID && o.Code == code {
			return o, nil
		}
	}
	return nil, nil
}
func (f *fakeOpTypeRepo) FindByWarehouseAndCode(warehouseID, code string) (*entity.OperationType, error) {
	for _, o := range f.s.opTypes {
		if o.WarehouseID == warehouseID && o.Code == code {
			return o, nil
		}
	}
	return nil, nil
}

type fakeWarehouseRepo struct{ s *memStore }

func (f *fakeWarehouseRepo) Create(w *entity.Warehouse) error { f.s.warehouses[w.ID] = w; return nil }
func (f *fakeWarehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	return f.s.warehouses[id], nil
}
func (f *fakeWarehouseRepo) Update(w *entity.Warehouse) error { f.s.warehouses[w.ID] = w; return nil }
func (f *fakeWarehouseRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Warehouse, error) {
	var out []*entity.Warehouse
	for _, w := range f.s.warehouses {
		if w.CompanyID == companyID {
			out = append(out, w)
		}
	}
	return out, nil
}
func (f *fakeWarehouseRepo) FirstByCompany(companyID string) (*entity.Warehouse, error) {
	var ids []string
	for id, w := range f.s.warehouses {
		if w.CompanyID == companyID {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}
	sort.Strings(ids)
	return f.s.warehouses[ids[0]], nil
}

// ── StockRepository ──────────────────────────────────────────────────────────

type fakeStockRepo struct{ s *memStore }

func (f *fakeStockRepo) Get(productID, locationID string) (*entity.Stock, error) {
	st, ok := f.s.stocks[stockKey(productID, locationID)]
	if !ok {
		return nil, nil
	}
	cp := *st
	return &cp, nil
}

func (f *fakeStockRepo) Upsert(st *entity.Stock) error {
	cp := *st
	f.s.stocks[stockKey(st.ProductID, st.LocationID)] = &cp
	return nil
}

func (f *fakeStockRepo) ListWithStockByProduct(companyID, productID string) ([]*entity.Stock, error) {
	var out []*entity.Stock
	for _, st := range f.s.stocks {
		if st.ProductID != productID || !st.Quantity.IsPositive() {
			continue
		}
		loc := f.s.locations[st.LocationID]
		if loc == nil || loc.CompanyID != companyID || loc.Usage != entity.LocationUsageInternal {
			continue
		}
		cp := *st
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LocationID < out[j].LocationID })
	return out, nil
}

// ── Picking / StockMove / PurchaseOrderLine ──────────────────────────────────

type fakePickingRepo struct{ s *memStore }

func (f *fakePickingRepo) Create(p *entity.Picking) error {
	cp := *p
	cp.Moves = nil
	f.s.pickings[p.ID] = &cp
	return nil
}
func (f *fakePickingRepo) GetByID(id string) (*entity.Picking, error) {
	p, ok := f.s.pickings[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	moveRepo := &fakeMoveRepo{s: f.s}
	cp.Moves, _ = moveRepo.ListByPicking(id)
	return &cp, nil
}
func (f *fakePickingRepo) Update(p *entity.Picking) error {
	cp := *p
	cp.Moves = nil
	f.s.pickings[p.ID] = &cp
	return nil
}
func (f *fakePickingRepo) ListByOrigin(origin string) ([]*entity.Picking, error) {
	var out []*entity.Picking
	for id, p := range f.s.pickings {
		if p.Origin == origin {
			full, _ := f.GetByID(id)
			out = append(out, full)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
func (f *fakePickingRepo) NextName() (string, error) {
	f.s.pickingSeq++
	return "TR" + pad5(f.s.pickingSeq), nil
}

type fakeMoveRepo struct{ s *memStore }

func (f *fakeMoveRepo) Create(m *entity.StockMove) error {
	cp := *m
	f.s.moves[m.ID] = &cp
	return nil
}
func (f *fakeMoveRepo) GetByID(id string) (*entity.StockMove, error) {
	m, ok := f.s.moves[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}
func (f *fakeMoveRepo) Update(m *entity.StockMove) error {
	cp := *m
	f.s.moves[m.ID] = &cp
	return nil
}
func (f *fakeMoveRepo) ListByPicking(pickingID string) ([]*entity.StockMove, error) {
	var out []*entity.StockMove
	for _, m := range f.s.moves {
		if m.PickingID == pickingID {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakePurchaseLineRepo struct{ s *memStore }

func (f *fakePurchaseLineRepo) Create(l *entity.PurchaseOrderLine) error {
	cp := *l
	f.s.purchaseLines[l.ID] = &cp
	return nil
}
func (f *fakePurchaseLineRepo) GetByID(id string) (*entity.PurchaseOrderLine, error) {
	l, ok := f.s.purchaseLines[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}
func (f *fakePurchaseLineRepo) Update(l *entity.PurchaseOrderLine) error {
	cp := *l
	f.s.purchaseLines[l.ID] = &cp
	return nil
}

// ── Notas y parámetros ───────────────────────────────────────────────────────

type fakeNoteRepo struct{ s *memStore }

func (f *fakeNoteRepo) Create(n *entity.RequestNote) error {
	f.s.notes = append(f.s.notes, n)
	return nil
}
func (f *fakeNoteRepo) ListByRequest(requestID string, limit, offset int) ([]*entity.RequestNote, error) {
	var out []*entity.RequestNote
	for _, n := range f.s.notes {
		if n.RequestID == requestID {
			out = append(out, n)
		}
	}
	return out, nil
}

type fakeSettingsRepo struct{ s *memStore }

func (f *fakeSettingsRepo) GetInt(key string, def int) (int, error) {
	v, ok := f.s.settings[key]
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, nil
	}
	return n, nil
}
func (f *fakeSettingsRepo) GetString(key string, def string) (string, error) {
	v, ok := f.s.settings[key]
	if !ok {
		return def, nil
	}
	return v, nil
}
func (f *fakeSettingsRepo) Set(key, value string) error {
	f.s.settings[key] = value
	return nil
}

// ── TxRunner y Mailer falsos ─────────────────────────────────────────────────

type fakeTxRunner struct{ s *memStore }

func (f *fakeTxRunner) Run(_ context.Context, fn func(request.TxRepos) error) error {
	return fn(request.TxRepos{
		Requests:      &fakeRequestRepo{s: f.s},
		Lines:         &fakeLineRepo{s: f.s},
		Allocations:   &fakeAllocationRepo{s: f.s},
		Pickings:      &fakePickingRepo{s: f.s},
		Moves:         &fakeMoveRepo{s: f.s},
		PurchaseLines: &fakePurchaseLineRepo{s: f.s},
		Stocks:        &fakeStockRepo{s: f.s},
		Notes:         &fakeNoteRepo{s: f.s},
	})
}

type sentMail struct {
	To      []string
	Subject string
	Body    string
}

type fakeMailer struct{ sent []sentMail }

func (f *fakeMailer) Send(to []string, subject, body string) error {
	f.sent = append(f.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}
