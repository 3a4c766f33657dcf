package request_test

import (
	"context"
	"testing"
	"time"

	"github.com/jhoicas/Solicitudes-api/internal/application/dto"
	"github.com/jhoicas/Solicitudes-api/internal/application/request"
	"github.com/jhoicas/Solicitudes-api/internal/domain/entity"
	"github.com/jhoicas/Solicitudes-api/internal/domain/role"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture común: una empresa con dos bodegas, ubicaciones con rutas
// materializadas, tipos de operación de recepción y transferencia interna,
// productos y stock inicial. El reloj es inyectable para los tests de cupo
// semanal.
// ──────────────────────────────────────────────────────────────────────────────

const (
	companyID = "c1"

	adminID     = "u-admin"
	managerID   = "u-manager"
	requesterID = "u-requester"
	keeper1ID   = "u-keeper1"
	keeper2ID   = "u-keeper2"

	warehouse1ID = "w1" // bodega destino (recibe las solicitudes)
	warehouse2ID = "w2" // bodega con stock para transferir

	locStock1ID = "l-stock1" // destino por defecto de la recepción
	locShelf1ID = "l-shelf1" // descendiente del destino
	locStock2ID = "l-stock2" // origen válido en la bodega 2

	incomingOpID  = "ot-in"
	internal1OpID = "ot-int1"
	internal2OpID = "ot-int2"

	productCementID = "p-cemento"
	productSandID   = "p-arena"
)

type fixture struct {
	store  *memStore
	uc     *request.UseCase
	mailer *fakeMailer
	now    time.Time
}

// newFixture arma el caso de uso con fakes y datos sembrados. baseNow es el
// instante que devuelve el reloj inyectado (modificable vía f.now).
func newFixture(t *testing.T, baseNow time.Time) *fixture {
	t.Helper()
	s := newMemStore()
	f := &fixture{store: s, mailer: &fakeMailer{}, now: baseNow}

	keeper1 := keeper1ID
	keeper2 := keeper2ID
	s.warehouses[warehouse1ID] = &entity.Warehouse{ID: warehouse1ID, CompanyID: companyID, Code: "BOD1", Name: "Bodega Principal", StorekeeperID: &keeper1}
	s.warehouses[warehouse2ID] = &entity.Warehouse{ID: warehouse2ID, CompanyID: companyID, Code: "BOD2", Name: "Bodega Norte", StorekeeperID: &keeper2}

	s.locations[locStock1ID] = &entity.Location{ID: locStock1ID, CompanyID: companyID, WarehouseID: warehouse1ID, Name: "BOD1/Stock", Usage: entity.LocationUsageInternal, ParentPath: "l-stock1/"}
	s.locations[locShelf1ID] = &entity.Location{ID: locShelf1ID, CompanyID: companyID, WarehouseID: warehouse1ID, Name: "BOD1/Stock/Estante 1", Usage: entity.LocationUsageInternal, ParentPath: "l-stock1/l-shelf1/"}
	s.locations[locStock2ID] = &entity.Location{ID: locStock2ID, CompanyID: companyID, WarehouseID: warehouse2ID, Name: "BOD2/Stock", Usage: entity.LocationUsageInternal, ParentPath: "l-stock2/"}

	s.opTypes[incomingOpID] = &entity.OperationType{ID: incomingOpID, CompanyID: companyID, WarehouseID: warehouse1ID, Name: "Recepción BOD1", Code: entity.OperationCodeIncoming, DefaultDestLocationID: locStock1ID}
	s.opTypes[internal1OpID] = &entity.OperationType{ID: internal1OpID, CompanyID: companyID, WarehouseID: warehouse1ID, Name: "Interna BOD1", Code: entity.OperationCodeInternal, DefaultDestLocationID: locStock1ID}
	s.opTypes[internal2OpID] = &entity.OperationType{ID: internal2OpID, CompanyID: companyID, WarehouseID: warehouse2ID, Name: "Interna BOD2", Code: entity.OperationCodeInternal, DefaultDestLocationID: locStock2ID}

	s.products[productCementID] = &entity.Product{ID: productCementID, CompanyID: companyID, SKU: "CEM-001", Name: "Cemento gris 50kg"}
	s.products[productSandID] = &entity.Product{ID: productSandID, CompanyID: companyID, SKU: "ARE-001", Name: "Arena lavada m3"}

	s.users[adminID] = &entity.User{ID: adminID, CompanyID: companyID, Email: "admin@obra.co", Role: role.Admin, Status: "active"}
	s.users[managerID] = &entity.User{ID: managerID, CompanyID: companyID, Email: "jefe@obra.co", Role: role.Manager, Status: "active"}
	s.users[requesterID] = &entity.User{ID: requesterID, CompanyID: companyID, Email: "residente@obra.co", Role: role.Requester, Status: "active"}
	s.users[keeper1ID] = &entity.User{ID: keeper1ID, CompanyID: companyID, Email: "bodega1@obra.co", Role: role.Storekeeper, Status: "active"}
	s.users[keeper2ID] = &entity.User{ID: keeper2ID, CompanyID: companyID, Email: "bodega2@obra.co", Role: role.Storekeeper, Status: "active"}

	f.uc = request.NewUseCase(request.Deps{
		Tx:            &fakeTxRunner{s: s},
		Requests:      &fakeRequestRepo{s: s},
		Lines:         &fakeLineRepo{s: s},
		Allocations:   &fakeAllocationRepo{s: s},
		Users:         &fakeUserRepo{s: s},
		Products:      &fakeProductRepo{s: s},
		Locations:     &fakeLocationRepo{s: s},
		OpTypes:       &fakeOpTypeRepo{s: s},
		Warehouses:    &fakeWarehouseRepo{s: s},
		Stocks:        &fakeStockRepo{s: s},
		Pickings:      &fakePickingRepo{s: s},
		Moves:         &fakeMoveRepo{s: s},
		PurchaseLines: &fakePurchaseLineRepo{s: s},
		Notes:         &fakeNoteRepo{s: s},
		Settings:      &fakeSettingsRepo{s: s},
		Mailer:        f.mailer,
		Now:           func() time.Time { return f.now },
	})
	return f
}

func (f *fixture) setStock(productID, locationID string, qty int64) {
	f.store.stocks[stockKey(productID, locationID)] = &entity.Stock{
		ProductID:  productID,
		LocationID: locationID,
		Quantity:   decimal.NewFromInt(qty),
	}
}

func actorFor(role2 role.Role) request.Actor {
	id := map[role.Role]string{
		role.Admin:       adminID,
		role.Manager:     managerID,
		role.Requester:   requesterID,
		role.Storekeeper: keeper1ID,
	}[role2]
	return request.Actor{ID: id, CompanyID: companyID, Role: role2}
}

func qty(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

// createRequest siembra una solicitud vía el caso de uso con las líneas dadas.
func (f *fixture) createRequest(t *testing.T, actor request.Actor, lines ...dto.RequestLineInput) *dto.RequestResponse {
	t.Helper()
	resp, err := f.uc.Create(context.Background(), actor, dto.CreateRequestRequest{
		Description: "materiales obra",
		Lines:       lines,
	})
	require.NoError(t, err)
	return resp
}

// approvedRequest lleva una solicitud nueva hasta approved.
func (f *fixture) approvedRequest(t *testing.T, lines ...dto.RequestLineInput) *dto.RequestResponse {
	t.Helper()
	ctx := context.Background()
	created := f.createRequest(t, actorFor(role.Requester), lines...)
	_, err := f.uc.Submit(ctx, actorFor(role.Requester), created.ID)
	require.NoError(t, err)
	approved, err := f.uc.Approve(ctx, actorFor(role.Manager), created.ID)
	require.NoError(t, err)
	return approved
}

func line(productID string, n int64) dto.RequestLineInput {
	uom := "kg"
	if productID == productSandID {
		uom = "m3"
	}
	return dto.RequestLineInput{ProductID: productID, Qty: qty(n), UnitOfMeasure: uom}
}
