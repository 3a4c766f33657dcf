package request_test

import (
	"context"
	"testing"

	"github.com/jhoicas/Solicitudes-api/internal/application/dto"
	"github.com/jhoicas/Solicitudes-api/internal/application/request"
	"github.com/jhoicas/Solicitudes-api/internal/domain"
	"github.com/jhoicas/Solicitudes-api/internal/domain/entity"
	"github.com/jhoicas/Solicitudes-api/internal/domain/role"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ──────────────────────────────────────────────────────────────────────────────
// Chequeo de disponibilidad
// ──────────────────────────────────────────────────────────────────────────────

func TestBuildAvailability_ExcluyeDestinoYDescendientes(t *testing.T) {
	f := newFixture(t, baseNow)
	// stock en la bodega 2 (válido) y en un estante descendiente del destino (excluido)
	f.setStock(productCementID, locStock2ID, 5)
	f.setStock(productCementID, locShelf1ID, 4)
	aprobada := f.approvedRequest(t, line(productCementID, 8))

	wizard, err := f.uc.BuildAvailability(actorFor(role.Manager), aprobada.ID)
	require.NoError(t, err)
	require.Len(t, wizard.Rows, 1, "el estante bajo el destino no debe aparecer")
	assert.Equal(t, locStock2ID, wizard.Rows[0].LocationID)
	assert.True(t, wizard.Rows[0].AvailableQty.Equal(qty(5)))
	assert.True(t, wizard.Rows[0].UnfulfilledQty.Equal(qty(8)))
}

func TestBuildAvailability_SinStockFilaVacia(t *testing.T) {
	f := newFixture(t, baseNow)
	aprobada := f.approvedRequest(t, line(productSandID, 3))

	wizard, err := f.uc.BuildAvailability(actorFor(role.Manager), aprobada.ID)
	require.NoError(t, err)
	require.Len(t, wizard.Rows, 1, "la línea sigue visible aunque no haya stock")
	assert.Empty(t, wizard.Rows[0].LocationID)
	assert.True(t, wizard.Rows[0].AvailableQty.IsZero())
}

func TestBuildAvailability_DescuentaReservas(t *testing.T) {
	f := newFixture(t, baseNow)
	f.setStock(productCementID, locStock2ID, 10)
	f.store.stocks[stockKey(productCementID, locStock2ID)].ReservedQuantity = qty(4)
	aprobada := f.approvedRequest(t, line(productCementID, 8))

	wizard, err := f.uc.BuildAvailability(actorFor(role.Manager), aprobada.ID)
	require.NoError(t, err)
	require.Len(t, wizard.Rows, 1)
	assert.True(t, wizard.Rows[0].AvailableQty.Equal(qty(6)), "disponible = en mano - reservado")
}

// TestSetTransferQty_TruncaPorPendiente reproduce el escenario clásico: la
// línea necesita 8, hay dos ubicaciones con 5 y 10; al poner 5 y luego 4, el
// 4 se trunca a 3 porque la suma no puede exceder el pendiente.
func TestSetTransferQty_TruncaPorPendiente(t *testing.T) {
	wizard := &request.AvailabilityWizard{
		Rows: []request.AvailabilityRow{
			{LineID: "l1", ProductName: "Cemento", AvailableQty: qty(5), UnfulfilledQty: qty(8)},
			{LineID: "l1", ProductName: "Cemento", AvailableQty: qty(10), UnfulfilledQty: qty(8)},
		},
	}
	wizard.SetTransferQty(0, qty(5))
	wizard.SetTransferQty(1, qty(4))

	assert.True(t, wizard.Rows[0].TransferQty.Equal(qty(5)))
	assert.True(t, wizard.Rows[1].TransferQty.Equal(qty(3)), "el exceso se trunca hacia abajo")
}

func TestSetTransferQty_TruncaPorDisponible(t *testing.T) {
	wizard := &request.AvailabilityWizard{
		Rows: []request.AvailabilityRow{
			{LineID: "l1", ProductName: "Arena", AvailableQty: qty(5), UnfulfilledQty: qty(20)},
		},
	}
	wizard.SetTransferQty(0, qty(12))
	assert.True(t, wizard.Rows[0].TransferQty.Equal(qty(5)))
}

// TestValidate_SumaExcedePendiente: con 5 y 4 puestos a mano (sin clamp), la
// validación falla nombrando el producto porque 9 > 8.
func TestValidate_SumaExcedePendiente(t *testing.T) {
	wizard := &request.AvailabilityWizard{
		Rows: []request.AvailabilityRow{
			{LineID: "l1", ProductName: "Cemento gris 50kg", AvailableQty: qty(5), UnfulfilledQty: qty(8), TransferQty: qty(5)},
			{LineID: "l1", ProductName: "Cemento gris 50kg", AvailableQty: qty(10), UnfulfilledQty: qty(8), TransferQty: qty(4)},
		},
	}
	err := wizard.Validate()
	var allocErr *domain.AllocationValidationError
	require.ErrorAs(t, err, &allocErr)
	assert.Equal(t, domain.AllocationCapUnfulfilled, allocErr.Kind)
	assert.Equal(t, "Cemento gris 50kg", allocErr.Product)
	assert.Contains(t, err.Error(), "Cemento gris 50kg", "el error debe nombrar el producto")
}

// TestValidate_SinUbicacionExcedeDisponible: una fila sin stock (sin ubicación,
// disponible cero) con cantidad puesta a mano falla nombrando el producto, no
// con un error genérico de entrada.
func TestValidate_SinUbicacionExcedeDisponible(t *testing.T) {
	wizard := &request.AvailabilityWizard{
		Rows: []request.AvailabilityRow{
			{LineID: "l1", ProductName: "Arena lavada m3", UnfulfilledQty: qty(3), TransferQty: qty(2)},
		},
	}
	err := wizard.Validate()
	var allocErr *domain.AllocationValidationError
	require.ErrorAs(t, err, &allocErr)
	assert.Equal(t, domain.AllocationCapAvailable, allocErr.Kind)
	assert.Equal(t, "Arena lavada m3", allocErr.Product)
}

func TestValidate_SinFilasPositivasFalla(t *testing.T) {
	wizard := &request.AvailabilityWizard{
		Rows: []request.AvailabilityRow{
			{LineID: "l1", ProductName: "Cemento", AvailableQty: qty(5), UnfulfilledQty: qty(8)},
		},
	}
	assert.ErrorIs(t, wizard.Validate(), domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Creación de transferencias
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateTransfer_CreaDocumentoMovimientosYAsignaciones(t *testing.T) {
	f := newFixture(t, baseNow)
	f.setStock(productCementID, locStock2ID, 20)
	f.setStock(productSandID, locStock2ID, 10)
	aprobada := f.approvedRequest(t, line(productCementID, 8), line(productSandID, 3))

	resp, err := f.uc.CreateTransfer(context.Background(), actorFor(role.Manager), aprobada.ID, dto.CreateTransferRequest{
		Rows: []dto.TransferRowInput{
			{LineID: aprobada.Lines[0].ID, SourceLocationID: locStock2ID, Qty: qty(5)},
			{LineID: aprobada.Lines[1].ID, SourceLocationID: locStock2ID, Qty: qty(3)},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "TR00001", resp.Name)
	assert.Equal(t, internal2OpID, resp.OperationTypeID, "tipo interno de la bodega origen")
	require.Len(t, resp.Moves, 2, "un movimiento por fila")
	for _, move := range resp.Moves {
		assert.Equal(t, entity.MoveStateDraft, move.State)
		assert.Equal(t, locStock1ID, move.DestinationID, "destino desde el tipo de recepción")
	}
	assert.Len(t, f.store.allocations, 2, "una asignación por movimiento")
	for _, alloc := range f.store.allocations {
		require.NotNil(t, alloc.StockMoveID)
		assert.Nil(t, alloc.PurchaseLineID)
	}

	// efecto lateral: approved -> in_progress
	after, err := f.uc.Get(actorFor(role.Manager), aprobada.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RequestStateInProgress, after.State)

	// el ledger recalculó: 5 de 8 en tránsito
	assert.True(t, after.Lines[0].QtyInTransfer.Equal(qty(5)))
	assert.True(t, after.Lines[0].UnfulfilledQty.Equal(qty(3)))
	assert.True(t, after.Lines[1].UnfulfilledQty.IsZero())

	// la reserva compromete el stock de origen
	stock := f.store.stocks[stockKey(productCementID, locStock2ID)]
	assert.True(t, stock.ReservedQuantity.Equal(qty(5)))

	// correo best-effort a los bodegueros de origen y destino
	require.Len(t, f.mailer.sent, 1)
	assert.ElementsMatch(t, []string{"bodega2@obra.co", "bodega1@obra.co"}, f.mailer.sent[0].To)
}

func TestCreateTransfer_ExcedeDisponibleFalla(t *testing.T) {
	f := newFixture(t, baseNow)
	f.setStock(productCementID, locStock2ID, 5)
	aprobada := f.approvedRequest(t, line(productCementID, 8))

	_, err := f.uc.CreateTransfer(context.Background(), actorFor(role.Manager), aprobada.ID, dto.CreateTransferRequest{
		Rows: []dto.TransferRowInput{
			{LineID: aprobada.Lines[0].ID, SourceLocationID: locStock2ID, Qty: qty(6)},
		},
	})
	var allocErr *domain.AllocationValidationError
	require.ErrorAs(t, err, &allocErr)
	assert.Equal(t, domain.AllocationCapAvailable, allocErr.Kind)
	assert.Empty(t, f.store.pickings, "nada debe crearse tras la validación fallida")
}

func TestCreateTransfer_OrigenEsDestinoFalla(t *testing.T) {
	f := newFixture(t, baseNow)
	f.setStock(productCementID, locShelf1ID, 10)
	aprobada := f.approvedRequest(t, line(productCementID, 8))

	_, err := f.uc.CreateTransfer(context.Background(), actorFor(role.Manager), aprobada.ID, dto.CreateTransferRequest{
		Rows: []dto.TransferRowInput{
			{LineID: aprobada.Lines[0].ID, SourceLocationID: locShelf1ID, Qty: qty(2)},
		},
	})
	var allocErr *domain.AllocationValidationError
	require.ErrorAs(t, err, &allocErr)
	assert.Equal(t, domain.AllocationCapDestination, allocErr.Kind)
}

func TestCreateTransfer_SinTipoInternoFalla(t *testing.T) {
	f := newFixture(t, baseNow)
	// sin tipos de operación interna en ninguna bodega
	delete(f.store.opTypes, internal1OpID)
	delete(f.store.opTypes, internal2OpID)
	f.setStock(productCementID, locStock2ID, 20)
	aprobada := f.approvedRequest(t, line(productCementID, 8))

	_, err := f.uc.CreateTransfer(context.Background(), actorFor(role.Manager), aprobada.ID, dto.CreateTransferRequest{
		Rows: []dto.TransferRowInput{
			{LineID: aprobada.Lines[0].ID, SourceLocationID: locStock2ID, Qty: qty(5)},
		},
	})
	assert.ErrorIs(t, err, domain.ErrNoInternalOperationType)
	assert.Empty(t, f.store.pickings, "no debe crearse documento alguno")
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación de transferencias y auto-cierre
// ──────────────────────────────────────────────────────────────────────────────

func (f *fixture) transferForApproved(t *testing.T, n int64) (*dto.RequestResponse, *dto.TransferResponse) {
	t.Helper()
	f.setStock(productCementID, locStock2ID, 50)
	aprobada := f.approvedRequest(t, line(productCementID, n))
	resp, err := f.uc.CreateTransfer(context.Background(), actorFor(role.Manager), aprobada.ID, dto.CreateTransferRequest{
		Rows: []dto.TransferRowInput{
			{LineID: aprobada.Lines[0].ID, SourceLocationID: locStock2ID, Qty: qty(n)},
		},
	})
	require.NoError(t, err)
	return aprobada, resp
}

func TestValidateTransfer_MueveStockYAutoCierra(t *testing.T) {
	f := newFixture(t, baseNow)
	aprobada, transfer := f.transferForApproved(t, 8)

	validated, err := f.uc.ValidateTransfer(context.Background(), actorFor(role.Manager), transfer.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PickingStateDone, validated.State)

	// stock: salió del origen y entró al destino
	source := f.store.stocks[stockKey(productCementID, locStock2ID)]
	dest := f.store.stocks[stockKey(productCementID, locStock1ID)]
	assert.True(t, source.Quantity.Equal(qty(42)))
	assert.True(t, source.ReservedQuantity.IsZero())
	assert.True(t, dest.Quantity.Equal(qty(8)))

	// cubierto todo lo activo: la solicitud auto-cierra sin confirmación
	after, err := f.uc.Get(actorFor(role.Manager), aprobada.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RequestStateDone, after.State)
	assert.True(t, after.Lines[0].UnfulfilledQty.IsZero())
	assert.True(t, after.Lines[0].QtyInTransfer.IsZero(), "un movimiento hecho ya no está en tránsito")
}

func TestValidateTransfer_BodegueroDestinoPuede(t *testing.T) {
	f := newFixture(t, baseNow)
	_, transfer := f.transferForApproved(t, 8)

	// keeper1 es el bodeguero de la bodega destino (w1)
	keeper := request.Actor{ID: keeper1ID, CompanyID: companyID, Role: role.Storekeeper}
	_, err := f.uc.ValidateTransfer(context.Background(), keeper, transfer.ID)
	assert.NoError(t, err)
}

func TestValidateTransfer_BodegueroAjenoNoPuede(t *testing.T) {
	f := newFixture(t, baseNow)
	_, transfer := f.transferForApproved(t, 8)

	// keeper2 es bodeguero de la bodega origen, no de la destino
	otro := request.Actor{ID: keeper2ID, CompanyID: companyID, Role: role.Storekeeper}
	_, err := f.uc.ValidateTransfer(context.Background(), otro, transfer.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCancelTransfer_LiberaReservaYRestauraPendiente(t *testing.T) {
	f := newFixture(t, baseNow)
	aprobada, transfer := f.transferForApproved(t, 8)

	cancelled, err := f.uc.CancelTransfer(context.Background(), actorFor(role.Manager), transfer.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PickingStateCancel, cancelled.State)

	source := f.store.stocks[stockKey(productCementID, locStock2ID)]
	assert.True(t, source.ReservedQuantity.IsZero())
	assert.True(t, source.Quantity.Equal(qty(50)), "cancelar no mueve cantidad")

	after, err := f.uc.Get(actorFor(role.Manager), aprobada.ID)
	require.NoError(t, err)
	assert.True(t, after.Lines[0].UnfulfilledQty.Equal(qty(8)), "el movimiento cancelado no aporta")
	assert.True(t, after.Lines[0].QtyInTransfer.IsZero())
}
