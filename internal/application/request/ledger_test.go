package request_test

import (
	"context"
	"testing"

	"github.com/jhoicas/Solicitudes-api/internal/domain"
	"github.com/jhoicas/Solicitudes-api/internal/domain/entity"
	"github.com/jhoicas/Solicitudes-api/internal/domain/role"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ──────────────────────────────────────────────────────────────────────────────
// Ledger de asignaciones sobre líneas de orden de compra
// ──────────────────────────────────────────────────────────────────────────────

func (f *fixture) seedPurchaseLine(id string, orderQty int64, state string) *entity.PurchaseOrderLine {
	pol := &entity.PurchaseOrderLine{
		ID:        id,
		CompanyID: companyID,
		OrderName: "PO00031",
		ProductID: productCementID,
		Qty:       qty(orderQty),
		State:     state,
	}
	f.store.purchaseLines[id] = pol
	return pol
}

func TestAllocatePurchase_ActualizaCompradoYPendiente(t *testing.T) {
	f := newFixture(t, baseNow)
	aprobada := f.approvedRequest(t, line(productCementID, 10))
	f.seedPurchaseLine("pol1", 6, entity.PurchaseLineStatePurchase)

	err := f.uc.AllocatePurchase(context.Background(), actorFor(role.Manager), aprobada.Lines[0].ID, "pol1", qty(6))
	require.NoError(t, err)

	after, err := f.uc.Get(actorFor(role.Manager), aprobada.ID)
	require.NoError(t, err)
	assert.True(t, after.Lines[0].PurchasedQty.Equal(qty(6)))
	assert.True(t, after.Lines[0].UnfulfilledQty.Equal(qty(4)))
	assert.True(t, after.Lines[0].QtyInTransfer.IsZero())
}

func TestAllocatePurchase_LineaCanceladaFalla(t *testing.T) {
	f := newFixture(t, baseNow)
	aprobada := f.approvedRequest(t, line(productCementID, 10))
	f.seedPurchaseLine("pol1", 6, entity.PurchaseLineStateCancel)

	err := f.uc.AllocatePurchase(context.Background(), actorFor(role.Manager), aprobada.Lines[0].ID, "pol1", qty(6))
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestReceivePurchase_PublicaNotaYRecalcula(t *testing.T) {
	f := newFixture(t, baseNow)
	aprobada := f.approvedRequest(t, line(productCementID, 10))
	f.seedPurchaseLine("pol1", 10, entity.PurchaseLineStatePurchase)
	ctx := context.Background()
	require.NoError(t, f.uc.AllocatePurchase(ctx, actorFor(role.Manager), aprobada.Lines[0].ID, "pol1", qty(10)))

	require.NoError(t, f.uc.ReceivePurchase(ctx, actorFor(role.Manager), "pol1", qty(4)))

	// nota en el hilo de la solicitud nombrando producto, cantidad y unidad
	notes, err := f.uc.Notes(actorFor(role.Manager), aprobada.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Contains(t, notes[0].Body, "Cemento gris 50kg")
	assert.Contains(t, notes[0].Body, "4")
	assert.Contains(t, notes[0].Body, "kg")

	pol := f.store.purchaseLines["pol1"]
	assert.True(t, pol.QtyReceived.Equal(qty(4)))

	for _, alloc := range f.store.allocations {
		assert.True(t, alloc.AllocatedProductQty.Equal(qty(4)), "lo recibido se reparte a la asignación")
	}
}

// TestSetPurchaseLineState_CancelarLiberaPendiente: al cancelar la línea de
// compra, sus asignaciones dejan de cubrir y la cantidad pendiente vuelve.
func TestSetPurchaseLineState_CancelarLiberaPendiente(t *testing.T) {
	f := newFixture(t, baseNow)
	aprobada := f.approvedRequest(t, line(productCementID, 10))
	f.seedPurchaseLine("pol1", 10, entity.PurchaseLineStatePurchase)
	ctx := context.Background()
	require.NoError(t, f.uc.AllocatePurchase(ctx, actorFor(role.Manager), aprobada.Lines[0].ID, "pol1", qty(10)))

	before, _ := f.uc.Get(actorFor(role.Manager), aprobada.ID)
	require.True(t, before.Lines[0].UnfulfilledQty.IsZero())

	require.NoError(t, f.uc.SetPurchaseLineState(ctx, actorFor(role.Manager), "pol1", entity.PurchaseLineStateCancel))

	after, err := f.uc.Get(actorFor(role.Manager), aprobada.ID)
	require.NoError(t, err)
	assert.True(t, after.Lines[0].UnfulfilledQty.Equal(qty(10)))
	assert.True(t, after.Lines[0].PurchasedQty.IsZero())
}

// TestAllocationOpenQty_CeroConLineaCerradaOCancelada cubre la invariante del
// open qty de la asignación.
func TestAllocationOpenQty_CeroConLineaCerradaOCancelada(t *testing.T) {
	polID := "pol1"
	alloc := &entity.Allocation{
		PurchaseLineID:         &polID,
		RequestedProductUomQty: qty(10),
		AllocatedProductQty:    qty(3),
	}

	assert.True(t, alloc.OpenQty(entity.PurchaseLineStatePurchase).Equal(qty(7)))
	assert.True(t, alloc.OpenQty(entity.PurchaseLineStateCancel).IsZero())
	assert.True(t, alloc.OpenQty(entity.PurchaseLineStateDone).IsZero())

	// sobre-entrega: nunca negativo
	alloc.AllocatedProductQty = qty(12)
	assert.True(t, alloc.OpenQty(entity.PurchaseLineStatePurchase).IsZero())
}

// TestReceivePurchase_CubreTodoAutoCierra: recibir el total de lo asignado
// sobre una solicitud aprobada la cierra sin intervención.
func TestReceivePurchase_CubreTodoAutoCierra(t *testing.T) {
	f := newFixture(t, baseNow)
	aprobada := f.approvedRequest(t, line(productCementID, 10))
	f.seedPurchaseLine("pol1", 10, entity.PurchaseLineStatePurchase)
	ctx := context.Background()
	require.NoError(t, f.uc.AllocatePurchase(ctx, actorFor(role.Manager), aprobada.Lines[0].ID, "pol1", qty(10)))

	// con todo comprado (purchase vivo) el pendiente ya es cero: auto-done
	after, err := f.uc.Get(actorFor(role.Manager), aprobada.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RequestStateDone, after.State)
}
