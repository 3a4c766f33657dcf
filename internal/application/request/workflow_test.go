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

func TestSubmit_DosLineasPasaAAprobacion(t *testing.T) {
	f := newFixture(t, baseNow)
	created := f.createRequest(t, actorFor(role.Requester), line(productCementID, 10), line(productSandID, 5))

	resp, err := f.uc.Submit(context.Background(), actorFor(role.Requester), created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RequestStateToApprove, resp.State)
}

func TestSubmit_SinLineasActivasFalla(t *testing.T) {
	f := newFixture(t, baseNow)
	ctx := context.Background()
	created := f.createRequest(t, actorFor(role.Requester), line(productCementID, 10))
	require.NoError(t, f.uc.CancelLine(ctx, actorFor(role.Requester), created.Lines[0].ID))

	// cancelar la única línea la auto-rechazó; reabrir el caso con una
	// solicitud de cantidad cero
	sinQty := f.createRequest(t, actorFor(role.Requester), line(productCementID, 0))
	_, err := f.uc.Submit(ctx, actorFor(role.Requester), sinQty.ID)
	var emptyErr *domain.EmptyRequestError
	require.ErrorAs(t, err, &emptyErr)
	assert.Equal(t, sinQty.Name, emptyErr.Request)
}

func TestApprove_RegistraAprobador(t *testing.T) {
	f := newFixture(t, baseNow)
	ctx := context.Background()
	created := f.createRequest(t, actorFor(role.Requester), line(productCementID, 10))
	_, err := f.uc.Submit(ctx, actorFor(role.Requester), created.ID)
	require.NoError(t, err)

	resp, err := f.uc.Approve(ctx, actorFor(role.Manager), created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RequestStateApproved, resp.State)
	require.NotNil(t, resp.AssignedToID)
	assert.Equal(t, managerID, *resp.AssignedToID)
}

func TestApprove_RequesterNoPuede(t *testing.T) {
	f := newFixture(t, baseNow)
	ctx := context.Background()
	created := f.createRequest(t, actorFor(role.Requester), line(productCementID, 10))
	_, err := f.uc.Submit(ctx, actorFor(role.Requester), created.ID)
	require.NoError(t, err)

	_, err = f.uc.Approve(ctx, actorFor(role.Requester), created.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestApprove_DesdeBorradorFalla(t *testing.T) {
	f := newFixture(t, baseNow)
	created := f.createRequest(t, actorFor(role.Requester), line(productCementID, 10))

	_, err := f.uc.Approve(context.Background(), actorFor(role.Manager), created.ID)
	var transErr *domain.InvalidTransitionError
	require.ErrorAs(t, err, &transErr)
	assert.Equal(t, "approve", transErr.Action)
	assert.Equal(t, entity.RequestStateDraft, transErr.From)
}

func TestReject_CancelaTodasLasLineas(t *testing.T) {
	f := newFixture(t, baseNow)
	ctx := context.Background()
	created := f.createRequest(t, actorFor(role.Requester), line(productCementID, 10), line(productSandID, 5))
	_, err := f.uc.Submit(ctx, actorFor(role.Requester), created.ID)
	require.NoError(t, err)

	resp, err := f.uc.Reject(ctx, actorFor(role.Manager), created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RequestStateRejected, resp.State)

	after, err := f.uc.Get(actorFor(role.Manager), created.ID)
	require.NoError(t, err)
	for _, l := range after.Lines {
		assert.True(t, l.Cancelled)
	}
}

func TestHoldResume_RestauraEstadoYLimpiaMotivo(t *testing.T) {
	f := newFixture(t, baseNow)
	ctx := context.Background()
	aprobada := f.approvedRequest(t, line(productCementID, 10))

	held, err := f.uc.Hold(ctx, actorFor(role.Requester), aprobada.ID, "espera de presupuesto")
	require.NoError(t, err)
	assert.Equal(t, entity.RequestStateOnHold, held.State)
	require.NotNil(t, held.PreviousState)
	assert.Equal(t, entity.RequestStateApproved, *held.PreviousState)
	assert.Equal(t, "espera de presupuesto", held.OnHoldReason)

	resumed, err := f.uc.Resume(ctx, actorFor(role.Requester), aprobada.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RequestStateApproved, resumed.State, "vuelve exactamente al estado previo")
	assert.Nil(t, resumed.PreviousState)
	assert.Empty(t, resumed.OnHoldReason)
}

func TestHold_SinMotivoFalla(t *testing.T) {
	f := newFixture(t, baseNow)
	aprobada := f.approvedRequest(t, line(productCementID, 10))

	_, err := f.uc.Hold(context.Background(), actorFor(role.Requester), aprobada.ID, "")
	assert.ErrorIs(t, err, domain.ErrHoldReasonRequired)
}

func TestHold_DesdeDoneFalla(t *testing.T) {
	f := newFixture(t, baseNow)
	ctx := context.Background()
	aprobada := f.approvedRequest(t, line(productCementID, 10))
	_, err := f.uc.ConfirmDone(ctx, actorFor(role.Manager), aprobada.ID)
	require.NoError(t, err)

	_, err = f.uc.Hold(ctx, actorFor(role.Manager), aprobada.ID, "tarde")
	var transErr *domain.InvalidTransitionError
	assert.ErrorAs(t, err, &transErr)
}

func TestDone_ConPendientesDevuelveConfirmacion(t *testing.T) {
	f := newFixture(t, baseNow)
	ctx := context.Background()
	aprobada := f.approvedRequest(t, line(productCementID, 10))

	result, err := f.uc.Done(ctx, actorFor(role.Manager), aprobada.ID)
	require.NoError(t, err)
	assert.False(t, result.Done, "con cantidad pendiente no transiciona directo")
	require.NotNil(t, result.Confirmation)
	require.Len(t, result.Confirmation.Lines, 1)
	pendiente := result.Confirmation.Lines[0]
	assert.True(t, pendiente.RequestedQty.Equal(qty(10)))
	assert.True(t, pendiente.FulfilledQty.IsZero())
	assert.True(t, pendiente.UnfulfilledQty.Equal(qty(10)))

	// el estado NO cambió hasta confirmar
	after, err := f.uc.Get(actorFor(role.Manager), aprobada.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RequestStateApproved, after.State)

	confirmed, err := f.uc.ConfirmDone(ctx, actorFor(role.Manager), aprobada.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RequestStateDone, confirmed.State)
}

func TestResetToDraft_ReactivaLineasCanceladas(t *testing.T) {
	f := newFixture(t, baseNow)
	ctx := context.Background()
	created := f.createRequest(t, actorFor(role.Requester), line(productCementID, 10), line(productSandID, 5))
	require.NoError(t, f.uc.CancelLine(ctx, actorFor(role.Requester), created.Lines[0].ID))

	resp, err := f.uc.ResetToDraft(ctx, actorFor(role.Requester), created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RequestStateDraft, resp.State)
	for _, l := range resp.Lines {
		assert.False(t, l.Cancelled)
	}
}

func TestRoleCapabilities_Matriz(t *testing.T) {
	cases := []struct {
		r    role.Role
		c    role.Capability
		want bool
	}{
		{role.Admin, role.CreateRequest, true},
		{role.Admin, role.ManageCategories, true},
		{role.Manager, role.CreateRequest, false},
		{role.Manager, role.ApproveRequest, true},
		{role.Manager, role.ValidateTransferAny, true},
		{role.Requester, role.CreateRequest, true},
		{role.Requester, role.ApproveRequest, false},
		{role.Requester, role.HoldRequest, true},
		{role.Storekeeper, role.CreateRequest, false},
		{role.Storekeeper, role.ValidateTransferAny, false},
		{role.Role("desconocido"), role.CreateRequest, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, role.Can(tc.r, tc.c), "rol %s capacidad %s", tc.r, tc.c)
	}
}
