package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Solicitudes-api/internal/application/dto"
	"github.com/jhoicas/Solicitudes-api/internal/application/request"
	"github.com/jhoicas/Solicitudes-api/internal/domain/role"
)

// RequestHandler maneja las solicitudes de compra y su flujo de estados.
type RequestHandler struct {
	uc *request.UseCase
}

// NewRequestHandler construye el handler de solicitudes.
func NewRequestHandler(uc *request.UseCase) *RequestHandler {
	return &RequestHandler{uc: uc}
}

// requestActor arma el actor del caso de uso con los datos del token.
func requestActor(c *fiber.Ctx) request.Actor {
	return request.Actor{
		ID:        GetUserID(c),
		CompanyID: GetCompanyID(c),
		Role:      role.Role(GetRole(c)),
	}
}

// Create godoc
// @Summary      Crear solicitud de compra
// @Tags         requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRequestRequest  true  "Líneas y tipo de operación"
// @Success      201   {object}  dto.RequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/requests [post]
func (h *RequestHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRequestRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(c.Context(), requestActor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get godoc
// @Summary      Obtener solicitud por ID
// @Tags         requests
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.RequestResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/requests/{id} [get]
func (h *RequestHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(requestActor(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar solicitudes de la empresa
// @Tags         requests
// @Security     Bearer
// @Produce      json
// @Param        state   query  string  false  "Filtrar por estado"
// @Param        limit   query  int     false  "Límite"   default(20)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200     {array}  dto.RequestResponse
// @Router       /api/requests [get]
func (h *RequestHandler) List(c *fiber.Ctx) error {
	limit, offset := paging(c)
	page := dto.PageRequest{Limit: limit, Offset: offset}
	out, err := h.uc.List(requestActor(c), c.Query("state"), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar solicitud en borrador
// @Tags         requests
// @Security     Bearer
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/requests/{id} [delete]
func (h *RequestHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(requestActor(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Duplicate godoc
// @Summary      Duplicar solicitud
// @Tags         requests
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la solicitud origen"
// @Success      201  {object}  dto.RequestResponse
// @Router       /api/requests/{id}/duplicate [post]
func (h *RequestHandler) Duplicate(c *fiber.Ctx) error {
	out, err := h.uc.Duplicate(c.Context(), requestActor(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// transition aplica una acción de flujo que no lleva cuerpo.
func (h *RequestHandler) transition(c *fiber.Ctx, fn func(actor request.Actor, id string) (*dto.RequestResponse, error)) error {
	out, err := fn(requestActor(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Submit godoc
// @Summary      Enviar solicitud a aprobación
// @Tags         requests
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.RequestResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/requests/{id}/submit [post]
func (h *RequestHandler) Submit(c *fiber.Ctx) error {
	return h.transition(c, func(a request.Actor, id string) (*dto.RequestResponse, error) {
		return h.uc.Submit(c.Context(), a, id)
	})
}

// Approve godoc
// @Summary      Aprobar solicitud
// @Tags         requests
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.RequestResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/requests/{id}/approve [post]
func (h *RequestHandler) Approve(c *fiber.Ctx) error {
	return h.transition(c, func(a request.Actor, id string) (*dto.RequestResponse, error) {
		return h.uc.Approve(c.Context(), a, id)
	})
}

// Reject godoc
// @Summary      Rechazar solicitud
// @Tags         requests
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.RequestResponse
// @Router       /api/requests/{id}/reject [post]
func (h *RequestHandler) Reject(c *fiber.Ctx) error {
	return h.transition(c, func(a request.Actor, id string) (*dto.RequestResponse, error) {
		return h.uc.Reject(c.Context(), a, id)
	})
}

// Start godoc
// @Summary      Iniciar ejecución de la solicitud
// @Tags         requests
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.RequestResponse
// @Router       /api/requests/{id}/start [post]
func (h *RequestHandler) Start(c *fiber.Ctx) error {
	return h.transition(c, func(a request.Actor, id string) (*dto.RequestResponse, error) {
		return h.uc.Start(c.Context(), a, id)
	})
}

// Done godoc
// @Summary      Cerrar solicitud
// @Description  Si quedan líneas sin cumplir responde con un paso de confirmación en vez de cerrar.
// @Tags         requests
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.DoneResult
// @Router       /api/requests/{id}/done [post]
func (h *RequestHandler) Done(c *fiber.Ctx) error {
	out, err := h.uc.Done(c.Context(), requestActor(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ConfirmDone godoc
// @Summary      Confirmar cierre con líneas pendientes
// @Tags         requests
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.RequestResponse
// @Router       /api/requests/{id}/confirm-done [post]
func (h *RequestHandler) ConfirmDone(c *fiber.Ctx) error {
	return h.transition(c, func(a request.Actor, id string) (*dto.RequestResponse, error) {
		return h.uc.ConfirmDone(c.Context(), a, id)
	})
}

// Hold godoc
// @Summary      Poner solicitud en espera
// @Tags         requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la solicitud"
// @Param        body  body  dto.HoldRequestInput  true  "Motivo"
// @Success      200   {object}  dto.RequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/requests/{id}/hold [post]
func (h *RequestHandler) Hold(c *fiber.Ctx) error {
	var in dto.HoldRequestInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Hold(c.Context(), requestActor(c), c.Params("id"), in.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Resume godoc
// @Summary      Reanudar solicitud en espera
// @Tags         requests
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.RequestResponse
// @Router       /api/requests/{id}/resume [post]
func (h *RequestHandler) Resume(c *fiber.Ctx) error {
	return h.transition(c, func(a request.Actor, id string) (*dto.RequestResponse, error) {
		return h.uc.Resume(c.Context(), a, id)
	})
}

// ResetToDraft godoc
// @Summary      Devolver solicitud a borrador
// @Tags         requests
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.RequestResponse
// @Router       /api/requests/{id}/reset [post]
func (h *RequestHandler) ResetToDraft(c *fiber.Ctx) error {
	return h.transition(c, func(a request.Actor, id string) (*dto.RequestResponse, error) {
		return h.uc.ResetToDraft(c.Context(), a, id)
	})
}

// CancelLine godoc
// @Summary      Cancelar una línea de la solicitud
// @Tags         requests
// @Security     Bearer
// @Param        lineId  path  string  true  "ID de la línea"
// @Success      204
// @Router       /api/request-lines/{lineId}/cancel [post]
func (h *RequestHandler) CancelLine(c *fiber.Ctx) error {
	if err := h.uc.CancelLine(c.Context(), requestActor(c), c.Params("lineId")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UncancelLine godoc
// @Summary      Reactivar una línea cancelada
// @Tags         requests
// @Security     Bearer
// @Param        lineId  path  string  true  "ID de la línea"
// @Success      204
// @Router       /api/request-lines/{lineId}/uncancel [post]
func (h *RequestHandler) UncancelLine(c *fiber.Ctx) error {
	if err := h.uc.UncancelLine(c.Context(), requestActor(c), c.Params("lineId")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Notes godoc
// @Summary      Historial de notas de la solicitud
// @Tags         requests
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID de la solicitud"
// @Param        limit   query  int     false  "Límite"   default(20)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200     {array}  dto.RequestNoteResponse
// @Router       /api/requests/{id}/notes [get]
func (h *RequestHandler) Notes(c *fiber.Ctx) error {
	limit, offset := paging(c)
	notes, err := h.uc.Notes(requestActor(c), c.Params("id"), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.RequestNoteResponse, 0, len(notes))
	for _, n := range notes {
		out = append(out, dto.RequestNoteResponse{
			ID:        n.ID,
			AuthorID:  n.AuthorID,
			Body:      n.Body,
			CreatedAt: n.CreatedAt,
		})
	}
	return c.JSON(out)
}
