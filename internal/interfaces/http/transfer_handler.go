package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Solicitudes-api/internal/application/dto"
	"github.com/jhoicas/Solicitudes-api/internal/application/request"
)

// TransferHandler asistente de transferencias internas sobre una solicitud:
// consulta de disponibilidad, creación, validación y cancelación.
type TransferHandler struct {
	uc *request.UseCase
}

// NewTransferHandler construye el handler de transferencias.
func NewTransferHandler(uc *request.UseCase) *TransferHandler {
	return &TransferHandler{uc: uc}
}

// Availability godoc
// @Summary      Disponibilidad por línea y ubicación
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.AvailabilityResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/requests/{id}/availability [get]
func (h *TransferHandler) Availability(c *fiber.Ctx) error {
	out, err := h.uc.Availability(requestActor(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear transferencia interna para una solicitud
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la solicitud"
// @Param        body  body  dto.CreateTransferRequest  true  "Plan de movimientos"
// @Success      201   {object}  dto.TransferResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/requests/{id}/transfers [post]
func (h *TransferHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if len(in.Rows) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "rows no puede estar vacío"})
	}
	out, err := h.uc.CreateTransfer(c.Context(), requestActor(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Validate godoc
// @Summary      Validar transferencia (descuenta stock)
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la transferencia"
// @Success      200  {object}  dto.TransferResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/validate [post]
func (h *TransferHandler) Validate(c *fiber.Ctx) error {
	out, err := h.uc.ValidateTransfer(c.Context(), requestActor(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar transferencia pendiente
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la transferencia"
// @Success      200  {object}  dto.TransferResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/cancel [post]
func (h *TransferHandler) Cancel(c *fiber.Ctx) error {
	out, err := h.uc.CancelTransfer(c.Context(), requestActor(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
