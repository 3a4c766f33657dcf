package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Solicitudes-api/internal/application/dto"
	"github.com/jhoicas/Solicitudes-api/internal/application/request"
)

// PurchaseHandler vincula líneas de solicitud con líneas de orden de compra y
// registra recepciones sobre ellas.
type PurchaseHandler struct {
	uc *request.UseCase
}

// NewPurchaseHandler construye el handler de compras.
func NewPurchaseHandler(uc *request.UseCase) *PurchaseHandler {
	return &PurchaseHandler{uc: uc}
}

// Allocate godoc
// @Summary      Asignar cantidad comprada a una línea de solicitud
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Param        lineId  path  string  true  "ID de la línea de solicitud"
// @Param        body    body  dto.AllocatePurchaseInput  true  "Línea de compra y cantidad"
// @Success      204
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/request-lines/{lineId}/allocate [post]
func (h *PurchaseHandler) Allocate(c *fiber.Ctx) error {
	var in dto.AllocatePurchaseInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.PurchaseLineID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "purchase_line_id es requerido"})
	}
	if err := h.uc.AllocatePurchase(c.Context(), requestActor(c), c.Params("lineId"), in.PurchaseLineID, in.Qty); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Receive godoc
// @Summary      Registrar recepción sobre una línea de compra
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Param        id    path  string  true  "ID de la línea de compra"
// @Param        body  body  dto.ReceivePurchaseInput  true  "Cantidad recibida"
// @Success      204
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/purchase-lines/{id}/receive [post]
func (h *PurchaseHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceivePurchaseInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.ReceivePurchase(c.Context(), requestActor(c), c.Params("id"), in.Qty); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SetState godoc
// @Summary      Cambiar estado de una línea de compra
// @Description  Cancelar una línea de compra libera las cantidades asignadas a las solicitudes.
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Param        id    path  string  true  "ID de la línea de compra"
// @Param        body  body  dto.PurchaseLineStateInput  true  "Nuevo estado"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-lines/{id}/state [put]
func (h *PurchaseHandler) SetState(c *fiber.Ctx) error {
	var in dto.PurchaseLineStateInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.State == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "state es requerido"})
	}
	if err := h.uc.SetPurchaseLineState(c.Context(), requestActor(c), c.Params("id"), in.State); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
