package http

import (
	"bytes"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Solicitudes-api/internal/application/dto"
	"github.com/jhoicas/Solicitudes-api/internal/application/pettycash"
	"github.com/jhoicas/Solicitudes-api/internal/domain/role"
	"github.com/jhoicas/Solicitudes-api/internal/infrastructure/excel"
)

// PettyCashHandler maneja las cajas menores: ciclo de vida, líneas y reporte.
type PettyCashHandler struct {
	uc *pettycash.UseCase
}

// NewPettyCashHandler construye el handler de caja menor.
func NewPettyCashHandler(uc *pettycash.UseCase) *PettyCashHandler {
	return &PettyCashHandler{uc: uc}
}

func pettyActor(c *fiber.Ctx) pettycash.Actor {
	return pettycash.Actor{
		ID:        GetUserID(c),
		CompanyID: GetCompanyID(c),
		Role:      role.Role(GetRole(c)),
	}
}

// Create godoc
// @Summary      Crear caja menor para un custodio
// @Tags         petty-cash
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePettyCashRequest  true  "Custodio y nombre opcional"
// @Success      201   {object}  dto.PettyCashResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/petty-cash [post]
func (h *PettyCashHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePettyCashRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.CustodianID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "custodian_id es requerido"})
	}
	out, err := h.uc.Create(pettyActor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Open godoc
// @Summary      Poner la caja menor en curso
// @Tags         petty-cash
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la caja"
// @Success      200  {object}  dto.PettyCashResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/petty-cash/{id}/open [post]
func (h *PettyCashHandler) Open(c *fiber.Ctx) error {
	out, err := h.uc.Open(pettyActor(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Close godoc
// @Summary      Cerrar la caja menor
// @Tags         petty-cash
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la caja"
// @Success      200  {object}  dto.PettyCashResponse
// @Router       /api/petty-cash/{id}/close [post]
func (h *PettyCashHandler) Close(c *fiber.Ctx) error {
	out, err := h.uc.Close(pettyActor(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Allocate godoc
// @Summary      Asignar fondos a la caja menor
// @Tags         petty-cash
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la caja"
// @Param        body  body  dto.PettyCashLineInput  true  "Monto y descripción"
// @Success      200   {object}  dto.PettyCashResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/petty-cash/{id}/allocate [post]
func (h *PettyCashHandler) Allocate(c *fiber.Ctx) error {
	var in dto.PettyCashLineInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Allocate(pettyActor(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Expense godoc
// @Summary      Registrar un gasto contra el saldo
// @Tags         petty-cash
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la caja"
// @Param        body  body  dto.PettyCashLineInput  true  "Monto y descripción"
// @Success      200   {object}  dto.PettyCashResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/petty-cash/{id}/expense [post]
func (h *PettyCashHandler) Expense(c *fiber.Ctx) error {
	var in dto.PettyCashLineInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Expense(pettyActor(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener caja menor por ID
// @Tags         petty-cash
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la caja"
// @Success      200  {object}  dto.PettyCashResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/petty-cash/{id} [get]
func (h *PettyCashHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(pettyActor(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar cajas menores de la empresa
// @Tags         petty-cash
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {array}  dto.PettyCashResponse
// @Router       /api/petty-cash [get]
func (h *PettyCashHandler) List(c *fiber.Ctx) error {
	limit, offset := paging(c)
	out, err := h.uc.List(pettyActor(c), dto.PageRequest{Limit: limit, Offset: offset})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Report godoc
// @Summary      Reporte de caja menor en Excel
// @Description  Genera un xlsx con los movimientos del custodio para el año indicado.
// @Tags         petty-cash
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        custodian_id  query  string  false  "Filtrar por custodio"
// @Param        year          query  int     false  "Año (por defecto, el actual)"
// @Success      200  {file}  binary
// @Router       /api/petty-cash/report [get]
func (h *PettyCashHandler) Report(c *fiber.Ctx) error {
	custodianID := c.Query("custodian_id")
	year := c.QueryInt("year", 0)
	data, err := h.uc.Report(pettyActor(c), custodianID, year)
	if err != nil {
		return respondError(c, err)
	}
	var buf bytes.Buffer
	if err := excel.WriteCashReport(&buf, data); err != nil {
		return respondError(c, err)
	}
	name := "caja_menor.xlsx"
	if year != 0 {
		name = fmt.Sprintf("caja_menor_%d.xlsx", year)
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Send(buf.Bytes())
}
