package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Solicitudes-api/internal/application/b2b"
	"github.com/jhoicas/Solicitudes-api/internal/application/dto"
	"github.com/jhoicas/Solicitudes-api/internal/domain/role"
)

// B2BHandler administra las categorías de gasto B2B y permite disparar una
// corrida de categorización a demanda.
type B2BHandler struct {
	categories *b2b.CategoryUseCase
	job        *b2b.CategorizeUseCase
}

// NewB2BHandler construye el handler B2B.
func NewB2BHandler(categories *b2b.CategoryUseCase, job *b2b.CategorizeUseCase) *B2BHandler {
	return &B2BHandler{categories: categories, job: job}
}

func b2bActor(c *fiber.Ctx) b2b.Actor {
	return b2b.Actor{
		ID:        GetUserID(c),
		CompanyID: GetCompanyID(c),
		Role:      role.Role(GetRole(c)),
	}
}

// CreateCategory godoc
// @Summary      Crear categoría de gasto B2B
// @Tags         b2b
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateB2BCategoryRequest  true  "Rango y contactos"
// @Success      201   {object}  dto.B2BCategoryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/b2b/categories [post]
func (h *B2BHandler) CreateCategory(c *fiber.Ctx) error {
	var in dto.CreateB2BCategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.categories.Create(b2bActor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateCategory godoc
// @Summary      Actualizar categoría de gasto B2B
// @Tags         b2b
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la categoría"
// @Param        body  body  dto.UpdateB2BCategoryRequest  true  "Rango y contactos"
// @Success      200   {object}  dto.B2BCategoryResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/b2b/categories/{id} [put]
func (h *B2BHandler) UpdateCategory(c *fiber.Ctx) error {
	var in dto.UpdateB2BCategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.categories.Update(b2bActor(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DeleteCategory godoc
// @Summary      Eliminar categoría de gasto B2B
// @Tags         b2b
// @Security     Bearer
// @Param        id   path  string  true  "ID de la categoría"
// @Success      204
// @Router       /api/b2b/categories/{id} [delete]
func (h *B2BHandler) DeleteCategory(c *fiber.Ctx) error {
	if err := h.categories.Delete(b2bActor(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListCategories godoc
// @Summary      Listar categorías de gasto B2B
// @Tags         b2b
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.B2BCategoryResponse
// @Router       /api/b2b/categories [get]
func (h *B2BHandler) ListCategories(c *fiber.Ctx) error {
	out, err := h.categories.List(b2bActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Run godoc
// @Summary      Ejecutar categorización B2B ahora
// @Description  Evalúa el gasto de los clientes B2B de la empresa y reasigna categorías. La corrida normal es programada; este endpoint la fuerza.
// @Tags         b2b
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.B2BRunSummary
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/b2b/run [post]
func (h *B2BHandler) Run(c *fiber.Ctx) error {
	actor := b2bActor(c)
	if !role.Can(actor.Role, role.ManageCategories) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol sin permiso para ejecutar la categorización"})
	}
	out, err := h.job.RunOnce(c.Context(), actor.CompanyID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
