package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Solicitudes-api/internal/application/dto"
	"github.com/jhoicas/Solicitudes-api/internal/domain/repository"
)

// allowedParams claves de negocio editables por API. Cualquier otra clave se
// rechaza para no convertir config_params en un almacén arbitrario.
var allowedParams = map[string]bool{
	repository.ParamPRCreationLimit: true,
	repository.ParamB2BEvalMode:     true,
	repository.ParamB2BLastXDays:    true,
	repository.ParamB2BThresholdPct: true,
}

// SettingsHandler lectura y ajuste de parámetros de negocio en runtime.
type SettingsHandler struct {
	settings repository.SettingsRepository
}

// NewSettingsHandler construye el handler de parámetros.
func NewSettingsHandler(settings repository.SettingsRepository) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// Get godoc
// @Summary      Leer un parámetro de negocio
// @Tags         settings
// @Security     Bearer
// @Produce      json
// @Param        key  path  string  true  "Clave del parámetro"
// @Success      200  {object}  dto.SettingResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/settings/{key} [get]
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	key := c.Params("key")
	if !allowedParams[key] {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "UNKNOWN_KEY", Message: "clave de parámetro desconocida"})
	}
	value, err := h.settings.GetString(key, "")
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.SettingResponse{Key: key, Value: value})
}

// Set godoc
// @Summary      Ajustar un parámetro de negocio
// @Tags         settings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        key   path  string  true  "Clave del parámetro"
// @Param        body  body  dto.SettingInput  true  "Nuevo valor"
// @Success      200   {object}  dto.SettingResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/settings/{key} [put]
func (h *SettingsHandler) Set(c *fiber.Ctx) error {
	key := c.Params("key")
	if !allowedParams[key] {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "UNKNOWN_KEY", Message: "clave de parámetro desconocida"})
	}
	var in dto.SettingInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.settings.Set(key, in.Value); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.SettingResponse{Key: key, Value: in.Value})
}
