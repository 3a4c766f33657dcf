package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Solicitudes-api/internal/application/dto"
	"github.com/jhoicas/Solicitudes-api/internal/domain"
)

// respondError traduce errores de dominio a respuestas HTTP. Los handlers lo
// usan como salida única para cualquier error de un caso de uso.
func respondError(c *fiber.Ctx, err error) error {
	var quota *domain.QuotaExceededError
	if errors.As(err, &quota) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "QUOTA_EXCEEDED", Message: err.Error()})
	}
	var transition *domain.InvalidTransitionError
	if errors.As(err, &transition) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_TRANSITION", Message: err.Error()})
	}
	var empty *domain.EmptyRequestError
	if errors.As(err, &empty) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "EMPTY_REQUEST", Message: err.Error()})
	}
	var alloc *domain.AllocationValidationError
	if errors.As(err, &alloc) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "ALLOCATION_INVALID", Message: err.Error()})
	}

	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrHoldReasonRequired):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate), errors.Is(err, domain.ErrEmailAlreadyExists):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrNoInternalOperationType):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrInsufficientPettyCash):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_FUNDS", Message: err.Error()})
	case errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrManagerCannotCreate):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

// paging lee limit/offset del query string con los topes usuales.
func paging(c *fiber.Ctx) (limit, offset int) {
	limit = c.QueryInt("limit", 20)
	offset = c.QueryInt("offset", 0)
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
