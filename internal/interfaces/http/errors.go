package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/arrublas1208/logitrack-api/internal/application/dto"
	"github.com/arrublas1208/logitrack-api/internal/domain"
)

// respondError traduce errores de dominio a respuestas HTTP con código
// estable. Los errores no reconocidos responden 500 sin filtrar detalles
// internos al cliente.
func respondError(c *fiber.Ctx, err error) error {
	var bizErr *domain.BusinessError
	if errors.As(err, &bizErr) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: bizErr.Code, Message: bizErr.Message})
	}
	var tenantErr *domain.TenantMismatchError
	if errors.As(err, &tenantErr) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "TENANT_MISMATCH", Message: tenantErr.Error()})
	}
	var stockErr *domain.InsufficientStockError
	if errors.As(err, &stockErr) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: stockErr.Error()})
	}
	var boundsErr *domain.StockBoundsError
	if errors.As(err, &boundsErr) {
		code := "STOCK_NEGATIVE"
		if boundsErr.Kind == domain.StockBoundsAboveMax {
			code = "STOCK_ABOVE_MAX"
		}
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: code, Message: boundsErr.Error()})
	}

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "recurso duplicado"})
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "EMAIL_EXISTS", Message: "el email ya está registrado"})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "conflicto con el estado actual"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}
