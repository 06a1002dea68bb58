package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/arrublas1208/logitrack-api/internal/application/audit"
)

// AuditHandler consultas HTTP de auditoría (protegido).
type AuditHandler struct {
	uc *audit.QueryUseCase
}

// NewAuditHandler construye el handler.
func NewAuditHandler(uc *audit.QueryUseCase) *AuditHandler {
	return &AuditHandler{uc: uc}
}

// Latest lista los últimos registros de auditoría (?limit=).
func (h *AuditHandler) Latest(c *fiber.Ctx) error {
	limit, _ := pageParams(c)
	out, err := h.uc.Latest(GetCompanyID(c), limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListByEntity lista registros filtrados por tipo de entidad auditada.
func (h *AuditHandler) ListByEntity(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	out, err := h.uc.ListByEntity(GetCompanyID(c), c.Params("entity"), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
