package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/arrublas1208/logitrack-api/internal/application/dto"
	"github.com/arrublas1208/logitrack-api/internal/application/inventory"
)

// ReturnHandler maneja las peticiones HTTP de devoluciones (protegido).
type ReturnHandler struct {
	uc *inventory.ReturnUseCase
}

// NewReturnHandler construye el handler.
func NewReturnHandler(uc *inventory.ReturnUseCase) *ReturnHandler {
	return &ReturnHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar devolución
// @Description  Crea la devolución en estado PENDIENTE. El inventario sólo se
//
//	afecta al completarla.
//
// @Tags         returns
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateReturnRequest  true  "type, warehouse_id, supplier_id (A_PROVEEDOR), lines"
// @Success      201   {object}  dto.ReturnResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/returns [post]
func (h *ReturnHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateReturnRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(c.Context(), GetCompanyID(c), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Approve pasa la devolución a APROBADA.
func (h *ReturnHandler) Approve(c *fiber.Ctx) error {
	out, err := h.uc.Approve(c.Context(), GetCompanyID(c), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Complete godoc
// @Summary      Completar devolución
// @Description  Aplica los efectos de inventario (resta A_PROVEEDOR, suma
//
//	DE_CLIENTE) y marca COMPLETADA en una sola transacción.
//
// @Tags         returns
// @Security     Bearer
// @Param        id  path  string  true  "ID de la devolución"
// @Success      200  {object}  dto.ReturnResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/returns/{id}/complete [post]
func (h *ReturnHandler) Complete(c *fiber.Ctx) error {
	out, err := h.uc.Complete(c.Context(), GetCompanyID(c), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Reject rechaza la devolución con un motivo.
func (h *ReturnHandler) Reject(c *fiber.Ctx) error {
	var in dto.RejectReturnRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Reject(c.Context(), GetCompanyID(c), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update corrige motivo y notas de una devolución no completada.
func (h *ReturnHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateReturnRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(c.Context(), GetCompanyID(c), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID obtiene una devolución por ID.
func (h *ReturnHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByNumber busca una devolución por número.
func (h *ReturnHandler) GetByNumber(c *fiber.Ctx) error {
	out, err := h.uc.GetByNumber(GetCompanyID(c), c.Params("number"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List lista devoluciones con filtros opcionales (?type=, ?state=).
func (h *ReturnHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	out, err := h.uc.List(GetCompanyID(c), c.Query("type"), c.Query("state"), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete elimina una devolución no completada.
func (h *ReturnHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), GetCompanyID(c), GetUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
