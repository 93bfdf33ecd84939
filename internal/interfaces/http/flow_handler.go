package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/expensia/expensia-api/internal/application/dto"
	"github.com/expensia/expensia-api/internal/application/usecase"
	"github.com/expensia/expensia-api/internal/domain"
)

// FlowHandler configuración del flujo de aprobación (solo ADMIN, ver router).
type FlowHandler struct {
	uc *usecase.FlowUseCase
}

// NewFlowHandler construye el handler del flujo.
func NewFlowHandler(uc *usecase.FlowUseCase) *FlowHandler {
	return &FlowHandler{uc: uc}
}

// Get godoc
// @Summary      Configuración vigente del flujo de aprobación
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.FlowResponse
// @Router       /api/admin/flow [get]
func (h *FlowHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.GetFlow(GetCompanyID(c))
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(out)
}

// Save godoc
// @Summary      Reemplazar la configuración del flujo de aprobación
// @Description  Desactiva etapas y reglas vigentes y crea las nuevas en una transacción. El orden de cada etapa se asigna por posición (1..n).
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.SaveFlowRequest  true  "stages, rule"
// @Success      200  {object}  dto.FlowResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/admin/flow [post]
func (h *FlowHandler) Save(c *fiber.Ctx) error {
	var in dto.SaveFlowRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.SaveFlow(c.Context(), GetCompanyID(c), in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "cada etapa requiere exactamente un aprobador (usuario o rol) y la regla debe ser válida"})
		}
		return internalError(c, err)
	}
	return c.JSON(out)
}
