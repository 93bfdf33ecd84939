package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/expensia/expensia-api/internal/application/approval"
	"github.com/expensia/expensia-api/internal/application/dto"
	"github.com/expensia/expensia-api/internal/domain"
)

// ApprovalHandler maneja la bandeja, el historial y las decisiones de aprobación.
type ApprovalHandler struct {
	uc *approval.ApprovalUseCase
}

// NewApprovalHandler construye el handler de aprobaciones.
func NewApprovalHandler(uc *approval.ApprovalUseCase) *ApprovalHandler {
	return &ApprovalHandler{uc: uc}
}

// Inbox godoc
// @Summary      Gastos pendientes de decisión del usuario autenticado
// @Description  Solo gastos cuya etapa actual resuelve al caller como aprobador elegible.
// @Tags         approvals
// @Produce      json
// @Security     BearerAuth
// @Param        limit   query  int  false  "máx. resultados (default 50)"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {array}  dto.InboxItemResponse
// @Router       /api/approvals/inbox [get]
func (h *ApprovalHandler) Inbox(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "limit/offset inválidos"})
	}
	page.DefaultPage()
	items, err := h.uc.Inbox(GetUserID(c), GetCompanyID(c), page.Limit, page.Offset)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "USER_NOT_FOUND", Message: "usuario no encontrado"})
		}
		return internalError(c, err)
	}
	return c.JSON(items)
}

// History godoc
// @Summary      Gastos resueltos (APPROVED/REJECTED) de la empresa
// @Tags         approvals
// @Produce      json
// @Security     BearerAuth
// @Param        limit   query  int  false  "máx. resultados (default 50)"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {object}  dto.ExpenseListResponse
// @Router       /api/approvals/history [get]
func (h *ApprovalHandler) History(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "limit/offset inválidos"})
	}
	page.DefaultPage()
	out, err := h.uc.History(GetCompanyID(c), page.Limit, page.Offset)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(out)
}

// Decide godoc
// @Summary      Aprobar o rechazar un gasto en la etapa actual
// @Description  Un rechazo termina el gasto como REJECTED. Una aprobación que satisface la etapa avanza a la siguiente o aprueba el gasto si era la última.
// @Tags         approvals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string               true  "ID del gasto"
// @Param        body  body  dto.DecisionRequest  true  "approved, comment"
// @Success      200  {object}  dto.DecisionResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/approvals/{id}/decision [post]
func (h *ApprovalHandler) Decide(c *fiber.Ctx) error {
	var in dto.DecisionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Approved == nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "approved es requerido"})
	}
	out, err := h.uc.Decide(c.Context(), GetUserID(c), GetCompanyID(c), c.Params("id"), *in.Approved, in.Comment)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "gasto no encontrado"})
		}
		if errors.Is(err, domain.ErrExpenseNotPending) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NOT_PENDING", Message: "el gasto ya fue resuelto"})
		}
		if errors.Is(err, domain.ErrNotEligibleApprover) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "NOT_ELIGIBLE", Message: "el usuario no es aprobador de la etapa actual"})
		}
		if errors.Is(err, domain.ErrConflict) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NO_ACTIVE_STAGE", Message: "la empresa no tiene etapa activa para el gasto"})
		}
		return internalError(c, err)
	}
	return c.JSON(out)
}
