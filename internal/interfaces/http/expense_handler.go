package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/expensia/expensia-api/internal/application/dto"
	"github.com/expensia/expensia-api/internal/application/expense"
	"github.com/expensia/expensia-api/internal/domain"
)

// ExpenseHandler maneja los gastos del empleado autenticado.
type ExpenseHandler struct {
	uc        *expense.ExpenseUseCase
	statement *expense.StatementUseCase
}

// NewExpenseHandler construye el handler de gastos.
func NewExpenseHandler(uc *expense.ExpenseUseCase, statement *expense.StatementUseCase) *ExpenseHandler {
	return &ExpenseHandler{uc: uc, statement: statement}
}

// Create godoc
// @Summary      Crear un gasto
// @Description  El monto se convierte a la moneda base de la empresa con la tasa vigente. Con submit=true entra directo al flujo de aprobación.
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateExpenseRequest  true  "amount, currency, category, expenseDate"
// @Success      201   {object}  dto.ExpenseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/expenses [post]
func (h *ExpenseHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateExpenseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(c.Context(), GetUserID(c), GetCompanyID(c), in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "monto, moneda (ISO 4217) y fecha (YYYY-MM-DD) son requeridos"})
		}
		if errors.Is(err, domain.ErrRateUnavailable) {
			// Fallo del proveedor FX sin snapshot en caché: la culpa es del upstream.
			return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "RATE_UNAVAILABLE", Message: "tasa de cambio no disponible, intente más tarde"})
		}
		return internalError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Submit godoc
// @Summary      Enviar un gasto DRAFT al flujo de aprobación
// @Tags         expenses
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "ID del gasto"
// @Success      200  {object}  dto.ExpenseResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/expenses/{id}/submit [post]
func (h *ExpenseHandler) Submit(c *fiber.Ctx) error {
	out, err := h.uc.Submit(c.Params("id"), GetUserID(c))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "gasto no encontrado"})
		}
		if errors.Is(err, domain.ErrForbidden) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "el gasto no pertenece al usuario"})
		}
		if errors.Is(err, domain.ErrConflict) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NOT_DRAFT", Message: "solo gastos en DRAFT pueden enviarse"})
		}
		return internalError(c, err)
	}
	return c.JSON(out)
}

// ListMine godoc
// @Summary      Listar los gastos del usuario autenticado
// @Tags         expenses
// @Produce      json
// @Security     BearerAuth
// @Param        limit   query  int  false  "máx. resultados (default 50)"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {object}  dto.ExpenseListResponse
// @Router       /api/expenses/me [get]
func (h *ExpenseHandler) ListMine(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "limit/offset inválidos"})
	}
	page.DefaultPage()
	out, err := h.uc.ListMine(GetUserID(c), page.Limit, page.Offset)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(out)
}

// Statement godoc
// @Summary      Descargar el estado de cuenta de gastos en PDF
// @Tags         expenses
// @Produce      application/pdf
// @Security     BearerAuth
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/expenses/me/statement [get]
func (h *ExpenseHandler) Statement(c *fiber.Ctx) error {
	pdfBytes, err := h.statement.Generate(c.Context(), GetUserID(c))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "usuario o empresa no encontrados"})
		}
		return internalError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="expense-statement.pdf"`)
	return c.Send(pdfBytes)
}
