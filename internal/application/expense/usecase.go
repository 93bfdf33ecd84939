// Package expense implementa los casos de uso de gastos: alta con conversión
// a la moneda base de la empresa, envío al flujo de aprobación y listados.
package expense

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"

	"github.com/expensia/expensia-api/internal/application/dto"
	"github.com/expensia/expensia-api/internal/application/ports"
	"github.com/expensia/expensia-api/internal/domain"
	"github.com/expensia/expensia-api/internal/domain/entity"
	"github.com/expensia/expensia-api/internal/domain/repository"
)

// expenseDateLayout formato de fecha aceptado en CreateExpenseRequest.
const expenseDateLayout = "2006-01-02"

// ExpenseUseCase casos de uso de gastos.
type ExpenseUseCase struct {
	expenseRepo repository.ExpenseRepository
	companyRepo repository.CompanyRepository
	converter   ports.CurrencyConverter
}

// NewExpenseUseCase construye el caso de uso.
func NewExpenseUseCase(
	expenseRepo repository.ExpenseRepository,
	companyRepo repository.CompanyRepository,
	converter ports.CurrencyConverter,
) *ExpenseUseCase {
	return &ExpenseUseCase{expenseRepo: expenseRepo, companyRepo: companyRepo, converter: converter}
}

// Create da de alta un gasto del usuario autenticado. Convierte el monto a la
// moneda base de la empresa y persiste la tasa aplicada. Con Submit=true el
// gasto entra al flujo en la etapa 1 (SUBMITTED); si no, queda en DRAFT.
func (uc *ExpenseUseCase) Create(ctx context.Context, employeeID, companyID string, in dto.CreateExpenseRequest) (*dto.ExpenseResponse, error) {
	if !in.Amount.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	code := strings.ToUpper(strings.TrimSpace(in.Currency))
	if _, err := currency.ParseISO(code); err != nil {
		return nil, domain.ErrInvalidInput
	}
	expenseDate, err := time.Parse(expenseDateLayout, in.ExpenseDate)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	company, err := uc.companyRepo.GetByID(companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}

	converted, rate, err := uc.converter.Convert(ctx, in.Amount, code, company.CurrencyCode)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	exp := &entity.Expense{
		ID:               uuid.New().String(),
		CompanyID:        company.ID,
		EmployeeID:       employeeID,
		Description:      strings.TrimSpace(in.Description),
		Category:         strings.TrimSpace(in.Category),
		AmountOriginal:   in.Amount,
		CurrencyOriginal: code,
		AmountCompanyCcy: converted,
		FxRate:           rate,
		ExpenseDate:      expenseDate,
		ReceiptURL:       in.ReceiptURL,
		Status:           entity.ExpenseStatusDraft,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if in.Submit {
		firstStage := 1
		exp.Status = entity.ExpenseStatusSubmitted
		exp.CurrentStageOrder = &firstStage
	}
	if err := uc.expenseRepo.Create(exp); err != nil {
		return nil, err
	}
	resp := toExpenseResponse(exp)
	resp.CompanyCurrency = company.CurrencyCode
	return resp, nil
}

// Submit envía al flujo un gasto en DRAFT del usuario autenticado.
func (uc *ExpenseUseCase) Submit(expenseID, employeeID string) (*dto.ExpenseResponse, error) {
	exp, err := uc.expenseRepo.GetByID(expenseID)
	if err != nil {
		return nil, err
	}
	if exp == nil {
		return nil, domain.ErrNotFound
	}
	if exp.EmployeeID != employeeID {
		return nil, domain.ErrForbidden
	}
	if exp.Status != entity.ExpenseStatusDraft {
		return nil, domain.ErrConflict
	}
	firstStage := 1
	if err := uc.expenseRepo.UpdateStatus(exp.ID, entity.ExpenseStatusSubmitted, &firstStage); err != nil {
		return nil, err
	}
	exp.Status = entity.ExpenseStatusSubmitted
	exp.CurrentStageOrder = &firstStage
	return toExpenseResponse(exp), nil
}

// ListMine lista los gastos del usuario autenticado, más recientes primero.
func (uc *ExpenseUseCase) ListMine(employeeID string, limit, offset int) (*dto.ExpenseListResponse, error) {
	list, err := uc.expenseRepo.ListByEmployee(employeeID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ExpenseResponse, 0, len(list))
	for _, e := range list {
		items = append(items, *toExpenseResponse(e))
	}
	return &dto.ExpenseListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func toExpenseResponse(e *entity.Expense) *dto.ExpenseResponse {
	if e == nil {
		return nil
	}
	return &dto.ExpenseResponse{
		ID:                e.ID,
		CompanyID:         e.CompanyID,
		EmployeeID:        e.EmployeeID,
		Description:       e.Description,
		Category:          e.Category,
		AmountOriginal:    e.AmountOriginal,
		CurrencyOriginal:  e.CurrencyOriginal,
		AmountCompanyCcy:  e.AmountCompanyCcy,
		FxRate:            e.FxRate,
		ExpenseDate:       e.ExpenseDate,
		ReceiptURL:        e.ReceiptURL,
		Status:            e.Status,
		CurrentStageOrder: e.CurrentStageOrder,
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}
}
