package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateExpenseRequest alta de un gasto. Con Submit=true el gasto entra
// directamente al flujo de aprobación (etapa 1); si no, queda en DRAFT.
type CreateExpenseRequest struct {
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	Currency    string          `json:"currency" validate:"required,len=3"` // ISO 4217
	Category    string          `json:"category" validate:"required,max=100"`
	Description string          `json:"description" validate:"max=500"`
	ExpenseDate string          `json:"expenseDate" validate:"required"` // YYYY-MM-DD
	ReceiptURL  string          `json:"receiptUrl" validate:"omitempty,url"`
	Submit      bool            `json:"submit"`
}

// ExpenseResponse salida de un gasto con el monto original y el convertido
// a la moneda base de la empresa.
type ExpenseResponse struct {
	ID                string          `json:"id"`
	CompanyID         string          `json:"company_id"`
	EmployeeID        string          `json:"employee_id"`
	Description       string          `json:"description"`
	Category          string          `json:"category"`
	AmountOriginal    decimal.Decimal `json:"amount_original"`
	CurrencyOriginal  string          `json:"currency_original"`
	AmountCompanyCcy  decimal.Decimal `json:"amount_company_ccy"`
	CompanyCurrency   string          `json:"company_currency,omitempty"`
	FxRate            decimal.Decimal `json:"fx_rate"`
	ExpenseDate       time.Time       `json:"expense_date"`
	ReceiptURL        string          `json:"receipt_url,omitempty"`
	Status            string          `json:"status"`
	CurrentStageOrder *int            `json:"current_stage_order,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ExpenseListResponse listado paginado de gastos.
type ExpenseListResponse struct {
	Items []ExpenseResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
