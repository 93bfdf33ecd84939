package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de un gasto. APPROVED y REJECTED son terminales;
// un gasto nunca se elimina (los registros de aprobación son la pista de auditoría).
const (
	ExpenseStatusDraft     = "DRAFT"
	ExpenseStatusSubmitted = "SUBMITTED"
	ExpenseStatusInReview  = "IN_REVIEW"
	ExpenseStatusApproved  = "APPROVED"
	ExpenseStatusRejected  = "REJECTED"
)

// Expense representa un gasto reportado por un empleado.
//
// Invariante: CurrentStageOrder es no-nil solo mientras Status es
// SUBMITTED/IN_REVIEW; queda en nil al llegar a APPROVED o REJECTED.
type Expense struct {
	ID               string
	CompanyID        string
	EmployeeID       string
	Description      string
	Category         string
	AmountOriginal   decimal.Decimal
	CurrencyOriginal string          // ISO 4217 del monto original
	AmountCompanyCcy decimal.Decimal // convertido a la moneda base, redondeado a 2 decimales
	FxRate           decimal.Decimal // tasa aplicada en la conversión (1 si misma moneda)
	ExpenseDate      time.Time
	ReceiptURL       string
	Status           string
	CurrentStageOrder *int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsPendingApproval indica si el gasto admite decisiones de aprobación.
func (e *Expense) IsPendingApproval() bool {
	return e.Status == ExpenseStatusSubmitted || e.Status == ExpenseStatusInReview
}

// IsTerminal indica si el gasto llegó a un estado final.
func (e *Expense) IsTerminal() bool {
	return e.Status == ExpenseStatusApproved || e.Status == ExpenseStatusRejected
}
