package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de regla de aprobación a nivel de empresa.
const (
	RuleTypePercentage       = "PERCENTAGE"
	RuleTypeSpecificApprover = "SPECIFIC_APPROVER"
	RuleTypeHybrid           = "HYBRID"
)

// ApprovalStage es una etapa ordenada del flujo de aprobación de una empresa.
// El aprobador se designa por usuario fijo (ApproverUserID), por rol
// (ApproverRole) o, cuando el rol es MANAGER, por la relación manager→empleado.
//
// Invariante: los Order del conjunto activo de una empresa son enteros
// contiguos ascendentes desde 1.
type ApprovalStage struct {
	ID             string
	CompanyID      string
	Order          int
	Name           string
	ApproverUserID *string
	ApproverRole   *Role
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ApprovalRule es una política condicional de avance de etapa.
// PercentageNeeded nil equivale a 100 (unanimidad sobre las decisiones registradas).
// MinAmount/MaxAmount acotan la aplicabilidad por monto en moneda de la empresa
// (nil = sin límite en ese extremo).
type ApprovalRule struct {
	ID               string
	CompanyID        string
	RuleType         string
	PercentageNeeded *decimal.Decimal
	SpecificUserID   *string
	OrLogic          bool // HYBRID: true = porcentaje OR aprobador específico; false = AND
	IsActive         bool
	MinAmount        *decimal.Decimal
	MaxAmount        *decimal.Decimal
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// AppliesTo indica si la regla está activa y el monto cae dentro de su rango.
func (r *ApprovalRule) AppliesTo(amountCompanyCcy decimal.Decimal) bool {
	if !r.IsActive {
		return false
	}
	if r.MinAmount != nil && amountCompanyCcy.LessThan(*r.MinAmount) {
		return false
	}
	if r.MaxAmount != nil && amountCompanyCcy.GreaterThan(*r.MaxAmount) {
		return false
	}
	return true
}

// ExpenseApproval es una decisión registrada: un aprobador sobre una etapa de
// un gasto. Las decisiones son append-only.
type ExpenseApproval struct {
	ID         string
	ExpenseID  string
	StageOrder *int
	ApproverID string
	Approved   bool
	Comment    string
	DecidedAt  time.Time
}
