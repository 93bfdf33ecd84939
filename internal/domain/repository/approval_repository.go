package repository

import "github.com/expensia/expensia-api/internal/domain/entity"

// ApprovalStageRepository define el puerto de persistencia para las etapas
// del flujo de aprobación de una empresa.
type ApprovalStageRepository interface {
	CreateMany(stages []entity.ApprovalStage) error
	// ListActiveByCompany devuelve las etapas activas ordenadas por Order asc.
	ListActiveByCompany(companyID string) ([]entity.ApprovalStage, error)
	// DeactivateByCompany desactiva el conjunto vigente (reemplazo de flujo).
	DeactivateByCompany(companyID string) error
}

// ApprovalRuleRepository define el puerto de persistencia para las reglas
// condicionales de aprobación.
type ApprovalRuleRepository interface {
	Create(rule *entity.ApprovalRule) error
	// ListByCompany devuelve todas las reglas (activas o no) en orden de creación.
	ListByCompany(companyID string) ([]entity.ApprovalRule, error)
	// DeactivateByCompany desactiva las reglas vigentes (reemplazo de política).
	DeactivateByCompany(companyID string) error
}

// ExpenseApprovalRepository define el puerto de persistencia para las
// decisiones de aprobación (append-only).
type ExpenseApprovalRepository interface {
	Create(decision *entity.ExpenseApproval) error
	ListByExpense(expenseID string) ([]entity.ExpenseApproval, error)
	// ListByExpenseAndStage devuelve las decisiones de una etapa concreta.
	ListByExpenseAndStage(expenseID string, stageOrder int) ([]entity.ExpenseApproval, error)
}
