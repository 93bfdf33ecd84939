package approval

import (
	"context"

	"github.com/expensia/expensia-api/internal/domain/repository"
)

// TxRunner ejecuta el callback dentro de una transacción con repositorios
// atados a ella. El state machine de decisiones lo usa junto con
// GetByIDForUpdate para que la secuencia leer-evaluar-escribir de cada gasto
// corra bajo exclusión mutua por fila.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		expenseRepo repository.ExpenseRepository,
		decisionRepo repository.ExpenseApprovalRepository,
		stageRepo repository.ApprovalStageRepository,
		ruleRepo repository.ApprovalRuleRepository,
		userRepo repository.UserRepository,
	) error) error
}
