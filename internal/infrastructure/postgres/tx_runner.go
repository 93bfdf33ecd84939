package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/expensia/expensia-api/internal/application/approval"
	"github.com/expensia/expensia-api/internal/application/usecase"
	"github.com/expensia/expensia-api/internal/domain/repository"
)

// Ensure TxRunner implements approval.TxRunner and usecase.FlowTxRunner.
var _ approval.TxRunner = (*TxRunner)(nil)
var _ usecase.FlowTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción con los repos que necesita el state machine de
// decisiones y hace Commit o Rollback. GetByIDForUpdate dentro del callback
// bloquea la fila del gasto hasta el final de la transacción.
func (r *TxRunner) Run(ctx context.Context, fn func(
	expenseRepo repository.ExpenseRepository,
	decisionRepo repository.ExpenseApprovalRepository,
	stageRepo repository.ApprovalStageRepository,
	ruleRepo repository.ApprovalRuleRepository,
	userRepo repository.UserRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(
		NewExpenseRepository(tx),
		NewExpenseApprovalRepository(tx),
		NewApprovalStageRepository(tx),
		NewApprovalRuleRepository(tx),
		NewUserRepository(tx),
	); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunFlow inicia una transacción con los repos de configuración del flujo
// (reemplazo atómico de etapas y reglas).
func (r *TxRunner) RunFlow(ctx context.Context, fn func(
	stageRepo repository.ApprovalStageRepository,
	ruleRepo repository.ApprovalRuleRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewApprovalStageRepository(tx), NewApprovalRuleRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
