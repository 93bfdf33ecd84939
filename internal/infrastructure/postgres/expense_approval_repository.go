package postgres

import (
	"context"
	"fmt"

	"github.com/expensia/expensia-api/internal/domain/entity"
	"github.com/expensia/expensia-api/internal/domain/repository"
)

var _ repository.ExpenseApprovalRepository = (*ExpenseApprovalRepo)(nil)

// ExpenseApprovalRepo implementación de ExpenseApprovalRepository sobre
// PostgreSQL. Las decisiones son append-only: no hay Update ni Delete.
type ExpenseApprovalRepo struct {
	q Querier
}

// NewExpenseApprovalRepository construye el adaptador. Pasar pool o tx (Querier).
func NewExpenseApprovalRepository(q Querier) *ExpenseApprovalRepo {
	return &ExpenseApprovalRepo{q: q}
}

const decisionColumns = `id, expense_id, stage_order, approver_id, approved, comment, decided_at`

// Create persiste una decisión.
func (r *ExpenseApprovalRepo) Create(d *entity.ExpenseApproval) error {
	query := `
		INSERT INTO expense_approvals (` + decisionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		d.ID, d.ExpenseID, d.StageOrder, d.ApproverID, d.Approved,
		nullIfEmpty(d.Comment), d.DecidedAt,
	)
	if err != nil {
		return fmt.Errorf("insert expense approval: %w", err)
	}
	return nil
}

// ListByExpense devuelve todas las decisiones de un gasto en orden de registro.
func (r *ExpenseApprovalRepo) ListByExpense(expenseID string) ([]entity.ExpenseApproval, error) {
	query := `
		SELECT ` + decisionColumns + `
		FROM expense_approvals WHERE expense_id = $1 ORDER BY decided_at, id`
	return r.list(query, expenseID)
}

// ListByExpenseAndStage devuelve las decisiones de una etapa concreta.
func (r *ExpenseApprovalRepo) ListByExpenseAndStage(expenseID string, stageOrder int) ([]entity.ExpenseApproval, error) {
	query := `
		SELECT ` + decisionColumns + `
		FROM expense_approvals WHERE expense_id = $1 AND stage_order = $2 ORDER BY decided_at, id`
	return r.list(query, expenseID, stageOrder)
}

func (r *ExpenseApprovalRepo) list(query string, args ...any) ([]entity.ExpenseApproval, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list expense approvals: %w", err)
	}
	defer rows.Close()
	var list []entity.ExpenseApproval
	for rows.Next() {
		var d entity.ExpenseApproval
		var comment *string
		if err := rows.Scan(
			&d.ID, &d.ExpenseID, &d.StageOrder, &d.ApproverID, &d.Approved,
			&comment, &d.DecidedAt,
		); err != nil {
			return nil, fmt.Errorf("scan expense approval: %w", err)
		}
		if comment != nil {
			d.Comment = *comment
		}
		list = append(list, d)
	}
	return list, rows.Err()
}
