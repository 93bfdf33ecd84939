package postgres

import (
	"context"
	"fmt"

	"github.com/expensia/expensia-api/internal/domain/entity"
	"github.com/expensia/expensia-api/internal/domain/repository"
)

var _ repository.ApprovalRuleRepository = (*ApprovalRuleRepo)(nil)

// ApprovalRuleRepo implementación de ApprovalRuleRepository sobre PostgreSQL.
type ApprovalRuleRepo struct {
	q Querier
}

// NewApprovalRuleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewApprovalRuleRepository(q Querier) *ApprovalRuleRepo {
	return &ApprovalRuleRepo{q: q}
}

// Create persiste una regla.
func (r *ApprovalRuleRepo) Create(rule *entity.ApprovalRule) error {
	query := `
		INSERT INTO approval_rules (id, company_id, rule_type, percentage_needed, specific_user_id, or_logic, is_active, min_amount, max_amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		rule.ID, rule.CompanyID, rule.RuleType, rule.PercentageNeeded,
		rule.SpecificUserID, rule.OrLogic, rule.IsActive,
		rule.MinAmount, rule.MaxAmount, rule.CreatedAt, rule.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert approval rule: %w", err)
	}
	return nil
}

// ListByCompany devuelve las reglas en orden de creación (el evaluador las
// recorre en ese orden).
func (r *ApprovalRuleRepo) ListByCompany(companyID string) ([]entity.ApprovalRule, error) {
	query := `
		SELECT id, company_id, rule_type, percentage_needed, specific_user_id, or_logic, is_active, min_amount, max_amount, created_at, updated_at
		FROM approval_rules WHERE company_id = $1 ORDER BY created_at, id`
	rows, err := r.q.Query(context.Background(), query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list approval rules: %w", err)
	}
	defer rows.Close()
	var list []entity.ApprovalRule
	for rows.Next() {
		var rule entity.ApprovalRule
		if err := rows.Scan(
			&rule.ID, &rule.CompanyID, &rule.RuleType, &rule.PercentageNeeded,
			&rule.SpecificUserID, &rule.OrLogic, &rule.IsActive,
			&rule.MinAmount, &rule.MaxAmount, &rule.CreatedAt, &rule.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan approval rule: %w", err)
		}
		list = append(list, rule)
	}
	return list, rows.Err()
}

// DeactivateByCompany desactiva las reglas vigentes.
func (r *ApprovalRuleRepo) DeactivateByCompany(companyID string) error {
	query := `UPDATE approval_rules SET is_active = false, updated_at = now() WHERE company_id = $1 AND is_active`
	if _, err := r.q.Exec(context.Background(), query, companyID); err != nil {
		return fmt.Errorf("deactivate approval rules: %w", err)
	}
	return nil
}
