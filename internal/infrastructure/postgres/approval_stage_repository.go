package postgres

import (
	"context"
	"fmt"

	"github.com/expensia/expensia-api/internal/domain/entity"
	"github.com/expensia/expensia-api/internal/domain/repository"
)

var _ repository.ApprovalStageRepository = (*ApprovalStageRepo)(nil)

// ApprovalStageRepo implementación de ApprovalStageRepository sobre PostgreSQL.
type ApprovalStageRepo struct {
	q Querier
}

// NewApprovalStageRepository construye el adaptador. Pasar pool o tx (Querier).
func NewApprovalStageRepository(q Querier) *ApprovalStageRepo {
	return &ApprovalStageRepo{q: q}
}

// CreateMany persiste un conjunto de etapas.
func (r *ApprovalStageRepo) CreateMany(stages []entity.ApprovalStage) error {
	query := `
		INSERT INTO approval_stages (id, company_id, stage_order, name, approver_user_id, approver_role, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for i := range stages {
		s := &stages[i]
		var role *string
		if s.ApproverRole != nil {
			v := s.ApproverRole.String()
			role = &v
		}
		if _, err := r.q.Exec(context.Background(), query,
			s.ID, s.CompanyID, s.Order, s.Name, s.ApproverUserID, role,
			s.IsActive, s.CreatedAt, s.UpdatedAt,
		); err != nil {
			return fmt.Errorf("insert approval stage: %w", err)
		}
	}
	return nil
}

// ListActiveByCompany devuelve las etapas activas ordenadas por stage_order asc.
func (r *ApprovalStageRepo) ListActiveByCompany(companyID string) ([]entity.ApprovalStage, error) {
	query := `
		SELECT id, company_id, stage_order, name, approver_user_id, approver_role, is_active, created_at, updated_at
		FROM approval_stages WHERE company_id = $1 AND is_active ORDER BY stage_order`
	rows, err := r.q.Query(context.Background(), query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list approval stages: %w", err)
	}
	defer rows.Close()
	var list []entity.ApprovalStage
	for rows.Next() {
		var s entity.ApprovalStage
		var role *string
		if err := rows.Scan(
			&s.ID, &s.CompanyID, &s.Order, &s.Name, &s.ApproverUserID, &role,
			&s.IsActive, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan approval stage: %w", err)
		}
		if role != nil {
			v := entity.Role(*role)
			s.ApproverRole = &v
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// DeactivateByCompany desactiva el conjunto vigente de etapas.
func (r *ApprovalStageRepo) DeactivateByCompany(companyID string) error {
	query := `UPDATE approval_stages SET is_active = false, updated_at = now() WHERE company_id = $1 AND is_active`
	if _, err := r.q.Exec(context.Background(), query, companyID); err != nil {
		return fmt.Errorf("deactivate approval stages: %w", err)
	}
	return nil
}
