package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/expensia/expensia-api/internal/application/dto"
	"github.com/expensia/expensia-api/internal/domain"
	"github.com/expensia/expensia-api/internal/domain/entity"
	"github.com/expensia/expensia-api/internal/domain/repository"
)

// FlowTxRunner ejecuta el reemplazo de configuración dentro de una
// transacción: desactivar el conjunto vigente y crear el nuevo deben ser
// atómicos para no dejar a la empresa sin flujo activo.
type FlowTxRunner interface {
	RunFlow(ctx context.Context, fn func(
		stageRepo repository.ApprovalStageRepository,
		ruleRepo repository.ApprovalRuleRepository,
	) error) error
}

// FlowUseCase configuración del flujo de aprobación de la empresa (solo ADMIN).
type FlowUseCase struct {
	txRunner  FlowTxRunner
	stageRepo repository.ApprovalStageRepository
	ruleRepo  repository.ApprovalRuleRepository
	userRepo  repository.UserRepository
}

// NewFlowUseCase construye el caso de uso.
func NewFlowUseCase(
	txRunner FlowTxRunner,
	stageRepo repository.ApprovalStageRepository,
	ruleRepo repository.ApprovalRuleRepository,
	userRepo repository.UserRepository,
) *FlowUseCase {
	return &FlowUseCase{txRunner: txRunner, stageRepo: stageRepo, ruleRepo: ruleRepo, userRepo: userRepo}
}

// GetFlow devuelve las etapas activas y las reglas de la empresa.
func (uc *FlowUseCase) GetFlow(companyID string) (*dto.FlowResponse, error) {
	stages, err := uc.stageRepo.ListActiveByCompany(companyID)
	if err != nil {
		return nil, err
	}
	rules, err := uc.ruleRepo.ListByCompany(companyID)
	if err != nil {
		return nil, err
	}
	resp := &dto.FlowResponse{
		Stages: make([]dto.StageResponse, 0, len(stages)),
		Rules:  make([]dto.RuleResponse, 0, len(rules)),
	}
	for i := range stages {
		s := &stages[i]
		sr := dto.StageResponse{
			ID:             s.ID,
			Order:          s.Order,
			Name:           s.Name,
			ApproverUserID: s.ApproverUserID,
			IsActive:       s.IsActive,
			CreatedAt:      s.CreatedAt,
		}
		if s.ApproverRole != nil {
			role := s.ApproverRole.String()
			sr.ApproverRole = &role
		}
		resp.Stages = append(resp.Stages, sr)
	}
	for i := range rules {
		r := &rules[i]
		resp.Rules = append(resp.Rules, dto.RuleResponse{
			ID:               r.ID,
			RuleType:         r.RuleType,
			PercentageNeeded: r.PercentageNeeded,
			SpecificUserID:   r.SpecificUserID,
			OrLogic:          r.OrLogic,
			IsActive:         r.IsActive,
			MinAmount:        r.MinAmount,
			MaxAmount:        r.MaxAmount,
			CreatedAt:        r.CreatedAt,
		})
	}
	return resp, nil
}

// SaveFlow reemplaza atómicamente la configuración de aprobación: desactiva
// etapas y reglas vigentes y crea las nuevas. El Order de cada etapa se
// asigna por posición (1..n), manteniendo la invariante de órdenes contiguos.
func (uc *FlowUseCase) SaveFlow(ctx context.Context, companyID string, in dto.SaveFlowRequest) (*dto.FlowResponse, error) {
	if len(in.Stages) == 0 {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	stages := make([]entity.ApprovalStage, 0, len(in.Stages))
	for i, s := range in.Stages {
		stage := entity.ApprovalStage{
			ID:        uuid.New().String(),
			CompanyID: companyID,
			Order:     i + 1,
			Name:      s.Name,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		// Exactamente un mecanismo de designación por etapa.
		switch {
		case s.ApproverUserID != nil && s.ApproverRole == nil:
			user, err := uc.userRepo.GetByID(*s.ApproverUserID)
			if err != nil {
				return nil, err
			}
			if user == nil || user.CompanyID != companyID {
				return nil, domain.ErrInvalidInput
			}
			stage.ApproverUserID = s.ApproverUserID
		case s.ApproverRole != nil && s.ApproverUserID == nil:
			role, ok := entity.ParseRole(*s.ApproverRole)
			if !ok {
				return nil, domain.ErrInvalidInput
			}
			stage.ApproverRole = &role
		default:
			return nil, domain.ErrInvalidInput
		}
		stages = append(stages, stage)
	}

	var rule *entity.ApprovalRule
	if in.Rule != nil {
		switch in.Rule.RuleType {
		case entity.RuleTypePercentage, entity.RuleTypeSpecificApprover, entity.RuleTypeHybrid:
		default:
			return nil, domain.ErrInvalidInput
		}
		if in.Rule.SpecificUserID != nil {
			user, err := uc.userRepo.GetByID(*in.Rule.SpecificUserID)
			if err != nil {
				return nil, err
			}
			if user == nil || user.CompanyID != companyID {
				return nil, domain.ErrInvalidInput
			}
		}
		rule = &entity.ApprovalRule{
			ID:               uuid.New().String(),
			CompanyID:        companyID,
			RuleType:         in.Rule.RuleType,
			PercentageNeeded: in.Rule.PercentageNeeded,
			SpecificUserID:   in.Rule.SpecificUserID,
			OrLogic:          in.Rule.OrLogic,
			IsActive:         true,
			MinAmount:        in.Rule.MinAmount,
			MaxAmount:        in.Rule.MaxAmount,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
	}

	err := uc.txRunner.RunFlow(ctx, func(
		stageRepo repository.ApprovalStageRepository,
		ruleRepo repository.ApprovalRuleRepository,
	) error {
		if err := stageRepo.DeactivateByCompany(companyID); err != nil {
			return err
		}
		if err := stageRepo.CreateMany(stages); err != nil {
			return err
		}
		if rule != nil {
			if err := ruleRepo.DeactivateByCompany(companyID); err != nil {
				return err
			}
			if err := ruleRepo.Create(rule); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.GetFlow(companyID)
}
