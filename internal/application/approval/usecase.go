// Package approval implementa los casos de uso del flujo de aprobación:
// bandeja de pendientes, historial y el state machine de decisiones
// (SUBMITTED/IN_REVIEW → IN_REVIEW avanzando | APPROVED | REJECTED).
package approval

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/expensia/expensia-api/internal/application/dto"
	"github.com/expensia/expensia-api/internal/domain"
	domapproval "github.com/expensia/expensia-api/internal/domain/approval"
	"github.com/expensia/expensia-api/internal/domain/entity"
	"github.com/expensia/expensia-api/internal/domain/repository"
)

// ApprovalUseCase casos de uso del flujo de aprobación.
type ApprovalUseCase struct {
	txRunner    TxRunner
	expenseRepo repository.ExpenseRepository
	stageRepo   repository.ApprovalStageRepository
	userRepo    repository.UserRepository
}

// NewApprovalUseCase construye el caso de uso. txRunner se usa solo en Decide;
// Inbox e History leen fuera de transacción.
func NewApprovalUseCase(
	txRunner TxRunner,
	expenseRepo repository.ExpenseRepository,
	stageRepo repository.ApprovalStageRepository,
	userRepo repository.UserRepository,
) *ApprovalUseCase {
	return &ApprovalUseCase{
		txRunner:    txRunner,
		expenseRepo: expenseRepo,
		stageRepo:   stageRepo,
		userRepo:    userRepo,
	}
}

// inboxScanLimit tope de gastos pendientes examinados al armar la bandeja.
const inboxScanLimit = 500

// Inbox lista los gastos de la empresa en revisión cuya etapa actual resuelve
// al usuario autenticado como aprobador elegible. limit/offset paginan sobre
// el conjunto YA filtrado por elegibilidad: una página llena trae limit
// elementos y los no elegibles no desplazan resultados entre páginas. Sin
// decisiones intermedias, dos llamadas consecutivas devuelven el mismo
// conjunto en el mismo orden.
func (uc *ApprovalUseCase) Inbox(userID, companyID string, limit, offset int) ([]dto.InboxItemResponse, error) {
	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.CompanyID != companyID {
		return nil, domain.ErrUserNotFound
	}

	stages, err := uc.stageRepo.ListActiveByCompany(companyID)
	if err != nil {
		return nil, err
	}

	pending, err := uc.expenseRepo.ListByCompanyAndStatus(
		companyID,
		[]string{entity.ExpenseStatusSubmitted, entity.ExpenseStatusInReview},
		inboxScanLimit, 0,
	)
	if err != nil {
		return nil, err
	}

	// Cache de empleados para no repetir lecturas por cada gasto del mismo dueño.
	employees := map[string]*entity.User{}
	items := make([]dto.InboxItemResponse, 0, len(pending))
	for _, exp := range pending {
		stage := domapproval.CurrentStage(stages, exp)
		if stage == nil {
			continue
		}
		employee, ok := employees[exp.EmployeeID]
		if !ok {
			employee, err = uc.userRepo.GetByID(exp.EmployeeID)
			if err != nil {
				return nil, err
			}
			employees[exp.EmployeeID] = employee
		}
		if !domapproval.IsEligibleApprover(user, employee, stage) {
			continue
		}
		item := dto.InboxItemResponse{
			Expense:    *toExpenseResponse(exp),
			StageOrder: stage.Order,
			StageName:  stage.Name,
		}
		if employee != nil {
			item.EmployeeName = employee.FullName
		}
		items = append(items, item)
	}
	return pageItems(items, limit, offset), nil
}

// pageItems aplica limit/offset sobre la bandeja ya filtrada por elegibilidad.
func pageItems(items []dto.InboxItemResponse, limit, offset int) []dto.InboxItemResponse {
	if offset >= len(items) {
		return []dto.InboxItemResponse{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}

// History lista los gastos terminales (APPROVED/REJECTED) de la empresa.
func (uc *ApprovalUseCase) History(companyID string, limit, offset int) (*dto.ExpenseListResponse, error) {
	list, err := uc.expenseRepo.ListByCompanyAndStatus(
		companyID,
		[]string{entity.ExpenseStatusApproved, entity.ExpenseStatusRejected},
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ExpenseResponse, 0, len(list))
	for _, e := range list {
		items = append(items, *toExpenseResponse(e))
	}
	return &dto.ExpenseListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Decide registra la decisión del aprobador y aplica la transición de estado:
//
//  1. El gasto debe existir, ser de la empresa del aprobador y estar
//     SUBMITTED o IN_REVIEW.
//  2. El aprobador debe ser elegible para la etapa actual.
//  3. Se registra la decisión (append-only).
//  4. Un rechazo en la etapa actual termina el gasto como REJECTED, sin
//     importar otras decisiones pendientes.
//  5. Si la etapa queda satisfecha (reglas condicionales o unanimidad) y no
//     quedan etapas, APPROVED; si quedan, avanza a la siguiente en IN_REVIEW.
//  6. Si no queda satisfecha, el gasto permanece IN_REVIEW en la misma etapa.
//
// Toda la secuencia corre en una transacción con la fila del gasto bloqueada
// (SELECT ... FOR UPDATE): dos decisiones concurrentes sobre el mismo gasto
// se serializan y cada una evalúa un snapshot consistente de decisiones.
func (uc *ApprovalUseCase) Decide(ctx context.Context, approverID, companyID, expenseID string, approved bool, comment string) (*dto.DecisionResponse, error) {
	var result dto.DecisionResponse

	err := uc.txRunner.Run(ctx, func(
		expenseRepo repository.ExpenseRepository,
		decisionRepo repository.ExpenseApprovalRepository,
		stageRepo repository.ApprovalStageRepository,
		ruleRepo repository.ApprovalRuleRepository,
		userRepo repository.UserRepository,
	) error {
		exp, err := expenseRepo.GetByIDForUpdate(expenseID)
		if err != nil {
			return err
		}
		if exp == nil || exp.CompanyID != companyID {
			// Cruces de tenant responden igual que inexistente.
			return domain.ErrNotFound
		}
		if !exp.IsPendingApproval() || exp.CurrentStageOrder == nil {
			return domain.ErrExpenseNotPending
		}

		stages, err := stageRepo.ListActiveByCompany(companyID)
		if err != nil {
			return err
		}
		stage := domapproval.CurrentStage(stages, exp)
		if stage == nil {
			return domain.ErrConflict
		}

		approver, err := userRepo.GetByID(approverID)
		if err != nil {
			return err
		}
		employee, err := userRepo.GetByID(exp.EmployeeID)
		if err != nil {
			return err
		}
		if !domapproval.IsEligibleApprover(approver, employee, stage) {
			return domain.ErrNotEligibleApprover
		}

		stageOrder := *exp.CurrentStageOrder
		decision := &entity.ExpenseApproval{
			ID:         uuid.New().String(),
			ExpenseID:  exp.ID,
			StageOrder: &stageOrder,
			ApproverID: approverID,
			Approved:   approved,
			Comment:    comment,
			DecidedAt:  time.Now(),
		}
		if err := decisionRepo.Create(decision); err != nil {
			return err
		}

		decisions, err := decisionRepo.ListByExpenseAndStage(exp.ID, stageOrder)
		if err != nil {
			return err
		}

		// El rechazo corta la evaluación: termina el gasto aunque haya
		// aprobadores pendientes en la etapa.
		for i := range decisions {
			if !decisions[i].Approved {
				if err := expenseRepo.UpdateStatus(exp.ID, entity.ExpenseStatusRejected, nil); err != nil {
					return err
				}
				result = dto.DecisionResponse{ExpenseID: exp.ID, Status: entity.ExpenseStatusRejected}
				return nil
			}
		}

		rules, err := ruleRepo.ListByCompany(companyID)
		if err != nil {
			return err
		}

		if domapproval.StageSatisfied(rules, decisions, exp.AmountCompanyCcy) {
			next := stageOrder + 1
			if next > domapproval.ActiveStageCount(stages) {
				if err := expenseRepo.UpdateStatus(exp.ID, entity.ExpenseStatusApproved, nil); err != nil {
					return err
				}
				result = dto.DecisionResponse{ExpenseID: exp.ID, Status: entity.ExpenseStatusApproved}
				return nil
			}
			if err := expenseRepo.UpdateStatus(exp.ID, entity.ExpenseStatusInReview, &next); err != nil {
				return err
			}
			result = dto.DecisionResponse{ExpenseID: exp.ID, Status: entity.ExpenseStatusInReview, CurrentStageOrder: &next}
			return nil
		}

		// Etapa sin satisfacer: el gasto espera más decisiones en la misma etapa.
		if err := expenseRepo.UpdateStatus(exp.ID, entity.ExpenseStatusInReview, &stageOrder); err != nil {
			return err
		}
		result = dto.DecisionResponse{ExpenseID: exp.ID, Status: entity.ExpenseStatusInReview, CurrentStageOrder: &stageOrder}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func toExpenseResponse(e *entity.Expense) *dto.ExpenseResponse {
	if e == nil {
		return nil
	}
	return &dto.ExpenseResponse{
		ID:                e.ID,
		CompanyID:         e.CompanyID,
		EmployeeID:        e.EmployeeID,
		Description:       e.Description,
		Category:          e.Category,
		AmountOriginal:    e.AmountOriginal,
		CurrencyOriginal:  e.CurrencyOriginal,
		AmountCompanyCcy:  e.AmountCompanyCcy,
		FxRate:            e.FxRate,
		ExpenseDate:       e.ExpenseDate,
		ReceiptURL:        e.ReceiptURL,
		Status:            e.Status,
		CurrentStageOrder: e.CurrentStageOrder,
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}
}
