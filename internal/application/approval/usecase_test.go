package approval_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appapproval "github.com/expensia/expensia-api/internal/application/approval"
	"github.com/expensia/expensia-api/internal/domain"
	"github.com/expensia/expensia-api/internal/domain/entity"
	"github.com/expensia/expensia-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeExpenseRepo struct {
	expenses map[string]*entity.Expense
}

func (f *fakeExpenseRepo) Create(e *entity.Expense) error { f.expenses[e.ID] = e; return nil }
func (f *fakeExpenseRepo) GetByID(id string) (*entity.Expense, error) {
	return f.expenses[id], nil
}
func (f *fakeExpenseRepo) GetByIDForUpdate(id string) (*entity.Expense, error) {
	return f.expenses[id], nil
}
func (f *fakeExpenseRepo) ListByEmployee(string, int, int) ([]*entity.Expense, error) {
	return nil, nil
}
func (f *fakeExpenseRepo) ListByCompanyAndStatus(companyID string, statuses []string, _, _ int) ([]*entity.Expense, error) {
	var out []*entity.Expense
	for _, e := range f.expenses {
		if e.CompanyID != companyID {
			continue
		}
		for _, s := range statuses {
			if e.Status == s {
				out = append(out, e)
				break
			}
		}
	}
	return out, nil
}
func (f *fakeExpenseRepo) UpdateStatus(id, status string, currentStageOrder *int) error {
	e := f.expenses[id]
	e.Status = status
	e.CurrentStageOrder = currentStageOrder
	return nil
}

type fakeDecisionRepo struct {
	decisions []entity.ExpenseApproval
}

func (f *fakeDecisionRepo) Create(d *entity.ExpenseApproval) error {
	f.decisions = append(f.decisions, *d)
	return nil
}
func (f *fakeDecisionRepo) ListByExpense(expenseID string) ([]entity.ExpenseApproval, error) {
	var out []entity.ExpenseApproval
	for _, d := range f.decisions {
		if d.ExpenseID == expenseID {
			out = append(out, d)
		}
	}
	return out, nil
}
func (f *fakeDecisionRepo) ListByExpenseAndStage(expenseID string, stageOrder int) ([]entity.ExpenseApproval, error) {
	var out []entity.ExpenseApproval
	for _, d := range f.decisions {
		if d.ExpenseID == expenseID && d.StageOrder != nil && *d.StageOrder == stageOrder {
			out = append(out, d)
		}
	}
	return out, nil
}

type fakeStageRepo struct {
	stages []entity.ApprovalStage
}

func (f *fakeStageRepo) CreateMany(stages []entity.ApprovalStage) error {
	f.stages = append(f.stages, stages...)
	return nil
}
func (f *fakeStageRepo) ListActiveByCompany(companyID string) ([]entity.ApprovalStage, error) {
	var out []entity.ApprovalStage
	for _, s := range f.stages {
		if s.CompanyID == companyID && s.IsActive {
			out = append(out, s)
		}
	}
	return out, nil
}
func (f *fakeStageRepo) DeactivateByCompany(companyID string) error {
	for i := range f.stages {
		if f.stages[i].CompanyID == companyID {
			f.stages[i].IsActive = false
		}
	}
	return nil
}

type fakeRuleRepo struct {
	rules []entity.ApprovalRule
}

func (f *fakeRuleRepo) Create(r *entity.ApprovalRule) error { f.rules = append(f.rules, *r); return nil }
func (f *fakeRuleRepo) ListByCompany(companyID string) ([]entity.ApprovalRule, error) {
	var out []entity.ApprovalRule
	for _, r := range f.rules {
		if r.CompanyID == companyID {
			out = append(out, r)
		}
	}
	return out, nil
}
func (f *fakeRuleRepo) DeactivateByCompany(companyID string) error {
	for i := range f.rules {
		if f.rules[i].CompanyID == companyID {
			f.rules[i].IsActive = false
		}
	}
	return nil
}

type fakeUserRepo struct {
	users map[string]*entity.User
}

func (f *fakeUserRepo) Create(u *entity.User) error                { f.users[u.ID] = u; return nil }
func (f *fakeUserRepo) GetByID(id string) (*entity.User, error)    { return f.users[id], nil }
func (f *fakeUserRepo) FindByEmail(string) (*entity.User, error)   { return nil, nil }
func (f *fakeUserRepo) Update(u *entity.User) error                { f.users[u.ID] = u; return nil }
func (f *fakeUserRepo) ListByCompany(string, int, int) ([]*entity.User, error) {
	return nil, nil
}

// fakeTxRunner ejecuta el callback directamente sobre los fakes, sin
// transacción real: los tests de concurrencia de fila quedan para integración.
type fakeTxRunner struct {
	expenses  *fakeExpenseRepo
	decisions *fakeDecisionRepo
	stages    *fakeStageRepo
	rules     *fakeRuleRepo
	users     *fakeUserRepo
}

func (f *fakeTxRunner) Run(_ context.Context, fn func(
	repository.ExpenseRepository,
	repository.ExpenseApprovalRepository,
	repository.ApprovalStageRepository,
	repository.ApprovalRuleRepository,
	repository.UserRepository,
) error) error {
	return fn(f.expenses, f.decisions, f.stages, f.rules, f.users)
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture: empresa con dos etapas por rol ADMIN, empleado y dos admins
// ──────────────────────────────────────────────────────────────────────────────

const (
	coID    = "co-1"
	empID   = "emp-1"
	adminA  = "admin-a"
	adminB  = "admin-b"
	expID   = "exp-1"
	otherCo = "co-2"
)

type fixture struct {
	uc        *appapproval.ApprovalUseCase
	expenses  *fakeExpenseRepo
	decisions *fakeDecisionRepo
	rules     *fakeRuleRepo
}

func newFixture(t *testing.T, stageCount int) *fixture {
	t.Helper()

	adminRole := entity.RoleAdmin
	stages := &fakeStageRepo{}
	for i := 1; i <= stageCount; i++ {
		role := adminRole
		stages.stages = append(stages.stages, entity.ApprovalStage{
			ID: "st-" + string(rune('0'+i)), CompanyID: coID, Order: i,
			Name: "Etapa", ApproverRole: &role, IsActive: true,
		})
	}

	users := &fakeUserRepo{users: map[string]*entity.User{
		empID:  {ID: empID, CompanyID: coID, Role: entity.RoleEmployee, FullName: "Empleada"},
		adminA: {ID: adminA, CompanyID: coID, Role: entity.RoleAdmin},
		adminB: {ID: adminB, CompanyID: coID, Role: entity.RoleAdmin},
	}}

	one := 1
	expenses := &fakeExpenseRepo{expenses: map[string]*entity.Expense{
		expID: {
			ID: expID, CompanyID: coID, EmployeeID: empID,
			AmountCompanyCcy:  decimal.NewFromInt(100),
			Status:            entity.ExpenseStatusSubmitted,
			CurrentStageOrder: &one,
		},
	}}

	decisions := &fakeDecisionRepo{}
	rules := &fakeRuleRepo{}
	tx := &fakeTxRunner{expenses: expenses, decisions: decisions, stages: stages, rules: rules, users: users}

	return &fixture{
		uc:        appapproval.NewApprovalUseCase(tx, expenses, stages, users),
		expenses:  expenses,
		decisions: decisions,
		rules:     rules,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Decide — state machine
// ──────────────────────────────────────────────────────────────────────────────

// Aprobación en la etapa 1 de 2 → avanza a IN_REVIEW etapa 2.
func TestDecide_AprobacionAvanzaEtapa(t *testing.T) {
	f := newFixture(t, 2)

	out, err := f.uc.Decide(context.Background(), adminA, coID, expID, true, "ok")
	require.NoError(t, err)

	assert.Equal(t, entity.ExpenseStatusInReview, out.Status)
	require.NotNil(t, out.CurrentStageOrder)
	assert.Equal(t, 2, *out.CurrentStageOrder)
}

// Aprobación en la última etapa → APPROVED con etapa en nil.
func TestDecide_UltimaEtapaAprueba(t *testing.T) {
	f := newFixture(t, 1)

	out, err := f.uc.Decide(context.Background(), adminA, coID, expID, true, "")
	require.NoError(t, err)

	assert.Equal(t, entity.ExpenseStatusApproved, out.Status)
	assert.Nil(t, out.CurrentStageOrder)
	assert.Nil(t, f.expenses.expenses[expID].CurrentStageOrder)
}

// Un rechazo termina el gasto como REJECTED sin importar la etapa.
func TestDecide_RechazoTerminaElGasto(t *testing.T) {
	f := newFixture(t, 3)

	out, err := f.uc.Decide(context.Background(), adminA, coID, expID, false, "sin justificante")
	require.NoError(t, err)

	assert.Equal(t, entity.ExpenseStatusRejected, out.Status)
	assert.Nil(t, out.CurrentStageOrder)
}

// Flujo completo de dos etapas: dos aprobaciones consecutivas terminan en APPROVED.
func TestDecide_FlujoCompletoDosEtapas(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()

	first, err := f.uc.Decide(ctx, adminA, coID, expID, true, "")
	require.NoError(t, err)
	require.Equal(t, entity.ExpenseStatusInReview, first.Status)

	second, err := f.uc.Decide(ctx, adminB, coID, expID, true, "")
	require.NoError(t, err)
	assert.Equal(t, entity.ExpenseStatusApproved, second.Status)
}

// Decidir sobre un gasto ya resuelto → ErrExpenseNotPending.
func TestDecide_GastoTerminalRechazaDecision(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()

	_, err := f.uc.Decide(ctx, adminA, coID, expID, true, "")
	require.NoError(t, err)

	_, err = f.uc.Decide(ctx, adminB, coID, expID, true, "")
	assert.ErrorIs(t, err, domain.ErrExpenseNotPending)
}

// Aprobador de otra empresa: responde como inexistente, sin filtrar el tenant.
func TestDecide_OtraEmpresaRespondeNotFound(t *testing.T) {
	f := newFixture(t, 1)

	_, err := f.uc.Decide(context.Background(), adminA, otherCo, expID, true, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Un empleado cualquiera no es elegible en una etapa de rol ADMIN.
func TestDecide_NoElegibleRechazado(t *testing.T) {
	f := newFixture(t, 1)

	_, err := f.uc.Decide(context.Background(), empID, coID, expID, true, "")
	assert.ErrorIs(t, err, domain.ErrNotEligibleApprover)
}

// Con regla PERCENTAGE 60% y una sola decisión (100%) la etapa avanza por regla.
func TestDecide_ReglaPorcentajeSatisfecha(t *testing.T) {
	f := newFixture(t, 2)
	pct := decimal.NewFromInt(60)
	f.rules.rules = append(f.rules.rules, entity.ApprovalRule{
		ID: "r1", CompanyID: coID, RuleType: entity.RuleTypePercentage,
		PercentageNeeded: &pct, IsActive: true,
	})

	out, err := f.uc.Decide(context.Background(), adminA, coID, expID, true, "")
	require.NoError(t, err)
	assert.Equal(t, entity.ExpenseStatusInReview, out.Status)
	require.NotNil(t, out.CurrentStageOrder)
	assert.Equal(t, 2, *out.CurrentStageOrder)
}

// El rechazo tiene precedencia absoluta: con dos aprobaciones previas que ya
// satisfacen la regla PERCENTAGE 60% (2 de 3 = 66%), un rechazo igualmente
// termina el gasto como REJECTED.
func TestDecide_RechazoGanaAunConReglaSatisfecha(t *testing.T) {
	f := newFixture(t, 2)
	pct := decimal.NewFromInt(60)
	f.rules.rules = append(f.rules.rules, entity.ApprovalRule{
		ID: "r1", CompanyID: coID, RuleType: entity.RuleTypePercentage,
		PercentageNeeded: &pct, IsActive: true,
	})
	one := 1
	f.decisions.decisions = append(f.decisions.decisions,
		entity.ExpenseApproval{ID: "d1", ExpenseID: expID, StageOrder: &one, ApproverID: adminA, Approved: true},
		entity.ExpenseApproval{ID: "d2", ExpenseID: expID, StageOrder: &one, ApproverID: adminB, Approved: true},
	)

	out, err := f.uc.Decide(context.Background(), adminA, coID, expID, false, "factura ilegible")
	require.NoError(t, err)

	assert.Equal(t, entity.ExpenseStatusRejected, out.Status)
	assert.Nil(t, out.CurrentStageOrder)
	assert.Equal(t, entity.ExpenseStatusRejected, f.expenses.expenses[expID].Status)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Inbox
// ──────────────────────────────────────────────────────────────────────────────

func TestInbox_SoloElegiblesYDeterminista(t *testing.T) {
	f := newFixture(t, 2)

	items, err := f.uc.Inbox(adminA, coID, 50, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, expID, items[0].Expense.ID)
	assert.Equal(t, 1, items[0].StageOrder)
	assert.Equal(t, "Empleada", items[0].EmployeeName)

	// Sin decisiones intermedias, la bandeja no cambia entre llamadas.
	again, err := f.uc.Inbox(adminA, coID, 50, 0)
	require.NoError(t, err)
	assert.Equal(t, items, again)

	// El dueño del gasto (EMPLOYEE) no ve nada en una etapa de rol ADMIN.
	empty, err := f.uc.Inbox(empID, coID, 50, 0)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

// limit/offset paginan sobre el conjunto ya filtrado por elegibilidad: los
// gastos no elegibles no consumen hueco de página ni desplazan resultados.
func TestInbox_PaginaSobreElegibles(t *testing.T) {
	f := newFixture(t, 2)
	one, orphan := 1, 99
	f.expenses.expenses["exp-2"] = &entity.Expense{
		ID: "exp-2", CompanyID: coID, EmployeeID: empID,
		AmountCompanyCcy:  decimal.NewFromInt(50),
		Status:            entity.ExpenseStatusInReview,
		CurrentStageOrder: &one,
	}
	// Etapa inexistente: pendiente pero sin etapa resoluble, queda fuera.
	f.expenses.expenses["exp-huerfano"] = &entity.Expense{
		ID: "exp-huerfano", CompanyID: coID, EmployeeID: empID,
		AmountCompanyCcy:  decimal.NewFromInt(10),
		Status:            entity.ExpenseStatusInReview,
		CurrentStageOrder: &orphan,
	}

	full, err := f.uc.Inbox(adminA, coID, 50, 0)
	require.NoError(t, err)
	require.Len(t, full, 2, "solo los gastos con etapa resoluble son elegibles")

	first, err := f.uc.Inbox(adminA, coID, 1, 0)
	require.NoError(t, err)
	assert.Len(t, first, 1, "una página de 1 trae exactamente 1 elegible")

	second, err := f.uc.Inbox(adminA, coID, 1, 1)
	require.NoError(t, err)
	assert.Len(t, second, 1)

	beyond, err := f.uc.Inbox(adminA, coID, 1, 2)
	require.NoError(t, err)
	assert.Empty(t, beyond, "offset más allá del conjunto elegible devuelve vacío")
}
