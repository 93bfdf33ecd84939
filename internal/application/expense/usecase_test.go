package expense_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/expensia/expensia-api/internal/application/dto"
	appexpense "github.com/expensia/expensia-api/internal/application/expense"
	"github.com/expensia/expensia-api/internal/domain"
	"github.com/expensia/expensia-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeExpenseRepo struct {
	created map[string]*entity.Expense
}

func (f *fakeExpenseRepo) Create(e *entity.Expense) error { f.created[e.ID] = e; return nil }
func (f *fakeExpenseRepo) GetByID(id string) (*entity.Expense, error) {
	return f.created[id], nil
}
func (f *fakeExpenseRepo) GetByIDForUpdate(id string) (*entity.Expense, error) {
	return f.created[id], nil
}
func (f *fakeExpenseRepo) ListByEmployee(employeeID string, _, _ int) ([]*entity.Expense, error) {
	var out []*entity.Expense
	for _, e := range f.created {
		if e.EmployeeID == employeeID {
			out = append(out, e)
		}
	}
	return out, nil
}
func (f *fakeExpenseRepo) ListByCompanyAndStatus(string, []string, int, int) ([]*entity.Expense, error) {
	return nil, nil
}
func (f *fakeExpenseRepo) UpdateStatus(id, status string, currentStageOrder *int) error {
	e := f.created[id]
	e.Status = status
	e.CurrentStageOrder = currentStageOrder
	return nil
}

type fakeCompanyRepo struct {
	company *entity.Company
}

func (f *fakeCompanyRepo) Create(*entity.Company) error { return nil }
func (f *fakeCompanyRepo) GetByID(id string) (*entity.Company, error) {
	if f.company != nil && f.company.ID == id {
		return f.company, nil
	}
	return nil, nil
}

// fakeConverter tabla fija de tasas para tests.
type fakeConverter struct {
	rates map[string]decimal.Decimal // clave "FROM->TO"
}

func (f *fakeConverter) GetRate(_ context.Context, from, to string) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}
	rate, ok := f.rates[from+"->"+to]
	if !ok {
		return decimal.Decimal{}, domain.ErrRateUnavailable
	}
	return rate, nil
}

func (f *fakeConverter) Convert(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, decimal.Decimal, error) {
	rate, err := f.GetRate(ctx, from, to)
	if err != nil {
		return decimal.Decimal{}, decimal.Decimal{}, err
	}
	return amount.Mul(rate).Round(2), rate, nil
}

func newUseCase(t *testing.T) (*appexpense.ExpenseUseCase, *fakeExpenseRepo) {
	t.Helper()
	repo := &fakeExpenseRepo{created: map[string]*entity.Expense{}}
	companies := &fakeCompanyRepo{company: &entity.Company{ID: "co-1", CurrencyCode: "INR"}}
	converter := &fakeConverter{rates: map[string]decimal.Decimal{
		"USD->INR": decimal.NewFromInt(83),
	}}
	return appexpense.NewExpenseUseCase(repo, companies, converter), repo
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Create
// ──────────────────────────────────────────────────────────────────────────────

// 100 USD con tasa 83 → 8300.00 INR, tasa persistida junto al gasto.
func TestCreate_ConvierteAMonedaBase(t *testing.T) {
	uc, repo := newUseCase(t)

	out, err := uc.Create(context.Background(), "emp-1", "co-1", dto.CreateExpenseRequest{
		Amount:      decimal.NewFromInt(100),
		Currency:    "USD",
		Category:    "Viajes",
		Description: "Taxi aeropuerto",
		ExpenseDate: "2026-08-15",
	})
	require.NoError(t, err)

	assert.True(t, out.AmountCompanyCcy.Equal(decimal.RequireFromString("8300.00")),
		"100 USD a 83 deben ser 8300.00 INR, fue %s", out.AmountCompanyCcy)
	assert.True(t, out.FxRate.Equal(decimal.NewFromInt(83)))
	assert.Equal(t, "INR", out.CompanyCurrency)
	assert.Equal(t, entity.ExpenseStatusDraft, out.Status)
	assert.Nil(t, out.CurrentStageOrder)
	assert.Len(t, repo.created, 1)
}

// Misma moneda que la empresa: tasa 1, monto idéntico.
func TestCreate_MismaMonedaTasaUno(t *testing.T) {
	uc, _ := newUseCase(t)

	out, err := uc.Create(context.Background(), "emp-1", "co-1", dto.CreateExpenseRequest{
		Amount:      decimal.RequireFromString("250.50"),
		Currency:    "INR",
		Category:    "Comidas",
		ExpenseDate: "2026-08-15",
	})
	require.NoError(t, err)

	assert.True(t, out.AmountCompanyCcy.Equal(decimal.RequireFromString("250.50")))
	assert.True(t, out.FxRate.Equal(decimal.NewFromInt(1)))
}

// submit=true: el gasto nace SUBMITTED en la etapa 1.
func TestCreate_ConSubmitEntraAlFlujo(t *testing.T) {
	uc, _ := newUseCase(t)

	out, err := uc.Create(context.Background(), "emp-1", "co-1", dto.CreateExpenseRequest{
		Amount:      decimal.NewFromInt(40),
		Currency:    "USD",
		Category:    "Viajes",
		ExpenseDate: "2026-08-15",
		Submit:      true,
	})
	require.NoError(t, err)

	assert.Equal(t, entity.ExpenseStatusSubmitted, out.Status)
	require.NotNil(t, out.CurrentStageOrder)
	assert.Equal(t, 1, *out.CurrentStageOrder)
}

func TestCreate_Validaciones(t *testing.T) {
	uc, _ := newUseCase(t)
	ctx := context.Background()
	base := dto.CreateExpenseRequest{
		Amount:      decimal.NewFromInt(10),
		Currency:    "USD",
		Category:    "Viajes",
		ExpenseDate: "2026-08-15",
	}

	zero := base
	zero.Amount = decimal.Zero
	_, err := uc.Create(ctx, "emp-1", "co-1", zero)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "monto cero es inválido")

	negative := base
	negative.Amount = decimal.NewFromInt(-5)
	_, err = uc.Create(ctx, "emp-1", "co-1", negative)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "monto negativo es inválido")

	badCcy := base
	badCcy.Currency = "XYZ123"
	_, err = uc.Create(ctx, "emp-1", "co-1", badCcy)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "moneda no ISO 4217 es inválida")

	badDate := base
	badDate.ExpenseDate = "15/08/2026"
	_, err = uc.Create(ctx, "emp-1", "co-1", badDate)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "fecha fuera de formato es inválida")
}

// Sin tasa disponible el gasto no se crea.
func TestCreate_SinTasaNoPersiste(t *testing.T) {
	uc, repo := newUseCase(t)

	_, err := uc.Create(context.Background(), "emp-1", "co-1", dto.CreateExpenseRequest{
		Amount:      decimal.NewFromInt(10),
		Currency:    "EUR", // sin tasa EUR->INR en el fake
		Category:    "Viajes",
		ExpenseDate: "2026-08-15",
	})
	assert.ErrorIs(t, err, domain.ErrRateUnavailable)
	assert.Empty(t, repo.created)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Submit
// ──────────────────────────────────────────────────────────────────────────────

func TestSubmit_DraftEntraAlFlujo(t *testing.T) {
	uc, repo := newUseCase(t)

	created, err := uc.Create(context.Background(), "emp-1", "co-1", dto.CreateExpenseRequest{
		Amount:      decimal.NewFromInt(10),
		Currency:    "USD",
		Category:    "Viajes",
		ExpenseDate: "2026-08-15",
	})
	require.NoError(t, err)

	out, err := uc.Submit(created.ID, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, entity.ExpenseStatusSubmitted, out.Status)
	require.NotNil(t, out.CurrentStageOrder)
	assert.Equal(t, 1, *out.CurrentStageOrder)

	// Reenviar un gasto ya enviado es conflicto.
	_, err = uc.Submit(created.ID, "emp-1")
	assert.ErrorIs(t, err, domain.ErrConflict)

	// Otro usuario no puede enviar un gasto ajeno.
	repo.created[created.ID].Status = entity.ExpenseStatusDraft
	_, err = uc.Submit(created.ID, "otro")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestSubmit_Inexistente(t *testing.T) {
	uc, _ := newUseCase(t)
	_, err := uc.Submit("nope", "emp-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
