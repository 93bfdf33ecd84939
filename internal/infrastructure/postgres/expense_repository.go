package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/expensia/expensia-api/internal/domain/entity"
	"github.com/expensia/expensia-api/internal/domain/repository"
)

var _ repository.ExpenseRepository = (*ExpenseRepo)(nil)

// ExpenseRepo implementación del puerto ExpenseRepository sobre PostgreSQL.
type ExpenseRepo struct {
	q Querier
}

// NewExpenseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewExpenseRepository(q Querier) *ExpenseRepo {
	return &ExpenseRepo{q: q}
}

const expenseColumns = `id, company_id, employee_id, description, category,
	amount_original, currency_original, amount_company_ccy, fx_rate,
	expense_date, receipt_url, status, current_stage_order, created_at, updated_at`

// Create persiste un nuevo gasto.
func (r *ExpenseRepo) Create(e *entity.Expense) error {
	query := `
		INSERT INTO expenses (` + expenseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(context.Background(), query,
		e.ID, e.CompanyID, e.EmployeeID, e.Description, e.Category,
		e.AmountOriginal, e.CurrencyOriginal, e.AmountCompanyCcy, e.FxRate,
		e.ExpenseDate, nullIfEmpty(e.ReceiptURL), e.Status, e.CurrentStageOrder,
		e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

// GetByID obtiene un gasto por ID.
func (r *ExpenseRepo) GetByID(id string) (*entity.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE id = $1`
	return r.getOne(query, id, "get expense by id")
}

// GetByIDForUpdate obtiene un gasto bloqueando su fila hasta el fin de la
// transacción. Solo tiene sentido con un Querier atado a tx.
func (r *ExpenseRepo) GetByIDForUpdate(id string) (*entity.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE id = $1 FOR UPDATE`
	return r.getOne(query, id, "get expense for update")
}

func (r *ExpenseRepo) getOne(query, id, op string) (*entity.Expense, error) {
	e, err := scanExpense(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return e, nil
}

// ListByEmployee lista los gastos de un empleado, más recientes primero.
func (r *ExpenseRepo) ListByEmployee(employeeID string, limit, offset int) ([]*entity.Expense, error) {
	query := `
		SELECT ` + expenseColumns + `
		FROM expenses WHERE employee_id = $1
		ORDER BY created_at DESC, id LIMIT $2 OFFSET $3`
	return r.list(query, "list expenses by employee", employeeID, limit, offset)
}

// ListByCompanyAndStatus lista gastos de la empresa filtrando por estados.
// El orden (created_at DESC, id) es estable: listados repetidos sin cambios
// intermedios devuelven el mismo conjunto en el mismo orden.
func (r *ExpenseRepo) ListByCompanyAndStatus(companyID string, statuses []string, limit, offset int) ([]*entity.Expense, error) {
	query := `
		SELECT ` + expenseColumns + `
		FROM expenses WHERE company_id = $1 AND status = ANY($2)
		ORDER BY created_at DESC, id LIMIT $3 OFFSET $4`
	return r.list(query, "list expenses by status", companyID, statuses, limit, offset)
}

// UpdateStatus persiste una transición de estado del state machine.
func (r *ExpenseRepo) UpdateStatus(id, status string, currentStageOrder *int) error {
	query := `
		UPDATE expenses SET status = $2, current_stage_order = $3, updated_at = now()
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, status, currentStageOrder)
	if err != nil {
		return fmt.Errorf("update expense status: %w", err)
	}
	return nil
}

func (r *ExpenseRepo) list(query, op string, args ...any) ([]*entity.Expense, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	var list []*entity.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func scanExpense(row pgx.Row) (*entity.Expense, error) {
	var e entity.Expense
	var receiptURL *string
	if err := row.Scan(
		&e.ID, &e.CompanyID, &e.EmployeeID, &e.Description, &e.Category,
		&e.AmountOriginal, &e.CurrencyOriginal, &e.AmountCompanyCcy, &e.FxRate,
		&e.ExpenseDate, &receiptURL, &e.Status, &e.CurrentStageOrder,
		&e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if receiptURL != nil {
		e.ReceiptURL = *receiptURL
	}
	return &e, nil
}
