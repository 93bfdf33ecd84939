package expense

import (
	"context"

	"github.com/expensia/expensia-api/internal/domain"
	"github.com/expensia/expensia-api/internal/domain/repository"
)

// statementMaxRows tope de gastos incluidos en un estado de cuenta.
const statementMaxRows = 500

// StatementUseCase genera el estado de cuenta PDF de un empleado.
type StatementUseCase struct {
	expenseRepo repository.ExpenseRepository
	companyRepo repository.CompanyRepository
	userRepo    repository.UserRepository
	generator   StatementPDFGenerator
}

// NewStatementUseCase construye el caso de uso.
func NewStatementUseCase(
	expenseRepo repository.ExpenseRepository,
	companyRepo repository.CompanyRepository,
	userRepo repository.UserRepository,
	generator StatementPDFGenerator,
) *StatementUseCase {
	return &StatementUseCase{
		expenseRepo: expenseRepo,
		companyRepo: companyRepo,
		userRepo:    userRepo,
		generator:   generator,
	}
}

// Generate produce el PDF con los gastos del usuario autenticado.
func (uc *StatementUseCase) Generate(ctx context.Context, employeeID string) ([]byte, error) {
	employee, err := uc.userRepo.GetByID(employeeID)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, domain.ErrUserNotFound
	}
	company, err := uc.companyRepo.GetByID(employee.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	expenses, err := uc.expenseRepo.ListByEmployee(employeeID, statementMaxRows, 0)
	if err != nil {
		return nil, err
	}
	return uc.generator.GenerateStatement(ctx, company, employee, expenses)
}
