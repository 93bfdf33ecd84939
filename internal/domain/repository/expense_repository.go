package repository

import "github.com/expensia/expensia-api/internal/domain/entity"

// ExpenseRepository define el puerto de persistencia para Expense.
type ExpenseRepository interface {
	Create(expense *entity.Expense) error
	GetByID(id string) (*entity.Expense, error)
	// GetByIDForUpdate bloquea la fila del gasto (SELECT ... FOR UPDATE).
	// Solo tiene sentido sobre una implementación atada a transacción: el
	// state machine lo usa para serializar decisiones concurrentes sobre el
	// mismo gasto.
	GetByIDForUpdate(id string) (*entity.Expense, error)
	ListByEmployee(employeeID string, limit, offset int) ([]*entity.Expense, error)
	// ListByCompanyAndStatus lista gastos de la empresa filtrando por uno o
	// más estados, ordenados por fecha de creación descendente.
	ListByCompanyAndStatus(companyID string, statuses []string, limit, offset int) ([]*entity.Expense, error)
	// UpdateStatus persiste una transición de estado (status + etapa actual).
	UpdateStatus(id, status string, currentStageOrder *int) error
}
