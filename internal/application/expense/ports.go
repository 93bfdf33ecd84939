package expense

import (
	"context"

	"github.com/expensia/expensia-api/internal/domain/entity"
)

// StatementPDFGenerator genera el estado de cuenta de gastos de un empleado.
// Lo implementa pdf.MarotoStatementGenerator.
type StatementPDFGenerator interface {
	GenerateStatement(ctx context.Context, company *entity.Company, employee *entity.User, expenses []*entity.Expense) ([]byte, error)
}
