// Package pdf implementa la generación del estado de cuenta de gastos de un
// empleado como documento A4.
//
// Layout de la página:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa + moneda base  │  Empleado + Fecha emisión  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Descripción | Categoría | Monto orig | Monto │
//	│         base | Estado                                        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: total aprobado / total pendiente (moneda base)     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	appexpense "github.com/expensia/expensia-api/internal/application/expense"
	"github.com/expensia/expensia-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary  = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray     = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorApproved = &props.Color{Red: 0, Green: 120, Blue: 60}
	colorRejected = &props.Color{Red: 170, Green: 30, Blue: 30}
)

var _ appexpense.StatementPDFGenerator = (*MarotoStatementGenerator)(nil)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoStatementGenerator implementa expense.StatementPDFGenerator usando
// Maroto v2.
type MarotoStatementGenerator struct{}

// NewMarotoStatementGenerator construye el generador.
func NewMarotoStatementGenerator() *MarotoStatementGenerator { return &MarotoStatementGenerator{} }

// GenerateStatement genera el PDF y devuelve sus bytes.
func (g *MarotoStatementGenerator) GenerateStatement(
	_ context.Context,
	company *entity.Company,
	employee *entity.User,
	expenses []*entity.Expense,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Estado de cuenta de gastos", true).
		WithAuthor(company.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(company, employee))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableRows(expenses) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(company, expenses))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: empresa + moneda base (izq), empleado + fecha de emisión (der).
func headerRow(company *entity.Company, employee *entity.User) core.Row {
	emitted := time.Now().Format("02/01/2006")
	return row.New(18).Add(
		col.New(7).Add(
			text.New(company.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Moneda base: "+company.CurrencyCode, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("ESTADO DE CUENTA DE GASTOS", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(employee.FullName, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 7,
			}),
			text.New("Emitido: "+emitted, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de gastos.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 2, align.Left),
		h("Descripción", 3, align.Left),
		h("Categoría", 2, align.Left),
		h("Monto original", 2, align.Right),
		h("Monto base", 2, align.Right),
		h("Estado", 1, align.Center),
	)
}

// tableRows: una fila por gasto.
func tableRows(expenses []*entity.Expense) []core.Row {
	result := make([]core.Row, 0, len(expenses))
	for _, e := range expenses {
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(
				e.ExpenseDate.Format("02/01/2006"),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(3).Add(text.New(
				e.Description,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				e.Category,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				e.AmountOriginal.StringFixed(2)+" "+e.CurrencyOriginal,
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				e.AmountCompanyCcy.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				e.Status,
				props.Text{Size: 6.5, Align: align.Center, Top: 2, Color: statusColor(e.Status)},
			)),
		))
	}
	return result
}

// totalsRow: total aprobado y total pendiente en moneda base.
func totalsRow(company *entity.Company, expenses []*entity.Expense) core.Row {
	var approved, pending decimal.Decimal
	for _, e := range expenses {
		switch {
		case e.Status == entity.ExpenseStatusApproved:
			approved = approved.Add(e.AmountCompanyCcy)
		case e.IsPendingApproval():
			pending = pending.Add(e.AmountCompanyCcy)
		}
	}

	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}

	return row.New(18).Add(
		col.New(4),
		col.New(4).Add(
			label("Total aprobado ("+company.CurrencyCode+"):"),
			label("Total pendiente ("+company.CurrencyCode+"):"),
		),
		col.New(4).Add(
			value(approved.StringFixed(2)),
			value(pending.StringFixed(2)),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func statusColor(status string) *props.Color {
	switch status {
	case entity.ExpenseStatusApproved:
		return colorApproved
	case entity.ExpenseStatusRejected:
		return colorRejected
	default:
		return colorGray
	}
}
