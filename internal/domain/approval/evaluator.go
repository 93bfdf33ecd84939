// Package approval contiene la lógica pura de aprobación de gastos:
// evaluación de reglas condicionales y resolución de aprobadores elegibles.
// No tiene dependencias de infraestructura; los use cases la orquestan
// dentro de transacciones.
package approval

import (
	"github.com/shopspring/decimal"

	"github.com/expensia/expensia-api/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// Evaluate decide si las reglas condicionales de la empresa quedan satisfechas
// con las decisiones registradas en la etapa actual.
//
// Para cada regla activa y aplicable al monto (en moneda de la empresa), en
// orden de configuración:
//   - PERCENTAGE: (aprobadas / total de decisiones) × 100 ≥ PercentageNeeded
//     (100 si no está definido). Cero decisiones es 0% y nunca satisface un
//     requisito mayor que cero.
//   - SPECIFIC_APPROVER: el usuario configurado aparece entre las decisiones
//     aprobatorias.
//   - HYBRID: combina ambos chequeos con OR o AND según OrLogic.
//
// Devuelve true con la primera regla satisfecha; false si ninguna lo está o
// no hay reglas aplicables. La función es determinista: mismas entradas,
// mismo resultado.
func Evaluate(rules []entity.ApprovalRule, decisions []entity.ExpenseApproval, amountCompanyCcy decimal.Decimal) bool {
	yesPct := approvedPercent(decisions)

	for i := range rules {
		r := &rules[i]
		if !r.AppliesTo(amountCompanyCcy) {
			continue
		}
		switch r.RuleType {
		case entity.RuleTypePercentage:
			if yesPct.GreaterThanOrEqual(requiredPercent(r)) {
				return true
			}
		case entity.RuleTypeSpecificApprover:
			if specificApproved(r, decisions) {
				return true
			}
		case entity.RuleTypeHybrid:
			pctOK := yesPct.GreaterThanOrEqual(requiredPercent(r))
			specOK := specificApproved(r, decisions)
			if r.OrLogic {
				if pctOK || specOK {
					return true
				}
			} else if pctOK && specOK {
				return true
			}
		}
	}
	return false
}

// StageSatisfied decide si la etapa actual puede avanzar.
//
// Con reglas aplicables manda Evaluate. Sin reglas aplicables se exige
// unanimidad sobre lo registrado: al menos una decisión y todas aprobatorias.
// (El rechazo corta antes en el state machine, así que en la práctica la rama
// de unanimidad equivale a "hay al menos una aprobación".)
func StageSatisfied(rules []entity.ApprovalRule, decisions []entity.ExpenseApproval, amountCompanyCcy decimal.Decimal) bool {
	if hasApplicableRule(rules, amountCompanyCcy) {
		return Evaluate(rules, decisions, amountCompanyCcy)
	}
	if len(decisions) == 0 {
		return false
	}
	for i := range decisions {
		if !decisions[i].Approved {
			return false
		}
	}
	return true
}

func hasApplicableRule(rules []entity.ApprovalRule, amount decimal.Decimal) bool {
	for i := range rules {
		if rules[i].AppliesTo(amount) {
			return true
		}
	}
	return false
}

// approvedPercent devuelve el porcentaje de decisiones aprobatorias.
// Sin decisiones el porcentaje es 0, no indefinido.
func approvedPercent(decisions []entity.ExpenseApproval) decimal.Decimal {
	if len(decisions) == 0 {
		return decimal.Zero
	}
	yes := 0
	for i := range decisions {
		if decisions[i].Approved {
			yes++
		}
	}
	return decimal.NewFromInt(int64(yes)).
		Mul(hundred).
		Div(decimal.NewFromInt(int64(len(decisions))))
}

// requiredPercent devuelve el umbral de la regla; nil equivale a 100 (unanimidad).
func requiredPercent(r *entity.ApprovalRule) decimal.Decimal {
	if r.PercentageNeeded == nil {
		return hundred
	}
	return *r.PercentageNeeded
}

func specificApproved(r *entity.ApprovalRule, decisions []entity.ExpenseApproval) bool {
	if r.SpecificUserID == nil {
		return false
	}
	for i := range decisions {
		if decisions[i].Approved && decisions[i].ApproverID == *r.SpecificUserID {
			return true
		}
	}
	return false
}
