package approval

import "github.com/expensia/expensia-api/internal/domain/entity"

// IsEligibleApprover decide si user puede aprobar la etapa stage de un gasto
// cuyo dueño es employee. Un usuario es elegible si:
//
//  1. la etapa lo nombra directamente como aprobador (ApproverUserID);
//  2. la etapa aprueba por rol MANAGER y el usuario es el manager asignado
//     del empleado dueño del gasto; o
//  3. el rol de la etapa coincide con el rol del usuario (fallback genérico
//     por rol).
//
// La asignación directa tiene prioridad: si la etapa fija un usuario, solo
// ese usuario es elegible aunque además tenga rol configurado.
func IsEligibleApprover(user *entity.User, employee *entity.User, stage *entity.ApprovalStage) bool {
	if user == nil || employee == nil || stage == nil || !stage.IsActive {
		return false
	}

	if stage.ApproverUserID != nil {
		return *stage.ApproverUserID == user.ID
	}

	if stage.ApproverRole == nil {
		return false
	}

	switch *stage.ApproverRole {
	case entity.RoleManager:
		// Etapa "manager": elegible el manager directo del empleado, no
		// cualquier usuario con rol MANAGER.
		return employee.ManagerID != nil && *employee.ManagerID == user.ID
	case entity.RoleAdmin, entity.RoleEmployee:
		return user.Role == *stage.ApproverRole
	}
	return false
}

// CurrentStage busca la etapa activa cuyo Order coincide con el del gasto.
// Devuelve nil si el gasto no tiene etapa actual o el orden no existe.
func CurrentStage(stages []entity.ApprovalStage, exp *entity.Expense) *entity.ApprovalStage {
	if exp == nil || exp.CurrentStageOrder == nil {
		return nil
	}
	for i := range stages {
		if stages[i].IsActive && stages[i].Order == *exp.CurrentStageOrder {
			return &stages[i]
		}
	}
	return nil
}

// ActiveStageCount cuenta las etapas activas del conjunto.
func ActiveStageCount(stages []entity.ApprovalStage) int {
	n := 0
	for i := range stages {
		if stages[i].IsActive {
			n++
		}
	}
	return n
}
