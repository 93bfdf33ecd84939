package approval_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/expensia/expensia-api/internal/domain/approval"
	"github.com/expensia/expensia-api/internal/domain/entity"
)

func roleStage(order int, role entity.Role) *entity.ApprovalStage {
	return &entity.ApprovalStage{Order: order, ApproverRole: &role, IsActive: true}
}

func userStage(order int, userID string) *entity.ApprovalStage {
	return &entity.ApprovalStage{Order: order, ApproverUserID: &userID, IsActive: true}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests IsEligibleApprover
// ──────────────────────────────────────────────────────────────────────────────

func TestIsEligibleApprover_AsignacionDirecta(t *testing.T) {
	approver := &entity.User{ID: "a1", Role: entity.RoleEmployee}
	employee := &entity.User{ID: "e1"}

	assert.True(t, approval.IsEligibleApprover(approver, employee, userStage(1, "a1")))
	assert.False(t, approval.IsEligibleApprover(approver, employee, userStage(1, "otro")))
}

// Etapa MANAGER: elegible el manager directo del empleado, no cualquier MANAGER.
func TestIsEligibleApprover_EtapaManagerEsManagerDirecto(t *testing.T) {
	managerID := "m1"
	employee := &entity.User{ID: "e1", ManagerID: &managerID}

	directo := &entity.User{ID: "m1", Role: entity.RoleManager}
	otroManager := &entity.User{ID: "m2", Role: entity.RoleManager}
	stage := roleStage(1, entity.RoleManager)

	assert.True(t, approval.IsEligibleApprover(directo, employee, stage))
	assert.False(t, approval.IsEligibleApprover(otroManager, employee, stage))
}

// Empleado sin manager asignado: nadie resuelve una etapa MANAGER.
func TestIsEligibleApprover_EmpleadoSinManager(t *testing.T) {
	employee := &entity.User{ID: "e1"}
	manager := &entity.User{ID: "m1", Role: entity.RoleManager}

	assert.False(t, approval.IsEligibleApprover(manager, employee, roleStage(1, entity.RoleManager)))
}

// Etapa por rol ADMIN: cualquier admin de la empresa es elegible.
func TestIsEligibleApprover_EtapaPorRolAdmin(t *testing.T) {
	employee := &entity.User{ID: "e1"}
	admin := &entity.User{ID: "a1", Role: entity.RoleAdmin}
	empleado := &entity.User{ID: "u1", Role: entity.RoleEmployee}
	stage := roleStage(1, entity.RoleAdmin)

	assert.True(t, approval.IsEligibleApprover(admin, employee, stage))
	assert.False(t, approval.IsEligibleApprover(empleado, employee, stage))
}

// La asignación directa tiene prioridad sobre cualquier rol del usuario.
func TestIsEligibleApprover_UsuarioFijoExcluyeAlResto(t *testing.T) {
	employee := &entity.User{ID: "e1"}
	admin := &entity.User{ID: "a1", Role: entity.RoleAdmin}
	stage := userStage(1, "otro-usuario")

	assert.False(t, approval.IsEligibleApprover(admin, employee, stage))
}

func TestIsEligibleApprover_EtapaInactivaONil(t *testing.T) {
	user := &entity.User{ID: "a1", Role: entity.RoleAdmin}
	employee := &entity.User{ID: "e1"}

	inactive := roleStage(1, entity.RoleAdmin)
	inactive.IsActive = false
	assert.False(t, approval.IsEligibleApprover(user, employee, inactive))
	assert.False(t, approval.IsEligibleApprover(user, employee, nil))
	assert.False(t, approval.IsEligibleApprover(nil, employee, roleStage(1, entity.RoleAdmin)))
	assert.False(t, approval.IsEligibleApprover(user, nil, roleStage(1, entity.RoleAdmin)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests CurrentStage / ActiveStageCount
// ──────────────────────────────────────────────────────────────────────────────

func TestCurrentStage(t *testing.T) {
	stages := []entity.ApprovalStage{
		*roleStage(1, entity.RoleManager),
		*roleStage(2, entity.RoleAdmin),
	}

	two := 2
	exp := &entity.Expense{CurrentStageOrder: &two}
	got := approval.CurrentStage(stages, exp)
	assert.NotNil(t, got)
	assert.Equal(t, 2, got.Order)

	// Sin etapa actual (gasto terminal o DRAFT) no hay etapa.
	assert.Nil(t, approval.CurrentStage(stages, &entity.Expense{}))

	// Orden fuera del conjunto activo.
	nine := 9
	assert.Nil(t, approval.CurrentStage(stages, &entity.Expense{CurrentStageOrder: &nine}))
}

func TestActiveStageCount(t *testing.T) {
	inactive := *roleStage(3, entity.RoleAdmin)
	inactive.IsActive = false
	stages := []entity.ApprovalStage{
		*roleStage(1, entity.RoleManager),
		*roleStage(2, entity.RoleAdmin),
		inactive,
	}
	assert.Equal(t, 2, approval.ActiveStageCount(stages))
}
