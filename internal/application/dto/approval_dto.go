package dto

// DecisionRequest decisión de un aprobador sobre el gasto.
// Approved es puntero para distinguir "false" de campo ausente.
type DecisionRequest struct {
	Approved *bool  `json:"approved" validate:"required"`
	Comment  string `json:"comment" validate:"max=500"`
}

// DecisionResponse resultado de aplicar la decisión: estado resultante del
// gasto y, si sigue en revisión, la etapa en la que quedó.
type DecisionResponse struct {
	ExpenseID         string `json:"expense_id"`
	Status            string `json:"status"`
	CurrentStageOrder *int   `json:"current_stage_order,omitempty"`
}

// InboxItemResponse un gasto pendiente de decisión del usuario autenticado.
type InboxItemResponse struct {
	Expense      ExpenseResponse `json:"expense"`
	EmployeeName string          `json:"employee_name"`
	StageOrder   int             `json:"stage_order"`
	StageName    string          `json:"stage_name"`
}
