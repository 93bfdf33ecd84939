package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StageInput una etapa en la configuración del flujo. Exactamente uno de
// ApproverUserID o ApproverRole debe venir informado.
type StageInput struct {
	Name           string  `json:"name" validate:"required,max=100"`
	ApproverUserID *string `json:"approverUserId" validate:"omitempty,uuid"`
	ApproverRole   *string `json:"approverRole" validate:"omitempty,oneof=ADMIN MANAGER EMPLOYEE"`
}

// RuleInput la política condicional del flujo.
type RuleInput struct {
	RuleType         string           `json:"ruleType" validate:"required,oneof=PERCENTAGE SPECIFIC_APPROVER HYBRID"`
	PercentageNeeded *decimal.Decimal `json:"percentageNeeded" validate:"omitempty"`
	SpecificUserID   *string          `json:"specificApproverId" validate:"omitempty,uuid"`
	OrLogic          bool             `json:"orLogic"`
	MinAmount        *decimal.Decimal `json:"minAmount"`
	MaxAmount        *decimal.Decimal `json:"maxAmount"`
}

// SaveFlowRequest reemplaza la configuración de aprobación de la empresa:
// etapas en orden (Order se asigna 1..n según la posición) y política opcional.
type SaveFlowRequest struct {
	Stages []StageInput `json:"stages" validate:"required,min=1,dive"`
	Rule   *RuleInput   `json:"rule" validate:"omitempty"`
}

// StageResponse una etapa configurada.
type StageResponse struct {
	ID             string    `json:"id"`
	Order          int       `json:"order"`
	Name           string    `json:"name"`
	ApproverUserID *string   `json:"approver_user_id,omitempty"`
	ApproverRole   *string   `json:"approver_role,omitempty"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

// RuleResponse una regla configurada.
type RuleResponse struct {
	ID               string           `json:"id"`
	RuleType         string           `json:"rule_type"`
	PercentageNeeded *decimal.Decimal `json:"percentage_needed,omitempty"`
	SpecificUserID   *string          `json:"specific_approver_id,omitempty"`
	OrLogic          bool             `json:"or_logic"`
	IsActive         bool             `json:"is_active"`
	MinAmount        *decimal.Decimal `json:"min_amount,omitempty"`
	MaxAmount        *decimal.Decimal `json:"max_amount,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
}

// FlowResponse configuración vigente del flujo de aprobación.
type FlowResponse struct {
	Stages []StageResponse `json:"stages"`
	Rules  []RuleResponse  `json:"rules"`
}
