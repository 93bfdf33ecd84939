package entity

import "time"

// Company representa una organización/tenant del sistema. Todos los datos
// (usuarios, gastos, etapas y reglas de aprobación) se escopean por CompanyID.
type Company struct {
	ID           string
	Name         string
	CountryCode  string // ISO 3166-1 usado al crear la empresa
	CurrencyCode string // moneda base: los gastos se normalizan a esta moneda
	// IsManagerApprover indica si el manager directo del empleado actúa como
	// primer aprobador por defecto en el flujo estándar.
	IsManagerApprover bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
