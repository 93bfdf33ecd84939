package dto

import "time"

// UserResponse salida de un usuario (sin password hash).
type UserResponse struct {
	ID                 string    `json:"id"`
	CompanyID          string    `json:"company_id"`
	Email              string    `json:"email"`
	FullName           string    `json:"full_name"`
	Role               string    `json:"role"`
	ManagerID          *string   `json:"manager_id,omitempty"`
	MustChangePassword bool      `json:"must_change_password"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// CompanyResponse salida de una empresa.
type CompanyResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	CountryCode  string    `json:"country_code"`
	CurrencyCode string    `json:"currency_code"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateUserRequest alta de usuario por un admin. No lleva password: se
// genera una contraseña temporal y se envía por correo.
type CreateUserRequest struct {
	Email     string  `json:"email" validate:"required,email"`
	FullName  string  `json:"fullName" validate:"required,min=1,max=200"`
	Role      string  `json:"role" validate:"required,oneof=ADMIN MANAGER EMPLOYEE"`
	ManagerID *string `json:"managerId" validate:"omitempty,uuid"`
}

// UpdateUserRequest cambio de rol y/o manager asignado. Campos nil no se tocan.
type UpdateUserRequest struct {
	Role      *string `json:"role" validate:"omitempty,oneof=ADMIN MANAGER EMPLOYEE"`
	ManagerID *string `json:"managerId" validate:"omitempty,uuid"`
}

// UserListResponse listado paginado de usuarios.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
