package dto

// SignupRequest da de alta una empresa junto con su primer usuario ADMIN.
// La moneda base de la empresa se resuelve a partir de CountryCode.
type SignupRequest struct {
	CompanyName string `json:"companyName" validate:"required,min=1,max=200"`
	CountryCode string `json:"countryCode" validate:"required,min=2,max=3"`
	FullName    string `json:"fullName" validate:"required,min=1,max=200"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ChangePasswordRequest cambia la contraseña del usuario autenticado.
// La identidad sale solo del token verificado, nunca del cuerpo.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

// AuthResponse salida de signup/login: token Bearer + usuario + empresa.
type AuthResponse struct {
	Token   string           `json:"token"`
	User    UserResponse     `json:"user"`
	Company *CompanyResponse `json:"company,omitempty"`
}
