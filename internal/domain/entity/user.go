package entity

import "time"

// Role es la enumeración cerrada de roles del sistema.
// Se usa un tipo propio (no string suelto) para que el resolver de etapas
// y el middleware RBAC puedan hacer matching exhaustivo.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleManager  Role = "MANAGER"
	RoleEmployee Role = "EMPLOYEE"
)

// ParseRole valida un rol recibido como string. Devuelve ok=false si no es un rol conocido.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleManager, RoleEmployee:
		return Role(s), true
	}
	return "", false
}

// String implementa fmt.Stringer.
func (r Role) String() string { return string(r) }

// User representa un usuario del sistema (pertenece a una Company).
type User struct {
	ID           string
	CompanyID    string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	FullName     string
	Role         Role
	ManagerID    *string // referencia auto-relacional al manager asignado (nil para admins)
	// MustChangePassword queda en true tras alta por admin o reset con
	// contraseña temporal; se limpia en change-password.
	MustChangePassword bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
