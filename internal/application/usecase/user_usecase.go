package usecase

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/expensia/expensia-api/internal/application/dto"
	"github.com/expensia/expensia-api/internal/application/ports"
	"github.com/expensia/expensia-api/internal/domain"
	"github.com/expensia/expensia-api/internal/domain/entity"
	"github.com/expensia/expensia-api/internal/domain/repository"
)

// UserUseCase administración de usuarios de la empresa (solo ADMIN).
type UserUseCase struct {
	userRepo repository.UserRepository
	mailer   ports.Mailer
}

// NewUserUseCase construye el caso de uso.
func NewUserUseCase(userRepo repository.UserRepository, mailer ports.Mailer) *UserUseCase {
	return &UserUseCase{userRepo: userRepo, mailer: mailer}
}

// List lista los usuarios de la empresa del admin autenticado.
func (uc *UserUseCase) List(companyID string, limit, offset int) (*dto.UserListResponse, error) {
	list, err := uc.userRepo.ListByCompany(companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *toUserResponse(u))
	}
	return &dto.UserListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Create da de alta un usuario en la empresa del admin con contraseña
// temporal enviada por correo. El usuario queda marcado MustChangePassword.
func (uc *UserUseCase) Create(companyID string, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	role, ok := entity.ParseRole(in.Role)
	if !ok {
		return nil, domain.ErrInvalidInput
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	existing, err := uc.userRepo.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	if in.ManagerID != nil {
		manager, err := uc.userRepo.GetByID(*in.ManagerID)
		if err != nil {
			return nil, err
		}
		if manager == nil || manager.CompanyID != companyID {
			return nil, domain.ErrInvalidInput
		}
	}

	temp, err := tempPassword()
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(temp), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &entity.User{
		ID:                 uuid.New().String(),
		CompanyID:          companyID,
		Email:              email,
		PasswordHash:       string(hash),
		FullName:           strings.TrimSpace(in.FullName),
		Role:               role,
		ManagerID:          in.ManagerID,
		MustChangePassword: true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := uc.userRepo.Create(user); err != nil {
		return nil, err
	}

	uc.notifyTempPassword(user, temp, "Tu cuenta en Expensia",
		fmt.Sprintf("<p>Hola %s,</p><p>Tu cuenta fue creada. Contraseña temporal: <b>%s</b></p><p>Inicia sesión y cámbiala.</p>", user.FullName, temp))

	return toUserResponse(user), nil
}

// Update cambia rol y/o manager asignado de un usuario de la empresa.
func (uc *UserUseCase) Update(companyID, userID string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.CompanyID != companyID {
		return nil, domain.ErrUserNotFound
	}
	if in.Role != nil {
		role, ok := entity.ParseRole(*in.Role)
		if !ok {
			return nil, domain.ErrInvalidInput
		}
		user.Role = role
	}
	if in.ManagerID != nil {
		if *in.ManagerID == "" {
			user.ManagerID = nil
		} else {
			manager, err := uc.userRepo.GetByID(*in.ManagerID)
			if err != nil {
				return nil, err
			}
			if manager == nil || manager.CompanyID != companyID {
				return nil, domain.ErrInvalidInput
			}
			user.ManagerID = in.ManagerID
		}
	}
	user.UpdatedAt = time.Now()
	if err := uc.userRepo.Update(user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// SendPassword resetea la contraseña del usuario a una temporal y la envía
// por correo. La contraseña nunca se expone en la respuesta HTTP.
func (uc *UserUseCase) SendPassword(companyID, userID string) error {
	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil || user.CompanyID != companyID {
		return domain.ErrUserNotFound
	}
	temp, err := tempPassword()
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(temp), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	user.MustChangePassword = true
	user.UpdatedAt = time.Now()
	if err := uc.userRepo.Update(user); err != nil {
		return err
	}

	uc.notifyTempPassword(user, temp, "Tu contraseña fue restablecida",
		fmt.Sprintf("<p>Hola %s,</p><p>Tu contraseña temporal es: <b>%s</b></p><p>Inicia sesión y actualízala.</p>", user.FullName, temp))
	return nil
}

// notifyTempPassword envía el correo sin bloquear el alta si el SMTP falla:
// el fallo se registra y el admin puede reenviar con send-password.
func (uc *UserUseCase) notifyTempPassword(user *entity.User, temp, subject, body string) {
	if uc.mailer == nil {
		return
	}
	if err := uc.mailer.Send(user.Email, subject, body); err != nil {
		log.Warn().Err(err).Str("user_id", user.ID).Msg("No se pudo enviar la contraseña temporal por correo")
	}
}

// tempPassword genera una contraseña temporal aleatoria (crypto/rand).
func tempPassword() (string, error) {
	buf := make([]byte, 5)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:                 u.ID,
		CompanyID:          u.CompanyID,
		Email:              u.Email,
		FullName:           u.FullName,
		Role:               u.Role.String(),
		ManagerID:          u.ManagerID,
		MustChangePassword: u.MustChangePassword,
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,
	}
}
