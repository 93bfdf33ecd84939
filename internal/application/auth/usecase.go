// Package auth implementa los casos de uso de autenticación: alta de empresa
// con su primer admin (signup), login y cambio de contraseña.
package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/expensia/expensia-api/internal/application/dto"
	"github.com/expensia/expensia-api/internal/application/ports"
	"github.com/expensia/expensia-api/internal/domain"
	"github.com/expensia/expensia-api/internal/domain/entity"
	"github.com/expensia/expensia-api/internal/domain/repository"
	"github.com/expensia/expensia-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación.
type AuthUseCase struct {
	userRepo    repository.UserRepository
	companyRepo repository.CompanyRepository
	stageRepo   repository.ApprovalStageRepository
	ruleRepo    repository.ApprovalRuleRepository
	currency    ports.CurrencyResolver
	jwtCfg      JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(
	userRepo repository.UserRepository,
	companyRepo repository.CompanyRepository,
	stageRepo repository.ApprovalStageRepository,
	ruleRepo repository.ApprovalRuleRepository,
	currency ports.CurrencyResolver,
	jwtCfg JWTConfig,
) *AuthUseCase {
	return &AuthUseCase{
		userRepo:    userRepo,
		companyRepo: companyRepo,
		stageRepo:   stageRepo,
		ruleRepo:    ruleRepo,
		currency:    currency,
		jwtCfg:      jwtCfg,
	}
}

// Signup crea la empresa (moneda base resuelta desde el país), su usuario
// ADMIN, el flujo estándar de tres etapas manager y una regla HYBRID 60%/OR
// inactiva como punto de partida de configuración. Devuelve token + usuario.
func (uc *AuthUseCase) Signup(ctx context.Context, in dto.SignupRequest) (*dto.AuthResponse, error) {
	email := normalizeEmail(in.Email)
	existing, err := uc.userRepo.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	currencyCode, err := uc.currency.ResolveCurrency(ctx, strings.ToUpper(strings.TrimSpace(in.CountryCode)))
	if err != nil {
		// El resolver ya aplica fallback a USD; un error aquí es de infraestructura.
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	company := &entity.Company{
		ID:                uuid.New().String(),
		Name:              strings.TrimSpace(in.CompanyName),
		CountryCode:       strings.ToUpper(strings.TrimSpace(in.CountryCode)),
		CurrencyCode:      currencyCode,
		IsManagerApprover: true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.companyRepo.Create(company); err != nil {
		return nil, err
	}

	admin := &entity.User{
		ID:           uuid.New().String(),
		CompanyID:    company.ID,
		Email:        email,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(in.FullName),
		Role:         entity.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(admin); err != nil {
		return nil, err
	}

	if err := uc.seedDefaultFlow(company.ID, now); err != nil {
		return nil, err
	}

	token, err := jwt.Generate(uc.jwtCfg.Secret, admin.ID, admin.CompanyID, admin.Role.String(), uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{
		Token:   token,
		User:    *toUserResponse(admin),
		Company: toCompanyResponse(company),
	}, nil
}

// seedDefaultFlow crea las etapas Manager/Finance/Director y la regla HYBRID
// 60% OR inactiva, el mismo punto de partida que configura el alta original.
func (uc *AuthUseCase) seedDefaultFlow(companyID string, now time.Time) error {
	managerRole := entity.RoleManager
	names := []string{"Manager", "Finance", "Director"}
	stages := make([]entity.ApprovalStage, 0, len(names))
	for i, name := range names {
		role := managerRole
		stages = append(stages, entity.ApprovalStage{
			ID:           uuid.New().String(),
			CompanyID:    companyID,
			Order:        i + 1,
			Name:         name,
			ApproverRole: &role,
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}
	if err := uc.stageRepo.CreateMany(stages); err != nil {
		return err
	}

	pct := decimal.NewFromInt(60)
	rule := &entity.ApprovalRule{
		ID:               uuid.New().String(),
		CompanyID:        companyID,
		RuleType:         entity.RuleTypeHybrid,
		PercentageNeeded: &pct,
		OrLogic:          true,
		IsActive:         false,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	return uc.ruleRepo.Create(rule)
}

// Login verifica email/password y genera el JWT con {user_id, company_id, role}.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := uc.userRepo.FindByEmail(normalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized // mismo error que password inválido: no filtrar existencia
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.CompanyID, user.Role.String(), uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{Token: token, User: *toUserResponse(user)}, nil
}

// ChangePassword verifica la contraseña actual del usuario autenticado y
// persiste el nuevo hash. Limpia MustChangePassword.
func (uc *AuthUseCase) ChangePassword(userID string, in dto.ChangePasswordRequest) error {
	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.OldPassword)); err != nil {
		return domain.ErrUnauthorized
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	user.MustChangePassword = false
	user.UpdatedAt = time.Now()
	return uc.userRepo.Update(user)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
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

func toCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	if c == nil {
		return nil
	}
	return &dto.CompanyResponse{
		ID:           c.ID,
		Name:         c.Name,
		CountryCode:  c.CountryCode,
		CurrencyCode: c.CurrencyCode,
		CreatedAt:    c.CreatedAt,
	}
}
