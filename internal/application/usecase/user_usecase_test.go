package usecase_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/expensia/expensia-api/internal/application/dto"
	"github.com/expensia/expensia-api/internal/application/usecase"
	"github.com/expensia/expensia-api/internal/domain"
	"github.com/expensia/expensia-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeUserRepo struct {
	users map[string]*entity.User
}

func (f *fakeUserRepo) Create(u *entity.User) error             { f.users[u.ID] = u; return nil }
func (f *fakeUserRepo) GetByID(id string) (*entity.User, error) { return f.users[id], nil }
func (f *fakeUserRepo) FindByEmail(email string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}
func (f *fakeUserRepo) Update(u *entity.User) error { f.users[u.ID] = u; return nil }
func (f *fakeUserRepo) ListByCompany(companyID string, _, _ int) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range f.users {
		if u.CompanyID == companyID {
			out = append(out, u)
		}
	}
	return out, nil
}

// fakeMailer registra los envíos y puede fallar bajo demanda.
type fakeMailer struct {
	fail bool
	sent []string
}

func (f *fakeMailer) Send(to, _, _ string) error {
	if f.fail {
		return errors.New("smtp caído")
	}
	f.sent = append(f.sent, to)
	return nil
}

func newUserUC(mailer *fakeMailer) (*usecase.UserUseCase, *fakeUserRepo) {
	repo := &fakeUserRepo{users: map[string]*entity.User{
		"u-1": {ID: "u-1", CompanyID: "co-1", Email: "ana@expensia.test", Role: entity.RoleEmployee, PasswordHash: "hash-previo"},
	}}
	return usecase.NewUserUseCase(repo, mailer), repo
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Create / SendPassword
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_EnviaContrasenaTemporal(t *testing.T) {
	mailer := &fakeMailer{}
	uc, repo := newUserUC(mailer)

	out, err := uc.Create("co-1", dto.CreateUserRequest{
		Email:    "Nuevo@Expensia.Test",
		FullName: "Nuevo Usuario",
		Role:     "EMPLOYEE",
	})
	require.NoError(t, err)

	assert.True(t, out.MustChangePassword, "el usuario nace con contraseña temporal obligatoria")
	assert.Equal(t, "nuevo@expensia.test", out.Email, "el email se normaliza a minúsculas")
	assert.Equal(t, []string{"nuevo@expensia.test"}, mailer.sent)
	assert.NotEmpty(t, repo.users[out.ID].PasswordHash)
}

// El fallo del SMTP no aborta el alta: el admin puede reenviar con send-password.
func TestCreate_SMTPCaidoNoBloqueaElAlta(t *testing.T) {
	uc, repo := newUserUC(&fakeMailer{fail: true})

	out, err := uc.Create("co-1", dto.CreateUserRequest{
		Email:    "nuevo@expensia.test",
		FullName: "Nuevo Usuario",
		Role:     "EMPLOYEE",
	})
	require.NoError(t, err, "el error de correo se registra, no se propaga")
	assert.NotNil(t, repo.users[out.ID])
}

func TestCreate_EmailDuplicado(t *testing.T) {
	uc, _ := newUserUC(&fakeMailer{})

	_, err := uc.Create("co-1", dto.CreateUserRequest{
		Email:    "ana@expensia.test",
		FullName: "Otra Ana",
		Role:     "EMPLOYEE",
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestSendPassword_ReseteaYNoBloqueaConSMTPCaido(t *testing.T) {
	uc, repo := newUserUC(&fakeMailer{fail: true})

	err := uc.SendPassword("co-1", "u-1")
	require.NoError(t, err)

	u := repo.users["u-1"]
	assert.NotEqual(t, "hash-previo", u.PasswordHash, "la contraseña se resetea aunque el correo falle")
	assert.True(t, u.MustChangePassword)
}

func TestSendPassword_UsuarioDeOtraEmpresa(t *testing.T) {
	uc, _ := newUserUC(&fakeMailer{})

	err := uc.SendPassword("co-2", "u-1")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
