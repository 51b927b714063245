package service_test

import (
	"context"
	"testing"

	"tiendapos/internal/config"
	"tiendapos/internal/dto"
	"tiendapos/internal/model"
	"tiendapos/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func buildAuthSvc(t *testing.T, password string) (service.AuthService, *model.Usuario) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	usuario := &model.Usuario{
		ID:           uuid.New(),
		Username:     "cajero1",
		Nombre:       "Ana García",
		PasswordHash: string(hash),
		Rol:          model.RolCajero,
	}
	cfg := &config.Config{
		JWTSecret:          "secreto-de-prueba",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
	}
	return service.NewAuthService(newStubUsuarioRepo(usuario), cfg), usuario
}

func TestLogin(t *testing.T) {
	svc, usuario := buildAuthSvc(t, "contraseña123")

	resp, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "cajero1",
		Password: "contraseña123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.NotEqual(t, resp.AccessToken, resp.RefreshToken)
	assert.Equal(t, usuario.ID.String(), resp.Usuario.ID)
	assert.Equal(t, "cajero", resp.Usuario.Rol)
}

func TestLogin_PasswordIncorrecta(t *testing.T) {
	svc, _ := buildAuthSvc(t, "contraseña123")

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "cajero1",
		Password: "otra-cosa",
	})
	require.Error(t, err)
	assert.EqualError(t, err, "credenciales inválidas")
}

// Usuario inexistente y password incorrecta responden idéntico: el login no
// revela qué usuarios existen.
func TestLogin_UsuarioInexistente(t *testing.T) {
	svc, _ := buildAuthSvc(t, "contraseña123")

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "fantasma",
		Password: "contraseña123",
	})
	require.Error(t, err)
	assert.EqualError(t, err, "credenciales inválidas")
}

func TestRefresh(t *testing.T) {
	svc, usuario := buildAuthSvc(t, "contraseña123")

	login, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "cajero1",
		Password: "contraseña123",
	})
	require.NoError(t, err)

	renovado, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, renovado.AccessToken)
	assert.Equal(t, usuario.ID.String(), renovado.Usuario.ID)
}

func TestRefresh_TokenInvalido(t *testing.T) {
	svc, _ := buildAuthSvc(t, "contraseña123")

	_, err := svc.Refresh(context.Background(), "no-es-un-jwt")
	require.Error(t, err)
}
