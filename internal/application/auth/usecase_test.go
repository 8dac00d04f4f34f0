package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/lims-api/internal/application/auth"
	"github.com/jhoicas/lims-api/internal/application/dto"
	"github.com/jhoicas/lims-api/internal/domain"
	"github.com/jhoicas/lims-api/internal/domain/entity"
	"github.com/jhoicas/lims-api/internal/infrastructure/memory"
	"github.com/jhoicas/lims-api/pkg/jwt"
)

func setup() (*auth.AuthUseCase, *memory.Store) {
	store := memory.New()
	cfg := auth.JWTConfig{Secret: "secreto-de-prueba", ExpMinutes: 5, Issuer: "lims-test"}
	return auth.NewAuthUseCase(store, store.Repos().Users, cfg), store
}

func TestEnsureAdmin_Idempotente(t *testing.T) {
	uc, store := setup()
	ctx := context.Background()

	created, err := uc.EnsureAdmin(ctx, "Admin@Lab.test", "clave-larga-1")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = uc.EnsureAdmin(ctx, "admin@lab.test", "otra-clave-2")
	require.NoError(t, err)
	assert.False(t, created)

	created, err = uc.EnsureAdmin(ctx, "", "")
	require.NoError(t, err)
	assert.False(t, created)

	entries, err := store.Repos().Audit.ListByRecord(ctx, "users", mustFind(t, store, "admin@lab.test").ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, auth.SystemActor, entries[0].ActorID)
}

func mustFind(t *testing.T, store *memory.Store, email string) *entity.User {
	t.Helper()
	u, err := store.Repos().Users.FindByEmail(context.Background(), email)
	require.NoError(t, err)
	require.NotNil(t, u)
	return u
}

func TestLogin_TokenConRoles(t *testing.T) {
	uc, _ := setup()
	ctx := context.Background()
	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{
		Email:    "ana@lab.test",
		Password: "clave-larga-1",
		Roles:    []string{entity.RoleAnalyst, entity.RoleQA},
	}, "u-admin")
	require.NoError(t, err)

	out, err := uc.Login(ctx, dto.LoginRequest{Email: " ANA@lab.test ", Password: "clave-larga-1"})
	require.NoError(t, err)
	userID, roles, err := jwt.Parse("secreto-de-prueba", out.Token)
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, userID)
	assert.Equal(t, []string{entity.RoleAnalyst, entity.RoleQA}, roles)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ana@lab.test", Password: "mala"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@lab.test", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestRegisterUser_Validaciones(t *testing.T) {
	uc, _ := setup()
	ctx := context.Background()

	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "a@b.c", Password: "corta", Roles: []string{"admin"}}, "u-admin")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "a@b.c", Password: "suficiente", Roles: nil}, "u-admin")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "a@b.c", Password: "suficiente", Roles: []string{"bodega"}}, "u-admin")
	require.NoError(t, err)
	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "A@B.C", Password: "suficiente", Roles: []string{"bodega"}}, "u-admin")
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}
