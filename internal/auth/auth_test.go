package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthenticator() *SimulatedAuthenticator {
	a := NewSimulatedAuthenticator()
	a.cost = bcrypt.MinCost
	return a
}

func TestLogin_DerivesUserFromEmail(t *testing.T) {
	a := newTestAuthenticator()

	u, err := a.Login(context.Background(), "jane.doe@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "jane.doe", u.Name)
	assert.Equal(t, RoleUser, u.Role)
	assert.Equal(t, "https://picsum.photos/seed/jane.doe@example.com/100", u.Avatar)
	assert.Len(t, u.ID, 9)
	assert.False(t, u.IsAdmin())
}

func TestLogin_AdminEmail(t *testing.T) {
	a := newTestAuthenticator()

	u, err := a.Login(context.Background(), "admin@eco.io", "x")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, u.Role)
	assert.True(t, u.IsAdmin())
}

func TestLogin_Validation(t *testing.T) {
	a := newTestAuthenticator()

	_, err := a.Login(context.Background(), "not-an-email", "x")
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = a.Login(context.Background(), "a@b.co", "")
	assert.ErrorIs(t, err, ErrMissingPassword)
}

func TestSignUp_ThenLogin(t *testing.T) {
	a := newTestAuthenticator()
	ctx := context.Background()

	created, err := a.SignUp(ctx, "Store Manager", "boss@shop.com", "hunter22", RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, "Store Manager", created.Name)
	assert.Equal(t, RoleAdmin, created.Role)

	u, err := a.Login(ctx, "BOSS@shop.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, created.ID, u.ID)
	assert.Equal(t, "Store Manager", u.Name)
	assert.Equal(t, RoleAdmin, u.Role)

	_, err = a.Login(ctx, "boss@shop.com", "wrong")
	assert.ErrorIs(t, err, ErrBadCredentials)

	_, err = a.SignUp(ctx, "Other", "boss@shop.com", "pw", RoleUser)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestSignUp_Validation(t *testing.T) {
	a := newTestAuthenticator()
	ctx := context.Background()

	_, err := a.SignUp(ctx, " ", "a@b.co", "pw", RoleUser)
	assert.ErrorIs(t, err, ErrMissingName)

	_, err = a.SignUp(ctx, "A", "a@b.co", "pw", Role("OWNER"))
	assert.ErrorIs(t, err, ErrInvalidRole)

	_, err = a.SignUp(ctx, "A", "nope", "pw", RoleUser)
	assert.ErrorIs(t, err, ErrInvalidEmail)
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("admin")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, r)

	r, err = ParseRole(" USER ")
	require.NoError(t, err)
	assert.Equal(t, RoleUser, r)

	_, err = ParseRole("root")
	assert.ErrorIs(t, err, ErrInvalidRole)
}
