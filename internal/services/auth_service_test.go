package services_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"sendr/internal/domain"
	"sendr/internal/repos"
	"sendr/internal/services"
)

func TestAuthService_RegisterAndLogin(t *testing.T) {
	db := memdb(t)
	svc := &services.AuthService{Users: repos.NewUserRepo(db)}

	u, err := svc.RegisterCustomer("sess-1", "Asha", "asha@example.com", "9000000002", "Passw0rd!")
	require.NoError(t, err)
	require.Equal(t, domain.RoleCustomer, u.Role)

	// registration binds the session
	cur, err := svc.CurrentUser("sess-1")
	require.NoError(t, err)
	require.Equal(t, u.ID, cur.ID)

	// fresh session login
	got, err := svc.Login("sess-2", "asha@example.com", "Passw0rd!")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	// email lookup is case-insensitive
	_, err = svc.Login("sess-3", "ASHA@example.com", "Passw0rd!")
	require.NoError(t, err)
}

func TestAuthService_BadCredentials(t *testing.T) {
	db := memdb(t)
	svc := &services.AuthService{Users: repos.NewUserRepo(db)}

	_, err := svc.RegisterCustomer("sess-1", "Asha", "asha@example.com", "", "Passw0rd!")
	require.NoError(t, err)

	_, err = svc.Login("sess-2", "asha@example.com", "wrong-password")
	require.ErrorIs(t, err, services.ErrBadCreds)

	_, err = svc.Login("sess-2", "nobody@example.com", "Passw0rd!")
	require.ErrorIs(t, err, services.ErrBadCreds)
}

func TestAuthService_Logout(t *testing.T) {
	db := memdb(t)
	svc := &services.AuthService{Users: repos.NewUserRepo(db)}

	_, err := svc.RegisterCustomer("sess-1", "Asha", "asha@example.com", "", "Passw0rd!")
	require.NoError(t, err)

	require.NoError(t, svc.Logout("sess-1"))
	_, err = svc.CurrentUser("sess-1")
	require.Error(t, err)
}
