package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"user-hub/internal/repository"
	"user-hub/internal/repository/sqlite"
)

func newTestRepo(t *testing.T) repository.UserRepository {
	t.Helper()

	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := sqlite.NewUserRepository(db)
	require.NoError(t, repo.Init(context.Background()))
	return repo
}

func TestRegisterSuccess(t *testing.T) {
	repo := newTestRepo(t)
	auth := NewAuthService(repo)

	user, err := auth.Register(context.Background(), "ann@example.com", "Sup3rSecret", "Sup3rSecret")
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "ann@example.com", user.Email)
	assert.Empty(t, user.PasswordHash)

	stored, err := repo.GetByEmail(context.Background(), "ann@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "Sup3rSecret", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("Sup3rSecret")))
}

func TestRegisterMissingFields(t *testing.T) {
	auth := NewAuthService(newTestRepo(t))

	_, err := auth.Register(context.Background(), "ann@example.com", "Sup3rSecret", "")
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Equal(t, "Please fill all the required fields", err.Error())
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newTestRepo(t)
	auth := NewAuthService(repo)

	_, err := auth.Register(context.Background(), "ann@example.com", "Sup3rSecret", "Sup3rSecret")
	require.NoError(t, err)

	_, err = auth.Register(context.Background(), "ann@example.com", "Sup3rSecret", "Sup3rSecret")
	require.Error(t, err)
	assert.Equal(t, "Email already used", err.Error())
}

func TestRegisterInvalidEmail(t *testing.T) {
	auth := NewAuthService(newTestRepo(t))

	_, err := auth.Register(context.Background(), "not-an-email", "Sup3rSecret", "Sup3rSecret")
	require.Error(t, err)
	assert.Equal(t, "Email is invalid", err.Error())
}

func TestRegisterWeakPasswords(t *testing.T) {
	auth := NewAuthService(newTestRepo(t))

	for _, password := range []string{"Sh0rt", "alllowercase1", "ALLUPPERCASE1", "NoDigitsHere"} {
		_, err := auth.Register(context.Background(), "ann@example.com", password, password)
		require.Error(t, err, "password %q should be rejected", password)
		assert.Equal(t, "Password is not strong enough", err.Error())
	}
}

func TestRegisterPasswordMismatch(t *testing.T) {
	auth := NewAuthService(newTestRepo(t))

	_, err := auth.Register(context.Background(), "ann@example.com", "Sup3rSecret", "Sup3rSecre7")
	require.Error(t, err)
	assert.Equal(t, "Passwords mismatch", err.Error())
}

func TestLoginSuccess(t *testing.T) {
	repo := newTestRepo(t)
	auth := NewAuthService(repo)

	_, err := auth.Register(context.Background(), "ann@example.com", "Sup3rSecret", "Sup3rSecret")
	require.NoError(t, err)

	user, err := auth.Login(context.Background(), "ann@example.com", "Sup3rSecret")
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", user.Email)
	assert.Empty(t, user.PasswordHash)
}

func TestLoginUnknownEmail(t *testing.T) {
	auth := NewAuthService(newTestRepo(t))

	_, err := auth.Login(context.Background(), "ghost@example.com", "Sup3rSecret")
	require.Error(t, err)
	assert.Equal(t, KindAuth, KindOf(err))
	assert.Equal(t, "Incorrect email address", err.Error())
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newTestRepo(t)
	auth := NewAuthService(repo)

	_, err := auth.Register(context.Background(), "ann@example.com", "Sup3rSecret", "Sup3rSecret")
	require.NoError(t, err)

	_, err = auth.Login(context.Background(), "ann@example.com", "WrongPass1")
	require.Error(t, err)
	assert.Equal(t, KindAuth, KindOf(err))
	assert.Equal(t, "Incorrect password", err.Error())
}
