package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"devconnector/internal/auth"
	"devconnector/internal/repository"
	"devconnector/internal/repository/sqlite"
)

type testStore struct {
	users    repository.UserRepository
	profiles repository.ProfileRepository
	posts    repository.PostRepository
	tokens   *auth.Tokens
}

func newTestStore(t *testing.T) *testStore {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "service.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqlite.Migrate(context.Background(), db))

	tokens, err := auth.NewTokens(auth.Config{Secret: "test-secret", Issuer: "devconnector"})
	require.NoError(t, err)

	return &testStore{
		users:    sqlite.NewUserRepository(db),
		profiles: sqlite.NewProfileRepository(db),
		posts:    sqlite.NewPostRepository(db),
		tokens:   tokens,
	}
}

func (s *testStore) authService(t *testing.T) AuthService {
	t.Helper()
	svc, err := NewAuthService(s.users, s.tokens, AuthConfig{BcryptCost: bcrypt.MinCost})
	require.NoError(t, err)
	return svc
}

func (s *testStore) register(t *testing.T, name, email string) *Session {
	t.Helper()
	session, err := s.authService(t).Register(context.Background(), name, email, "secret123")
	require.NoError(t, err)
	return session
}

func strPtr(s string) *string { return &s }
