package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"devconnector/internal/auth"
)

func TestNewAuthService_RejectsBadCost(t *testing.T) {
	store := newTestStore(t)
	_, err := NewAuthService(store.users, store.tokens, AuthConfig{BcryptCost: bcrypt.MaxCost + 1})
	assert.Error(t, err)
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	svc := store.authService(t)

	session, err := svc.Register(ctx, "  Ada Lovelace ", " Ada@Example.com ", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, "Ada Lovelace", session.User.Name)
	assert.Equal(t, "ada@example.com", session.User.Email)
	assert.Empty(t, session.User.PasswordHash)
	assert.Equal(t, GravatarURL("ada@example.com"), session.User.Avatar)

	stored, err := store.users.GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret123")))

	id, err := store.tokens.Parse(session.Token)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, id)
}

func TestRegister_Validation(t *testing.T) {
	svc := newTestStore(t).authService(t)

	_, err := svc.Register(context.Background(), " ", "not-an-email", "123")
	require.ErrorIs(t, err, ErrValidation)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	fields := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		fields = append(fields, f.Field)
	}
	assert.ElementsMatch(t, []string{"name", "email", "password"}, fields)
}

func TestRegister_DuplicateKeepsFirstUser(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	svc := store.authService(t)
	first := store.register(t, "Ada", "ada@example.com")

	_, err := svc.Register(ctx, "Impostor", "ADA@example.com", "other-password")
	require.ErrorIs(t, err, ErrDuplicateUser)

	stored, err := store.users.GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, stored.ID)
	assert.Equal(t, "Ada", stored.Name)

	_, err = svc.Authenticate(ctx, "ada@example.com", "secret123")
	assert.NoError(t, err)
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	svc := store.authService(t)
	registered := store.register(t, "Ada", "ada@example.com")

	session, err := svc.Authenticate(ctx, "ADA@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, session.User.ID)

	user, err := svc.ValidateToken(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, user.ID)
	assert.Empty(t, user.PasswordHash)
}

func TestAuthenticate_FailuresAreIndistinguishable(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	svc := store.authService(t)
	store.register(t, "Ada", "ada@example.com")

	_, wrongPassword := svc.Authenticate(ctx, "ada@example.com", "wrong-password")
	_, unknownEmail := svc.Authenticate(ctx, "nobody@example.com", "secret123")

	require.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	require.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestAuthenticate_MissingFields(t *testing.T) {
	svc := newTestStore(t).authService(t)
	_, err := svc.Authenticate(context.Background(), "", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestValidateToken_Rejects(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	svc := store.authService(t)

	_, err := svc.ValidateToken(ctx, "garbage")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	other, err := auth.NewTokens(auth.Config{Secret: "another-secret", Issuer: "devconnector"})
	require.NoError(t, err)
	forged, err := other.Issue(1)
	require.NoError(t, err)
	_, err = svc.ValidateToken(ctx, forged)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	orphan, err := store.tokens.Issue(4242)
	require.NoError(t, err)
	_, err = svc.ValidateToken(ctx, orphan)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestCurrentUser(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	svc := store.authService(t)
	session := store.register(t, "Ada", "ada@example.com")

	user, err := svc.CurrentUser(ctx, session.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.Name)
	assert.Empty(t, user.PasswordHash)

	_, err = svc.CurrentUser(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGravatarURL(t *testing.T) {
	assert.Equal(t,
		"https://www.gravatar.com/avatar/0bc83cb571cd1c50ba6f3e8a78ef1346?s=200&r=pg&d=mm",
		GravatarURL(" MyEmailAddress@example.com "),
	)
}
