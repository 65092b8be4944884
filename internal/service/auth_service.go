package service

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"devconnector/internal/auth"
	"devconnector/internal/domain"
	"devconnector/internal/repository"
)

// MinPasswordLength is the shortest secret accepted at registration.
const MinPasswordLength = 6

// AuthConfig tunes credential hashing.
type AuthConfig struct {
	BcryptCost int
}

// Session is the outcome of a successful registration or login.
type Session struct {
	User  *domain.User
	Token string
}

// AuthService describes registration, login and token-gated identity lookup.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*Session, error)
	Authenticate(ctx context.Context, email, password string) (*Session, error)
	ValidateToken(ctx context.Context, token string) (*domain.User, error)
	CurrentUser(ctx context.Context, id int64) (*domain.User, error)
}

type authService struct {
	users  repository.UserRepository
	tokens *auth.Tokens
	cost   int

	// compared against when the email is unknown so both failure paths cost one bcrypt run
	dummyHash []byte
}

func NewAuthService(users repository.UserRepository, tokens *auth.Tokens, cfg AuthConfig) (AuthService, error) {
	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte("devconnector-dummy-secret"), cost)
	if err != nil {
		return nil, fmt.Errorf("hash dummy password: %w", err)
	}

	return &authService{
		users:     users,
		tokens:    tokens,
		cost:      cost,
		dummyHash: dummy,
	}, nil
}

func (s *authService) Register(ctx context.Context, name, email, password string) (*Session, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	var v validator
	v.check(name != "", "name", "Name is required")
	v.check(validEmail(email), "email", "Please include a valid email")
	v.check(len(password) >= MinPasswordLength, "password",
		fmt.Sprintf("Please enter a password with %d or more characters", MinPasswordLength))
	if err := v.err(); err != nil {
		return nil, err
	}

	_, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, ErrDuplicateUser
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Avatar:       GravatarURL(email),
	}
	if _, err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateUser
		}
		return nil, err
	}

	return s.session(user)
}

func (s *authService) Authenticate(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)

	var v validator
	v.check(email != "", "email", "Email is required")
	v.check(password != "", "password", "Password is required")
	if err := v.err(); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.session(user)
}

func (s *authService) ValidateToken(ctx context.Context, token string) (*domain.User, error) {
	id, err := s.tokens.Parse(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("lookup token user: %w", err)
	}
	return sanitizeUser(user), nil
}

func (s *authService) CurrentUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *authService) session(user *domain.User) (*Session, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &Session{User: sanitizeUser(user), Token: token}, nil
}

// GravatarURL derives the default avatar for an email address.
func GravatarURL(email string) string {
	sum := md5.Sum([]byte(normalizeEmail(email)))
	return "https://www.gravatar.com/avatar/" + hex.EncodeToString(sum[:]) + "?s=200&r=pg&d=mm"
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	return &domain.User{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Avatar:    user.Avatar,
		CreatedAt: user.CreatedAt,
	}
}
