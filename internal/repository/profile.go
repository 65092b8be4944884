package repository

import (
	"context"

	"devconnector/internal/domain"
)

// MutateFunc edits a profile in place. existing is false when no profile was
// stored for the user; in that case p holds only the UserID. Returning an
// error aborts the mutation and nothing is written.
type MutateFunc func(p *domain.Profile, existing bool) error

// ProfileRepository manages Profile aggregates, including their embedded
// experience and education collections.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*domain.Profile, error)
	List(ctx context.Context) ([]domain.Profile, error)
	// Mutate runs a read-modify-write of one profile atomically and returns
	// the stored result.
	Mutate(ctx context.Context, userID int64, fn MutateFunc) (*domain.Profile, error)
}
