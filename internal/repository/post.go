package repository

import (
	"context"

	"devconnector/internal/domain"
)

// PostRepository exposes persistence operations for posts.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) (int64, error)
	Get(ctx context.Context, id int64) (*domain.Post, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Post, error)
	Delete(ctx context.Context, id int64) error
}
