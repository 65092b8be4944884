package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"devconnector/internal/domain"
	"devconnector/internal/repository"
)

// PostInput is the content of a new post. Blank Name or Avatar are filled
// from the author's user record.
type PostInput struct {
	Text   string
	Name   string
	Avatar string
}

// PostService covers creating, reading and deleting posts.
type PostService interface {
	Create(ctx context.Context, userID int64, in PostInput) (*domain.Post, error)
	ListByOwner(ctx context.Context, userID int64) ([]domain.Post, error)
	Get(ctx context.Context, id int64) (*domain.Post, error)
	Delete(ctx context.Context, id int64) (*domain.Post, error)
}

type postService struct {
	posts repository.PostRepository
	users repository.UserRepository
}

func NewPostService(posts repository.PostRepository, users repository.UserRepository) PostService {
	return &postService{
		posts: posts,
		users: users,
	}
}

func (s *postService) Create(ctx context.Context, userID int64, in PostInput) (*domain.Post, error) {
	text := strings.TrimSpace(in.Text)

	var v validator
	v.check(text != "", "text", "Text is required")
	if err := v.err(); err != nil {
		return nil, err
	}

	post := &domain.Post{
		UserID: userID,
		Text:   text,
		Name:   strings.TrimSpace(in.Name),
		Avatar: strings.TrimSpace(in.Avatar),
	}
	if post.Name == "" || post.Avatar == "" {
		author, err := s.users.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrUnauthenticated
			}
			return nil, fmt.Errorf("lookup author: %w", err)
		}
		if post.Name == "" {
			post.Name = author.Name
		}
		if post.Avatar == "" {
			post.Avatar = author.Avatar
		}
	}

	if _, err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *postService) ListByOwner(ctx context.Context, userID int64) ([]domain.Post, error) {
	return s.posts.ListByUser(ctx, userID)
}

func (s *postService) Get(ctx context.Context, id int64) (*domain.Post, error) {
	post, err := s.posts.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return post, nil
}

func (s *postService) Delete(ctx context.Context, id int64) (*domain.Post, error) {
	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.posts.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return post, nil
}
