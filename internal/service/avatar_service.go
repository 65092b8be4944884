package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"devconnector/internal/domain"
	"devconnector/internal/repository"
	"devconnector/internal/storage"
)

// AvatarConfig controls where uploaded avatars go.
type AvatarConfig struct {
	KeyPrefix string
	MaxBytes  int64
}

// AvatarUpload is one uploaded image.
type AvatarUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// AvatarResult is the updated user plus any non-fatal cleanup problems.
type AvatarResult struct {
	User     *domain.User
	Warnings []string
}

// AvatarService replaces a user's avatar with an uploaded image.
type AvatarService interface {
	Upload(ctx context.Context, userID int64, in AvatarUpload) (*AvatarResult, error)
}

type avatarService struct {
	users   repository.UserRepository
	storage storage.Service
	cfg     AvatarConfig
}

// NewAvatarService returns a service that answers ErrStorageUnavailable when
// store is nil.
func NewAvatarService(users repository.UserRepository, store storage.Service, cfg AvatarConfig) AvatarService {
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 2 << 20
	}
	cfg.KeyPrefix = strings.Trim(cfg.KeyPrefix, "/")
	return &avatarService{
		users:   users,
		storage: store,
		cfg:     cfg,
	}
}

var avatarExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

func (s *avatarService) Upload(ctx context.Context, userID int64, in AvatarUpload) (*AvatarResult, error) {
	if s.storage == nil {
		return nil, ErrStorageUnavailable
	}

	contentType := strings.ToLower(strings.TrimSpace(in.ContentType))
	ext, supported := avatarExtensions[contentType]

	var v validator
	v.check(in.Body != nil && in.Size > 0, "avatar", "Avatar file is required")
	v.check(supported, "avatar", "Avatar must be a png, jpeg, gif or webp image")
	v.check(in.Size <= s.cfg.MaxBytes, "avatar", fmt.Sprintf("Avatar must be at most %d bytes", s.cfg.MaxBytes))
	if err := v.err(); err != nil {
		return nil, err
	}

	userPrefix := path.Join(s.cfg.KeyPrefix, strconv.FormatInt(userID, 10)) + "/"
	key := userPrefix + uuid.NewString() + ext
	url, err := s.storage.Put(ctx, storage.Object{
		Key:         key,
		ContentType: contentType,
		Size:        in.Size,
		Body:        io.LimitReader(in.Body, s.cfg.MaxBytes),
	})
	if err != nil {
		return nil, fmt.Errorf("store avatar: %w", err)
	}

	if err := s.users.UpdateAvatar(ctx, userID, url); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("reload user: %w", err)
	}

	return &AvatarResult{
		User:     sanitizeUser(user),
		Warnings: s.prune(ctx, userPrefix, key),
	}, nil
}

// prune removes earlier uploads under prefix, keeping the object at keep.
func (s *avatarService) prune(ctx context.Context, prefix, keep string) []string {
	objects, err := s.storage.ListObjects(ctx, prefix)
	if err != nil {
		return []string{fmt.Sprintf("list previous avatars: %v", err)}
	}

	var stale []string
	for _, obj := range objects {
		if obj.Key != keep {
			stale = append(stale, obj.Key)
		}
	}
	if len(stale) == 0 {
		return nil
	}
	if err := s.storage.DeleteObjects(ctx, stale...); err != nil {
		return []string{fmt.Sprintf("delete previous avatars: %v", err)}
	}
	return nil
}
