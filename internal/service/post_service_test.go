package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devconnector/internal/domain"
)

func TestPostCreate_SnapshotsAuthor(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	session := store.register(t, "Ada", "ada@example.com")
	svc := NewPostService(store.posts, store.users)

	post, err := svc.Create(ctx, session.User.ID, PostInput{Text: "  hello world  "})
	require.NoError(t, err)
	assert.Positive(t, post.ID)
	assert.Equal(t, session.User.ID, post.UserID)
	assert.Equal(t, "hello world", post.Text)
	assert.Equal(t, "Ada", post.Name)
	assert.Equal(t, session.User.Avatar, post.Avatar)

	// later avatar changes do not rewrite the snapshot
	require.NoError(t, store.users.UpdateAvatar(ctx, session.User.ID, "https://cdn.example/new.png"))
	stored, err := svc.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, session.User.Avatar, stored.Avatar)

	custom, err := svc.Create(ctx, session.User.ID, PostInput{Text: "x", Name: "Countess", Avatar: "c.png"})
	require.NoError(t, err)
	assert.Equal(t, "Countess", custom.Name)
	assert.Equal(t, "c.png", custom.Avatar)
}

func TestPostCreate_Validation(t *testing.T) {
	store := newTestStore(t)
	session := store.register(t, "Ada", "ada@example.com")
	svc := NewPostService(store.posts, store.users)

	_, err := svc.Create(context.Background(), session.User.ID, PostInput{Text: "   "})
	require.ErrorIs(t, err, ErrValidation)

	posts, err := svc.ListByOwner(context.Background(), session.User.ID)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestPostCreate_UnknownAuthor(t *testing.T) {
	store := newTestStore(t)
	svc := NewPostService(store.posts, store.users)

	_, err := svc.Create(context.Background(), 999, PostInput{Text: "hi"})
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestPostListByOwner_NewestFirst(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	ada := store.register(t, "Ada", "ada@example.com")
	bob := store.register(t, "Bob", "bob@example.com")
	svc := NewPostService(store.posts, store.users)

	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	for i, text := range []string{"one", "two"} {
		_, err := store.posts.Create(ctx, &domain.Post{UserID: ada.User.ID, Text: text, CreatedAt: base.Add(time.Duration(i) * time.Second)})
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, bob.User.ID, PostInput{Text: "bob's"})
	require.NoError(t, err)

	posts, err := svc.ListByOwner(ctx, ada.User.ID)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "two", posts[0].Text)
	assert.Equal(t, "one", posts[1].Text)
}

func TestPostGetAndDelete(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	session := store.register(t, "Ada", "ada@example.com")
	svc := NewPostService(store.posts, store.users)

	_, err := svc.Get(ctx, 1)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Delete(ctx, 1)
	require.ErrorIs(t, err, ErrNotFound)

	post, err := svc.Create(ctx, session.User.ID, PostInput{Text: "bye"})
	require.NoError(t, err)

	removed, err := svc.Delete(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "bye", removed.Text)

	_, err = svc.Get(ctx, post.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
