package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"devconnector/internal/domain"
	"devconnector/internal/repository"
)

type PostRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) repository.PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(ctx context.Context, post *domain.Post) (int64, error) {
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now().UTC()
	}

	res, err := r.db.ExecContext(ctx, `
INSERT INTO posts (user_id, text, name, avatar, created_at)
VALUES (?, ?, ?, ?, ?)`,
		post.UserID,
		post.Text,
		post.Name,
		post.Avatar,
		post.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert post: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("post last insert id: %w", err)
	}
	post.ID = id
	return id, nil
}

func (r *PostRepository) Get(ctx context.Context, id int64) (*domain.Post, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, user_id, text, name, avatar, created_at
FROM posts
WHERE id=?`,
		id,
	)
	return scanPost(row)
}

func (r *PostRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Post, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, text, name, avatar, created_at
FROM posts
WHERE user_id=?
ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	posts := []domain.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}

	return posts, rows.Err()
}

func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("post delete rows affected: %w", err)
	}
	if aff == 0 {
		return fmt.Errorf("post %d: %w", id, repository.ErrNotFound)
	}
	return nil
}

func scanPost(row scanner) (*domain.Post, error) {
	var post domain.Post
	if err := row.Scan(
		&post.ID,
		&post.UserID,
		&post.Text,
		&post.Name,
		&post.Avatar,
		&post.CreatedAt,
	); err != nil {
		return nil, notFound(err, "post")
	}
	post.CreatedAt = post.CreatedAt.UTC()
	return &post, nil
}
