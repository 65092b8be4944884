package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"devconnector/internal/domain"
	"devconnector/internal/repository"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (int64, error) {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	res, err := r.db.ExecContext(ctx, `
INSERT INTO users (name, email, password_hash, avatar, created_at)
VALUES (?, ?, ?, ?, ?)`,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Avatar,
		user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("insert user: %w", repository.ErrDuplicate)
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("user last insert id: %w", err)
	}
	user.ID = id
	return id, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, name, email, password_hash, avatar, created_at
FROM users
WHERE email = ?`,
		email,
	)
	return scanUser(row)
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, name, email, password_hash, avatar, created_at
FROM users
WHERE id = ?`,
		id,
	)
	return scanUser(row)
}

func (r *UserRepository) UpdateAvatar(ctx context.Context, id int64, avatar string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET avatar=? WHERE id=?`, avatar, id)
	if err != nil {
		return fmt.Errorf("update avatar: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("avatar update rows affected: %w", err)
	}
	if aff == 0 {
		return fmt.Errorf("user %d: %w", id, repository.ErrNotFound)
	}
	return nil
}

func scanUser(row scanner) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Avatar,
		&user.CreatedAt,
	); err != nil {
		return nil, notFound(err, "user")
	}
	user.CreatedAt = user.CreatedAt.UTC()
	return &user, nil
}
