package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"devconnector/internal/domain"
	"devconnector/internal/repository"
)

const selectProfile = `
SELECT p.user_id, u.name, u.avatar, p.handle, p.company, p.website, p.location, p.bio, p.status,
	p.github_username, p.skills, p.social, p.experience, p.education, p.created_at
FROM profiles p
JOIN users u ON u.id = p.user_id`

type ProfileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) repository.ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID int64) (*domain.Profile, error) {
	return getProfile(ctx, r.db, userID)
}

func (r *ProfileRepository) List(ctx context.Context) ([]domain.Profile, error) {
	rows, err := r.db.QueryContext(ctx, selectProfile+`
ORDER BY p.created_at DESC, p.user_id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query profiles: %w", err)
	}
	defer rows.Close()

	profiles := []domain.Profile{}
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *profile)
	}

	return profiles, rows.Err()
}

func (r *ProfileRepository) Mutate(ctx context.Context, userID int64, fn repository.MutateFunc) (*domain.Profile, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() // safe no-op on commit

	existing := true
	profile, err := getProfile(ctx, tx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		existing = false
		profile = &domain.Profile{UserID: userID}
	} else if err != nil {
		return nil, err
	}

	if err := fn(profile, existing); err != nil {
		return nil, err
	}
	profile.UserID = userID

	cols, err := encodeProfile(profile)
	if err != nil {
		return nil, err
	}

	if existing {
		_, err = tx.ExecContext(ctx, `
UPDATE profiles
SET handle=?, company=?, website=?, location=?, bio=?, status=?, github_username=?, skills=?, social=?, experience=?, education=?
WHERE user_id=?`,
			profile.Handle,
			profile.Company,
			profile.Website,
			profile.Location,
			profile.Bio,
			profile.Status,
			profile.GithubUsername,
			cols.skills,
			cols.social,
			cols.experience,
			cols.education,
			userID,
		)
		if err != nil {
			return nil, fmt.Errorf("update profile: %w", err)
		}
	} else {
		if profile.CreatedAt.IsZero() {
			profile.CreatedAt = time.Now().UTC()
		}
		_, err = tx.ExecContext(ctx, `
INSERT INTO profiles (user_id, handle, company, website, location, bio, status, github_username, skills, social, experience, education, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			userID,
			profile.Handle,
			profile.Company,
			profile.Website,
			profile.Location,
			profile.Bio,
			profile.Status,
			profile.GithubUsername,
			cols.skills,
			cols.social,
			cols.experience,
			cols.education,
			profile.CreatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return nil, fmt.Errorf("insert profile: %w", repository.ErrDuplicate)
			}
			return nil, fmt.Errorf("insert profile: %w", err)
		}
	}

	stored, err := getProfile(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit profile: %w", err)
	}
	return stored, nil
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getProfile(ctx context.Context, q querier, userID int64) (*domain.Profile, error) {
	row := q.QueryRowContext(ctx, selectProfile+`
WHERE p.user_id = ?`, userID)
	return scanProfile(row)
}

func scanProfile(row scanner) (*domain.Profile, error) {
	var profile domain.Profile
	var skills, social, experience, education string
	if err := row.Scan(
		&profile.UserID,
		&profile.Owner.Name,
		&profile.Owner.Avatar,
		&profile.Handle,
		&profile.Company,
		&profile.Website,
		&profile.Location,
		&profile.Bio,
		&profile.Status,
		&profile.GithubUsername,
		&skills,
		&social,
		&experience,
		&education,
		&profile.CreatedAt,
	); err != nil {
		return nil, notFound(err, "profile")
	}
	profile.Owner.ID = profile.UserID
	profile.CreatedAt = profile.CreatedAt.UTC()

	if err := json.Unmarshal([]byte(skills), &profile.Skills); err != nil {
		return nil, fmt.Errorf("decode profile skills: %w", err)
	}
	if err := json.Unmarshal([]byte(social), &profile.Social); err != nil {
		return nil, fmt.Errorf("decode profile social: %w", err)
	}
	if err := json.Unmarshal([]byte(experience), &profile.Experience); err != nil {
		return nil, fmt.Errorf("decode profile experience: %w", err)
	}
	if err := json.Unmarshal([]byte(education), &profile.Education); err != nil {
		return nil, fmt.Errorf("decode profile education: %w", err)
	}
	return &profile, nil
}

type profileColumns struct {
	skills     string
	social     string
	experience string
	education  string
}

func encodeProfile(p *domain.Profile) (profileColumns, error) {
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Experience == nil {
		p.Experience = []domain.Experience{}
	}
	if p.Education == nil {
		p.Education = []domain.Education{}
	}

	var cols profileColumns
	for _, field := range []struct {
		name string
		in   any
		out  *string
	}{
		{"skills", p.Skills, &cols.skills},
		{"social", p.Social, &cols.social},
		{"experience", p.Experience, &cols.experience},
		{"education", p.Education, &cols.education},
	} {
		b, err := json.Marshal(field.in)
		if err != nil {
			return profileColumns{}, fmt.Errorf("encode profile %s: %w", field.name, err)
		}
		*field.out = string(b)
	}
	return cols, nil
}
