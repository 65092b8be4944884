package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"devconnector/internal/domain"
	"devconnector/internal/repository"
)

// ProfileInput is a partial profile update. Nil or blank fields are left
// untouched on update and empty on create.
type ProfileInput struct {
	Handle         *string
	Company        *string
	Website        *string
	Location       *string
	Bio            *string
	Status         *string
	GithubUsername *string

	// Skills is a raw comma separated list, e.g. "go, rust".
	Skills *string
	Social SocialInput
}

// SocialInput carries the optional per-network links of a ProfileInput.
type SocialInput struct {
	YouTube   *string
	Twitter   *string
	Facebook  *string
	LinkedIn  *string
	Instagram *string
}

// ExperienceInput describes a new experience entry.
type ExperienceInput struct {
	Title       string
	Company     string
	Location    string
	From        time.Time
	To          *time.Time
	Current     bool
	Description string
}

// EducationInput describes a new education entry.
type EducationInput struct {
	School       string
	Degree       string
	FieldOfStudy string
	From         time.Time
	To           *time.Time
	Current      bool
	Description  string
}

// ProfileService coordinates profile upserts and nested collection edits.
type ProfileService interface {
	Get(ctx context.Context, userID int64) (*domain.Profile, error)
	List(ctx context.Context) ([]domain.Profile, error)
	Upsert(ctx context.Context, userID int64, in ProfileInput) (*domain.Profile, error)
	AddExperience(ctx context.Context, userID int64, in ExperienceInput) (*domain.Profile, error)
	RemoveExperience(ctx context.Context, userID int64, entryID string) (*domain.Profile, error)
	AddEducation(ctx context.Context, userID int64, in EducationInput) (*domain.Profile, error)
	RemoveEducation(ctx context.Context, userID int64, entryID string) (*domain.Profile, error)
}

type profileService struct {
	profiles repository.ProfileRepository
	newID    func() string
}

func NewProfileService(profiles repository.ProfileRepository) ProfileService {
	return &profileService{
		profiles: profiles,
		newID:    uuid.NewString,
	}
}

func (s *profileService) Get(ctx context.Context, userID int64) (*domain.Profile, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

func (s *profileService) List(ctx context.Context) ([]domain.Profile, error) {
	return s.profiles.List(ctx)
}

func (s *profileService) Upsert(ctx context.Context, userID int64, in ProfileInput) (*domain.Profile, error) {
	if userID <= 0 {
		return nil, &ValidationError{Fields: []FieldError{{Field: "user", Message: "User is required"}}}
	}

	return s.profiles.Mutate(ctx, userID, func(p *domain.Profile, _ bool) error {
		set(&p.Handle, in.Handle)
		set(&p.Company, in.Company)
		set(&p.Website, in.Website)
		set(&p.Location, in.Location)
		set(&p.Bio, in.Bio)
		set(&p.Status, in.Status)
		set(&p.GithubUsername, in.GithubUsername)
		if in.Skills != nil && strings.TrimSpace(*in.Skills) != "" {
			p.Skills = ParseSkills(*in.Skills)
		}

		set(&p.Social.YouTube, in.Social.YouTube)
		set(&p.Social.Twitter, in.Social.Twitter)
		set(&p.Social.Facebook, in.Social.Facebook)
		set(&p.Social.LinkedIn, in.Social.LinkedIn)
		set(&p.Social.Instagram, in.Social.Instagram)
		return nil
	})
}

func (s *profileService) AddExperience(ctx context.Context, userID int64, in ExperienceInput) (*domain.Profile, error) {
	return s.profiles.Mutate(ctx, userID, func(p *domain.Profile, existing bool) error {
		if !existing {
			return ErrProfileNotFound
		}

		in.Title = strings.TrimSpace(in.Title)
		in.Company = strings.TrimSpace(in.Company)

		var v validator
		v.check(in.Title != "", "title", "Title is required")
		v.check(in.Company != "", "company", "Company is required")
		checkPeriod(&v, in.From, in.To)
		if err := v.err(); err != nil {
			return err
		}

		entry := domain.Experience{
			ID:          s.newID(),
			Title:       in.Title,
			Company:     in.Company,
			Location:    strings.TrimSpace(in.Location),
			From:        in.From.UTC(),
			To:          utcPtr(in.To),
			Current:     in.Current,
			Description: strings.TrimSpace(in.Description),
		}
		p.Experience = append([]domain.Experience{entry}, p.Experience...)
		return nil
	})
}

func (s *profileService) RemoveExperience(ctx context.Context, userID int64, entryID string) (*domain.Profile, error) {
	return s.profiles.Mutate(ctx, userID, func(p *domain.Profile, existing bool) error {
		if !existing {
			return ErrProfileNotFound
		}
		for i := range p.Experience {
			if p.Experience[i].ID == entryID {
				p.Experience = append(p.Experience[:i:i], p.Experience[i+1:]...)
				return nil
			}
		}
		return ErrEntryNotFound
	})
}

func (s *profileService) AddEducation(ctx context.Context, userID int64, in EducationInput) (*domain.Profile, error) {
	return s.profiles.Mutate(ctx, userID, func(p *domain.Profile, existing bool) error {
		if !existing {
			return ErrProfileNotFound
		}

		in.School = strings.TrimSpace(in.School)
		in.Degree = strings.TrimSpace(in.Degree)
		in.FieldOfStudy = strings.TrimSpace(in.FieldOfStudy)

		var v validator
		v.check(in.School != "", "school", "School is required")
		v.check(in.Degree != "", "degree", "Degree is required")
		v.check(in.FieldOfStudy != "", "fieldofstudy", "Field of study is required")
		checkPeriod(&v, in.From, in.To)
		if err := v.err(); err != nil {
			return err
		}

		entry := domain.Education{
			ID:           s.newID(),
			School:       in.School,
			Degree:       in.Degree,
			FieldOfStudy: in.FieldOfStudy,
			From:         in.From.UTC(),
			To:           utcPtr(in.To),
			Current:      in.Current,
			Description:  strings.TrimSpace(in.Description),
		}
		p.Education = append([]domain.Education{entry}, p.Education...)
		return nil
	})
}

func (s *profileService) RemoveEducation(ctx context.Context, userID int64, entryID string) (*domain.Profile, error) {
	return s.profiles.Mutate(ctx, userID, func(p *domain.Profile, existing bool) error {
		if !existing {
			return ErrProfileNotFound
		}
		for i := range p.Education {
			if p.Education[i].ID == entryID {
				p.Education = append(p.Education[:i:i], p.Education[i+1:]...)
				return nil
			}
		}
		return ErrEntryNotFound
	})
}

// ParseSkills splits a comma separated list, trimming entries and dropping empty ones.
func ParseSkills(raw string) []string {
	skills := []string{}
	for _, skill := range strings.Split(raw, ",") {
		if skill = strings.TrimSpace(skill); skill != "" {
			skills = append(skills, skill)
		}
	}
	return skills
}

func set(dst *string, src *string) {
	if src == nil {
		return
	}
	if v := strings.TrimSpace(*src); v != "" {
		*dst = v
	}
}

func checkPeriod(v *validator, from time.Time, to *time.Time) {
	v.check(!from.IsZero(), "from", "From date is required")
	if to != nil && !from.IsZero() {
		v.check(!to.Before(from), "to", "To date must not be before from date")
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
