package http

import (
	"time"

	"devconnector/internal/domain"
)

type UserResponse struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Avatar string `json:"avatar"`
	Date   string `json:"date,omitempty"`
}

type SocialResponse struct {
	YouTube   string `json:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}

type ExperienceResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Company     string  `json:"company"`
	Location    string  `json:"location"`
	From        string  `json:"from"`
	To          *string `json:"to"`
	Current     bool    `json:"current"`
	Description string  `json:"description"`
}

type EducationResponse struct {
	ID           string  `json:"id"`
	School       string  `json:"school"`
	Degree       string  `json:"degree"`
	FieldOfStudy string  `json:"fieldofstudy"`
	From         string  `json:"from"`
	To           *string `json:"to"`
	Current      bool    `json:"current"`
	Description  string  `json:"description"`
}

type ProfileResponse struct {
	User           UserResponse         `json:"user"`
	Handle         string               `json:"handle"`
	Company        string               `json:"company"`
	Website        string               `json:"website"`
	Location       string               `json:"location"`
	Bio            string               `json:"bio"`
	Status         string               `json:"status"`
	GithubUsername string               `json:"githubusername"`
	Skills         []string             `json:"skills"`
	Social         SocialResponse       `json:"social"`
	Experience     []ExperienceResponse `json:"experience"`
	Education      []EducationResponse  `json:"education"`
	Date           string               `json:"date"`
}

type PostResponse struct {
	ID     int64  `json:"id"`
	User   int64  `json:"user"`
	Text   string `json:"text"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Date   string `json:"date"`
}

func userToResponse(user domain.User) UserResponse {
	resp := UserResponse{
		ID:     user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Avatar: user.Avatar,
	}
	if !user.CreatedAt.IsZero() {
		resp.Date = user.CreatedAt.Format(time.RFC3339)
	}
	return resp
}

func profileToResponse(profile domain.Profile) ProfileResponse {
	resp := ProfileResponse{
		User: UserResponse{
			ID:     profile.Owner.ID,
			Name:   profile.Owner.Name,
			Avatar: profile.Owner.Avatar,
		},
		Handle:         profile.Handle,
		Company:        profile.Company,
		Website:        profile.Website,
		Location:       profile.Location,
		Bio:            profile.Bio,
		Status:         profile.Status,
		GithubUsername: profile.GithubUsername,
		Skills:         profile.Skills,
		Social:         SocialResponse(profile.Social),
		Experience:     make([]ExperienceResponse, len(profile.Experience)),
		Education:      make([]EducationResponse, len(profile.Education)),
		Date:           profile.CreatedAt.Format(time.RFC3339),
	}
	if resp.Skills == nil {
		resp.Skills = []string{}
	}

	for i, exp := range profile.Experience {
		resp.Experience[i] = ExperienceResponse{
			ID:          exp.ID,
			Title:       exp.Title,
			Company:     exp.Company,
			Location:    exp.Location,
			From:        formatDate(exp.From),
			To:          formatDatePtr(exp.To),
			Current:     exp.Current,
			Description: exp.Description,
		}
	}
	for i, edu := range profile.Education {
		resp.Education[i] = EducationResponse{
			ID:           edu.ID,
			School:       edu.School,
			Degree:       edu.Degree,
			FieldOfStudy: edu.FieldOfStudy,
			From:         formatDate(edu.From),
			To:           formatDatePtr(edu.To),
			Current:      edu.Current,
			Description:  edu.Description,
		}
	}
	return resp
}

func postToResponse(post domain.Post) PostResponse {
	return PostResponse{
		ID:     post.ID,
		User:   post.UserID,
		Text:   post.Text,
		Name:   post.Name,
		Avatar: post.Avatar,
		Date:   post.CreatedAt.Format(time.RFC3339),
	}
}

func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := formatDate(*t)
	return &v
}
