package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"devconnector/internal/service"
)

type profileRequest struct {
	Handle         *string `json:"handle"`
	Company        *string `json:"company"`
	Website        *string `json:"website"`
	Location       *string `json:"location"`
	Bio            *string `json:"bio"`
	Status         *string `json:"status"`
	GithubUsername *string `json:"githubusername"`
	Skills         *string `json:"skills"`
	YouTube        *string `json:"youtube"`
	Twitter        *string `json:"twitter"`
	Facebook       *string `json:"facebook"`
	LinkedIn       *string `json:"linkedin"`
	Instagram      *string `json:"instagram"`
}

type experienceRequest struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	From        string `json:"from"`
	To          string `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

type educationRequest struct {
	School       string `json:"school"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"fieldofstudy"`
	From         string `json:"from"`
	To           string `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

func (h *Handler) myProfile(c *gin.Context) {
	profile, err := h.profiles.Get(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, profileToResponse(*profile))
}

func (h *Handler) listProfiles(c *gin.Context) {
	profiles, err := h.profiles.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := make([]ProfileResponse, len(profiles))
	for i := range profiles {
		resp[i] = profileToResponse(profiles[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getProfileByUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil || id <= 0 {
		h.fail(c, service.ErrProfileNotFound)
		return
	}

	profile, err := h.profiles.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, profileToResponse(*profile))
}

func (h *Handler) upsertProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, badBody(err))
		return
	}

	profile, err := h.profiles.Upsert(c.Request.Context(), currentUser(c).ID, service.ProfileInput{
		Handle:         req.Handle,
		Company:        req.Company,
		Website:        req.Website,
		Location:       req.Location,
		Bio:            req.Bio,
		Status:         req.Status,
		GithubUsername: req.GithubUsername,
		Skills:         req.Skills,
		Social: service.SocialInput{
			YouTube:   req.YouTube,
			Twitter:   req.Twitter,
			Facebook:  req.Facebook,
			LinkedIn:  req.LinkedIn,
			Instagram: req.Instagram,
		},
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, profileToResponse(*profile))
}

func (h *Handler) addExperience(c *gin.Context) {
	var req experienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, badBody(err))
		return
	}

	from, to, err := parsePeriod(req.From, req.To)
	if err != nil {
		h.fail(c, err)
		return
	}

	profile, err := h.profiles.AddExperience(c.Request.Context(), currentUser(c).ID, service.ExperienceInput{
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		From:        from,
		To:          to,
		Current:     req.Current,
		Description: req.Description,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, profileToResponse(*profile))
}

func (h *Handler) removeExperience(c *gin.Context) {
	profile, err := h.profiles.RemoveExperience(c.Request.Context(), currentUser(c).ID, c.Param("exp_id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, profileToResponse(*profile))
}

func (h *Handler) addEducation(c *gin.Context) {
	var req educationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, badBody(err))
		return
	}

	from, to, err := parsePeriod(req.From, req.To)
	if err != nil {
		h.fail(c, err)
		return
	}

	profile, err := h.profiles.AddEducation(c.Request.Context(), currentUser(c).ID, service.EducationInput{
		School:       req.School,
		Degree:       req.Degree,
		FieldOfStudy: req.FieldOfStudy,
		From:         from,
		To:           to,
		Current:      req.Current,
		Description:  req.Description,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, profileToResponse(*profile))
}

func (h *Handler) removeEducation(c *gin.Context) {
	profile, err := h.profiles.RemoveEducation(c.Request.Context(), currentUser(c).ID, c.Param("edu_id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, profileToResponse(*profile))
}

var dateLayouts = []string{"2006-01-02", time.RFC3339}

// parsePeriod parses the from/to pair of an entry. A blank from is left zero
// for the service to reject; a blank to means the entry is open ended.
func parsePeriod(fromRaw, toRaw string) (time.Time, *time.Time, error) {
	var fields []service.FieldError

	from, ok := parseDate(fromRaw)
	if !ok {
		fields = append(fields, service.FieldError{Field: "from", Message: "From must be a date (YYYY-MM-DD)"})
	}

	var to *time.Time
	if strings.TrimSpace(toRaw) != "" {
		if t, ok := parseDate(toRaw); ok {
			to = &t
		} else {
			fields = append(fields, service.FieldError{Field: "to", Message: "To must be a date (YYYY-MM-DD)"})
		}
	}

	if len(fields) > 0 {
		return time.Time{}, nil, &service.ValidationError{Fields: fields}
	}
	return from, to, nil
}

func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
