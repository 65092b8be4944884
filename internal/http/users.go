package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"devconnector/internal/service"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, badBody(err))
		return
	}

	session, err := h.auth.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": session.Token})
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, badBody(err))
		return
	}

	session, err := h.auth.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": session.Token})
}

func (h *Handler) currentUser(c *gin.Context) {
	user, err := h.auth.CurrentUser(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, userToResponse(*user))
}

func (h *Handler) uploadAvatar(c *gin.Context) {
	// leave headroom for multipart framing around the file itself
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxAvatarBytes+64<<10)

	header, err := c.FormFile("avatar")
	if err != nil {
		var tooLarge *http.MaxBytesError
		msg := "Avatar file is required"
		if errors.As(err, &tooLarge) {
			msg = "Avatar file is too large"
		}
		h.fail(c, &service.ValidationError{Fields: []service.FieldError{{Field: "avatar", Message: msg}}})
		return
	}

	file, err := header.Open()
	if err != nil {
		h.fail(c, err)
		return
	}
	defer file.Close()

	result, err := h.avatars.Upload(c.Request.Context(), currentUser(c).ID, service.AvatarUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := gin.H{"user": userToResponse(*result.User)}
	if len(result.Warnings) > 0 {
		resp["warnings"] = result.Warnings
	}
	c.JSON(http.StatusOK, resp)
}
