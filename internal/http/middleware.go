package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"devconnector/internal/domain"
	"devconnector/internal/service"
)

const (
	tokenHeader    = "x-auth-token"
	currentUserKey = "currentUser"
)

// requireAuth resolves the request token to a user and aborts with 401 when
// it is missing or invalid.
func (h *Handler) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := requestToken(c.Request)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "No token, authorization denied"})
			return
		}

		user, err := h.auth.ValidateToken(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, service.ErrUnauthenticated) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "Token is not valid"})
				return
			}
			h.fail(c, err)
			c.Abort()
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

func requestToken(r *http.Request) string {
	if token := strings.TrimSpace(r.Header.Get(tokenHeader)); token != "" {
		return token
	}
	authz := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(authz) > len("Bearer ") && strings.EqualFold(authz[:len("Bearer ")], "Bearer ") {
		return strings.TrimSpace(authz[len("Bearer "):])
	}
	return ""
}

// currentUser returns the user stored by requireAuth.
func currentUser(c *gin.Context) *domain.User {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*domain.User)
	return user
}

// fail writes the caller-visible outcome for err.
func (h *Handler) fail(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"errors": verr.Fields})
	case errors.Is(err, service.ErrDuplicateUser):
		c.JSON(http.StatusBadRequest, gin.H{"errors": []service.FieldError{{Field: "email", Message: "User already exists"}}})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"errors": []service.FieldError{{Message: "Invalid credentials"}}})
	case errors.Is(err, service.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "Token is not valid"})
	case errors.Is(err, service.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, gin.H{"msg": "There is no profile for this user"})
	case errors.Is(err, service.ErrEntryNotFound):
		c.JSON(http.StatusNotFound, gin.H{"msg": "Entry not found"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"msg": "Not found"})
	case errors.Is(err, service.ErrStorageUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"msg": "Avatar storage is not configured"})
	default:
		h.log.WithError(err).WithField("path", c.FullPath()).Error("server error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
	}
}

func badBody(err error) error {
	return &service.ValidationError{Fields: []service.FieldError{{Field: "body", Message: "Malformed request body: " + err.Error()}}}
}
