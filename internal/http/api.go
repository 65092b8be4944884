package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"devconnector/internal/service"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	auth     service.AuthService
	profiles service.ProfileService
	posts    service.PostService
	avatars  service.AvatarService
	log      *logrus.Logger

	maxAvatarBytes int64
}

func NewHandler(
	auth service.AuthService,
	profiles service.ProfileService,
	posts service.PostService,
	avatars service.AvatarService,
	logger *logrus.Logger,
	maxAvatarBytes int64,
) *Handler {
	if logger == nil {
		logger = logrus.New()
	}
	if maxAvatarBytes <= 0 {
		maxAvatarBytes = 2 << 20
	}
	return &Handler{
		auth:           auth,
		profiles:       profiles,
		posts:          posts,
		avatars:        avatars,
		log:            logger,
		maxAvatarBytes: maxAvatarBytes,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(requestLogger(h.log), corsMiddleware())

	api := router.Group("/api")
	{
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})

		api.POST("/users", h.register)
		api.POST("/auth", h.login)

		api.GET("/profile", h.listProfiles)
		api.GET("/profile/user/:user_id", h.getProfileByUser)
	}

	gated := api.Group("", h.requireAuth())
	{
		gated.GET("/auth", h.currentUser)
		gated.PUT("/users/avatar", h.uploadAvatar)

		gated.GET("/profile/me", h.myProfile)
		gated.POST("/profile", h.upsertProfile)
		gated.PUT("/profile/experience", h.addExperience)
		gated.DELETE("/profile/experience/:exp_id", h.removeExperience)
		gated.PUT("/profile/education", h.addEducation)
		gated.DELETE("/profile/education/:edu_id", h.removeEducation)

		gated.GET("/posts", h.listPosts)
		gated.GET("/posts/:id", h.getPost)
		gated.POST("/posts", h.createPost)
		gated.DELETE("/posts/:id", h.deletePost)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-Auth-Token")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := logger.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
			"ip":      c.ClientIP(),
		})
		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			entry.Error("request failed")
		case status >= http.StatusBadRequest:
			entry.Warn("request rejected")
		default:
			entry.Info("request handled")
		}
	}
}
