package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"devconnector/internal/service"
)

type createPostRequest struct {
	Text   string `json:"text"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

func (h *Handler) listPosts(c *gin.Context) {
	posts, err := h.posts.ListByOwner(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := make([]PostResponse, len(posts))
	for i := range posts {
		resp[i] = postToResponse(posts[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getPost(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		h.fail(c, service.ErrNotFound)
		return
	}

	post, err := h.posts.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, postToResponse(*post))
}

func (h *Handler) createPost(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, badBody(err))
		return
	}

	post, err := h.posts.Create(c.Request.Context(), currentUser(c).ID, service.PostInput{
		Text:   req.Text,
		Name:   req.Name,
		Avatar: req.Avatar,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, postToResponse(*post))
}

func (h *Handler) deletePost(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		h.fail(c, service.ErrNotFound)
		return
	}

	post, err := h.posts.Delete(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, postToResponse(*post))
}

func postID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
