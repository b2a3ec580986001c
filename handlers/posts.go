package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chirp/middleware"
	"chirp/service"
)

type createPostRequest struct {
	Content string `json:"content" form:"content"`
}

func (h *handler) createPost(c *gin.Context) {
	var req createPostRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBind(&req); err != nil {
			h.fail(c, bindError(err))
			return
		}
	}
	content, err := service.ValidateContent(req.Content)
	if err != nil {
		h.fail(c, err)
		return
	}

	images, closeImages, err := openImages(c, "image")
	if err != nil {
		h.fail(c, err)
		return
	}
	defer closeImages()

	urls, err := h.saveImages(c, images)
	if err != nil {
		h.fail(c, err)
		return
	}
	image := urls["image"]

	post, err := h.svc.Posts.Create(c.Request.Context(), middleware.UserID(c), content, image)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (h *handler) timeline(c *gin.Context) {
	out, err := h.svc.Timeline.Get(c.Request.Context(), middleware.UserID(c), page(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *handler) getPost(c *gin.Context) {
	post, err := h.svc.Posts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *handler) deletePost(c *gin.Context) {
	if err := h.svc.Posts.Delete(c.Request.Context(), c.Param("id"), middleware.UserID(c)); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

func (h *handler) likePost(c *gin.Context) {
	post, err := h.svc.Posts.ToggleLike(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}
