package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chirp/middleware"
)

func (h *handler) toggleFollow(c *gin.Context) {
	res, err := h.svc.Graph.ToggleFollow(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *handler) followers(c *gin.Context) {
	out, err := h.svc.Graph.Followers(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *handler) following(c *gin.Context) {
	out, err := h.svc.Graph.Following(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
