package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chirp/middleware"
	"chirp/models"
	"chirp/service"
)

type updateUserRequest struct {
	DisplayName *string `json:"displayName" form:"displayName"`
	Bio         *string `json:"bio" form:"bio"`
}

func (h *handler) getUser(c *gin.Context) {
	profile, err := h.svc.Accounts.Profile(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *handler) userPosts(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	if _, err := h.svc.Accounts.Profile(ctx, id); err != nil {
		h.fail(c, err)
		return
	}

	out, err := h.svc.Posts.ListByAuthor(ctx, id, page(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *handler) updateUser(c *gin.Context) {
	callerID, targetID := middleware.UserID(c), c.Param("id")
	if err := h.svc.Accounts.CheckEditable(callerID, targetID); err != nil {
		h.fail(c, err)
		return
	}

	var req updateUserRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBind(&req); err != nil {
			h.fail(c, bindError(err))
			return
		}
	}
	upd := models.ProfileUpdate{DisplayName: req.DisplayName, Bio: req.Bio}
	if err := service.NormalizeProfileUpdate(&upd); err != nil {
		h.fail(c, err)
		return
	}

	images, closeImages, err := openImages(c, "profilePicture", "coverPicture")
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
	if url, ok := urls["profilePicture"]; ok {
		upd.ProfilePicture = &url
	}
	if url, ok := urls["coverPicture"]; ok {
		upd.CoverPicture = &url
	}

	profile, err := h.svc.Accounts.UpdateProfile(c.Request.Context(), callerID, targetID, upd)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
