package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"chirp/apperr"
	"chirp/middleware"
)

// fail writes err using the apperr envelope. Internal errors are logged.
func (h *handler) fail(c *gin.Context, err error) {
	e := apperr.As(err)
	if e.Kind == apperr.KindInternal {
		h.log.WithError(err).WithFields(logrus.Fields{
			"route":   c.FullPath(),
			"user_id": middleware.UserID(c),
		}).Error("internal error")
	}
	c.AbortWithStatusJSON(e.Status(), e.Body())
}

// page reads the 1-based page query parameter. Missing or malformed values
// mean the first page.
func page(c *gin.Context) int {
	n, err := strconv.Atoi(c.Query("page"))
	if err != nil || n < 1 {
		return 1
	}
	return n
}
