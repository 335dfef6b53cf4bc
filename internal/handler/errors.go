package handler

import (
	"net/http"

	"antecipa/pkg/apperror"
	"antecipa/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var kindStatus = map[apperror.Kind]int{
	apperror.KindNotFound:     http.StatusNotFound,
	apperror.KindConflict:     http.StatusConflict,
	apperror.KindValidation:   http.StatusBadRequest,
	apperror.KindForbidden:    http.StatusForbidden,
	apperror.KindUnauthorized: http.StatusUnauthorized,
}

// writeError maps service errors onto the response envelope. Anything untyped is a 500
// and its details stay in the log.
func writeError(c *gin.Context, log *logrus.Logger, err error) {
	kind := apperror.KindOf(err)
	status, ok := kindStatus[kind]
	if !ok {
		log.WithError(err).WithField("path", c.FullPath()).Error("unhandled error")
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "internal server error"))
		return
	}
	c.JSON(status, response.KindError(status, string(kind), err.Error()))
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, response.KindError(http.StatusBadRequest, string(apperror.KindValidation), msg))
}
