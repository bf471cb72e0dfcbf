package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-users-api/internal/domain/domainerr"
	"github.com/oksasatya/go-ddd-users-api/pkg/response"
)

// statusFor maps a fault kind onto an HTTP status and the message exposed to
// clients. Server-side faults never leak their cause.
func statusFor(err error) (int, string) {
	switch domainerr.KindOf(err) {
	case domainerr.KindEmailAlreadyExists, domainerr.KindConflict:
		return http.StatusConflict, err.Error()
	case domainerr.KindRoleNotFound, domainerr.KindMissingIdentifier:
		return http.StatusBadRequest, err.Error()
	case domainerr.KindAccessDenied:
		return http.StatusUnauthorized, err.Error()
	case domainerr.KindUserNotFound:
		return http.StatusNotFound, err.Error()
	case domainerr.KindConfiguration:
		return http.StatusInternalServerError, "service is misconfigured"
	case domainerr.KindInternal:
		return http.StatusInternalServerError, "internal server error"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func writeError(c *gin.Context, logger *logrus.Logger, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.WithError(err).WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.FullPath(),
		}).Error("request failed")
	}
	response.Error[any](c, status, msg, domainerr.KindOf(err).String())
}
