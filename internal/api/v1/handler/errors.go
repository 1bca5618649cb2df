package handler

import (
	"errors"
	"net/http"

	"github.com/Sudarshanganwani9/EduLearn-Learning-Platform/internal/repository"
	"github.com/Sudarshanganwani9/EduLearn-Learning-Platform/internal/service"

	"github.com/rs/zerolog"
)

// statusFor maps service and repository errors to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrCourseNotFound), errors.Is(err, service.ErrRoleNotSet):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidCourse), errors.Is(err, service.ErrInvalidRole):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrCourseNotPurchasable),
		errors.Is(err, service.ErrPriceMismatch),
		errors.Is(err, service.ErrCourseHasPurchases),
		errors.Is(err, service.ErrRoleAlreadySet):
		return http.StatusConflict
	case errors.Is(err, service.ErrMediaUnavailable), repository.IsTransient(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes err as a plain text response. Internal failures are
// logged and their details withheld from the client.
func writeError(w http.ResponseWriter, logger zerolog.Logger, action string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Int("status", status).Msg(action)
		http.Error(w, action, status)
		return
	}
	http.Error(w, err.Error(), status)
}
