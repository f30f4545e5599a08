// Package controller holds helpers shared by the HTTP handlers.
package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/bizcoach/internal/dto"
	"github.com/lshigami/bizcoach/internal/scene"
	"github.com/lshigami/bizcoach/internal/service"
	"github.com/lshigami/bizcoach/internal/session"
	"github.com/rs/zerolog/log"
)

// StatusFor maps a service error onto an HTTP status code.
func StatusFor(err error) int {
	var transcriptionErr *service.TranscriptionError
	switch {
	case session.IsValidationError(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &transcriptionErr), errors.Is(err, service.ErrTranscriptionFailed):
		return http.StatusBadGateway
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrHistoryNotFound),
		errors.Is(err, scene.ErrUnknownScene):
		return http.StatusNotFound
	case errors.Is(err, session.ErrTurnInProgress),
		errors.Is(err, session.ErrSessionComplete),
		errors.Is(err, session.ErrSessionDiscarded),
		errors.Is(err, session.ErrSessionActive),
		errors.Is(err, session.ErrNoActiveSession),
		errors.Is(err, session.ErrFeedbackAttached),
		errors.Is(err, session.ErrUnansweredQuestion),
		errors.Is(err, session.ErrFollowUpsMissing):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes err as a dto.ErrorResponse. Internal errors are logged
// and their details withheld from the client.
func RespondError(ctx *gin.Context, msg string, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", ctx.FullPath()).Msg(msg)
		ctx.JSON(status, dto.ErrorResponse{Message: msg})
		return
	}
	log.Warn().Err(err).Int("status", status).Str("path", ctx.FullPath()).Msg(msg)
	ctx.JSON(status, dto.ErrorResponse{Message: msg, Details: []string{err.Error()}})
}

// BadRequest reports a malformed request body or parameter.
func BadRequest(ctx *gin.Context, msg string, err error) {
	resp := dto.ErrorResponse{Message: msg}
	if err != nil {
		resp.Details = []string{err.Error()}
	}
	ctx.JSON(http.StatusBadRequest, resp)
}

// UintParam parses a positive integer path parameter, writing a 400 on failure.
func UintParam(ctx *gin.Context, name string) (uint, bool) {
	val, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil || val == 0 {
		BadRequest(ctx, "Invalid "+name+" format", err)
		return 0, false
	}
	return uint(val), true
}
