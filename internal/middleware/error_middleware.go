package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/empdesk/internal/app/models/dto"
	"github.com/yigit/empdesk/internal/pkg/apperrors"
	"github.com/yigit/empdesk/internal/pkg/filestorage"
	"github.com/yigit/empdesk/internal/pkg/logger"
	"github.com/yigit/empdesk/internal/pkg/validation"
)

// HandleAPIError maps err onto the standard error response. fallback is the
// message used for failures the client cannot act on; their detail is only
// logged.
func HandleAPIError(c *gin.Context, err error, fallback string) {
	status, body := errorResponse(err, fallback)
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg(fallback)
	}
	c.AbortWithStatusJSON(status, body)
}

func errorResponse(err error, fallback string) (int, *dto.ErrorResponse) {
	var ve *apperrors.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, ve.Message),
		).WithFieldErrors(ve.Fields)
	}

	var ce *apperrors.ConflictError
	if errors.As(err, &ce) {
		return http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, ce.Message).WithField(ce.Field),
		).WithFieldErrors(map[string]string{ce.Field: ce.Message})
	}

	switch {
	case errors.Is(err, apperrors.ErrInvalidID):
		return http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInvalidID, apperrors.PublicMessage(err, "Invalid identifier")),
		)
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, apperrors.PublicMessage(err, "Resource already exists")),
		)
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, apperrors.PublicMessage(err, "Resource not found")),
		)
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, apperrors.PublicMessage(err, "Invalid credentials")),
		)
	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token expired"),
		)
	case errors.Is(err, apperrors.ErrTokenInvalid):
		return http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token"),
		)
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required"),
		)
	case errors.Is(err, filestorage.ErrFileTooLarge):
		msg := validation.Message(validation.FieldImage, validation.RuleSize)
		return http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeFileTooLarge, msg).WithField(validation.FieldImage),
		).WithFieldErrors(map[string]string{validation.FieldImage: msg})
	case errors.Is(err, filestorage.ErrUnsupportedMediaType):
		msg := validation.Message(validation.FieldImage, validation.RuleFormat)
		return http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, msg).WithField(validation.FieldImage),
		).WithFieldErrors(map[string]string{validation.FieldImage: msg})
	}

	return http.StatusInternalServerError, dto.NewErrorResponse(
		dto.NewErrorDetail(dto.ErrorCodeDatabaseError, fallback).WithSeverity(dto.ErrorSeverityCritical),
	)
}
