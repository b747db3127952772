package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/examseating/internal/app/models/dto"
	"github.com/yigit/examseating/internal/pkg/apperrors"
	"github.com/yigit/examseating/internal/pkg/logger"
)

// HandleAPIError translates err into the standard error envelope. Errors
// outside the apperrors taxonomy become a 500 with a generic message.
func HandleAPIError(c *gin.Context, err error) {
	status, detail := errorDetailFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Unhandled error")
		if gin.Mode() != gin.ReleaseMode {
			detail = detail.WithDebugInfo("%v", err)
		}
	}
	_ = c.Error(err)
	c.JSON(status, dto.NewErrorResponse(detail))
}

func errorDetailFor(err error) (int, *dto.ErrorDetail) {
	message := apperrors.MessageOf(err)
	details := apperrors.DetailsOf(err)

	withDetails := func(d *dto.ErrorDetail) *dto.ErrorDetail {
		if len(details) > 0 {
			return d.WithDetails(details)
		}
		return d
	}

	switch {
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeForbidden, message)
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, message)
	case errors.Is(err, apperrors.ErrInvalidUpload):
		detail := withDetails(dto.NewErrorDetail(dto.ErrorCodeInvalidUpload, message))
		if field := singleField(details); field != "" {
			detail = detail.WithField(field)
		}
		return http.StatusBadRequest, detail
	case errors.Is(err, apperrors.ErrMissingInput):
		return http.StatusBadRequest, withDetails(dto.NewErrorDetail(dto.ErrorCodeMissingInput, message))
	case errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest, withDetails(dto.NewErrorDetail(dto.ErrorCodeValidationFailed, message))
	case errors.Is(err, apperrors.ErrCapacityExceeded):
		return http.StatusUnprocessableEntity, withDetails(
			dto.NewErrorDetail(dto.ErrorCodeCapacityExceeded, message).WithSeverity(dto.ErrorSeverityWarning))
	default:
		return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error").
			WithSeverity(dto.ErrorSeverityCritical)
	}
}

// singleField names the offending column when a row error carries exactly one
func singleField(details map[string]interface{}) string {
	fields, ok := details["fields"].(map[string]string)
	if !ok || len(fields) != 1 {
		return ""
	}
	for name := range fields {
		return name
	}
	return ""
}
