package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/feral-file/og-claim/internal/api/shared/dto"
	apierrors "github.com/feral-file/og-claim/internal/api/shared/errors"
	"github.com/feral-file/og-claim/internal/domain"
	"github.com/feral-file/og-claim/internal/logger"
	"github.com/feral-file/og-claim/internal/store/schema"
)

const genericErrorMessage = "Something went wrong. Please try again."

// respondBadRequest responds with a bad request error
func respondBadRequest(c *gin.Context, message string, details ...string) {
	respondAPIError(c, http.StatusBadRequest, apierrors.NewBadRequestError(message, details...))
}

// respondValidationError responds with a validation error
func respondValidationError(c *gin.Context, message string) {
	respondAPIError(c, http.StatusBadRequest, apierrors.NewValidationError(message))
}

// respondUnauthorized responds with a missing session error
func respondUnauthorized(c *gin.Context) {
	respondAPIError(c, http.StatusUnauthorized,
		apierrors.NewUnauthorizedError("Authentication required").WithReason(string(domain.ReasonUnauthenticated)))
}

// respondAPIError writes err in the error envelope. Errors that are not API errors become a generic 500.
func respondAPIError(c *gin.Context, status int, err error) {
	var apiErr *apierrors.APIError
	if !errors.As(err, &apiErr) {
		logger.ErrorCtx(c.Request.Context(), err)
		status = http.StatusInternalServerError
		apiErr = apierrors.NewInternalError(genericErrorMessage)
	}
	c.JSON(status, apierrors.ErrorResponse{Error: apiErr})
}

type errorOption func(*apierrors.APIError)

// withClaim attaches the existing claim to a conflict response
func withClaim(record *schema.ClaimRecord) errorOption {
	return func(e *apierrors.APIError) {
		if record != nil && e.Code == apierrors.ErrCodeConflict {
			e.Claim = dto.MapClaimRecordToDTO(record)
		}
	}
}

// respondDomainError maps a domain error to its status code and error body.
// Upstream causes are logged and never returned to the caller.
func (h *handler) respondDomainError(c *gin.Context, err error, opts ...errorOption) {
	var (
		status int
		apiErr *apierrors.APIError

		validation  *domain.ValidationError
		auth        *domain.AuthError
		conflict    *domain.ConflictError
		notFound    *domain.NotFoundError
		rateLimit   *domain.RateLimitError
		recoverable *domain.RecoverableError
	)

	switch {
	case errors.As(err, &validation):
		status = http.StatusBadRequest
		apiErr = apierrors.NewValidationError(validation.Message).WithReason(string(validation.Reason))
		apiErr.Message = validation.Message

	case errors.As(err, &auth):
		if auth.Forbidden {
			status = http.StatusForbidden
			apiErr = apierrors.NewForbiddenError(auth.Message)
		} else {
			status = http.StatusUnauthorized
			apiErr = apierrors.NewUnauthorizedError(auth.Message)
		}
		apiErr.Reason = string(auth.Reason)

	case errors.As(err, &conflict):
		status = http.StatusConflict
		apiErr = apierrors.NewConflictError(conflict.Message).WithReason(string(conflict.Reason))

	case errors.As(err, &notFound):
		status = http.StatusNotFound
		apiErr = apierrors.NewNotFoundError(notFound.Message).WithReason(string(notFound.Reason))

	case errors.As(err, &rateLimit):
		status = http.StatusTooManyRequests
		apiErr = apierrors.NewRateLimitedError(rateLimit.Error())

	case errors.As(err, &recoverable):
		logger.ErrorCtx(c.Request.Context(), err)
		status = http.StatusInternalServerError
		apiErr = apierrors.NewClaimRecordPendingError(recoverable.Message)

	default:
		logger.ErrorCtx(c.Request.Context(), err)
		status = http.StatusInternalServerError
		apiErr = apierrors.NewInternalError(genericErrorMessage)
	}

	for _, opt := range opts {
		opt(apiErr)
	}

	c.JSON(status, apierrors.ErrorResponse{Error: apiErr})
}
