package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/joshua-takyi/sarahah/internal/models"
	"github.com/joshua-takyi/sarahah/internal/services"
)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// statusFor maps service errors onto HTTP statuses. Anything unmapped
// is an internal failure.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrEmailExists),
		errors.Is(err, services.ErrInvalidOTP),
		errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrGoogleProvider),
		errors.Is(err, services.ErrEmailNotVerified),
		errors.Is(err, services.ErrInvalidGoogleToken),
		errors.Is(err, services.ErrInvalidField),
		errors.Is(err, services.ErrNoProfileImage),
		errors.Is(err, services.ErrNothingToUpdate):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrEmailNotConfirmed):
		return http.StatusForbidden
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrReceiverNotFound),
		errors.Is(err, services.ErrMessageNotFound),
		errors.Is(err, services.ErrUserInvalidOrConfirmed),
		errors.Is(err, services.ErrNoResetRequested):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the mapped status. Internal failures get a
// generic body; the underlying error is recorded on the context for
// the logging middleware and never echoed to the client.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(status, models.ErrorResponse("Internal Server Error"))
		return
	}
	c.JSON(status, models.ErrorResponse(err.Error()))
}

// bindJSON binds and validates the request body, collecting every
// field error rather than stopping at the first.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, validationMessage(fe))
			}
			c.JSON(http.StatusBadRequest, models.ValidationErrorResponse(msgs))
			return false
		}
		c.JSON(http.StatusBadRequest, models.ErrorResponse("Invalid request payload"))
		return false
	}
	return true
}

func validationMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "min":
		return field + " must be at least " + fe.Param()
	case "max":
		return field + " must be at most " + fe.Param()
	case "len":
		return field + " must be exactly " + fe.Param() + " characters"
	case "oneof":
		return field + " must be one of: " + fe.Param()
	case "numeric":
		return field + " must contain only numbers"
	case "alphanum":
		return field + " must contain only letters and numbers"
	case "eqfield":
		return field + " must match " + fe.Param()
	default:
		return field + " is invalid"
	}
}
