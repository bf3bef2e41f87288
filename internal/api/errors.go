package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/storefront-api/internal/api/shared"
	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/platform/ratelimit"
)

// ErrBadRequestBody marks a request whose body could not be decoded.
var ErrBadRequestBody = errors.New("bad request body")

// MapErrorToStatusCode maps internal errors to HTTP status codes using the
// domain error kinds. Anything unclassified is a 500.
func MapErrorToStatusCode(err error) int {
	var validationErrs validator.ValidationErrors
	switch {
	case err == nil:
		return http.StatusInternalServerError
	case errors.Is(err, domain.ErrUnauthenticated),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ratelimit.ErrLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrInvalidArgument),
		errors.Is(err, ErrBadRequestBody),
		errors.As(err, &validationErrs):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-safe message for err. Messages come
// from the error kinds and never from wrapped infrastructure errors.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var validationErr *domain.ValidationError
	var validationErrs validator.ValidationErrors
	switch {
	case errors.Is(err, domain.ErrMissingCredential):
		return "Missing or malformed credential"
	case errors.Is(err, domain.ErrInvalidCredential):
		return "Invalid or expired credential"
	case errors.Is(err, domain.ErrUnauthenticated), errors.Is(err, domain.ErrAuthenticationRequired):
		return "Authentication required"
	case errors.Is(err, domain.ErrSecretAccessDenied):
		return "Access denied to secret product data"
	case errors.Is(err, domain.ErrAdminRequired), errors.Is(err, domain.ErrForbidden):
		return "Admin role required"
	case errors.Is(err, domain.ErrProductNotFound):
		return "Product not found"
	case errors.Is(err, domain.ErrUnknownProduct):
		return "Unknown product"
	case errors.Is(err, domain.ErrItemNotInCart):
		return "Item not in cart"
	case errors.Is(err, domain.ErrCategoryNotFound):
		return "Category not found"
	case errors.Is(err, domain.ErrNotFound):
		return "Resource not found"
	case errors.Is(err, ratelimit.ErrLimited):
		return "Too many requests"
	case errors.Is(err, domain.ErrQuantityOutOfRange):
		return fmt.Sprintf("Quantity must be between %d and %d", domain.MinQuantity, domain.MaxQuantity)
	case errors.Is(err, domain.ErrInvalidProductID):
		return "Invalid product id"
	case errors.Is(err, domain.ErrCategoryRequired):
		return "Category name required"
	case errors.As(err, &validationErr):
		return fmt.Sprintf("Invalid %s: %s", validationErr.Field, validationErr.Message)
	case errors.As(err, &validationErrs):
		return SanitizeValidationError(err)
	case errors.Is(err, ErrBadRequestBody), errors.Is(err, shared.ErrEmptyBody):
		return "Invalid request format"
	case errors.Is(err, domain.ErrInvalidArgument):
		return "Invalid request"
	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns validator errors into a short message naming
// the first offending field.
func SanitizeValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		fe := validationErrs[0]
		return fmt.Sprintf("Invalid %s: %s", lowerFirst(fe.Field()), getValidationTagMessage(fe.Tag()))
	}
	return "Validation error"
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min", "gte", "gt":
		return "too small"
	case "max", "lte", "lt":
		return "too large"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the error response for err. fallbackMsg replaces the
// generic message for 500s when non-empty.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallbackMsg string) {
	status := MapErrorToStatusCode(err)
	msg := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallbackMsg != "" {
		msg = fallbackMsg
	}
	shared.RespondWithErrorAndLog(w, r, status, msg, err)
}
