package response

import (
	"errors"
	"net/http"

	domainErrors "github.com/yuzvak/product-limits/internal/domain/errors"
)

type ErrorMapping struct {
	HTTPStatus int
	Status     Status
	Message    string
}

var errorMappings = []struct {
	err     error
	mapping ErrorMapping
}{
	{domainErrors.ErrInvalidInput, ErrorMapping{
		HTTPStatus: http.StatusBadRequest,
		Status:     StatusValidationError,
		Message:    "Invalid function input",
	}},
	{domainErrors.ErrInvalidVariantID, ErrorMapping{
		HTTPStatus: http.StatusBadRequest,
		Status:     StatusValidationError,
		Message:    "Variant id is required",
	}},
	{domainErrors.ErrInvalidLimit, ErrorMapping{
		HTTPStatus: http.StatusBadRequest,
		Status:     StatusValidationError,
		Message:    "Limit must be zero or greater",
	}},
	{domainErrors.ErrMetafieldNotFound, ErrorMapping{
		HTTPStatus: http.StatusNotFound,
		Status:     StatusNotFound,
		Message:    "Limits metafield not found",
	}},
	{domainErrors.ErrInvalidMetafieldValue, ErrorMapping{
		HTTPStatus: http.StatusInternalServerError,
		Status:     StatusInternalError,
		Message:    "Stored limits metafield is corrupt",
	}},
	{domainErrors.ErrConfigurationUnavailable, ErrorMapping{
		HTTPStatus: http.StatusServiceUnavailable,
		Status:     StatusServiceUnavailable,
		Message:    "Limit configuration unavailable",
	}},
}

func MapDomainError(err error) (int, *ErrorResponse) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return m.mapping.HTTPStatus, Error(m.mapping.Status, m.mapping.Message, err.Error())
		}
	}

	return http.StatusInternalServerError, Error(StatusInternalError, "Internal server error", err.Error())
}

func WriteDomainError(w http.ResponseWriter, err error) {
	statusCode, errorResponse := MapDomainError(err)
	WriteJSON(w, statusCode, errorResponse)
}
