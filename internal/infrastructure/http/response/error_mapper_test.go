package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/yuzvak/product-limits/internal/domain/errors"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   Status
	}{
		{domainErrors.ErrInvalidInput, http.StatusBadRequest, StatusValidationError},
		{fmt.Errorf("%w: line 0", domainErrors.ErrInvalidInput), http.StatusBadRequest, StatusValidationError},
		{domainErrors.ErrInvalidLimit, http.StatusBadRequest, StatusValidationError},
		{domainErrors.ErrInvalidVariantID, http.StatusBadRequest, StatusValidationError},
		{domainErrors.ErrMetafieldNotFound, http.StatusNotFound, StatusNotFound},
		{domainErrors.ErrConfigurationUnavailable, http.StatusServiceUnavailable, StatusServiceUnavailable},
		{errors.New("unexpected"), http.StatusInternalServerError, StatusInternalError},
	}

	for _, tt := range tests {
		status, resp := MapDomainError(tt.err)
		assert.Equal(t, tt.status, status, tt.err.Error())
		assert.Equal(t, tt.code, resp.Code, tt.err.Error())
		assert.Equal(t, tt.err.Error(), resp.Error)
	}
}

func TestWriteDomainError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteDomainError(rec, domainErrors.ErrInvalidLimit)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Limit must be zero or greater", body["message"])
	assert.Equal(t, "validation_error", body["code"])
}
