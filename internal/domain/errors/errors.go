package errors

import (
	"errors"
)

var (
	ErrInvalidInput = errors.New("invalid function input")
	ErrUsage        = errors.New("please invoke a named export")

	ErrMetafieldNotFound        = errors.New("metafield not found")
	ErrInvalidMetafieldValue    = errors.New("invalid metafield value")
	ErrConfigurationUnavailable = errors.New("limit configuration unavailable")

	ErrInvalidVariantID = errors.New("variant id cannot be empty")
	ErrInvalidLimit     = errors.New("limit must be zero or greater")
)
