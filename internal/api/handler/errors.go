package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/mcoot/mindmaze/internal/api/apierr"
)

// Re-export from apierr for convenience
type APIError = apierr.APIError
type ErrorResponse = apierr.ErrorResponse

// Re-export error codes
const (
	CodeInvalidRequest  = apierr.CodeInvalidRequest
	CodeInvalidUsername = apierr.CodeInvalidUsername
	CodePlayerNotFound  = apierr.CodePlayerNotFound
	CodeUsernameExists  = apierr.CodeUsernameExists
	CodeUnknownCategory = apierr.CodeUnknownCategory
	CodeInternalError   = apierr.CodeInternalError
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

var validate = validator.New()

// decodeBody reads a JSON request body into dst and validates it
func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return NewInvalidRequestError("invalid request body")
	}
	if err := validate.Struct(dst); err != nil {
		return NewInvalidRequestError(err.Error())
	}
	return nil
}
