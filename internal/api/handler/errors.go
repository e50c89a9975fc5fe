package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mcoot/gameroom/internal/api/apierr"
)

// maxBodyBytes bounds every JSON request body
const maxBodyBytes = 64 << 10

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// decodeBody reads a JSON request body into v. On failure it writes the
// error response and returns false.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return false
	}
	return true
}

type validator interface {
	Validate() error
}

// decodeValid is decodeBody followed by the body's own field checks
func decodeValid(w http.ResponseWriter, r *http.Request, v validator) bool {
	if !decodeBody(w, r, v) {
		return false
	}
	if err := v.Validate(); err != nil {
		WriteError(w, NewInvalidRequestError(err.Error()))
		return false
	}
	return true
}
