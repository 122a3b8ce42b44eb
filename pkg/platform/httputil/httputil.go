// Package httputil writes JSON responses and maps domain error codes to
// HTTP statuses.
package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	dErrors "koe/pkg/domain-errors"
)

// maxBodyBytes bounds request bodies read by DecodeJSON.
const maxBodyBytes = 1 << 20

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error            string               `json:"error"`
	ErrorDescription string               `json:"error_description,omitempty"`
	Fields           []dErrors.FieldError `json:"fields,omitempty"`
	Retryable        bool                 `json:"retryable,omitempty"`
}

// StatusFor maps a domain error code to an HTTP status.
func StatusFor(code dErrors.Code) int {
	switch code {
	case dErrors.CodeValidation:
		return http.StatusUnprocessableEntity
	case dErrors.CodeIllegalTransition, dErrors.CodeConcurrency, dErrors.CodeConflict:
		return http.StatusConflict
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeForbidden:
		return http.StatusForbidden
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case dErrors.CodeBadRequest:
		return http.StatusBadRequest
	case dErrors.CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// WriteError writes err as a JSON error body. Internal errors never expose
// their message.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	resp := ErrorResponse{Error: string(code)}
	var de *dErrors.Error
	if errors.As(err, &de) && code != dErrors.CodeInternal && code != dErrors.CodeInvariantViolation {
		resp.ErrorDescription = de.Message
		resp.Fields = de.Fields
	}
	resp.Retryable = code == dErrors.CodeConcurrency || code == dErrors.CodeTimeout
	WriteJSON(w, StatusFor(code), resp)
}

// WriteJSON writes v with status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// DecodeJSON reads a single JSON document into dst. Unknown fields are
// rejected so that misspelled payload keys are not silently dropped.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid request body: "+err.Error())
	}
	if dec.More() {
		return dErrors.New(dErrors.CodeBadRequest, "invalid request body: trailing data")
	}
	return nil
}
