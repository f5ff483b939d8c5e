// Package httputil centralizes JSON response writing so every handler shares
// one error envelope and one status mapping.
package httputil

import (
	"encoding/json"
	"net/http"

	dErrors "wardflow/pkg/domain-errors"
)

// toHTTPStatus maps domain error codes to HTTP statuses. Unknown codes fall
// through to 500 so new codes fail loudly instead of masquerading as success.
func toHTTPStatus(code dErrors.Code) int {
	switch code {
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeValidation, dErrors.CodeInvalidFieldType:
		return http.StatusBadRequest
	case dErrors.CodeInvariantViolation:
		return http.StatusConflict
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

type errorBody struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// WriteError renders a failed operation as a distinguishable error envelope.
// Internal errors omit the description so infrastructure details never leak.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	body := errorBody{Error: string(code)}
	if code != dErrors.CodeInternal {
		body.ErrorDescription = dErrors.MessageOf(err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(toHTTPStatus(code))
	_ = json.NewEncoder(w).Encode(body)
}

// Decode parses the JSON request body into T. On malformed input it writes a
// validation error and reports false; the handler just returns.
func Decode[T any](w http.ResponseWriter, r *http.Request) (T, bool) {
	var body T
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		WriteError(w, dErrors.Wrap(err, dErrors.CodeValidation, "malformed request body"))
		var zero T
		return zero, false
	}
	return body, true
}

// WriteJSON renders a successful response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}
