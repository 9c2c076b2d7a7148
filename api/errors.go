package api

import (
	"encoding/json"
	"fmt"

	apperrors "github.com/vetcare/portal/internal/errors"
)

// Error is the uniform shape every failed backend call is normalized into.
// Status 0 means the request never produced a response (network failure or
// timeout). Errors carries field-level validation messages on 400s.
type Error struct {
	Status  int
	Message string
	Errors  map[string][]string

	cause error
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// IsNetwork reports whether the request never reached the backend
func (e *Error) IsNetwork() bool {
	return e.Status == 0
}

// AsError extracts the normalized *Error from an error chain
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if apperrors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func networkError(cause error) *Error {
	return &Error{
		Status:  0,
		Message: "cannot reach server",
		cause:   apperrors.Wrapf(apperrors.ErrUnreachable, "%v", cause),
	}
}

func sessionExpiredError(cause error) *Error {
	return &Error{
		Status:  401,
		Message: "session expired",
		cause:   apperrors.Wrapf(apperrors.ErrSessionExpired, "%v", cause),
	}
}

// errorBody is the superset of error payloads the backend produces: custom
// views return {"message": ...}, DRF permission/auth errors return
// {"detail": ...} and serializer validation returns a bare field map.
type errorBody struct {
	Message string              `json:"message"`
	Detail  string              `json:"detail"`
	Errors  map[string][]string `json:"errors"`
}

// normalizeError converts a non-2xx response into the uniform error shape.
// Nothing is ever swallowed; unknown statuses still come back as an *Error.
func normalizeError(status int, body []byte) *Error {
	var payload errorBody
	_ = json.Unmarshal(body, &payload)

	message := payload.Message
	if message == "" {
		message = payload.Detail
	}

	fieldErrors := payload.Errors
	if fieldErrors == nil && status == 400 {
		fieldErrors = fieldErrorMap(body)
	}

	switch status {
	case 400:
		if message == "" {
			message = "invalid data"
		}
		return &Error{Status: status, Message: message, Errors: fieldErrors}
	case 403:
		if message == "" {
			message = "access denied"
		}
		return &Error{Status: status, Message: message, cause: apperrors.ErrForbidden}
	case 404:
		if message == "" {
			message = "resource not found"
		}
		return &Error{Status: status, Message: message, cause: apperrors.ErrNotFound}
	case 500:
		return &Error{Status: status, Message: "a server error occurred", cause: apperrors.ErrInternal}
	default:
		if message == "" {
			message = "an unexpected error occurred"
		}
		return &Error{Status: status, Message: message}
	}
}

// fieldErrorMap interprets a bare DRF serializer error body, e.g.
// {"email": ["This field is required."]}. Non-matching bodies yield nil.
func fieldErrorMap(body []byte) map[string][]string {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil
	}

	fields := make(map[string][]string)
	for key, value := range raw {
		var messages []string
		if err := json.Unmarshal(value, &messages); err == nil {
			fields[key] = messages
			continue
		}
		var single string
		if err := json.Unmarshal(value, &single); err == nil && key != "message" && key != "detail" {
			fields[key] = []string{single}
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}
