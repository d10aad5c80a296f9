package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
)

// FallbackMessage is shown when a failed response carries no usable error field.
const FallbackMessage = "Erro desconhecido"

// APIError is the failure outcome of a backend call. Transport failures are
// reported with Status 0 and the underlying cause in Err.
type APIError struct {
	Method  string
	Path    string
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s %s: %s", e.Method, e.Path, e.Message)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Message extracts the human readable part of a backend failure, defaulting
// to FallbackMessage for anything that is not an *APIError.
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return FallbackMessage
}

// errorMessage reads the `error` string field of a JSON error payload.
func errorMessage(body []byte) string {
	var payload struct {
		Error any `json:"error"`
	}
	if len(body) == 0 || json.Unmarshal(body, &payload) != nil {
		return FallbackMessage
	}
	msg, ok := payload.Error.(string)
	if !ok || msg == "" {
		return FallbackMessage
	}
	return msg
}
