// Package httpx holds the response helpers shared by the console handlers:
// JSON bodies, RFC7807 problem details and the command status mapping.
package httpx

import (
	"encoding/json"
	"net/http"
	"strings"
)

// ProblemDetail represents RFC7807 problem details.
type ProblemDetail struct {
	Type   string `json:"type,omitempty"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// WantsJSON reports whether the request comes from console.js rather than a
// plain form submission or navigation.
func WantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Problem sends an RFC7807 problem details response.
func Problem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ProblemDetail{
		Title:  title,
		Status: status,
		Detail: detail,
	})
}

// Deny rejects a request before it reaches a handler: script requests get a
// problem body, everything else the plain status text.
func Deny(w http.ResponseWriter, r *http.Request, status int) {
	if WantsJSON(r) {
		Problem(w, status, http.StatusText(status), "")
		return
	}
	http.Error(w, http.StatusText(status), status)
}
