package utils

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
)

const ProblemContentType = "application/problem+json"

// Problem is the error body returned to API callers.
type Problem struct {
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func WriteJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

func WriteJSONError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func WriteProblem(w http.ResponseWriter, title, detail string, code int) {
	w.Header().Set("Content-Type", ProblemContentType)
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(Problem{Title: title, Status: code, Detail: detail})
}

// QueryInt reads an integer query parameter, returning def when the value is
// absent. ok is false when the value is present but not an integer.
func QueryInt(r *http.Request, key string, def int) (value int, ok bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def, false
	}
	return n, true
}

// QueryBool reads a boolean query parameter the same way as QueryInt.
func QueryBool(r *http.Request, key string, def bool) (value bool, ok bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return def, true
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return def, false
	}
	return b, true
}

func QueryString(r *http.Request, key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}
