package httpkit

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
)

// DecodeJSON decodes the request body into v. Unknown fields are accepted;
// the function host adds members across versions.
func DecodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// QueryInt parses a positive int query parameter bounded by max.
func QueryInt(r *http.Request, key string, def, max int) int {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 || v > max {
		return def
	}
	return v
}
