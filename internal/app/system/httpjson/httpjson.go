// Package httpjson writes JSON response bodies and the error envelope
// used by every API handler: errors are {"error": "..."} with the
// appropriate status code, nothing else leaks to the client.
package httpjson

import (
	"encoding/json"
	"net/http"
)

// Write encodes v as the JSON response body with the given status.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// OK writes v with a 200 status.
func OK(w http.ResponseWriter, v any) {
	Write(w, http.StatusOK, v)
}

// Read decodes a JSON request body into v. An empty or malformed body
// leaves v untouched; callers treat missing fields as zero values.
func Read(r *http.Request, v any) {
	if r.Body == nil {
		return
	}
	_ = json.NewDecoder(r.Body).Decode(v)
}

// Error writes the error envelope. msg should be safe for clients;
// internal detail belongs in the log, not here.
func Error(w http.ResponseWriter, status int, msg string) {
	Write(w, status, map[string]string{"error": msg})
}

// Message writes a simple {"message": ...} body.
func Message(w http.ResponseWriter, status int, msg string) {
	Write(w, status, map[string]string{"message": msg})
}
