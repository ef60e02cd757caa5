package middleware

import (
	"encoding/json"
	"net/http"
)

// JSONError is the error envelope every API response uses.
type JSONError struct {
	Error JSONErrorBody `json:"error"`
}

// JSONErrorBody carries the machine-readable code and the user-facing message.
type JSONErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteJSON encodes v as the response body.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteJSONError writes code and message in the error envelope.
func WriteJSONError(w http.ResponseWriter, status int, code, message string) {
	WriteJSON(w, status, JSONError{Error: JSONErrorBody{Code: code, Message: message}})
}
