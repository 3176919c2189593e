package httpapi

import (
	"encoding/json"
	"net/http"
)

// authSuccessResponse is the body returned by identity endpoints on success.
type authSuccessResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// authFailedResponse carries the ordered failure messages of an identity
// operation.
type authFailedResponse struct {
	Errors []string `json:"errors"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func writeAuthFailure(w http.ResponseWriter, messages []string) {
	writeJSON(w, http.StatusBadRequest, authFailedResponse{Errors: messages})
}
