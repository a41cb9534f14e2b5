package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dkarpov/reelmark/internal/common"
	"github.com/dkarpov/reelmark/internal/server/models"
)

// userResponse is the closed wire representation of a user. Fields not listed
// here are never sent, regardless of what the record carries internally.
type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// sessionResponse is the body of successful register/login calls.
type sessionResponse struct {
	User       userResponse `json:"user"`
	Credential string       `json:"credential"`
}

// verifyResponse is the body of a successful verify call.
type verifyResponse struct {
	User userResponse `json:"user"`
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Username: u.UserName, Email: u.Email}
}

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeServiceError maps service-layer sentinel errors onto the wire contract.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrEmailTaken):
		writeError(w, http.StatusConflict, common.ErrEmailTaken.Error())
	case errors.Is(err, common.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, common.ErrInvalidCredentials.Error())
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrTokenExpired):
		writeError(w, http.StatusUnauthorized, "invalid or expired token")
	case errors.Is(err, common.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, common.ErrRateLimited.Error())
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, common.ErrorNotFound.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
