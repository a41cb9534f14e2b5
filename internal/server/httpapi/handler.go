// Package httpapi exposes the session authority over the bearer-token HTTP
// wire contract:
//
//	POST /auth/register  -> 201 {user, credential}
//	POST /auth/login     -> 200 {user, credential}
//	GET  /auth/verify    -> 200 {user}        (Authorization: Bearer <credential>)
//	PUT  /users/profile  -> 200 {user}        (auth required)
//	GET  /healthz        -> 200
package httpapi

import (
	"context"
	"encoding/json"
	"net"
	"net/http"

	"github.com/dkarpov/reelmark/internal/logging"
	"github.com/dkarpov/reelmark/internal/server/models"
	"github.com/dkarpov/reelmark/internal/server/services"
)

// SessionService is the authority surface consumed by the HTTP layer.
type SessionService interface {
	Register(ctx context.Context, userName, email, password string) (*models.User, string, error)
	Login(ctx context.Context, email, password, sourceIP string) (*models.User, string, error)
	Verify(ctx context.Context, token string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, patch services.ProfilePatch) (*models.User, error)
}

type Handler struct {
	sessions SessionService
	logger   logging.Logger
}

func NewHandler(sessions SessionService, logger logging.Logger) *Handler {
	return &Handler{sessions: sessions, logger: logger.With("module", "httpapi")}
}

// Routes returns the configured request multiplexer.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("POST /auth/register", h.handleRegister)
	mux.HandleFunc("POST /auth/login", h.handleLogin)
	mux.HandleFunc("GET /auth/verify", h.handleVerify)
	mux.HandleFunc("PUT /users/profile", h.requireAuth(h.handleUpdateProfile))

	return mux
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username, email and password are required")
		return
	}

	user, credential, err := h.sessions.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, sessionResponse{User: toUserResponse(user), Credential: credential})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, credential, err := h.sessions.Login(r.Context(), req.Email, req.Password, sourceIP(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{User: toUserResponse(user), Credential: credential})
}

func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	token := extractBearer(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, "authorization required")
		return
	}

	user, err := h.sessions.Verify(r.Context(), token)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, verifyResponse{User: toUserResponse(user)})
}

type profileRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "authorization required")
		return
	}

	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.sessions.UpdateProfile(r.Context(), user.ID, services.ProfilePatch{
		UserName:        req.Username,
		Email:           req.Email,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, verifyResponse{User: toUserResponse(updated)})
}

func sourceIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
