package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dkarpov/reelmark/internal/client/models"
	"github.com/dkarpov/reelmark/internal/common"
)

// HTTPAuthority talks to the session authority over its JSON HTTP API.
type HTTPAuthority struct {
	baseURL string
	client  *http.Client
}

func NewHTTPAuthority(baseURL string) *HTTPAuthority {
	return &HTTPAuthority{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type sessionPayload struct {
	User       models.User `json:"user"`
	Credential string      `json:"credential"`
}

type userPayload struct {
	User models.User `json:"user"`
}

type errorPayload struct {
	Error string `json:"error"`
}

func (a *HTTPAuthority) Register(ctx context.Context, username, email, password string) (*models.User, string, error) {
	body := map[string]string{"username": username, "email": email, "password": password}

	var resp sessionPayload
	if err := a.do(ctx, http.MethodPost, "/auth/register", body, "", http.StatusCreated, &resp); err != nil {
		return nil, "", err
	}
	return &resp.User, resp.Credential, nil
}

func (a *HTTPAuthority) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	body := map[string]string{"email": email, "password": password}

	var resp sessionPayload
	if err := a.do(ctx, http.MethodPost, "/auth/login", body, "", http.StatusOK, &resp); err != nil {
		return nil, "", err
	}
	return &resp.User, resp.Credential, nil
}

func (a *HTTPAuthority) Verify(ctx context.Context, credential string) (*models.User, error) {
	var resp userPayload
	if err := a.do(ctx, http.MethodGet, "/auth/verify", nil, credential, http.StatusOK, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (a *HTTPAuthority) UpdateProfile(ctx context.Context, credential string, patch ProfilePatch) (*models.User, error) {
	var resp userPayload
	if err := a.do(ctx, http.MethodPut, "/users/profile", patch, credential, http.StatusOK, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// do performs one JSON round trip. Transport failures and 5xx responses map
// to ErrUnavailable; 401 maps to ErrUnauthorized; 400/409/429 map to their
// shared sentinels.
func (a *HTTPAuthority) do(ctx context.Context, method, path string, body any, credential string, wantStatus int, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("request encoding error: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("request creation error: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if credential != "" {
		req.Header.Set("Authorization", "Bearer "+credential)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == wantStatus {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("response decoding error: %w", err)
		}
		return nil
	}

	return a.mapError(resp)
}

func (a *HTTPAuthority) mapError(resp *http.Response) error {
	var payload errorPayload
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	message := payload.Error
	if message == "" {
		message = resp.Status
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, message)
	case resp.StatusCode == http.StatusConflict:
		return fmt.Errorf("%w: %s", common.ErrEmailTaken, message)
	case resp.StatusCode == http.StatusBadRequest:
		return fmt.Errorf("%w: %s", common.ErrValidation, message)
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", common.ErrRateLimited, message)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: %s", ErrUnavailable, message)
	default:
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, message)
	}
}
