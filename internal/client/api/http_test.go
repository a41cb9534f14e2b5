package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dkarpov/reelmark/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "a@x.com", body["email"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"user":{"id":"u-1","username":"alice","email":"a@x.com"},"credential":"h.p.s"}`))
	}))
	defer srv.Close()

	a := NewHTTPAuthority(srv.URL)
	user, cred, err := a.Login(context.Background(), "a@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", user.ID)
	assert.Equal(t, "h.p.s", cred)
}

func TestLogin_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid email or password"}`))
	}))
	defer srv.Close()

	a := NewHTTPAuthority(srv.URL)
	_, _, err := a.Login(context.Background(), "a@x.com", "wrong")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestRegister_Conflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":"email already registered"}`))
	}))
	defer srv.Close()

	a := NewHTTPAuthority(srv.URL)
	_, _, err := a.Register(context.Background(), "alice", "a@x.com", "secret1")
	assert.ErrorIs(t, err, common.ErrEmailTaken)
}

func TestVerify_SendsBearerAndDropsUnknownFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer h.p.s", r.Header.Get("Authorization"))
		// unknown fields in the payload must be ignored by the closed type
		_, _ = w.Write([]byte(`{"user":{"id":"u-1","username":"alice","email":"a@x.com","role":"admin","score":99}}`))
	}))
	defer srv.Close()

	a := NewHTTPAuthority(srv.URL)
	user, err := a.Verify(context.Background(), "h.p.s")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.False(t, user.IsPremium)
}

func TestVerify_ServerErrorIsUnavailableNotUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	a := NewHTTPAuthority(srv.URL)
	_, err := a.Verify(context.Background(), "h.p.s")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.NotErrorIs(t, err, ErrUnauthorized)
}

func TestVerify_ConnectionRefusedIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listens anymore

	a := NewHTTPAuthority(srv.URL)
	_, err := a.Verify(context.Background(), "h.p.s")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestUpdateProfile_OmitsEmptyFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		assert.Equal(t, map[string]any{"username": "alice2"}, raw)

		_, _ = w.Write([]byte(`{"user":{"id":"u-1","username":"alice2","email":"a@x.com"}}`))
	}))
	defer srv.Close()

	a := NewHTTPAuthority(srv.URL)
	user, err := a.UpdateProfile(context.Background(), "h.p.s", ProfilePatch{Username: "alice2"})
	require.NoError(t, err)
	assert.Equal(t, "alice2", user.Username)
}
