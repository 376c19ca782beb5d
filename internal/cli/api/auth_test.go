package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Password != "secret1" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Invalid credentials."}`))
			return
		}
		_, _ = w.Write([]byte(`{"token":"jwt","userId":8,"email":"a@b.c"}`))
	}))
	defer ts.Close()
	c := newTestClient(ts.URL)

	creds, err := c.Login(context.Background(), "a@b.c", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "jwt", creds.Token)
	assert.Equal(t, int64(8), creds.UserID)

	_, err = c.Login(context.Background(), "a@b.c", "bad")
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, "api error: status 401: Invalid credentials.", err.Error())
}

func TestRegisterAndDeleteAccount(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/auth/register":
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"message":"User registered successfully.","userId":12}`))
		case r.Method == http.MethodDelete && r.URL.Path == "/api/users/me":
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`{"message":"ok"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer ts.Close()
	c := newTestClient(ts.URL)

	id, err := c.Register(context.Background(), "n@b.c", "secret1")
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)
	require.NoError(t, c.DeleteAccount(context.Background(), "tok"))
}
