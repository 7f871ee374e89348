package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireAuth(t *testing.T) {
	svc := NewService(newMemoryUserRepo(), testKey)
	session, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	router := chi.NewRouter()
	router.With(RequireAuth(svc)).Get("/protected", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(UserID(r.Context())))
	})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	t.Run("missing token", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/protected")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "Unauthenticated.", body["message"])
	})

	t.Run("malformed header", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, server.URL+"/protected", nil)
		req.Header.Set("Authorization", "Token "+session.Token)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("invalid token", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, server.URL+"/protected", nil)
		req.Header.Set("Authorization", "Bearer bogus")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("valid token", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, server.URL+"/protected", nil)
		req.Header.Set("Authorization", "Bearer "+session.Token)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		buf := make([]byte, 64)
		n, _ := resp.Body.Read(buf)
		assert.Equal(t, session.User.ID.String(), string(buf[:n]))
	})
}
