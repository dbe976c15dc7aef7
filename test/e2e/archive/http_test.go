package archive_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/mc-mysterria/archive-forum/internal/archive/domain"
	archivehttp "github.com/mc-mysterria/archive-forum/internal/archive/http"
	"github.com/stretchr/testify/require"
)

// TestHTTPLoginFlow walks the whole surface over a real HTTP server: the
// login page, the provider's callback redirect, the session API and logout.
func TestHTTPLoginFlow(t *testing.T) {
	t.Parallel()

	s := newStack(t, nil)
	srv := httptest.NewServer(s.router)
	defer srv.Close()

	client := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	get := func(path string) (*http.Response, string) {
		resp, err := client.Get(srv.URL + path)
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NoError(t, resp.Body.Close())
		return resp, string(body)
	}

	// Logged out: the session API says so, the login page offers the
	// provider.
	resp, body := get("/v1/session")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var sess archivehttp.SessionResponse
	require.NoError(t, json.Unmarshal([]byte(body), &sess))
	require.False(t, sess.Authenticated)
	require.True(t, sess.CanRead)

	resp, body = get("/login?returnUrl=/posts/42")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "www.mysterria.net/login")

	// The provider redirects back with a token.
	token := issueToken(t, map[string]any{
		"sub":         "user1",
		"username":    "kira",
		"permissions": []string{domain.PermArchiveModerate},
	})
	resp, body = get("/auth/callback?popup=true&returnUrl=/posts/42&token=" + url.QueryEscape(token))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "Authentication successful")

	// Logged in now, with the right permissions.
	resp, body = get("/v1/session")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal([]byte(body), &sess))
	require.True(t, sess.Authenticated)
	require.Equal(t, "kira", sess.User.Username)
	require.True(t, sess.CanModerate)
	require.False(t, sess.CanWrite)

	// Login now short-circuits.
	resp, _ = get("/login?returnUrl=/posts/42")
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "/posts/42", resp.Header.Get("Location"))

	// Logout clears everything.
	logoutResp, err := client.Post(srv.URL+"/v1/session/logout", "application/json", nil)
	require.NoError(t, err)
	require.NoError(t, logoutResp.Body.Close())
	require.Equal(t, http.StatusNoContent, logoutResp.StatusCode)

	resp, body = get("/v1/session")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal([]byte(body), &sess))
	require.False(t, sess.Authenticated)
	_, ok := s.storage.Get(domain.TokenMirrorKey)
	require.False(t, ok)
}
