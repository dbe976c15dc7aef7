// Package mysterria is a small client SDK for the main Mysterria site, which
// acts as the archive's identity provider and user directory. The archive
// delegates login to it entirely: we build the login URL it expects, and we
// look up user profiles with the bearer token it issued. Its login UI and
// redirect behaviour are otherwise opaque to us.
package mysterria

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the production Mysterria site.
const DefaultBaseURL = "https://www.mysterria.net"

// Client talks to the Mysterria site.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a client for the given base URL. The HTTP timeout bounds
// every call, which is what keeps best-effort enrichment from ever blocking
// a login for longer than a single request.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// LoginURL builds the provider login URL with the given redirect target,
// typically the archive's own callback route. The provider shows its login
// UI and, once the user authenticates, redirects to the target with a token
// query parameter appended.
func (c *Client) LoginURL(redirect string) string {
	return c.BaseURL + "/login?redirect=" + url.QueryEscape(redirect)
}

// RegisterURL is where users without a Mysterria account are sent.
func (c *Client) RegisterURL() string {
	return c.BaseURL + "/register"
}

// GetUser fetches the profile for a user ID using the bearer token as
// credential. Callers use this to enrich the sparse claims in provider
// tokens with the real username and email.
func (c *Client) GetUser(ctx context.Context, subjectID, bearerToken string) (*UserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/api/users/"+url.PathEscape(subjectID), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+bearerToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}

	var info UserInfo
	if err := decodeJSON(resp, &info, http.StatusOK); err != nil {
		return nil, err
	}

	return &info, nil
}
