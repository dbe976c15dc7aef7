// Package tokenx extracts identity claims from bearer tokens without
// verifying them. The archive is a relying party: tokens are minted and
// signed by the Mysterria identity provider, and signature verification is
// the provider's responsibility. We only need the claim payload to know who
// the user is and what archive permissions they carry.
package tokenx

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMalformedToken reports a token without the expected three-segment
	// structure, or whose payload is not decodable base64 JSON.
	ErrMalformedToken = errors.New("tokenx: malformed token")

	// ErrMissingSubject reports a structurally valid token whose payload has
	// no subject claim. A token without a subject identifies nobody.
	ErrMissingSubject = errors.New("tokenx: missing subject claim")
)

// Claims is the decoded, unverified payload of a bearer token.
type Claims struct {
	// Subject is the user ID. Always present on a successful decode.
	Subject string

	// Username is the username claim, or a placeholder synthesised from the
	// subject when the provider's tokens omit it (Mysterria backend tokens
	// do - the real username comes from the user lookup endpoint).
	Username string

	// Email is optional.
	Email string

	// Permissions are the archive permission strings, empty if absent.
	Permissions []string
}

// payload mirrors the claim fields the archive cares about. Registered
// claims give us "sub"; the rest are Mysterria's custom fields.
type payload struct {
	jwt.RegisteredClaims

	Username    string   `json:"username,omitempty"`
	Email       string   `json:"email,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

// Decode splits the token into its segments, base64-decodes the middle one
// and extracts the claim set. Only the payload segment is examined: provider
// tokens have been seen in the wild with header segments we can't decode,
// and the header carries nothing the archive needs. Pure function, no side
// effects.
func Decode(token string) (Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return Claims{}, fmt.Errorf("%w: expected 3 segments, got %d", ErrMalformedToken, len(parts))
	}

	seg, err := jwt.NewParser().DecodeSegment(parts[1])
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrMalformedToken, err)
	}

	var p payload
	if err := json.Unmarshal(seg, &p); err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrMalformedToken, err)
	}

	if p.Subject == "" {
		return Claims{}, ErrMissingSubject
	}

	claims := Claims{
		Subject:     p.Subject,
		Username:    p.Username,
		Email:       p.Email,
		Permissions: p.Permissions,
	}

	if claims.Username == "" {
		claims.Username = FallbackUsername(p.Subject)
	}
	if claims.Permissions == nil {
		claims.Permissions = []string{}
	}

	return claims, nil
}

// FallbackUsername synthesises a display name from a subject ID, matching
// the "User-<first 8 chars of sub>" convention the archive UI shows before
// enrichment fills in the real username.
func FallbackUsername(subject string) string {
	if len(subject) > 8 {
		subject = subject[:8]
	}
	return "User-" + subject
}
