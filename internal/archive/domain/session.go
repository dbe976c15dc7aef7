package domain

import "slices"

// Archive permission strings as minted by the identity provider.
const (
	PermArchiveRead     = "PERM_ARCHIVE:READ"
	PermArchiveWrite    = "PERM_ARCHIVE:WRITE"
	PermArchiveModerate = "PERM_ARCHIVE:MODERATE"
)

// Identity is the authenticated researcher, folded from token claims and
// optionally enriched from the provider's user directory.
type Identity struct {
	ID          string   `json:"id"`
	Username    string   `json:"username"`
	Email       string   `json:"email,omitempty"`
	Permissions []string `json:"permissions"`
}

// Session is the authenticated state of the current browser context. Token
// and User are always set or cleared together; Authenticated is derived and
// never stored.
type Session struct {
	Token string    `json:"token,omitempty"`
	User  *Identity `json:"user,omitempty"`
}

// Authenticated reports whether both halves of the session are present.
func (s Session) Authenticated() bool {
	return s.Token != "" && s.User != nil
}

// HasPermission reports whether the session's user carries the permission.
func (s Session) HasPermission(permission string) bool {
	if s.User == nil {
		return false
	}
	return slices.Contains(s.User.Permissions, permission)
}
