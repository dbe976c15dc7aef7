package mysterria

// UserInfo is the provider's user profile record. Different deployments have
// returned the display name under different keys over time, so all three are
// accepted.
type UserInfo struct {
	Username    string `json:"username,omitempty"`
	Name        string `json:"name,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	Email       string `json:"email,omitempty"`
}

// BestUsername picks the first present name field, or "" if the profile has
// none.
func (u *UserInfo) BestUsername() string {
	switch {
	case u.Username != "":
		return u.Username
	case u.Name != "":
		return u.Name
	default:
		return u.DisplayName
	}
}
