package handshake

import (
	"errors"
	"fmt"

	"github.com/mc-mysterria/archive-forum/internal/archive/domain"
)

// ErrPopupBlocked reports that the browser refused to open the login popup.
// It is raised synchronously from StartLogin before any listener or watchdog
// is armed, so callers can tell the user to allow popups right away.
var ErrPopupBlocked = errors.New("handshake: login popup blocked")

// GenericAuthFailure is the fallback reason shown when the provider reported
// a failure without a usable description.
const GenericAuthFailure = "Authentication failed"

// AuthRelayError is an asynchronous failure relayed from the callback window
// to the initiating window, carrying the provider's reported reason or a
// generic fallback.
type AuthRelayError struct {
	Reason string
}

func (e *AuthRelayError) Error() string {
	return fmt.Sprintf("handshake: auth relay error: %s", e.Reason)
}

// ResultErr converts a handshake result into an error value: nil for every
// outcome except OutcomeError, which maps to *AuthRelayError. Abandonment and
// timeout are deliberately not errors; the user just stays logged out.
func ResultErr(res domain.HandshakeResult) error {
	if res.Outcome != domain.OutcomeError {
		return nil
	}
	reason := res.Reason
	if reason == "" {
		reason = GenericAuthFailure
	}
	return &AuthRelayError{Reason: reason}
}
