package domain

// Shared storage keys used by the handshake side channels.
const (
	// CompletionFlagKey holds a millisecond timestamp written by the
	// callback on success and cleared by whichever watchdog observes it.
	CompletionFlagKey = "mysterria_auth_completed"

	// TokenMirrorKey is the fallback location the bearer token is mirrored
	// to for components that read storage directly rather than going
	// through the session store.
	TokenMirrorKey = "access_token"
)

// Outcome is the single multiplexed result of one login attempt. The
// underlying signals (opener message, popup-closed poll, token-appeared
// poll, watchdog expiry) race; exactly one Outcome is ever delivered per
// attempt.
type Outcome int

const (
	// OutcomeSuccess: the callback relayed a success message, or the token
	// appeared through the storage side channel.
	OutcomeSuccess Outcome = iota

	// OutcomeError: the callback relayed a provider-reported failure.
	OutcomeError

	// OutcomeAbandoned: the user closed the popup without completing login.
	// Not an error; the user just stays unauthenticated.
	OutcomeAbandoned

	// OutcomeTimedOut: no signal arrived before the watchdog cap.
	OutcomeTimedOut
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeError:
		return "error"
	case OutcomeAbandoned:
		return "abandoned"
	case OutcomeTimedOut:
		return "timed_out"
	default:
		return "unknown"
	}
}

// HandshakeResult is what StartLogin delivers to its caller.
type HandshakeResult struct {
	Outcome Outcome

	// ReturnURL is where the initiating window should navigate on success.
	ReturnURL string

	// Reason carries the human-readable failure description for
	// OutcomeError.
	Reason string

	// Reload signals that session state should be rehydrated from storage
	// rather than taken from the message payload (the nested-redirect path
	// commits the session through the side channel, not the relay).
	Reload bool
}

// CallbackState is the terminal-state machine of the callback page:
// pending -> {success, invalid_token, error}, no transitions out of a
// terminal state.
type CallbackState string

const (
	CallbackPending      CallbackState = "pending"
	CallbackSuccess      CallbackState = "success"
	CallbackInvalidToken CallbackState = "invalid_token"
	CallbackError        CallbackState = "error"
)
