// Package winrelay models the browser-window primitives the login handshake
// coordinates across: window handles, the cross-window message channel and
// same-origin shared storage. The handshake logic is written against these
// interfaces so the whole protocol - popup blocking, origin filtering,
// watchdog polling, teardown - runs and tests in-process, while production
// wiring backs Storage with the archive's own store.
package winrelay

import "errors"

// ErrBlocked reports that the user agent refused to open a new window.
// This is the synchronous popup-blocked failure: callers must surface it to
// the user immediately, before any listeners or watchdogs are armed.
var ErrBlocked = errors.New("winrelay: window open blocked")

// Message type identifiers for the auth relay protocol.
const (
	MessageTypeAuthSuccess = "MYSTERRIA_AUTH_SUCCESS"
	MessageTypeAuthError   = "MYSTERRIA_AUTH_ERROR"
)

// Message is one cross-window relay message. Origin is stamped by the
// sending window at delivery time; receivers filter on it and must silently
// drop messages from origins they don't trust.
type Message struct {
	Type      string `json:"type"`
	ReturnURL string `json:"returnUrl,omitempty"`
	Error     string `json:"error,omitempty"`

	Origin string `json:"-"`
}

// Window is a handle to one browser window.
type Window interface {
	// URL returns the window's current location.
	URL() string

	// Navigate points the window at a new location.
	Navigate(url string)

	// Closed reports whether the window has been closed, by code or by the
	// user. Safe to call on a closed window.
	Closed() bool

	// Close closes the window. Idempotent.
	Close()

	// Opener returns the window that opened this one, if any.
	Opener() (Window, bool)

	// PostMessage delivers msg to this window's listeners, stamped with the
	// sender's origin. Delivery to a closed window is a no-op.
	PostMessage(msg Message, senderOrigin string)

	// Listen registers a message listener and returns its removal function.
	// Removal is idempotent; a removed listener never fires again.
	Listen(fn func(Message)) (remove func())
}

// Browser opens windows.
type Browser interface {
	// Open opens url in a new window, with opener recorded on the returned
	// handle. Returns ErrBlocked when the user agent refuses.
	Open(opener Window, url, name, features string) (Window, error)
}

// Storage is same-origin shared key/value storage, synchronous like the
// browser's localStorage. Implementations swallow their own failures; the
// handshake treats every storage access as best-effort.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Delete(key string)
}
