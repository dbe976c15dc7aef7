package handshake

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/mc-mysterria/archive-forum/internal/archive/domain"
	"github.com/mc-mysterria/archive-forum/pkg/cryptox"
	"github.com/mc-mysterria/archive-forum/pkg/mysterria"
	"github.com/mc-mysterria/archive-forum/pkg/slogx"
	"github.com/mc-mysterria/archive-forum/pkg/tokenx"
	"github.com/mc-mysterria/archive-forum/pkg/winrelay"
)

const (
	defaultSelfCloseDelay = time.Second
	defaultRedirectDelay  = 2 * time.Second
	enrichmentTimeout     = 10 * time.Second
)

// SessionWriter is the slice of the session store the callback needs.
// Satisfied by *session.Service.
type SessionWriter interface {
	Set(ctx context.Context, token string, user domain.Identity) error
}

// Callback runs the terminal-state machine of the auth callback window:
// pending -> {success, invalid_token, error}. It commits the session, mirrors
// the token and completion flag to shared storage, and relays the outcome to
// the opener window.
type Callback struct {
	sessions SessionWriter
	storage  winrelay.Storage
	provider *mysterria.Client
	origin   string

	// Post-success delays, overridable in tests.
	SelfCloseDelay time.Duration
	RedirectDelay  time.Duration
}

func NewCallback(sessions SessionWriter, storage winrelay.Storage, provider *mysterria.Client, origin string) *Callback {
	return &Callback{
		sessions: sessions,
		storage:  storage,
		provider: provider,
		origin:   origin,

		SelfCloseDelay: defaultSelfCloseDelay,
		RedirectDelay:  defaultRedirectDelay,
	}
}

// CallbackRequest carries the query parameters of one callback invocation
// plus the window it runs in. Window may be nil when no handle exists.
type CallbackRequest struct {
	Token     string
	ReturnURL string
	Popup     bool
	Window    winrelay.Window
}

// CallbackResult is the terminal state the callback settled in, rendered by
// the HTTP layer.
type CallbackResult struct {
	State     domain.CallbackState
	Reason    string
	ReturnURL string

	// User is the committed identity on success, for display.
	User *domain.Identity
}

// Process runs one callback to its terminal state. It never returns pending,
// and it never panics outward: an unexpected failure settles in the error
// state and is relayed to the opener like any provider-reported one.
func (c *Callback) Process(ctx context.Context, req CallbackRequest) (res CallbackResult) {
	logger := slogx.FromContext(ctx)

	if req.ReturnURL == "" {
		req.ReturnURL = "/"
	}
	res.ReturnURL = req.ReturnURL

	defer func() {
		if r := recover(); r != nil {
			logger.Error("callback panicked", "panic", fmt.Sprint(r))
			res.State = domain.CallbackError
			res.Reason = GenericAuthFailure
			res.User = nil
			c.relayError(req, res.Reason)
		}
	}()

	if req.Token == "" {
		// No redirect from this state: the user must see what went wrong.
		logger.Warn("callback without token")
		res.State = domain.CallbackInvalidToken
		res.Reason = "No authentication token received"
		c.relayError(req, res.Reason)
		return res
	}

	claims, err := tokenx.Decode(req.Token)
	if err != nil {
		logger.Warn("callback token rejected", "error", err)
		res.State = domain.CallbackInvalidToken
		res.Reason = "Invalid authentication token"
		c.relayError(req, res.Reason)
		return res
	}

	user := domain.Identity{
		ID:          claims.Subject,
		Username:    claims.Username,
		Email:       claims.Email,
		Permissions: claims.Permissions,
	}
	c.enrich(ctx, req.Token, &user)

	if err := c.sessions.Set(ctx, req.Token, user); err != nil {
		logger.Error("callback failed to commit session", "error", err)
		res.State = domain.CallbackError
		res.Reason = GenericAuthFailure
		c.relayError(req, res.Reason)
		return res
	}

	// The token mirror feeds the launcher's storage poll regardless of flow.
	c.storage.Set(domain.TokenMirrorKey, req.Token)

	logger.Info("callback committed session",
		"user_id", user.ID,
		"username", user.Username,
		"popup", req.Popup,
		"token_fp", cryptox.FingerprintToken(req.Token),
	)

	res.State = domain.CallbackSuccess
	res.User = &user

	if req.Popup {
		// The completion flag is a popup-flow signal only: an inline login
		// has no stranded window for a later closer to act on, and a stale
		// flag would make one close windows spuriously.
		c.storage.Set(domain.CompletionFlagKey, strconv.FormatInt(time.Now().UnixMilli(), 10))
		c.relaySuccess(req)
		c.scheduleSelfClose(req.Window)
	} else {
		c.scheduleRedirect(req.Window, req.ReturnURL)
	}

	return res
}

// enrich replaces the sparse claim identity with the provider profile.
// Strictly best-effort: a failed or slow lookup is logged and discarded, and
// the claims-derived identity stands.
func (c *Callback) enrich(ctx context.Context, token string, user *domain.Identity) {
	if c.provider == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, enrichmentTimeout)
	defer cancel()

	info, err := c.provider.GetUser(ctx, user.ID, token)
	if err != nil {
		slogx.FromContext(ctx).Warn("profile enrichment skipped", "user_id", user.ID, "error", err)
		return
	}

	if name := info.BestUsername(); name != "" {
		user.Username = name
	}
	if info.Email != "" {
		user.Email = info.Email
	}
}

// relaySuccess posts the success message to the opener. Best-effort: no
// opener just means the launcher's storage poll will pick the login up.
func (c *Callback) relaySuccess(req CallbackRequest) {
	if opener, ok := c.opener(req); ok {
		opener.PostMessage(winrelay.Message{
			Type:      winrelay.MessageTypeAuthSuccess,
			ReturnURL: req.ReturnURL,
		}, c.origin)
	}
}

// relayError posts the failure to the opener, when running as a popup with a
// reachable one.
func (c *Callback) relayError(req CallbackRequest, reason string) {
	if !req.Popup {
		return
	}
	if opener, ok := c.opener(req); ok {
		opener.PostMessage(winrelay.Message{
			Type:  winrelay.MessageTypeAuthError,
			Error: reason,
		}, c.origin)
	}
}

func (c *Callback) opener(req CallbackRequest) (winrelay.Window, bool) {
	if req.Window == nil {
		return nil, false
	}
	return req.Window.Opener()
}

// scheduleSelfClose closes the popup after a short delay so the user sees
// the success state before the window disappears.
func (c *Callback) scheduleSelfClose(w winrelay.Window) {
	if w == nil {
		return
	}
	time.AfterFunc(c.SelfCloseDelay, w.Close)
}

// scheduleRedirect sends the inline (non-popup) callback window onward.
func (c *Callback) scheduleRedirect(w winrelay.Window, dest string) {
	if w == nil {
		return
	}
	time.AfterFunc(c.RedirectDelay, func() { w.Navigate(dest) })
}
