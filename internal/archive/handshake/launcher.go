package handshake

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/mc-mysterria/archive-forum/internal/archive/domain"
	"github.com/mc-mysterria/archive-forum/pkg/cryptox"
	"github.com/mc-mysterria/archive-forum/pkg/idx"
	"github.com/mc-mysterria/archive-forum/pkg/mysterria"
	"github.com/mc-mysterria/archive-forum/pkg/slogx"
	"github.com/mc-mysterria/archive-forum/pkg/winrelay"
)

const (
	popupName     = "mysterria-auth"
	popupFeatures = "width=500,height=700,scrollbars=yes,resizable=yes"

	defaultClosedPollInterval = time.Second
	defaultTokenPollInterval  = time.Second
	defaultAttemptCap         = 2 * time.Minute
)

// SessionReader is the slice of the session store the launcher needs: just
// enough to short-circuit a login when a session already exists.
type SessionReader interface {
	Authenticated() bool
}

// Launcher drives the initiating window's side of the login handshake: it
// opens the provider popup and multiplexes every completion signal into a
// single Outcome per attempt.
type Launcher struct {
	provider *mysterria.Client
	origin   string
	browser  winrelay.Browser
	storage  winrelay.Storage
	sessions SessionReader

	// Watchdog timing, overridable in tests.
	ClosedPollInterval time.Duration
	TokenPollInterval  time.Duration
	AttemptCap         time.Duration
}

func NewLauncher(provider *mysterria.Client, origin string, browser winrelay.Browser, storage winrelay.Storage, sessions SessionReader) *Launcher {
	return &Launcher{
		provider: provider,
		origin:   origin,
		browser:  browser,
		storage:  storage,
		sessions: sessions,

		ClosedPollInterval: defaultClosedPollInterval,
		TokenPollInterval:  defaultTokenPollInterval,
		AttemptCap:         defaultAttemptCap,
	}
}

// Attempt is one in-flight login. Its result channel delivers exactly one
// HandshakeResult, no matter how many underlying signals fire.
type Attempt struct {
	ID idx.ID

	result chan domain.HandshakeResult
	once   sync.Once
	stop   chan struct{}
}

// Result delivers the attempt's single outcome.
func (a *Attempt) Result() <-chan domain.HandshakeResult {
	return a.result
}

// finish records the outcome and tears down every arm of the attempt
// together: the message listener, both polls and the cap timer all die with
// the stop channel. Losing racers become no-ops.
func (a *Attempt) finish(res domain.HandshakeResult, actions ...func()) {
	a.once.Do(func() {
		close(a.stop)
		for _, fn := range actions {
			fn()
		}
		a.result <- res
	})
}

// CallbackURL builds the archive callback target handed to the provider,
// marked as a popup flow and carrying the post-login destination.
func (l *Launcher) CallbackURL(returnURL string) string {
	return l.origin + "/auth/callback?popup=true&returnUrl=" + url.QueryEscape(returnURL)
}

// StartLogin opens the provider login popup for opener and arms the attempt.
//
// Returns ErrPopupBlocked synchronously when the browser refuses the window;
// nothing is armed in that case. When a session already exists the popup is
// skipped entirely: the opener is pointed at returnURL and the attempt
// completes immediately with OutcomeSuccess.
func (l *Launcher) StartLogin(ctx context.Context, opener winrelay.Window, returnURL string) (*Attempt, error) {
	if returnURL == "" {
		returnURL = "/"
	}

	attempt := &Attempt{
		ID:     idx.New(),
		result: make(chan domain.HandshakeResult, 1),
		stop:   make(chan struct{}),
	}

	ctx = slogx.WithAttempt(ctx, attempt.ID.String())
	logger := slogx.FromContext(ctx)

	if l.sessions != nil && l.sessions.Authenticated() {
		logger.Info("login short-circuited, session already present", "return_url", returnURL)
		attempt.finish(
			domain.HandshakeResult{Outcome: domain.OutcomeSuccess, ReturnURL: returnURL},
			func() { opener.Navigate(returnURL) },
		)
		return attempt, nil
	}

	loginURL := l.provider.LoginURL(l.CallbackURL(returnURL))

	popup, err := l.browser.Open(opener, loginURL, popupName, popupFeatures)
	if err != nil {
		logger.Warn("login popup blocked")
		return nil, ErrPopupBlocked
	}

	logger.Info("login popup opened", "login_url", loginURL)

	// Arm 1: the cross-window relay. Messages from foreign origins are
	// dropped without logging their payload.
	removeListener := opener.Listen(func(msg winrelay.Message) {
		if msg.Origin != l.origin {
			return
		}

		switch msg.Type {
		case winrelay.MessageTypeAuthSuccess:
			dest := msg.ReturnURL
			if dest == "" {
				dest = returnURL
			}
			logger.Info("auth success relayed", "return_url", dest)
			attempt.finish(
				domain.HandshakeResult{Outcome: domain.OutcomeSuccess, ReturnURL: dest},
				popup.Close,
				func() { opener.Navigate(dest) },
			)
		case winrelay.MessageTypeAuthError:
			reason := msg.Error
			if reason == "" {
				reason = GenericAuthFailure
			}
			logger.Warn("auth error relayed", "reason", reason)
			attempt.finish(
				domain.HandshakeResult{Outcome: domain.OutcomeError, Reason: reason},
				popup.Close,
			)
		}
	})

	// Arms 2-4: the closed poll, the token poll and the attempt cap, all on
	// one goroutine so teardown is a single channel close away.
	go func() {
		defer removeListener()

		closedPoll := time.NewTicker(l.ClosedPollInterval)
		defer closedPoll.Stop()
		tokenPoll := time.NewTicker(l.TokenPollInterval)
		defer tokenPoll.Stop()
		capTimer := time.NewTimer(l.AttemptCap)
		defer capTimer.Stop()

		for {
			select {
			case <-attempt.stop:
				return

			case <-ctx.Done():
				logger.Info("login attempt canceled")
				attempt.finish(domain.HandshakeResult{Outcome: domain.OutcomeAbandoned}, popup.Close)
				return

			case <-closedPoll.C:
				if popup.Closed() {
					logger.Info("login popup closed by user")
					attempt.finish(domain.HandshakeResult{Outcome: domain.OutcomeAbandoned})
					return
				}

			case <-tokenPoll.C:
				// The nested-redirect path: the callback committed the token
				// through storage but its relay message never reached us.
				// The session must be rehydrated from storage, hence Reload.
				if tok, ok := l.storage.Get(domain.TokenMirrorKey); ok && !popup.Closed() {
					logger.Info("token appeared via storage side channel", "token_fp", cryptox.FingerprintToken(tok))
					attempt.finish(
						domain.HandshakeResult{Outcome: domain.OutcomeSuccess, ReturnURL: returnURL, Reload: true},
						popup.Close,
					)
					return
				}

			case <-capTimer.C:
				logger.Warn("login attempt timed out", "cap", l.AttemptCap)
				attempt.finish(domain.HandshakeResult{Outcome: domain.OutcomeTimedOut}, popup.Close)
				return
			}
		}
	}()

	return attempt, nil
}
