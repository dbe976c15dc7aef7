package archive_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/mc-mysterria/archive-forum/internal/archive/domain"
	"github.com/mc-mysterria/archive-forum/internal/archive/handshake"
	archivehttp "github.com/mc-mysterria/archive-forum/internal/archive/http"
	"github.com/mc-mysterria/archive-forum/internal/archive/session"
	"github.com/mc-mysterria/archive-forum/internal/archive/store/drivers/sqlite"
	"github.com/mc-mysterria/archive-forum/pkg/mysterria"
	"github.com/mc-mysterria/archive-forum/pkg/winrelay"
	"github.com/stretchr/testify/require"
)

/*
 * End-to-end tests for the login handshake: the full protocol runs in-process
 * over winrelay windows, with the real sqlite-backed session and flag stores
 * underneath. Each stack's MemBrowser onOpen hook plays the identity
 * provider's side of the flow.
 */

const (
	archiveOrigin = "https://archive.mysterria.net"
	providerURL   = "https://www.mysterria.net"
)

// stack is one fully wired archive instance plus the browser fakes.
type stack struct {
	store    *sqlite.Store
	sessions *session.Service
	storage  *handshake.FlagStorage
	launcher *handshake.Launcher
	callback *handshake.Callback
	closer   *handshake.Closer
	browser  *winrelay.MemBrowser
	router   *archivehttp.Router
}

// newStack builds the archive over a fresh database. The onOpen hook, when
// set, is installed as the popup's page script.
func newStack(t *testing.T, onOpen func(s *stack, popup *winrelay.MemWindow)) *stack {
	t.Helper()

	st, err := sqlite.NewStore(filepath.Join(t.TempDir(), "archive.db"))
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	logger := slog.New(slog.DiscardHandler)
	provider := mysterria.NewClient(providerURL)

	s := &stack{store: st}
	s.sessions = session.NewService(st.Sessions())
	s.storage = handshake.NewFlagStorage(st.Flags(), logger)
	s.callback = handshake.NewCallback(s.sessions, s.storage, nil, archiveOrigin)
	s.callback.SelfCloseDelay = 10 * time.Millisecond
	s.callback.RedirectDelay = 10 * time.Millisecond
	s.closer = handshake.NewCloser(s.storage)
	s.closer.PollInterval = 10 * time.Millisecond

	s.browser = winrelay.NewMemBrowser(func(w *winrelay.MemWindow) {
		// Provider page load time.
		time.Sleep(50 * time.Millisecond)
		if onOpen != nil {
			onOpen(s, w)
		}
	})

	s.launcher = handshake.NewLauncher(provider, archiveOrigin, s.browser, s.storage, s.sessions)
	s.launcher.ClosedPollInterval = 10 * time.Millisecond
	// Slower than the relay path on purpose: when both signals are available
	// the opener message should win, as it does in a real browser.
	s.launcher.TokenPollInterval = 250 * time.Millisecond

	s.router = archivehttp.NewRouter(archiveOrigin, "e2e", st, logger)
	s.router.Sessions = s.sessions
	s.router.Storage = s.storage
	s.router.Provider = provider
	s.router.Callback = s.callback
	s.router.Closer = s.closer
	s.router.ApplyRoutes()

	return s
}

// completeLogin plays the provider redirecting the popup back to the archive
// callback with a freshly issued token.
func completeLogin(s *stack, popup *winrelay.MemWindow, token string) {
	redirect := callbackRedirect(popup.URL())
	popup.Navigate(redirect.String())

	s.callback.Process(context.Background(), handshake.CallbackRequest{
		Token:     token,
		ReturnURL: redirect.Query().Get("returnUrl"),
		Popup:     redirect.Query().Get("popup") == "true",
		Window:    popup,
	})
}

// callbackRedirect extracts the archive callback target from the provider
// login URL the popup was opened on.
func callbackRedirect(loginURL string) *url.URL {
	u, err := url.Parse(loginURL)
	if err != nil {
		panic(err)
	}
	redirect, err := url.Parse(u.Query().Get("redirect"))
	if err != nil {
		panic(err)
	}
	return redirect
}

func issueToken(t *testing.T, claims map[string]any) string {
	t.Helper()
	payload, err := json.Marshal(claims)
	require.NoError(t, err)
	return "hdr." + base64.RawURLEncoding.EncodeToString(payload) + ".sig"
}

// restartSessions stands in for a process restart: a fresh session service
// hydrated from the same database.
func restartSessions(t *testing.T, s *stack) *session.Service {
	t.Helper()
	svc := session.NewService(s.store.Sessions())
	require.NoError(t, svc.Load(context.Background()))
	return svc
}

func awaitOutcome(t *testing.T, a *handshake.Attempt) domain.HandshakeResult {
	t.Helper()
	select {
	case r := <-a.Result():
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("no handshake outcome delivered")
		return domain.HandshakeResult{}
	}
}
