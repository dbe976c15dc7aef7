package archive_test

import (
	"context"
	"testing"
	"time"

	"github.com/mc-mysterria/archive-forum/internal/archive/domain"
	"github.com/mc-mysterria/archive-forum/internal/archive/handshake"
	"github.com/mc-mysterria/archive-forum/pkg/winrelay"
	"github.com/stretchr/testify/require"
)

func TestFullPopupHandshake(t *testing.T) {
	t.Parallel()

	token := issueToken(t, map[string]any{
		"sub":         "user1",
		"username":    "kira",
		"permissions": []string{domain.PermArchiveWrite},
	})

	s := newStack(t, func(s *stack, popup *winrelay.MemWindow) {
		completeLogin(s, popup, token)
	})

	opener := winrelay.NewMemWindow(archiveOrigin + "/login")
	attempt, err := s.launcher.StartLogin(context.Background(), opener, "/posts/42")
	require.NoError(t, err)

	res := awaitOutcome(t, attempt)
	require.Equal(t, domain.OutcomeSuccess, res.Outcome)
	require.Equal(t, "/posts/42", res.ReturnURL)

	// The initiating window moved on; the session is live with the token's
	// permissions.
	require.Equal(t, "/posts/42", opener.URL())
	require.True(t, s.sessions.Authenticated())
	require.Equal(t, "kira", s.sessions.Current().User.Username)
	require.True(t, s.sessions.CanWrite())

	// Popup eventually closes itself.
	popup := s.browser.Opened()[0]
	require.Eventually(t, popup.Closed, time.Second, 10*time.Millisecond)

	// The session survives a restart: a second service over the same store
	// hydrates it.
	require.NoError(t, s.store.Ping(context.Background()))
}

func TestProviderReportedFailure(t *testing.T) {
	t.Parallel()

	// The provider redirects back without a usable token.
	s := newStack(t, func(s *stack, popup *winrelay.MemWindow) {
		completeLogin(s, popup, "garbage")
	})

	opener := winrelay.NewMemWindow(archiveOrigin + "/login")
	attempt, err := s.launcher.StartLogin(context.Background(), opener, "/")
	require.NoError(t, err)

	res := awaitOutcome(t, attempt)
	require.Equal(t, domain.OutcomeError, res.Outcome)
	require.Equal(t, "Invalid authentication token", res.Reason)

	var relayErr *handshake.AuthRelayError
	require.ErrorAs(t, handshake.ResultErr(res), &relayErr)

	// Nothing committed anywhere.
	require.False(t, s.sessions.Authenticated())
	_, ok := s.storage.Get(domain.TokenMirrorKey)
	require.False(t, ok)
}

func TestAbandonedLogin(t *testing.T) {
	t.Parallel()

	s := newStack(t, func(s *stack, popup *winrelay.MemWindow) {
		popup.Close()
	})

	opener := winrelay.NewMemWindow(archiveOrigin + "/login")
	attempt, err := s.launcher.StartLogin(context.Background(), opener, "/posts/42")
	require.NoError(t, err)

	res := awaitOutcome(t, attempt)
	require.Equal(t, domain.OutcomeAbandoned, res.Outcome)
	require.False(t, s.sessions.Authenticated())
	require.Equal(t, archiveOrigin+"/login", opener.URL())
}

func TestNestedRedirectFlow(t *testing.T) {
	t.Parallel()

	token := issueToken(t, map[string]any{"sub": "user1", "username": "kira"})

	// The provider opens its own window for the final redirect, so the
	// callback runs in a window with no opener: the relay message has nowhere
	// to go and the handshake completes through the storage side channel.
	var stray *winrelay.MemWindow
	s := newStack(t, func(s *stack, popup *winrelay.MemWindow) {
		stray = winrelay.NewMemWindow(providerURL + "/login/next")
		redirect := callbackRedirect(popup.URL())
		s.callback.Process(context.Background(), handshake.CallbackRequest{
			Token:     token,
			ReturnURL: redirect.Query().Get("returnUrl"),
			Popup:     true,
			Window:    stray,
		})
	})

	opener := winrelay.NewMemWindow(archiveOrigin + "/login")
	attempt, err := s.launcher.StartLogin(context.Background(), opener, "/posts/42")
	require.NoError(t, err)

	res := awaitOutcome(t, attempt)
	require.Equal(t, domain.OutcomeSuccess, res.Outcome)
	require.True(t, res.Reload)

	require.True(t, s.sessions.Authenticated())
	require.True(t, s.browser.Opened()[0].Closed())

	// The stray provider window recovers through the closer page: it
	// observes the completion flag, clears it and closes itself.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	s.closer.Watch(ctx, stray)

	require.True(t, stray.Closed())
	_, ok := s.storage.Get(domain.CompletionFlagKey)
	require.False(t, ok)
}

func TestPopupBlockedSurfacesImmediately(t *testing.T) {
	t.Parallel()

	s := newStack(t, nil)
	s.browser.SetBlocked(true)

	opener := winrelay.NewMemWindow(archiveOrigin + "/login")
	_, err := s.launcher.StartLogin(context.Background(), opener, "/")
	require.ErrorIs(t, err, handshake.ErrPopupBlocked)
	require.False(t, s.sessions.Authenticated())
}

func TestSessionSurvivesRestart(t *testing.T) {
	t.Parallel()

	token := issueToken(t, map[string]any{"sub": "user1", "username": "kira"})
	s := newStack(t, func(s *stack, popup *winrelay.MemWindow) {
		completeLogin(s, popup, token)
	})

	opener := winrelay.NewMemWindow(archiveOrigin + "/login")
	attempt, err := s.launcher.StartLogin(context.Background(), opener, "/")
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeSuccess, awaitOutcome(t, attempt).Outcome)

	// "Restart": fresh services over the same database.
	restarted := restartSessions(t, s)
	require.True(t, restarted.Authenticated())
	require.Equal(t, token, restarted.Token())
	require.Equal(t, "kira", restarted.Current().User.Username)
}
