package session_test

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/mc-mysterria/archive-forum/internal/archive/domain"
	"github.com/mc-mysterria/archive-forum/internal/archive/session"
	"github.com/mc-mysterria/archive-forum/internal/archive/store/drivers/sqlite"
	"github.com/mc-mysterria/archive-forum/pkg/mysterria"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	st, err := sqlite.NewStore(filepath.Join(t.TempDir(), "archive.db"))
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	return st
}

func TestSetClearRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := session.NewService(newTestStore(t).Sessions())

	require.False(t, svc.Authenticated())

	user := domain.Identity{ID: "user1", Username: "kira", Permissions: []string{domain.PermArchiveWrite}}
	require.NoError(t, svc.Set(ctx, "tok-1", user))

	require.True(t, svc.Authenticated())
	require.Equal(t, "tok-1", svc.Token())
	require.Equal(t, "user1", svc.Current().User.ID)

	require.NoError(t, svc.Clear(ctx))
	require.False(t, svc.Authenticated())
	require.Empty(t, svc.Token())
	require.Nil(t, svc.Current().User)
}

func TestPermissionsFollowSessionState(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := session.NewService(newTestStore(t).Sessions())

	// Read access is public regardless of session state.
	require.True(t, svc.CanRead())
	require.False(t, svc.CanWrite())
	require.False(t, svc.CanModerate())

	user := domain.Identity{ID: "user1", Username: "kira", Permissions: []string{domain.PermArchiveWrite}}
	require.NoError(t, svc.Set(ctx, "tok-1", user))

	require.True(t, svc.HasPermission(domain.PermArchiveWrite))
	require.True(t, svc.CanWrite())
	require.False(t, svc.CanModerate())

	// Re-evaluated on every call: immediately false after clear.
	require.NoError(t, svc.Clear(ctx))
	require.False(t, svc.HasPermission(domain.PermArchiveWrite))
	require.False(t, svc.CanWrite())
	require.True(t, svc.CanRead())
}

func TestSetOverwritesWithoutMerging(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := session.NewService(newTestStore(t).Sessions())

	require.NoError(t, svc.Set(ctx, "tok-1", domain.Identity{ID: "user1", Username: "kira", Permissions: []string{domain.PermArchiveModerate}}))
	require.NoError(t, svc.Set(ctx, "tok-2", domain.Identity{ID: "user2", Username: "lev", Permissions: []string{}}))

	current := svc.Current()
	require.Equal(t, "tok-2", current.Token)
	require.Equal(t, "user2", current.User.ID)
	require.False(t, svc.CanModerate())
}

func TestLoadSurvivesRestart(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := newTestStore(t)

	first := session.NewService(st.Sessions())
	user := domain.Identity{ID: "user1", Username: "kira", Permissions: []string{domain.PermArchiveWrite}}
	require.NoError(t, first.Set(ctx, "tok-1", user))

	// A fresh service over the same store sees the session synchronously.
	second := session.NewService(st.Sessions())
	require.NoError(t, second.Load(ctx))
	require.True(t, second.Authenticated())
	require.Equal(t, "tok-1", second.Token())
	require.True(t, second.CanWrite())
}

func TestClearOnUnauthorized(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := session.NewService(newTestStore(t).Sessions())
	require.NoError(t, svc.Set(ctx, "tok-1", domain.Identity{ID: "user1", Username: "kira"}))

	t.Run("ignores non-401 failures", func(t *testing.T) {
		cleared, err := svc.ClearOnUnauthorized(ctx, &mysterria.APIError{StatusCode: http.StatusBadGateway})
		require.NoError(t, err)
		require.False(t, cleared)
		require.True(t, svc.Authenticated())
	})

	t.Run("clears on 401", func(t *testing.T) {
		cleared, err := svc.ClearOnUnauthorized(ctx, &mysterria.APIError{StatusCode: http.StatusUnauthorized})
		require.NoError(t, err)
		require.True(t, cleared)
		require.False(t, svc.Authenticated())
	})
}
