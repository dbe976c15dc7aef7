package handshake_test

import (
	"path/filepath"
	"testing"

	"github.com/mc-mysterria/archive-forum/internal/archive/domain"
	"github.com/mc-mysterria/archive-forum/internal/archive/handshake"
	"github.com/mc-mysterria/archive-forum/internal/archive/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

func TestFlagStoragePersists(t *testing.T) {
	t.Parallel()

	st, err := sqlite.NewStore(filepath.Join(t.TempDir(), "archive.db"))
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	storage := handshake.NewFlagStorage(st.Flags(), nil)

	_, ok := storage.Get(domain.TokenMirrorKey)
	require.False(t, ok)

	storage.Set(domain.TokenMirrorKey, "tok-1")

	// A second adapter over the same store sees the value: this is what makes
	// the token mirror survive a restart.
	again := handshake.NewFlagStorage(st.Flags(), nil)
	v, ok := again.Get(domain.TokenMirrorKey)
	require.True(t, ok)
	require.Equal(t, "tok-1", v)

	storage.Delete(domain.TokenMirrorKey)
	storage.Delete(domain.TokenMirrorKey)
	_, ok = again.Get(domain.TokenMirrorKey)
	require.False(t, ok)
}
