package cryptox_test

import (
	"testing"

	"github.com/mc-mysterria/archive-forum/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestFingerprintToken(t *testing.T) {
	t.Parallel()

	fp := cryptox.FingerprintToken("some-bearer-token")

	// Deterministic and not the input itself.
	require.Equal(t, fp, cryptox.FingerprintToken("some-bearer-token"))
	require.NotEqual(t, fp, cryptox.FingerprintToken("other-token"))
	require.NotContains(t, fp, "some-bearer-token")
	require.Len(t, fp, 43)

	// URL-safe, unpadded.
	require.NotContains(t, fp, "+")
	require.NotContains(t, fp, "/")
	require.NotContains(t, fp, "=")
}
