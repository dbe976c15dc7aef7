package tokenx_test

import (
	"encoding/base64"
	"testing"

	"github.com/mc-mysterria/archive-forum/pkg/tokenx"
	"github.com/stretchr/testify/require"
)

// mintToken builds an unsigned three-segment token with the given payload.
// The header and signature segments are junk on purpose - the codec must
// only ever look at the middle segment.
func mintToken(t *testing.T, payload string) string {
	t.Helper()
	return "a." + base64.RawURLEncoding.EncodeToString([]byte(payload)) + ".sig"
}

func TestDecode(t *testing.T) {
	t.Parallel()

	t.Run("extracts subject from minimal token", func(t *testing.T) {
		// Canonical example: payload {"sub":"user1"}
		claims, err := tokenx.Decode("a.eyJzdWIiOiJ1c2VyMSJ9.sig")
		require.NoError(t, err)
		require.Equal(t, "user1", claims.Subject)
		require.Equal(t, "User-user1", claims.Username)
		require.Empty(t, claims.Email)
		require.Empty(t, claims.Permissions)
		require.NotNil(t, claims.Permissions)
	})

	t.Run("extracts full claim set", func(t *testing.T) {
		token := mintToken(t, `{"sub":"01ABCDEF2345","username":"kira","email":"kira@example.net","permissions":["PERM_ARCHIVE:WRITE","PERM_ARCHIVE:MODERATE"]}`)

		claims, err := tokenx.Decode(token)
		require.NoError(t, err)
		require.Equal(t, "01ABCDEF2345", claims.Subject)
		require.Equal(t, "kira", claims.Username)
		require.Equal(t, "kira@example.net", claims.Email)
		require.Equal(t, []string{"PERM_ARCHIVE:WRITE", "PERM_ARCHIVE:MODERATE"}, claims.Permissions)
	})

	t.Run("synthesises username from long subjects", func(t *testing.T) {
		claims, err := tokenx.Decode(mintToken(t, `{"sub":"0123456789abcdef"}`))
		require.NoError(t, err)
		require.Equal(t, "User-01234567", claims.Username)
	})

	t.Run("rejects wrong segment counts", func(t *testing.T) {
		for _, token := range []string{"", "abc", "a.b", "a.b.c.d"} {
			_, err := tokenx.Decode(token)
			require.ErrorIs(t, err, tokenx.ErrMalformedToken, "token %q", token)
		}
	})

	t.Run("rejects non-base64 payload", func(t *testing.T) {
		_, err := tokenx.Decode("a.!!!not-base64!!!.sig")
		require.ErrorIs(t, err, tokenx.ErrMalformedToken)
	})

	t.Run("rejects non-JSON payload", func(t *testing.T) {
		token := mintToken(t, "this is not json")
		_, err := tokenx.Decode(token)
		require.ErrorIs(t, err, tokenx.ErrMalformedToken)
	})

	t.Run("rejects missing subject", func(t *testing.T) {
		token := mintToken(t, `{"username":"kira","permissions":["PERM_ARCHIVE:READ"]}`)
		_, err := tokenx.Decode(token)
		require.ErrorIs(t, err, tokenx.ErrMissingSubject)
	})
}

func TestFallbackUsername(t *testing.T) {
	t.Parallel()

	require.Equal(t, "User-user1", tokenx.FallbackUsername("user1"))
	require.Equal(t, "User-12345678", tokenx.FallbackUsername("123456789"))
	require.Equal(t, "User-", tokenx.FallbackUsername(""))
}
