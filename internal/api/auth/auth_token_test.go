package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-cms-auth/config"
)

var fixedNow = time.Date(2026, time.March, 14, 9, 26, 53, 0, time.UTC)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		SecretKey:        "test-access-secret",
		RefreshSecretKey: "test-refresh-secret",
		Issuer:           "test-issuer",
		Audience:         "test-audience",
		AccessTokenTTL:   15 * time.Minute,
		RefreshTokenTTL:  7 * 24 * time.Hour,
		ResetTokenTTL:    time.Hour,
	}
}

func TestTokenCodec_RoundTrip(t *testing.T) {
	codec := NewTokenCodec(testJWTConfig(), WithClock(func() time.Time { return fixedNow }))

	for _, kind := range []TokenKind{TokenAccess, TokenRefresh, TokenReset} {
		t.Run(string(kind), func(t *testing.T) {
			token, err := codec.Issue(kind, 42)
			require.NoError(t, err)

			claims, err := codec.Verify(kind, token)
			require.NoError(t, err)
			assert.Equal(t, int64(42), claims.AccountID)
			assert.Equal(t, kind, claims.Kind)
			assert.NotEmpty(t, claims.ID)
			assert.True(t, claims.IssuedAt.Equal(fixedNow))
			assert.True(t, claims.ExpiresAt.Equal(fixedNow.Add(codec.TTL(kind))))
		})
	}
}

func TestTokenCodec_UniqueIDs(t *testing.T) {
	codec := NewTokenCodec(testJWTConfig(), WithClock(func() time.Time { return fixedNow }))

	a, err := codec.Issue(TokenAccess, 1)
	require.NoError(t, err)
	b, err := codec.Issue(TokenAccess, 1)
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "same subject and second must still yield distinct tokens")
}

func TestTokenCodec_ExpiryBoundary(t *testing.T) {
	now := fixedNow
	codec := NewTokenCodec(testJWTConfig(), WithClock(func() time.Time { return now }))

	token, err := codec.Issue(TokenAccess, 7)
	require.NoError(t, err)

	now = fixedNow.Add(15*time.Minute - time.Second)
	_, err = codec.Verify(TokenAccess, token)
	assert.NoError(t, err, "valid strictly before exp")

	now = fixedNow.Add(15 * time.Minute)
	_, err = codec.Verify(TokenAccess, token)
	assert.ErrorIs(t, err, ErrTokenExpired, "invalid at exp")

	now = fixedNow.Add(time.Hour)
	_, err = codec.Verify(TokenAccess, token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenCodec_ExpiryBoundary_SubSecondClock(t *testing.T) {
	issuedAt := fixedNow.Add(900 * time.Millisecond)
	now := issuedAt
	codec := NewTokenCodec(testJWTConfig(), WithClock(func() time.Time { return now }))

	for _, ttl := range []time.Duration{15 * time.Minute, 1500 * time.Millisecond} {
		t.Run(ttl.String(), func(t *testing.T) {
			now = issuedAt
			token, err := codec.IssueWithTTL(TokenAccess, 7, ttl)
			require.NoError(t, err)

			claims, err := codec.Verify(TokenAccess, token)
			require.NoError(t, err)
			assert.True(t, claims.IssuedAt.Equal(fixedNow), "issue time is the whole second of the clock")
			assert.LessOrEqual(t, claims.ExpiresAt.Sub(claims.IssuedAt), ttl)

			if ttl%time.Second == 0 {
				now = claims.IssuedAt.Add(ttl - 500*time.Millisecond)
				_, err = codec.Verify(TokenAccess, token)
				assert.NoError(t, err, "valid half a second before issue time + ttl")
			}

			now = claims.IssuedAt.Add(ttl)
			_, err = codec.Verify(TokenAccess, token)
			assert.ErrorIs(t, err, ErrTokenExpired, "expired at issue time + ttl")

			now = issuedAt.Add(ttl)
			_, err = codec.Verify(TokenAccess, token)
			assert.ErrorIs(t, err, ErrTokenExpired, "never outlives the clock reading + ttl")
		})
	}
}

func TestTokenCodec_Rejections(t *testing.T) {
	clock := WithClock(func() time.Time { return fixedNow })
	codec := NewTokenCodec(testJWTConfig(), clock)

	t.Run("malformed", func(t *testing.T) {
		_, err := codec.Verify(TokenAccess, "not-a-jwt")
		assert.ErrorIs(t, err, ErrTokenMalformed)
	})

	t.Run("foreign secret", func(t *testing.T) {
		cfg := testJWTConfig()
		cfg.SecretKey = "someone-else"
		token, err := NewTokenCodec(cfg, clock).Issue(TokenAccess, 1)
		require.NoError(t, err)

		_, err = codec.Verify(TokenAccess, token)
		assert.ErrorIs(t, err, ErrTokenSignature)
	})

	t.Run("swapped payload", func(t *testing.T) {
		victim, err := codec.Issue(TokenAccess, 1)
		require.NoError(t, err)
		attacker, err := codec.Issue(TokenAccess, 2)
		require.NoError(t, err)

		v := strings.Split(victim, ".")
		a := strings.Split(attacker, ".")
		forged := strings.Join([]string{v[0], a[1], v[2]}, ".")

		_, err = codec.Verify(TokenAccess, forged)
		assert.ErrorIs(t, err, ErrTokenSignature)
	})

	t.Run("alg none", func(t *testing.T) {
		claims := Claims{
			Kind: TokenAccess,
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "1",
				Issuer:    "test-issuer",
				Audience:  jwt.ClaimStrings{"test-audience"},
				IssuedAt:  jwt.NewNumericDate(fixedNow),
				ExpiresAt: jwt.NewNumericDate(fixedNow.Add(time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = codec.Verify(TokenAccess, token)
		assert.ErrorIs(t, err, ErrTokenSignature)
	})

	t.Run("reset token used as access", func(t *testing.T) {
		token, err := codec.Issue(TokenReset, 1)
		require.NoError(t, err)

		_, err = codec.Verify(TokenAccess, token)
		assert.ErrorIs(t, err, ErrTokenInvalidClaims)
	})

	t.Run("refresh token used as access with shared secret", func(t *testing.T) {
		cfg := testJWTConfig()
		cfg.RefreshSecretKey = ""
		shared := NewTokenCodec(cfg, clock)
		token, err := shared.Issue(TokenRefresh, 1)
		require.NoError(t, err)

		_, err = shared.Verify(TokenAccess, token)
		assert.ErrorIs(t, err, ErrTokenInvalidClaims)
	})

	t.Run("refresh token used as access with split secrets", func(t *testing.T) {
		token, err := codec.Issue(TokenRefresh, 1)
		require.NoError(t, err)

		_, err = codec.Verify(TokenAccess, token)
		assert.ErrorIs(t, err, ErrTokenSignature)
	})

	t.Run("wrong audience", func(t *testing.T) {
		cfg := testJWTConfig()
		cfg.Audience = "another-app"
		token, err := NewTokenCodec(cfg, clock).Issue(TokenAccess, 1)
		require.NoError(t, err)

		_, err = codec.Verify(TokenAccess, token)
		assert.ErrorIs(t, err, ErrTokenInvalidClaims)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		cfg := testJWTConfig()
		cfg.Issuer = "another-issuer"
		token, err := NewTokenCodec(cfg, clock).Issue(TokenAccess, 1)
		require.NoError(t, err)

		_, err = codec.Verify(TokenAccess, token)
		assert.ErrorIs(t, err, ErrTokenInvalidClaims)
	})
}
