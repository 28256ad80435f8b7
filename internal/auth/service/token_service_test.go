package service

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/auth-api/internal/auth/domain"
	userDomain "github.com/allisson/auth-api/internal/user/domain"
)

const testSecret = "test-signing-secret"

// newTestTokenService returns a token service with an adjustable clock.
func newTestTokenService(expiration time.Duration) (*tokenService, *time.Time) {
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := &tokenService{
		secret:     []byte(testSecret),
		expiration: expiration,
		now:        func() time.Time { return current },
	}
	return svc, &current
}

func testUser() *userDomain.User {
	return &userDomain.User{
		ID:    uuid.Must(uuid.NewV7()),
		Email: "jo@example.com",
		Name:  "Jo Doe",
	}
}

// tamperSignature flips the last character of the token's signature segment.
func tamperSignature(t *testing.T, token string) string {
	t.Helper()
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	sig := parts[2]
	last := sig[len(sig)-1]
	replacement := byte('A')
	if last == 'A' {
		replacement = 'B'
	}
	parts[2] = sig[:len(sig)-1] + string(replacement)
	return strings.Join(parts, ".")
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	svc, _ := newTestTokenService(24 * time.Hour)
	user := testUser()

	issued, err := svc.Issue(user)
	require.NoError(t, err)
	require.NotNil(t, issued)

	assert.Equal(t, authDomain.TokenType, issued.Type)
	assert.Equal(t, 24*time.Hour, issued.ExpiresIn)
	assert.Equal(t, issued.IssuedAt.Add(24*time.Hour), issued.ExpiresAt)

	claims, err := svc.Verify(issued.Token)
	require.NoError(t, err)

	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, user.Name, claims.Name)
	assert.Equal(t, authDomain.TokenIssuer, claims.Issuer)
	assert.Contains(t, claims.Audience, authDomain.TokenAudience)

	// exp - iat equals the configured lifetime within clock tolerance.
	lifetime := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	assert.InDelta(t, (24 * time.Hour).Seconds(), lifetime.Seconds(), 1.0)
}

func TestVerifyFailureKinds(t *testing.T) {
	svc, current := newTestTokenService(24 * time.Hour)
	user := testUser()

	issued, err := svc.Issue(user)
	require.NoError(t, err)

	t.Run("expired", func(t *testing.T) {
		svcLater := &tokenService{
			secret:     svc.secret,
			expiration: svc.expiration,
			now:        func() time.Time { return current.Add(25 * time.Hour) },
		}
		_, err := svcLater.Verify(issued.Token)
		assert.ErrorIs(t, err, authDomain.ErrTokenExpired)
	})

	t.Run("tampered signature", func(t *testing.T) {
		_, err := svc.Verify(tamperSignature(t, issued.Token))
		assert.ErrorIs(t, err, authDomain.ErrTokenSignatureInvalid)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := &tokenService{
			secret:     []byte("some-other-secret"),
			expiration: svc.expiration,
			now:        svc.now,
		}
		_, err := other.Verify(issued.Token)
		assert.ErrorIs(t, err, authDomain.ErrTokenSignatureInvalid)
	})

	t.Run("not yet valid", func(t *testing.T) {
		claims := &authDomain.Claims{
			UserID: user.ID,
			Email:  user.Email,
			Name:   user.Name,
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    authDomain.TokenIssuer,
				Audience:  jwt.ClaimStrings{authDomain.TokenAudience},
				NotBefore: jwt.NewNumericDate(svc.now().Add(time.Hour)),
				IssuedAt:  jwt.NewNumericDate(svc.now()),
				ExpiresAt: jwt.NewNumericDate(svc.now().Add(24 * time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(svc.secret)
		require.NoError(t, err)

		_, err = svc.Verify(token)
		assert.ErrorIs(t, err, authDomain.ErrTokenNotYetValid)
	})

	t.Run("issuer mismatch", func(t *testing.T) {
		claims := &authDomain.Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "some-other-api",
				Audience:  jwt.ClaimStrings{authDomain.TokenAudience},
				IssuedAt:  jwt.NewNumericDate(svc.now()),
				ExpiresAt: jwt.NewNumericDate(svc.now().Add(24 * time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(svc.secret)
		require.NoError(t, err)

		_, err = svc.Verify(token)
		assert.ErrorIs(t, err, authDomain.ErrTokenClaimsMismatch)
	})

	t.Run("audience mismatch", func(t *testing.T) {
		claims := &authDomain.Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    authDomain.TokenIssuer,
				Audience:  jwt.ClaimStrings{"another-audience"},
				IssuedAt:  jwt.NewNumericDate(svc.now()),
				ExpiresAt: jwt.NewNumericDate(svc.now().Add(24 * time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(svc.secret)
		require.NoError(t, err)

		_, err = svc.Verify(token)
		assert.ErrorIs(t, err, authDomain.ErrTokenClaimsMismatch)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := svc.Verify("not-a-token")
		assert.ErrorIs(t, err, authDomain.ErrTokenMalformed)
	})
}

func TestDecode(t *testing.T) {
	svc, _ := newTestTokenService(24 * time.Hour)
	user := testUser()

	issued, err := svc.Issue(user)
	require.NoError(t, err)

	t.Run("decodes without signature verification", func(t *testing.T) {
		claims, err := svc.Decode(tamperSignature(t, issued.Token))
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
		assert.Equal(t, user.Email, claims.Email)
	})

	t.Run("malformed input", func(t *testing.T) {
		_, err := svc.Decode("garbage")
		assert.ErrorIs(t, err, authDomain.ErrTokenMalformed)
	})
}

func TestRemainingValidity(t *testing.T) {
	svc, current := newTestTokenService(24 * time.Hour)

	issued, err := svc.Issue(testUser())
	require.NoError(t, err)

	t.Run("full lifetime at issuance", func(t *testing.T) {
		assert.Equal(t, 24*time.Hour, svc.RemainingValidity(issued.Token))
	})

	t.Run("partial lifetime", func(t *testing.T) {
		*current = current.Add(10 * time.Hour)
		assert.Equal(t, 14*time.Hour, svc.RemainingValidity(issued.Token))
		*current = current.Add(-10 * time.Hour)
	})

	t.Run("zero after expiry", func(t *testing.T) {
		*current = current.Add(25 * time.Hour)
		assert.Equal(t, time.Duration(0), svc.RemainingValidity(issued.Token))
		*current = current.Add(-25 * time.Hour)
	})

	t.Run("zero on decode failure", func(t *testing.T) {
		assert.Equal(t, time.Duration(0), svc.RemainingValidity("garbage"))
	})
}

func TestIsNearExpiry(t *testing.T) {
	svc, current := newTestTokenService(24 * time.Hour)
	issuedAt := *current

	issued, err := svc.Issue(testUser())
	require.NoError(t, err)

	t.Run("boundary flips exactly at the threshold", func(t *testing.T) {
		*current = issuedAt.Add(23*time.Hour + 29*time.Minute)
		assert.False(t, svc.IsNearExpiry(issued.Token, 30*time.Minute))

		*current = issuedAt.Add(23*time.Hour + 31*time.Minute)
		assert.True(t, svc.IsNearExpiry(issued.Token, 30*time.Minute))
	})

	t.Run("fail-safe true on undecodable token", func(t *testing.T) {
		assert.True(t, svc.IsNearExpiry("garbage", 30*time.Minute))
	})
}

func TestRefresh(t *testing.T) {
	svc, current := newTestTokenService(24 * time.Hour)
	user := testUser()

	issued, err := svc.Issue(user)
	require.NoError(t, err)

	t.Run("re-issues with fresh temporal claims", func(t *testing.T) {
		*current = current.Add(23 * time.Hour)
		defer func() { *current = current.Add(-23 * time.Hour) }()

		refreshed, err := svc.Refresh(issued.Token)
		require.NoError(t, err)
		assert.NotEqual(t, issued.Token, refreshed.Token)

		claims, err := svc.Verify(refreshed.Token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
		assert.Equal(t, user.Email, claims.Email)
		assert.Equal(t, user.Name, claims.Name)

		// New token gets a fresh full lifetime from the refresh instant.
		assert.Equal(t, current.UTC(), refreshed.IssuedAt)
		assert.Equal(t, current.UTC().Add(24*time.Hour), refreshed.ExpiresAt)
	})

	t.Run("expired token never yields a new one", func(t *testing.T) {
		*current = current.Add(25 * time.Hour)
		defer func() { *current = current.Add(-25 * time.Hour) }()

		refreshed, err := svc.Refresh(issued.Token)
		assert.ErrorIs(t, err, authDomain.ErrTokenExpired)
		assert.Nil(t, refreshed)
	})

	t.Run("tampered token never yields a new one", func(t *testing.T) {
		refreshed, err := svc.Refresh(tamperSignature(t, issued.Token))
		assert.ErrorIs(t, err, authDomain.ErrTokenSignatureInvalid)
		assert.Nil(t, refreshed)
	})
}
