package auth

import (
	"testing"
	"time"

	"card-casino-go/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() config.Config {
	return config.Config{JWTSecret: "test-secret", JWTIssuer: "card-casino", JWTTTL: time.Hour}
}

func TestTokenRoundTrip(t *testing.T) {
	cfg := testConfig()
	tok, err := GenerateToken("sess-1", "poker", cfg)
	require.NoError(t, err)

	claims, err := ParseAndValidateToken(tok, cfg)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", claims.SessionID)
	assert.Equal(t, "poker", claims.Game)
	assert.Equal(t, "sess-1", claims.Subject)
}

func TestTokenRejections(t *testing.T) {
	cfg := testConfig()
	tok, err := GenerateToken("sess-1", "poker", cfg)
	require.NoError(t, err)

	other := cfg
	other.JWTSecret = "different"
	_, err = ParseAndValidateToken(tok, other)
	assert.Error(t, err, "wrong secret")

	other = cfg
	other.JWTIssuer = "someone-else"
	_, err = ParseAndValidateToken(tok, other)
	assert.Error(t, err, "wrong issuer")

	expired := cfg
	expired.JWTTTL = -time.Hour
	tok, err = GenerateToken("sess-1", "poker", expired)
	require.NoError(t, err)
	_, err = ParseAndValidateToken(tok, cfg)
	assert.Error(t, err, "expired")

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{SessionID: "sess-1"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = ParseAndValidateToken(unsigned, cfg)
	assert.Error(t, err, "alg none")

	_, err = GenerateToken("sess-1", "poker", config.Config{})
	assert.Error(t, err)
}
