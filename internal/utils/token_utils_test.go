package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseJWT(t *testing.T) {
	token, err := GenerateJWT("alice", "secret", time.Hour, "dailybalance")
	require.NoError(t, err)

	claims, err := ParseAndValidateJWT(token, "secret", "dailybalance")
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
}

func TestParseAndValidateJWT_Rejects(t *testing.T) {
	token, err := GenerateJWT("alice", "secret", time.Hour, "dailybalance")
	require.NoError(t, err)

	_, err = ParseAndValidateJWT(token, "other-secret", "")
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	_, err = ParseAndValidateJWT(token, "secret", "someone-else")
	assert.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)

	expired, err := GenerateJWT("alice", "secret", -time.Minute, "dailybalance")
	require.NoError(t, err)
	_, err = ParseAndValidateJWT(expired, "secret", "")
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestGenerateSHA256Hash(t *testing.T) {
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", GenerateSHA256Hash("hello"))
}
