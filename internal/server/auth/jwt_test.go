package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/dkarpov/reelmark/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func TestGenerateToken_ProducesThreeSegments(t *testing.T) {
	token, err := GenerateToken("u1", "alice", "a@x.com", testSecret, time.Hour)
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3)
}

func TestParseToken_RoundTrip(t *testing.T) {
	token, err := GenerateToken("u1", "alice", "a@x.com", testSecret, time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "alice", claims.UserName)
	assert.Equal(t, "a@x.com", claims.Email)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestParseToken_Idempotent(t *testing.T) {
	token, err := GenerateToken("u1", "alice", "a@x.com", testSecret, time.Hour)
	require.NoError(t, err)

	first, err := ParseToken(token, testSecret)
	require.NoError(t, err)
	second, err := ParseToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, first.UserID, second.UserID)
	assert.Equal(t, first.ExpiresAt.Time, second.ExpiresAt.Time)
}

func TestParseToken_Expired(t *testing.T) {
	token, err := GenerateToken("u1", "alice", "a@x.com", testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token, testSecret)
	assert.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken("u1", "alice", "a@x.com", testSecret, time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(token, []byte("other-secret"))
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestParseToken_TamperedPayload(t *testing.T) {
	token, err := GenerateToken("u1", "alice", "a@x.com", testSecret, time.Hour)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	// flip a byte in the payload segment
	payload := []byte(parts[1])
	payload[0] ^= 0x01
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	_, err = ParseToken(tampered, testSecret)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestParseToken_Garbage(t *testing.T) {
	for _, raw := range []string{"", "abc", "abc.def", "a.b.c.d"} {
		_, err := ParseToken(raw, testSecret)
		assert.Error(t, err, "raw=%q", raw)
	}
}

func TestPassword_HashAndCheck(t *testing.T) {
	hash, err := HashPassword("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)

	assert.True(t, CheckPassword(hash, "secret1"))
	assert.False(t, CheckPassword(hash, "wrong"))
}

func TestPassword_SaltsDiffer(t *testing.T) {
	h1, err := HashPassword("secret1")
	require.NoError(t, err)
	h2, err := HashPassword("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2, "per-password random salt must make hashes differ")
}
