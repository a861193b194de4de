package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	user := &User{ID: 1, Email: "a@example.com"}
	token, exp, err := IssueToken(user, "classtrack", "secret", time.Minute)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Minute), exp, 5*time.Second)

	claims, err := ParseToken(token, "secret", "classtrack")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", claims.Email)
	assert.Equal(t, "a@example.com", claims.Subject)
}

func TestTokenRejectsBadKeyAndIssuer(t *testing.T) {
	user := &User{ID: 1, Email: "a@example.com"}
	token, _, err := IssueToken(user, "classtrack", "secret", time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token, "wrong", "classtrack")
	assert.Error(t, err)

	_, err = ParseToken(token, "secret", "someone-else")
	assert.Error(t, err)
}

func TestTokenExpiry(t *testing.T) {
	user := &User{ID: 1, Email: "a@example.com"}
	token, _, err := IssueToken(user, "classtrack", "secret", -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token, "secret", "classtrack")
	assert.Error(t, err)
}
