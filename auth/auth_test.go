package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	m := NewManager("secret", time.Hour, 24*time.Hour)

	token, err := m.CreateAccessToken(7)
	require.NoError(t, err)

	id, err := m.ParseAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, 7, id)
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	token, err := NewManager("one", time.Hour, time.Hour).CreateAccessToken(1)
	require.NoError(t, err)

	_, err = NewManager("two", time.Hour, time.Hour).ParseAccessToken(token)
	require.Error(t, err)
}

func TestParseAccessTokenRejectsGarbage(t *testing.T) {
	m := NewManager("secret", time.Hour, time.Hour)

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := m.ParseAccessToken(token)
		require.Error(t, err, "token %q", token)
	}
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	m := NewManager("secret", -time.Minute, time.Hour)

	token, err := m.CreateAccessToken(1)
	require.NoError(t, err)

	_, err = m.ParseAccessToken(token)
	require.Error(t, err)
}

func TestNewRefreshToken(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		token, err := NewRefreshToken()
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(token), 48)
		require.False(t, seen[token])
		seen[token] = true
	}
}

func TestHashToken(t *testing.T) {
	a := HashToken("abc")
	b := HashToken("abc")
	c := HashToken("abd")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("sekret")
	require.NoError(t, err)
	assert.NotEqual(t, "sekret", hash)

	assert.True(t, CheckPassword(hash, "sekret"))
	assert.False(t, CheckPassword(hash, "tjeter"))
	assert.False(t, CheckPassword("", "sekret"))
}
