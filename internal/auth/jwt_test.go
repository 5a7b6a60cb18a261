package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestNewManager_ShortSecret(t *testing.T) {
	_, err := NewManager("short", time.Hour)
	assert.ErrorIs(t, err, ErrShortSecret)
}

func TestManager_IssueAndVerify(t *testing.T) {
	m, err := NewManager(testSecret, time.Hour)
	require.NoError(t, err)

	token, err := m.Issue("ops", "monday")
	require.NoError(t, err)

	claims, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "ops", claims.Subject)
	assert.True(t, claims.Allows("monday"))
	assert.False(t, claims.Allows("tuesday"))

	_, err = m.Issue("")
	assert.ErrorIs(t, err, ErrEmptySubject)
}

func TestManager_UnscopedTokenAllowsAll(t *testing.T) {
	m, err := NewManager(testSecret, 0)
	require.NoError(t, err)
	token, err := m.Issue("admin")
	require.NoError(t, err)

	claims, err := m.Verify(token)
	require.NoError(t, err)
	assert.Nil(t, claims.ExpiresAt)
	assert.True(t, claims.Allows("anything"))
}

func TestManager_Rejects(t *testing.T) {
	m, err := NewManager(testSecret, time.Minute)
	require.NoError(t, err)
	token, err := m.Issue("ops")
	require.NoError(t, err)

	t.Run("empty", func(t *testing.T) {
		_, err := m.Verify("")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("other secret", func(t *testing.T) {
		other, err := NewManager(strings.Repeat("x", MinSecretLength), time.Minute)
		require.NoError(t, err)
		_, err = other.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		late := *m
		late.now = func() time.Time { return time.Now().Add(time.Hour) }
		_, err := late.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unsigned", func(t *testing.T) {
		none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "ops", Issuer: "enigma"}})
		raw, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = m.Verify(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
