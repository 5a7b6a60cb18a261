package auth

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrForbidden    = errors.New("token does not grant this session")
	ErrShortSecret  = errors.New("secret must be at least 32 characters")
	ErrEmptySubject = errors.New("subject cannot be empty")
)

// MinSecretLength is the shortest HMAC secret NewManager accepts.
const MinSecretLength = 32

// Claims are the claims of a session token. An empty Sessions list grants
// every session.
type Claims struct {
	Sessions []string `json:"sessions,omitempty"`
	jwt.RegisteredClaims
}

// Allows reports whether the token grants access to the named session.
func (c *Claims) Allows(session string) bool {
	return len(c.Sessions) == 0 || slices.Contains(c.Sessions, session)
}

// Manager issues and verifies HS256 session tokens.
type Manager struct {
	secretKey     []byte
	tokenDuration time.Duration
	now           func() time.Time
}

// NewManager creates a new token manager.
// Returns an error if the secret is shorter than 32 characters.
func NewManager(secret string, tokenDuration time.Duration) (*Manager, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrShortSecret
	}
	return &Manager{
		secretKey:     []byte(secret),
		tokenDuration: tokenDuration,
		now:           time.Now,
	}, nil
}

// Issue signs a token for subject. A zero token duration gives a token that
// never expires.
func (m *Manager) Issue(subject string, sessions ...string) (string, error) {
	if subject == "" {
		return "", ErrEmptySubject
	}

	now := m.now()
	claims := Claims{
		Sessions: sessions,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  subject,
			Issuer:   "enigma",
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if m.tokenDuration > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(m.tokenDuration))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of tokenString and returns its claims.
func (m *Manager) Verify(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return m.secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer("enigma"), jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims, nil
}
