package sandbox

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidCSRF covers missing, malformed, expired and foreign tokens.
var ErrInvalidCSRF = errors.New("invalid csrf token")

const defaultTokenTTL = 15 * time.Minute

type csrfClaims struct {
	Session string `json:"sid"`
	jwt.RegisteredClaims
}

// TokenIssuer signs CSRF tokens bound to a session id.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer returns an issuer signing HS256 tokens with secret.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a token for session.
func (t *TokenIssuer) Issue(session string) (string, error) {
	now := t.now()
	claims := csrfClaims{
		Session: session,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign csrf token: %w", err)
	}
	return signed, nil
}

// Verify checks that token is valid, unexpired and issued for session.
func (t *TokenIssuer) Verify(token, session string) error {
	if token == "" || session == "" {
		return ErrInvalidCSRF
	}
	parsed, err := jwt.ParseWithClaims(token, &csrfClaims{}, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCSRF, err)
	}
	claims, ok := parsed.Claims.(*csrfClaims)
	if !ok || !parsed.Valid || claims.Session != session {
		return ErrInvalidCSRF
	}
	return nil
}
