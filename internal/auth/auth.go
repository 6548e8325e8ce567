package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken    = errors.New("invalid token")
	ErrTokenExpired    = errors.New("token expired")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrEmptySecret     = errors.New("signing secret is empty")
)

// Claims carries the verified contents of an identity token.
type Claims struct {
	jwt.RegisteredClaims
}

// Tokenizer mints and verifies signed identity tokens. It holds the signing
// secret and the default validity window, set once at construction; there is
// no ambient configuration and no server-side token state.
type Tokenizer struct {
	secret   []byte
	tokenTTL time.Duration
}

func NewTokenizer(secret string, tokenTTL time.Duration) (*Tokenizer, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}

	return &Tokenizer{
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
	}, nil
}

// Issue mints a token for the given subject with the default validity window.
func (t *Tokenizer) Issue(subject string) (string, error) {
	return t.IssueWithTTL(subject, t.tokenTTL)
}

func (t *Tokenizer) IssueWithTTL(subject string, ttl time.Duration) (string, error) {
	const op = "auth.IssueWithTTL"

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	})

	tokenString, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return tokenString, nil
}

// Verify checks the signature and expiry and returns the decoded claims.
// A structurally valid but expired token fails with ErrTokenExpired; every
// other failure is ErrInvalidToken.
func (t *Tokenizer) Verify(tokenString string) (*Claims, error) {
	const op = "auth.Verify"

	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(tok *jwt.Token) (interface{}, error) {
		if tok.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return t.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%s: %w", op, ErrTokenExpired)
		}
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	if !token.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	return claims, nil
}

// Secret exposes the signing key for the HTTP-layer verifier middleware.
func (t *Tokenizer) Secret() []byte {
	return t.secret
}
