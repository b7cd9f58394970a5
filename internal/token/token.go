package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Validation failures are distinct so callers can log which stage rejected a
// token, even though every one of them is presented to the client the same way.
var (
	ErrMalformed = errors.New("malformed token")
	ErrExpired   = errors.New("token expired")
	ErrSignature = errors.New("token signature mismatch")
)

// Config carries the signing material for a Service. The key and TTL are fixed
// at construction; a Service never mutates after that.
type Config struct {
	Secret    string
	Algorithm string
	TTL       time.Duration
}

// Service issues and validates time-bounded bearer tokens. It holds no state
// beyond its signing key and TTL; validity of a token is purely a function of
// its signature and expiry against the supplied clock reading.
type Service struct {
	secret []byte
	method jwt.SigningMethod
	alg    string
	ttl    time.Duration
}

// NewService builds a token Service from explicit configuration. Only
// symmetric HMAC algorithms are accepted.
func NewService(cfg Config) (*Service, error) {
	if cfg.Secret == "" {
		return nil, errors.New("token: signing secret is required")
	}
	if cfg.TTL <= 0 {
		return nil, errors.New("token: ttl must be positive")
	}

	method := jwt.GetSigningMethod(cfg.Algorithm)
	if method == nil {
		return nil, fmt.Errorf("token: unknown signing algorithm %q", cfg.Algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("token: algorithm %q is not symmetric", cfg.Algorithm)
	}

	return &Service{
		secret: []byte(cfg.Secret),
		method: method,
		alg:    cfg.Algorithm,
		ttl:    cfg.TTL,
	}, nil
}

// Issue signs a token for the given subject, expiring exactly TTL after now.
func (s *Service) Issue(subject string, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	return jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
}

// Validate verifies the token's signature and expiry against now and returns
// its subject. Failures map to ErrMalformed, ErrExpired or ErrSignature; a
// structurally valid token without a subject is treated as malformed.
func (s *Service) Validate(tokenString string, now time.Time) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{s.alg}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "", ErrSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return "", ErrExpired
	default:
		return "", ErrMalformed
	}

	if claims.Subject == "" {
		return "", ErrMalformed
	}

	return claims.Subject, nil
}

// Refresh validates the token and issues a new one for the same subject with a
// fresh expiry. A token that fails Validate, including an expired one, fails
// Refresh the same way; refresh never extends an invalid token. The HTTP
// refresh endpoint reaches the same validate-then-issue sequence through the
// bearer middleware, which additionally re-checks that the subject still
// exists before a new token is issued.
func (s *Service) Refresh(tokenString string, now time.Time) (string, error) {
	subject, err := s.Validate(tokenString, now)
	if err != nil {
		return "", err
	}

	return s.Issue(subject, now)
}

// TTL returns the fixed token lifetime.
func (s *Service) TTL() time.Duration {
	return s.ttl
}
