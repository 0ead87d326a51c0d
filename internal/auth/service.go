package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"booklist/internal/platform/metrics"
)

// DefaultTokenTTL is how long an issued credential stays valid.
const DefaultTokenTTL = 24 * time.Hour

const bearerPrefix = "Bearer "

var (
	ErrUnauthorized = errors.New("unauthorized")

	ErrInvalidPasscode = fmt.Errorf("%w: invalid passcode", ErrUnauthorized)
	ErrMissingBearer   = fmt.Errorf("%w: invalid authorization header", ErrUnauthorized)
	ErrTokenExpired    = fmt.Errorf("%w: token has expired", ErrUnauthorized)
	ErrTokenInvalid    = fmt.Errorf("%w: invalid token", ErrUnauthorized)
)

// Token is an issued session credential.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// Service issues and verifies session credentials. It holds no state besides
// its configured secrets.
type Service struct {
	passcode []byte
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

type Option func(*Service)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func NewService(passcode, secret string, opts ...Option) *Service {
	s := &Service{
		passcode: []byte(passcode),
		secret:   []byte(secret),
		ttl:      DefaultTokenTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue returns a signed credential when passcode matches the configured one.
func (s *Service) Issue(passcode string) (Token, error) {
	if subtle.ConstantTimeCompare([]byte(passcode), s.passcode) != 1 {
		metrics.AuthFailuresTotal.WithLabelValues(Reason(ErrInvalidPasscode)).Inc()
		return Token{}, ErrInvalidPasscode
	}

	issuedAt := s.now()
	value, err := GenerateToken(s.secret, Subject, issuedAt, s.ttl)
	if err != nil {
		return Token{}, fmt.Errorf("sign token: %w", err)
	}
	metrics.TokensIssuedTotal.Inc()
	return Token{Value: value, ExpiresAt: issuedAt.Add(s.ttl).Truncate(time.Second)}, nil
}

// Verify checks a raw Authorization header value ("Bearer <token>").
func (s *Service) Verify(authorization string) (*Claims, error) {
	claims, err := s.verify(authorization)
	if err != nil {
		metrics.AuthFailuresTotal.WithLabelValues(Reason(err)).Inc()
		return nil, err
	}
	return claims, nil
}

func (s *Service) verify(authorization string) (*Claims, error) {
	if !strings.HasPrefix(authorization, bearerPrefix) {
		return nil, ErrMissingBearer
	}
	tokenStr := strings.TrimPrefix(authorization, bearerPrefix)
	if tokenStr == "" {
		return nil, ErrMissingBearer
	}

	claims, err := ParseToken(s.secret, tokenStr, s.now)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if claims.Subject != Subject {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// Authenticate adapts Verify to httpx.Authenticator.
func (s *Service) Authenticate(authorization string) (string, error) {
	claims, err := s.Verify(authorization)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// Reason names an auth failure for logs and metrics.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrInvalidPasscode):
		return "bad_passcode"
	case errors.Is(err, ErrMissingBearer):
		return "missing_bearer"
	case errors.Is(err, ErrTokenExpired):
		return "expired"
	case errors.Is(err, ErrTokenInvalid):
		return "invalid"
	default:
		return "other"
	}
}
