package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/FACorreiaa/go-cms-auth/config"
)

// TokenKind is carried in the "typ" claim so a token minted for one purpose
// is never accepted for another, even when secrets are shared.
type TokenKind string

const (
	TokenAccess  TokenKind = "access"
	TokenRefresh TokenKind = "refresh"
	TokenReset   TokenKind = "reset"
)

var (
	ErrTokenMalformed     = errors.New("token is malformed")
	ErrTokenSignature     = errors.New("token signature is invalid")
	ErrTokenExpired       = errors.New("token has expired")
	ErrTokenInvalidClaims = errors.New("token claims are not valid for this use")
)

// Claims is the JWT payload signed by the codec.
type Claims struct {
	Kind TokenKind `json:"typ"`
	jwt.RegisteredClaims
}

// TokenClaims is the verified view of a token handed to callers.
type TokenClaims struct {
	AccountID int64
	Kind      TokenKind
	ID        string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenCodec issues and verifies HS256 tokens for the three token kinds.
type TokenCodec struct {
	secrets  map[TokenKind][]byte
	ttls     map[TokenKind]time.Duration
	issuer   string
	audience string
	now      func() time.Time
}

type CodecOption func(*TokenCodec)

// WithClock overrides the time source used for iat, exp and validation.
func WithClock(now func() time.Time) CodecOption {
	return func(c *TokenCodec) {
		c.now = now
	}
}

func NewTokenCodec(cfg config.JWTConfig, opts ...CodecOption) *TokenCodec {
	c := &TokenCodec{
		secrets: map[TokenKind][]byte{
			TokenAccess:  []byte(cfg.SecretKey),
			TokenRefresh: []byte(cfg.RefreshSigningKey()),
			TokenReset:   []byte(cfg.SecretKey),
		},
		ttls: map[TokenKind]time.Duration{
			TokenAccess:  cfg.AccessTokenTTL,
			TokenRefresh: cfg.RefreshTokenTTL,
			TokenReset:   cfg.ResetTokenTTL,
		},
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TTL returns the configured lifetime for kind.
func (c *TokenCodec) TTL(kind TokenKind) time.Duration {
	return c.ttls[kind]
}

// Issue signs a token of the given kind for accountID using the configured TTL.
func (c *TokenCodec) Issue(kind TokenKind, accountID int64) (string, error) {
	return c.IssueWithTTL(kind, accountID, c.ttls[kind])
}

func (c *TokenCodec) IssueWithTTL(kind TokenKind, accountID int64, ttl time.Duration) (string, error) {
	secret, ok := c.secrets[kind]
	if !ok {
		return "", fmt.Errorf("unknown token kind %q", kind)
	}

	// NumericDate has whole-second precision; iat and exp share that base.
	now := c.now().Truncate(time.Second)
	claims := Claims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(accountID, 10),
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}
	if c.audience != "" {
		claims.Audience = jwt.ClaimStrings{c.audience}
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", kind, err)
	}
	return signed, nil
}

// Verify checks signature, expiry, issuer, audience and kind. The returned
// error is one of the ErrToken* sentinels.
func (c *TokenCodec) Verify(kind TokenKind, tokenString string) (*TokenClaims, error) {
	secret, ok := c.secrets[kind]
	if !ok {
		return nil, fmt.Errorf("%w: unknown kind %q", ErrTokenInvalidClaims, kind)
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
	}
	if c.issuer != "" {
		opts = append(opts, jwt.WithIssuer(c.issuer))
	}
	if c.audience != "" {
		opts = append(opts, jwt.WithAudience(c.audience))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	}, opts...)
	if err != nil {
		return nil, classify(err)
	}

	if claims.Kind != kind {
		return nil, fmt.Errorf("%w: expected %s token, got %q", ErrTokenInvalidClaims, kind, claims.Kind)
	}
	accountID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: subject %q", ErrTokenMalformed, claims.Subject)
	}
	if claims.IssuedAt == nil {
		return nil, fmt.Errorf("%w: missing iat", ErrTokenInvalidClaims)
	}

	return &TokenClaims{
		AccountID: accountID,
		Kind:      claims.Kind,
		ID:        claims.ID,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", ErrTokenSignature, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrTokenExpired, err)
	default:
		return fmt.Errorf("%w: %v", ErrTokenInvalidClaims, err)
	}
}
