package credentials

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenService issues and verifies session tokens
type TokenService interface {
	Issue(identity Identity) (string, error)
	Verify(tokenString string) (*JWTClaims, error)
}

// TokenServiceImpl signs HS256 tokens with a key injected at construction
type TokenServiceImpl struct {
	signingKey []byte
	ttl        time.Duration
	issuer     string
	audience   jwt.ClaimStrings
	logger     Logger
	now        func() time.Time
}

var _ TokenService = (*TokenServiceImpl)(nil)

// TokenServiceOption customizes the token service
type TokenServiceOption func(*TokenServiceImpl)

// WithTokenTTL sets the token lifetime. Zero issues tokens without exp.
func WithTokenTTL(ttl time.Duration) TokenServiceOption {
	return func(ts *TokenServiceImpl) {
		ts.ttl = ttl
	}
}

// WithTokenIssuer sets the iss claim and requires it on verification
func WithTokenIssuer(issuer string) TokenServiceOption {
	return func(ts *TokenServiceImpl) {
		ts.issuer = issuer
	}
}

// WithTokenAudience sets the aud claim and requires it on verification
func WithTokenAudience(audience ...string) TokenServiceOption {
	return func(ts *TokenServiceImpl) {
		ts.audience = jwt.ClaimStrings(audience)
	}
}

// WithTokenLogger sets the logger
func WithTokenLogger(logger Logger) TokenServiceOption {
	return func(ts *TokenServiceImpl) {
		if logger != nil {
			ts.logger = logger
		}
	}
}

// WithTokenClock injects a custom clock (useful for tests)
func WithTokenClock(now func() time.Time) TokenServiceOption {
	return func(ts *TokenServiceImpl) {
		if now != nil {
			ts.now = now
		}
	}
}

// NewTokenService creates a new TokenService instance.
// An empty signing key is rejected with ErrMissingSigningKey.
func NewTokenService(signingKey []byte, opts ...TokenServiceOption) (*TokenServiceImpl, error) {
	if len(signingKey) == 0 {
		return nil, ErrMissingSigningKey
	}

	key := make([]byte, len(signingKey))
	copy(key, signingKey)

	ts := &TokenServiceImpl{
		signingKey: key,
		logger:     defLogger{},
		now:        time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(ts)
		}
	}

	return ts, nil
}

// Issue signs the identity into a bearer token
func (ts *TokenServiceImpl) Issue(identity Identity) (string, error) {
	now := ts.now()

	claims := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.NewString(),
			Issuer:   ts.issuer,
			Subject:  identity.UserID,
			IssuedAt: jwt.NewNumericDate(now),
		},
		UID:       identity.UserID,
		FirstName: identity.FirstName,
		LastName:  identity.LastName,
		UserRole:  identity.Role,
	}

	if len(ts.audience) > 0 {
		claims.Audience = append(jwt.ClaimStrings(nil), ts.audience...)
	}

	if ts.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ts.ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(ts.signingKey)
	if err != nil {
		ts.logger.Error("TokenService failed to sign token", "error", err)
		return "", wrapError(ErrInternal, err)
	}

	return signed, nil
}

// Verify parses and validates a token string, returning its claims.
// Every failure is reported as ErrInvalidToken with the cause attached.
func (ts *TokenServiceImpl) Verify(tokenString string) (*JWTClaims, error) {
	parserOptions := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(ts.now),
	}
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		ts.logger.Debug("TokenService verify failed", "error", err)
		return nil, wrapError(ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.UserID() == "" || !claims.UserRole.IsValid() {
		return nil, withMetadata(ErrInvalidToken, map[string]any{
			"reason": "incomplete claims",
		})
	}

	if len(ts.audience) > 0 && !hasAudience(claims.Audience, ts.audience) {
		ts.logger.Debug("TokenService verify failed", "error", "audience mismatch", "aud", claims.Audience)
		return nil, withMetadata(ErrInvalidToken, map[string]any{
			"reason": "audience mismatch",
		})
	}

	return claims, nil
}

// hasAudience reports whether the token names at least one accepted audience
func hasAudience(aud jwt.ClaimStrings, accepted []string) bool {
	for _, want := range accepted {
		for _, got := range aud {
			if got == want {
				return true
			}
		}
	}
	return false
}
