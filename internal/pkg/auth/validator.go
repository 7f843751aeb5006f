// Package auth validates bearer credentials presented on the HTTP surface.
// Tokens signed with the shared secret are verified against a fixed algorithm
// whitelist; unsigned (alg=none) tokens are only accepted when explicitly
// enabled for development, and even then the expiry claim is still enforced.
package auth

import (
	"fmt"
	"strings"
	"time"

	xerrors "pulse-agent-service/internal/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
)

// acceptedAlgs is the whitelist of signature algorithms verifiable against the
// configured shared secret.
var acceptedAlgs = []string{"HS256", "HS512"}

type Config struct {
	// SecretKey verifies HMAC-signed tokens. Required unless unsigned tokens
	// are allowed.
	SecretKey string
	// AllowUnsigned accepts alg=none tokens without signature verification.
	AllowUnsigned bool
	// DevMode implies AllowUnsigned.
	DevMode bool
}

type Validator struct {
	cfg Config
}

func NewValidator(cfg Config) *Validator {
	return &Validator{cfg: cfg}
}

// ValidateBearer extracts the token from an Authorization header value and
// validates it. Returns the raw token, its claims and its expiry.
func (v *Validator) ValidateBearer(authorization string) (string, jwt.MapClaims, time.Time, error) {
	if authorization == "" {
		return "", nil, time.Time{}, xerrors.Wrap(xerrors.ErrAuthentication, "authorization header is required")
	}
	if !strings.HasPrefix(authorization, "Bearer ") {
		return "", nil, time.Time{}, xerrors.Wrap(xerrors.ErrAuthentication, "authorization header must start with 'Bearer '")
	}
	token := strings.TrimPrefix(authorization, "Bearer ")
	if token == "" {
		return "", nil, time.Time{}, xerrors.Wrap(xerrors.ErrAuthentication, "token is required")
	}

	claims, expiration, err := v.Validate(token)
	if err != nil {
		return "", nil, time.Time{}, err
	}
	return token, claims, expiration, nil
}

// Validate parses and verifies a raw token, returning its claims and expiry.
// A token is never partially accepted: any failure rejects it outright.
func (v *Validator) Validate(tokenString string) (jwt.MapClaims, time.Time, error) {
	// Decode without verification first to learn the declared algorithm.
	unverified, _, err := jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return nil, time.Time{}, xerrors.Wrapf(xerrors.ErrAuthentication, "invalid token: %v", err)
	}

	var claims jwt.MapClaims
	if unverified.Method.Alg() == "none" && (v.cfg.AllowUnsigned || v.cfg.DevMode) {
		// Unsigned tokens skip signature verification; the expiry check
		// below still applies.
		claims = unverified.Claims.(jwt.MapClaims)
	} else {
		if v.cfg.SecretKey == "" {
			return nil, time.Time{}, xerrors.Wrap(xerrors.ErrInternal, "JWT_SECRET_KEY not configured, required for signed tokens")
		}
		parsed, err := jwt.ParseWithClaims(tokenString, jwt.MapClaims{}, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(v.cfg.SecretKey), nil
		}, jwt.WithValidMethods(acceptedAlgs), jwt.WithoutClaimsValidation())
		if err != nil {
			return nil, time.Time{}, xerrors.Wrapf(xerrors.ErrAuthentication, "invalid token: %v", err)
		}
		claims = parsed.Claims.(jwt.MapClaims)
	}

	expiration, err := expirationFromClaims(claims)
	if err != nil {
		return nil, time.Time{}, err
	}
	if expiration.Before(time.Now()) {
		return nil, time.Time{}, xerrors.Wrapf(xerrors.ErrAuthentication, "token expired at %s", expiration.UTC().Format(time.RFC3339))
	}

	return claims, expiration, nil
}

// expirationFromClaims requires the exp claim; its absence is a validation
// failure rather than an open-ended credential.
func expirationFromClaims(claims jwt.MapClaims) (time.Time, error) {
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, xerrors.Wrap(xerrors.ErrAuthentication, "token missing expiration (exp) claim")
	}
	return exp.Time, nil
}

// StringClaim returns a string-typed claim, or "" when absent or not a string.
func StringClaim(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}

// FirstStringClaim returns the first non-empty string claim among keys.
func FirstStringClaim(claims jwt.MapClaims, keys ...string) string {
	for _, key := range keys {
		if v := StringClaim(claims, key); v != "" {
			return v
		}
	}
	return ""
}
