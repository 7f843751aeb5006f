// Package tokenctx carries the current request's bearer credential through
// context.Context so that agent tools can authenticate outbound calls without
// the token being threaded through every function signature. Each request gets
// its own context, so concurrent chats never observe each other's credential.
package tokenctx

import "context"

type tokenKey struct{}

// WithToken returns a child context carrying the bearer token.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// FromContext returns the token stored in ctx, if any.
func FromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey{}).(string)
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

// Resolve picks the credential for an outbound call.
// Precedence: explicit parameter > request-scoped context value > fallback
// (a statically configured service-account token, possibly empty).
func Resolve(ctx context.Context, explicit, fallback string) string {
	if explicit != "" {
		return explicit
	}
	if token, ok := FromContext(ctx); ok {
		return token
	}
	return fallback
}
