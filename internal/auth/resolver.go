// Package auth derives a user identity from a request's authentication
// evidence. It decodes bearer tokens but does not verify signatures — real
// authorization is enforced upstream by the identity provider, and this
// package's only contract is "give me a user id".
package auth

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
)

// UserIDHeader is the explicit identity header honored for test and local
// development. It allows identity spoofing and must not be trusted in a
// production deployment without additional verification.
const UserIDHeader = "X-User-ID"

// Resolver derives a user identifier from a request. Implementations never
// fail — some identifier always comes back. A production deployment can
// swap in a resolver that performs full signature verification.
type Resolver interface {
	UserID(r *http.Request) string
}

// Options configures the default resolver chain.
type Options struct {
	// TestUserID, when non-empty, is returned whenever the bearer token
	// yields nothing. Operator-configured, test mode only.
	TestUserID string
	// Fallback is the identifier of last resort, e.g. "demo-user".
	Fallback string
}

type chainResolver struct {
	opts Options
}

// NewResolver returns the default resolver. Precedence, first success wins:
// bearer token sub claim, test-mode override, explicit identity header,
// fixed fallback.
func NewResolver(opts Options) Resolver {
	if opts.Fallback == "" {
		opts.Fallback = "demo-user"
	}
	return &chainResolver{opts: opts}
}

func (c *chainResolver) UserID(r *http.Request) string {
	if sub := bearerSubject(r.Header.Get("Authorization")); sub != "" {
		return sub
	}
	if c.opts.TestUserID != "" {
		return c.opts.TestUserID
	}
	if id := r.Header.Get(UserIDHeader); id != "" {
		return id
	}
	return c.opts.Fallback
}

// bearerSubject extracts the sub claim from a bearer token's payload
// without verifying its signature. Anything malformed — wrong prefix,
// wrong segment count, undecodable payload, missing claim — yields "".
func bearerSubject(header string) string {
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	token := strings.TrimPrefix(header, "Bearer ")
	if strings.Count(token, ".") != 2 {
		return ""
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return ""
	}
	sub, _ := claims["sub"].(string)
	return sub
}
