package api

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Token is a bearer token issued by the auth endpoint. Its String form is redacted so
// it can be logged.
type Token string

func (t Token) String() string {
	if len(t) <= 8 {
		return "[redacted]"
	}
	return string(t[:8]) + "...[redacted]"
}

// Raw returns the token text.
func (t Token) Raw() string { return string(t) }

// Segments returns the dot-separated parts of the token. A JWT has three.
func (t Token) Segments() []string {
	if t == "" {
		return nil
	}
	return strings.Split(string(t), ".")
}

// Claim names as written by the backend's token handler. Role may appear under the
// short name or the full claim URI depending on the handler's outbound map.
const (
	claimRoleURI  = "http://schemas.microsoft.com/ws/2008/06/identity/claims/role"
	claimEmailURI = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/emailaddress"
)

// Claims is what the suites read from a token.
type Claims struct {
	Username string
	Email    string
	Roles    []string
	Issuer   string
	Audience []string
}

// HasRole reports whether role is among the token's roles.
func (c Claims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}

// Claims parses the token payload without verifying the signature; the signing key
// belongs to the backend.
func (t Token) Claims() (Claims, error) {
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(string(t), mc); err != nil {
		return Claims{}, fmt.Errorf("parse token: %w", err)
	}

	c := Claims{
		Username: stringClaim(mc, "username"),
		Email:    stringClaim(mc, "email", claimEmailURI),
	}
	c.Issuer, _ = mc.GetIssuer()
	c.Audience, _ = mc.GetAudience()
	for _, key := range []string{"role", claimRoleURI} {
		c.Roles = append(c.Roles, listClaim(mc[key])...)
	}
	return c, nil
}

func stringClaim(mc jwt.MapClaims, keys ...string) string {
	for _, k := range keys {
		if s, ok := mc[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func listClaim(v any) []string {
	switch val := v.(type) {
	case string:
		return []string{val}
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
