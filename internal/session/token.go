package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpired reports whether a stored bearer token has passed its JWT
// expiry claim. The token is parsed without signature verification: the
// client has no secret, it only wants to know whether a re-login prompt
// is warranted before burning a round trip. Tokens that are not JWTs or
// carry no expiry are treated as live; the server remains the authority.
func TokenExpired(token string) bool {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
