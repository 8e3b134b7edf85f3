package backend

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// expiryMargin is how early a token is considered expired, so a re-login
// happens before the backend starts rejecting calls mid-session.
const expiryMargin = 30 * time.Second

// tokenExpirado reports whether the bearer token is expired or about to
// expire. The signature is not verified; only the backend can do that, the
// station just reads the expiry claim to schedule its re-login. A token
// that cannot be parsed, or carries no expiry, is treated as still valid
// and left for the backend to judge.
func tokenExpirado(token string, now time.Time) bool {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return now.Add(expiryMargin).After(exp.Time)
}
