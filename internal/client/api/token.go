package api

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// refreshLeeway is how close to its exp claim an access token may get before
// the client refreshes it proactively instead of waiting for a 401.
const refreshLeeway = 30 * time.Second

// tokenExpiringSoon inspects the JWT's exp claim without verifying the
// signature (the backend is the verifier; the client only needs the
// timestamp). Unparseable tokens report false and are sent as-is.
func tokenExpiringSoon(token string, leeway time.Duration) bool {
	if token == "" {
		return false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return time.Until(exp.Time) < leeway
}
