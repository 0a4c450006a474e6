package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Expiry reports the exp claim when the opaque token happens to be a JWT.
// The signature is not checked; the result is for display only.
func Expiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
