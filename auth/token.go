package auth

import (
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// payloadParser only decodes segments, it is never asked to verify anything.
var payloadParser = jwt.NewParser(jwt.WithPaddingAllowed())

// Decode reads the claims carried by the payload segment of token.
//
// The signature is never inspected: authorization is enforced by the backend,
// claims are only read to display the expiry and to log out proactively.
// It returns false if the token has fewer than two segments or if the payload
// is not base64url encoded JSON object.
func Decode(token string) (jwt.MapClaims, bool) {
	segments := strings.Split(token, ".")
	if len(segments) < 2 {
		return nil, false
	}
	payload, err := payloadParser.DecodeSegment(segments[1])
	if err != nil {
		log.Printf("cannot decode token payload: %v", err)
		return nil, false
	}
	var claims jwt.MapClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		log.Printf("cannot parse token payload: %v", err)
		return nil, false
	}
	if claims == nil {
		return nil, false
	}
	return claims, true
}

// ExpiresAt returns the "exp" claim of token.
// It returns false if the token cannot be decoded or has no numeric "exp".
func ExpiresAt(token string) (time.Time, bool) {
	claims, ok := Decode(token)
	if !ok {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// expiredAt reports whether exp is reached at now, sub-second precision ignored.
func expiredAt(exp, now time.Time) bool { return exp.Unix() <= now.Unix() }
