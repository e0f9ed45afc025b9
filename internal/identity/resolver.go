// Package identity resolves the authenticated wallet address of a caller from
// its HTTP request. Absence of a session is not an error: a request without a
// usable credential resolves to an anonymous session and the gate evaluator
// turns that into a denial.
package identity

import (
	"net/http"
	"strings"

	"github.com/creativeplatform/tokengate/pkg/models/gate"
	"github.com/golang-jwt/jwt/v5"
	log "github.com/sirupsen/logrus"
)

const sessionCookieName = "jwt"

// A Resolver extracts the caller identity from a request. Implementations
// must never fail for "no session"; a malformed or expired credential resolves
// to an anonymous session rather than propagating a parsing error.
type Resolver interface {
	Resolve(r *http.Request) *gate.Session
}

// sessionClaims is the claim set of a session token. The wallet address is
// carried in a dedicated claim; the subject is kept for compatibility with
// tokens that only set `sub`.
type sessionClaims struct {
	Address string `json:"address"`
	jwt.RegisteredClaims
}

// JWTResolver resolves sessions from an HS256 JWT found in the
// `Authorization: Bearer` header or, failing that, the `jwt` cookie.
type JWTResolver struct {
	signKey []byte
}

// NewJWTResolver constructs a JWTResolver with the given signing key.
func NewJWTResolver(signKey []byte) *JWTResolver {
	return &JWTResolver{signKey: signKey}
}

// Resolve extracts the wallet address from the request's session token.
func (resolver *JWTResolver) Resolve(r *http.Request) *gate.Session {
	tokenString := extractToken(r)
	if tokenString == "" {
		return &gate.Session{}
	}

	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return resolver.signKey, nil
	})
	if err != nil || !token.Valid {
		log.WithError(err).Debugln("Discarded an unusable session token")
		return &gate.Session{}
	}

	address := claims.Address
	if address == "" {
		address = claims.Subject
	}

	return &gate.Session{Address: address}
}

func extractToken(r *http.Request) string {
	authorization := r.Header.Get("Authorization")
	if strings.HasPrefix(authorization, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authorization, "Bearer "))
	}

	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		return cookie.Value
	}

	return ""
}
