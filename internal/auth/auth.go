// Package auth provides the cookie-based JWT middleware the scoring
// service's HTTP front end runs in front of every authenticated route,
// mirroring the original deployment's flask-jwt-extended cookie
// configuration (token in a cookie, not a bearer header).
package auth

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the cookie the original deployment stored its access token
// under when JWT_TOKEN_LOCATION=["cookies"].
const CookieName = "access_token_cookie"

// Claims is the minimal claim set the scoring service trusts: a subject
// (account ID) and the registered expiry.
type Claims struct {
	jwt.RegisteredClaims
}

// Verifier validates the JWT in a request's cookie and returns its claims.
type Verifier struct {
	secret []byte
}

// NewVerifier builds a Verifier from an HMAC signing secret.
func NewVerifier(secret []byte) *Verifier {
	return &Verifier{secret: secret}
}

// Parse validates tokenString and returns its claims, or an error if the
// signature, expiry, or shape is invalid.
func (v *Verifier) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("auth: unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("auth: parsing token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("auth: token invalid")
	}
	return claims, nil
}

// accountIDKey is the gin context key the middleware stores the
// authenticated account ID under.
const accountIDKey = "note.account_id"

// RequireAuth is gin middleware that rejects requests without a valid
// access-token cookie and stores the subject claim for handlers to read via
// AccountID.
func (v *Verifier) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(CookieName)
		if err != nil || cookie == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing access token"})
			return
		}

		claims, err := v.Parse(cookie)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid access token"})
			return
		}

		c.Set(accountIDKey, claims.Subject)
		c.Next()
	}
}

// AccountID returns the authenticated account ID stored by RequireAuth.
func AccountID(c *gin.Context) (string, bool) {
	v, ok := c.Get(accountIDKey)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}
