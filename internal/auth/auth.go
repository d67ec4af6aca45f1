// Package auth issues and verifies the signed session tokens that carry a
// user's identity claim between requests.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every verification failure: missing, malformed,
// expired, or signature mismatch. Callers treat them all as unauthenticated.
var ErrInvalidToken = errors.New("invalid token")

// TokenTTL is the fixed token lifetime.
const TokenTTL = 24 * time.Hour

// CookieName is the session cookie the token travels in for browsers.
const CookieName = "token"

// Claims is the identity claim embedded in a session token.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Service signs and verifies session tokens with a shared HMAC secret.
type Service struct {
	secret     []byte
	production bool
	now        func() time.Time
}

func NewService(secret string, production bool) *Service {
	return &Service{
		secret:     []byte(secret),
		production: production,
		now:        time.Now,
	}
}

// Issue produces a signed token embedding the claim with a fixed expiry.
func (s *Service) Issue(email, name string) (string, error) {
	now := s.now().UTC()
	claims := Claims{
		Email: email,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token, returning its claims.
func (s *Service) Verify(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Email == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// FromRequest extracts the token from the Authorization header, falling
// back to the session cookie. The same rule applies to every gated route.
func FromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
		return ""
	}
	if cookie, err := r.Cookie(CookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// SessionCookie builds the response cookie carrying a freshly issued token.
// Cross-site attributes are only enabled in production deployments.
func (s *Service) SessionCookie(token string) *http.Cookie {
	cookie := &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
	if s.production {
		cookie.Secure = true
		cookie.SameSite = http.SameSiteNoneMode
	}
	return cookie
}

// ClearedCookie builds the expired cookie that ends a browser session.
func (s *Service) ClearedCookie() *http.Cookie {
	cookie := s.SessionCookie("")
	cookie.MaxAge = -1
	return cookie
}
