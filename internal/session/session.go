// Package session identifies anonymous shoppers. A shopper carries a signed
// token naming their session; everything they own (cart, local products,
// browse state) is keyed by that session id.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	CookieName = "shophub_session"
	HeaderName = "X-Session-Token"
)

var ErrInvalidToken = errors.New("invalid session token")

type ctxKey struct{}

// FromContext returns the session id stored by the middleware, or "".
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// WithID stores a session id in ctx.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// Codec signs and verifies session tokens.
type Codec struct {
	key    []byte
	ttl    time.Duration
	secure bool
}

func NewCodec(secret string, ttl time.Duration, secure bool) *Codec {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &Codec{key: []byte(secret), ttl: ttl, secure: secure}
}

// Issue returns a token for sessionID valid for the codec's ttl.
func (c *Codec) Issue(sessionID string) (string, error) {
	now := time.Now()
	claims := &jwt.StandardClaims{
		Subject:   sessionID,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(c.ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
}

// Verify returns the session id of a valid token.
func (c *Codec) Verify(token string) (string, error) {
	claims := &jwt.StandardClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return c.key, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// Middleware resolves the session of every request. Requests without a valid
// token get a fresh session, returned in a cookie and the response header.
func (c *Codec) Middleware(log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := c.Verify(tokenFrom(r))
			if err != nil {
				id = uuid.NewString()
				token, err := c.Issue(id)
				if err != nil {
					log.WithError(err).Error("could not issue session token")
					http.Error(w, "session unavailable", http.StatusInternalServerError)
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     CookieName,
					Value:    token,
					Path:     "/",
					MaxAge:   int(c.ttl.Seconds()),
					HttpOnly: true,
					Secure:   c.secure,
					SameSite: http.SameSiteLaxMode,
				})
				w.Header().Set(HeaderName, token)
				log.WithField("session", id).Debug("new session")
			}
			next.ServeHTTP(w, r.WithContext(WithID(r.Context(), id)))
		})
	}
}

func tokenFrom(r *http.Request) string {
	if v := r.Header.Get(HeaderName); v != "" {
		return v
	}
	if ck, err := r.Cookie(CookieName); err == nil {
		return ck.Value
	}
	return ""
}
