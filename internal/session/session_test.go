package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodecRoundTrip(t *testing.T) {
	c := NewCodec("secret", time.Hour, false)
	id := uuid.NewString()

	token, err := c.Issue(id)
	require.NoError(t, err)

	got, err := c.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestCodecRejects(t *testing.T) {
	c := NewCodec("secret", time.Hour, false)

	other, err := NewCodec("other", time.Hour, false).Issue(uuid.NewString())
	require.NoError(t, err)
	notUUID, err := c.Issue("shopper-1")
	require.NoError(t, err)
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, &jwt.StandardClaims{Subject: uuid.NewString()}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"empty":          "",
		"garbage":        "not.a.token",
		"wrong secret":   other,
		"not a uuid":     notUUID,
		"unsigned token": none,
	} {
		_, err := c.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken, name)
	}
}

func TestCodecExpiry(t *testing.T) {
	c := &Codec{key: []byte("secret"), ttl: -time.Minute}
	token, err := c.Issue(uuid.NewString())
	require.NoError(t, err)
	_, err = c.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMiddleware(t *testing.T) {
	log, _ := test.NewNullLogger()
	c := NewCodec("secret", time.Hour, true)

	var seen string
	h := c.Middleware(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	first := seen
	require.NotEmpty(t, first)

	token := rec.Header().Get(HeaderName)
	require.NotEmpty(t, token)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)

	t.Run("header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(HeaderName, token)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, first, seen)
		assert.Empty(t, rec.Header().Get(HeaderName), "known sessions are not reissued")
	})

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(cookies[0])
		h.ServeHTTP(httptest.NewRecorder(), req)
		assert.Equal(t, first, seen)
	})

	t.Run("tampered", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(HeaderName, token+"x")
		h.ServeHTTP(httptest.NewRecorder(), req)
		assert.NotEqual(t, first, seen)
		assert.NotEmpty(t, seen)
	})
}

func TestFromContextWithoutSession(t *testing.T) {
	assert.Equal(t, "", FromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context()))
}
