package cart

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/shophub/internal/modules/catalog"
	"github.com/georgemunganga/shophub/internal/session"
	"github.com/georgemunganga/shophub/internal/storage"
)

type resolverFunc func(ctx context.Context, sessionID string, ref catalog.Ref) (*catalog.Product, error)

func (f resolverFunc) Get(ctx context.Context, sessionID string, ref catalog.Ref) (*catalog.Product, error) {
	return f(ctx, sessionID, ref)
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	log, _ := newQuietLogger()
	products := resolverFunc(func(_ context.Context, _ string, ref catalog.Ref) (*catalog.Product, error) {
		switch {
		case ref == catalog.RemoteRef(1):
			p := product(1, 40)
			return &p, nil
		case ref == catalog.RemoteRef(500):
			return nil, catalog.ErrFetchFailed
		}
		return nil, catalog.ErrNotFound
	})

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(session.WithID(r.Context(), "s1")))
		})
	})
	NewHandler(NewService(storage.NewMemory(), session.CacheConfig{}, log), products).RegisterRoutes(r)
	return r
}

func send(t *testing.T, h http.Handler, method, target, body string) (int, View) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, strings.NewReader(body)))
	var v View
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	}
	return rec.Code, v
}

func TestHandlerCartFlow(t *testing.T) {
	h := newTestRouter(t)

	code, v := send(t, h, http.MethodPost, "/api/v1/cart/items", `{"ref":"remote:1"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, v.ItemCount)

	code, v = send(t, h, http.MethodPost, "/api/v1/cart/items/1/increment", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 80.0, v.Subtotal)
	assert.Equal(t, 9.99, v.Shipping)

	code, v = send(t, h, http.MethodPut, "/api/v1/cart/items/remote:1", `{"quantity":3}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 120.0, v.Subtotal)
	assert.Equal(t, 0.0, v.Shipping)
	assert.Equal(t, 120.0, v.GrandTotal)

	code, v = send(t, h, http.MethodPost, "/api/v1/cart/items/1/decrement", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 2, v.ItemCount)

	code, v = send(t, h, http.MethodDelete, "/api/v1/cart/items/1", "")
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, v.Items)

	code, v = send(t, h, http.MethodGet, "/api/v1/cart/", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 0, v.ItemCount)
}

func TestHandlerErrors(t *testing.T) {
	h := newTestRouter(t)

	code, _ := send(t, h, http.MethodPost, "/api/v1/cart/items", `{"ref":"remote:2"}`)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = send(t, h, http.MethodPost, "/api/v1/cart/items", `{"ref":"500"}`)
	assert.Equal(t, http.StatusBadGateway, code)

	code, _ = send(t, h, http.MethodPost, "/api/v1/cart/items", `{}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = send(t, h, http.MethodPost, "/api/v1/cart/items", `{"ref":"bogus"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = send(t, h, http.MethodPut, "/api/v1/cart/items/1", `{"quantity":2}`)
	assert.Equal(t, http.StatusNotFound, code, "quantity of a line not in the cart")

	code, _ = send(t, h, http.MethodPost, "/api/v1/cart/items/x/increment", "")
	assert.Equal(t, http.StatusBadRequest, code)
}
