package cart

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/shophub/internal/modules/catalog"
	"github.com/georgemunganga/shophub/internal/session"
)

// ProductResolver looks up the product a shopper adds to the cart.
type ProductResolver interface {
	Get(ctx context.Context, sessionID string, ref catalog.Ref) (*catalog.Product, error)
}

// Handler exposes cart HTTP endpoints.
type Handler struct {
	service  Service
	products ProductResolver
}

func NewHandler(service Service, products ProductResolver) *Handler {
	return &Handler{service: service, products: products}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Get("/", h.getCart)
		r.Delete("/", h.clearCart)

		r.Post("/items", h.addItem)
		r.Put("/items/{ref}", h.setQuantity)
		r.Post("/items/{ref}/increment", h.increment)
		r.Post("/items/{ref}/decrement", h.decrement)
		r.Delete("/items/{ref}", h.removeItem)
	})
}

type AddItemRequest struct {
	Ref catalog.Ref `json:"ref"`
}

type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Get(r.Context(), session.FromContext(r.Context()))
	h.reply(w, view, err)
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Clear(r.Context(), session.FromContext(r.Context()))
	h.reply(w, view, err)
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if req.Ref.ID == 0 {
		respond(w, http.StatusBadRequest, map[string]string{"error": "ref is required"})
		return
	}
	sessionID := session.FromContext(r.Context())
	p, err := h.products.Get(r.Context(), sessionID, req.Ref)
	if err != nil {
		h.reply(w, View{}, err)
		return
	}
	view, err := h.service.Add(r.Context(), sessionID, *p)
	h.reply(w, view, err)
}

func (h *Handler) setQuantity(w http.ResponseWriter, r *http.Request) {
	ref, ok := refParam(w, r)
	if !ok {
		return
	}
	var req SetQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	view, err := h.service.SetQuantity(r.Context(), session.FromContext(r.Context()), ref, req.Quantity)
	h.reply(w, view, err)
}

func (h *Handler) increment(w http.ResponseWriter, r *http.Request) {
	ref, ok := refParam(w, r)
	if !ok {
		return
	}
	view, err := h.service.Increment(r.Context(), session.FromContext(r.Context()), ref)
	h.reply(w, view, err)
}

func (h *Handler) decrement(w http.ResponseWriter, r *http.Request) {
	ref, ok := refParam(w, r)
	if !ok {
		return
	}
	view, err := h.service.Decrement(r.Context(), session.FromContext(r.Context()), ref)
	h.reply(w, view, err)
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	ref, ok := refParam(w, r)
	if !ok {
		return
	}
	view, err := h.service.Remove(r.Context(), session.FromContext(r.Context()), ref)
	h.reply(w, view, err)
}

func refParam(w http.ResponseWriter, r *http.Request) (catalog.Ref, bool) {
	ref, err := catalog.ParseRef(chi.URLParam(r, "ref"))
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return catalog.Ref{}, false
	}
	return ref, true
}

func (h *Handler) reply(w http.ResponseWriter, view View, err error) {
	switch {
	case err == nil:
		respond(w, http.StatusOK, view)
	case errors.Is(err, ErrLineNotFound), errors.Is(err, catalog.ErrNotFound):
		respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, catalog.ErrFetchFailed):
		respond(w, http.StatusBadGateway, map[string]any{"error": err.Error(), "retryable": true})
	default:
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
