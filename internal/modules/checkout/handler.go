package checkout

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/shophub/internal/session"
)

// Handler exposes checkout HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/checkout", func(r chi.Router) {
		r.Get("/", h.quote)
		r.Post("/", h.placeOrder)
	})
}

func (h *Handler) quote(w http.ResponseWriter, r *http.Request) {
	q, err := h.service.Quote(r.Context(), session.FromContext(r.Context()))
	if err != nil {
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	respond(w, http.StatusOK, q)
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.service.PlaceOrder(r.Context(), session.FromContext(r.Context()))
	switch {
	case errors.Is(err, ErrEmptyCart):
		respond(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case err != nil:
		respond(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	default:
		respond(w, http.StatusCreated, o)
	}
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
