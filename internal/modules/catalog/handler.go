package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/shophub/internal/session"
)

// Handler exposes catalog HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Get("/products", h.listProducts) // ?q=&category=&sort=&mode=&page=&visible=
		r.Get("/products/{ref}", h.getProduct)
		r.Get("/categories", h.listCategories)

		// Session browse state
		r.Get("/browse", h.browse)
		r.Patch("/browse", h.updateBrowse)
		r.Post("/browse/reveal", h.reveal)
		r.Post("/browse/clear", h.clearFilters)
	})
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := Query{
		Search:   q.Get("q"),
		Category: q.Get("category"),
		Sort:     ParseSort(q.Get("sort")),
		Mode:     ParseMode(q.Get("mode")),
		Page:     atoiOr(q.Get("page"), 1),
		Visible:  atoiOr(q.Get("visible"), PageSize),
	}
	view, err := h.service.List(r.Context(), session.FromContext(r.Context()), query)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, view)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	ref, err := ParseRef(chi.URLParam(r, "ref"))
	if err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	p, err := h.service.Get(r.Context(), session.FromContext(r.Context()), ref)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, p)
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.Categories(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, categories)
}

func (h *Handler) browse(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Browse(r.Context(), session.FromContext(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, view)
}

func (h *Handler) updateBrowse(w http.ResponseWriter, r *http.Request) {
	var u BrowseUpdate
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	view, err := h.service.UpdateBrowse(r.Context(), session.FromContext(r.Context()), u)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, view)
}

func (h *Handler) reveal(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Reveal(r.Context(), session.FromContext(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, view)
}

func (h *Handler) clearFilters(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.ClearFilters(r.Context(), session.FromContext(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, view)
}

func atoiOr(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// respondError maps catalog errors: fetch failures can be retried by the
// shopper, a missing product is a plain 404.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, ErrFetchFailed):
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
