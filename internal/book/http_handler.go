package book

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"bookshelf/internal/httpx"
)

// Fixed client-facing messages. Internal failure detail is logged, never
// returned.
const (
	msgNotFound       = "Book not found"
	msgServerError    = "Server error"
	msgFieldsRequired = "All fields are required"
	msgInvalidBody    = "invalid request body"
	msgRemoved        = "Book removed"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// writeError maps a service failure onto the wire contract. A malformed
// identifier and a missing record are deliberately indistinguishable.
func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *ValidationError
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrInvalidID):
		httpx.JSONError(w, http.StatusNotFound, msgNotFound)
	case errors.As(err, &verr):
		httpx.JSONErrorMessages(w, http.StatusBadRequest, verr.Messages)
	default:
		log.Printf("book handler error: request_id=%s method=%s path=%s error=%v",
			httpx.RequestIDFrom(r), r.Method, r.URL.Path, err)
		httpx.JSONError(w, http.StatusInternalServerError, msgServerError)
	}
}

// List handles GET /books
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if books == nil {
		books = []Book{}
	}
	httpx.JSON(w, http.StatusOK, books)
}

// Get handles GET /books/{id}
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	b, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, b)
}

// Create handles POST /books
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	// Coarse presence check before the per-field validation the service
	// runs at persistence time.
	if !in.Complete() {
		httpx.JSONError(w, http.StatusBadRequest, msgFieldsRequired)
		return
	}

	b, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, b)
}

// Update handles PUT /books/{id}
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	b, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, b)
}

// Delete handles DELETE /books/{id}
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONMessage(w, msgRemoved)
}

// Search handles GET /books/search/{query}
func (h *HTTPHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.PathValue("query")

	books, err := h.service.Search(r.Context(), query)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if books == nil {
		books = []Book{}
	}
	httpx.JSON(w, http.StatusOK, books)
}
