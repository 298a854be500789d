package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/cloo-solutions/ordlens/internal/api"
	"github.com/cloo-solutions/ordlens/internal/domain"
	"github.com/cloo-solutions/ordlens/internal/engine"
)

const uploadField = "file"

// LookupEngine runs lookup cycles. *engine.Engine implements it.
type LookupEngine interface {
	Lookup(ctx context.Context, input string) (*engine.Result, error)
	Random(ctx context.Context) (*engine.Result, error)
	Upload(ctx context.Context, filename string, data []byte) (*engine.Result, error)
	Resume(ctx context.Context, q url.Values) (*engine.Result, error)
}

type LookupHandler struct {
	engine  LookupEngine
	mintURL string
}

// NewLookupHandler creates a handler. mintURL is offered with uploaded
// images that are not inscribed yet; empty disables it.
func NewLookupHandler(e LookupEngine, mintURL string) *LookupHandler {
	return &LookupHandler{engine: e, mintURL: mintURL}
}

type LookupResponse struct {
	View    *domain.ReconciledView `json:"view"`
	Query   string                 `json:"query"`
	MintURL string                 `json:"mint_url,omitempty"`
}

// Resume handles GET /lookup?id=..|tx=..
func (h *LookupHandler) Resume(w http.ResponseWriter, r *http.Request) {
	result, err := h.engine.Resume(r.Context(), r.URL.Query())
	if err == nil && result == nil {
		err = domain.ErrEmptyInput
	}
	h.respond(w, result, err)
}

// Lookup handles GET /lookup/{identifier}
func (h *LookupHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	result, err := h.engine.Lookup(r.Context(), chi.URLParam(r, "identifier"))
	h.respond(w, result, err)
}

// Random handles GET /random
func (h *LookupHandler) Random(w http.ResponseWriter, r *http.Request) {
	result, err := h.engine.Random(r.Context())
	h.respond(w, result, err)
}

// Upload handles POST /upload with a multipart "file" field.
func (h *LookupHandler) Upload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile(uploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			api.Error(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		api.Error(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		api.Error(w, http.StatusBadRequest, "failed to read file")
		return
	}
	if len(data) == 0 {
		api.Error(w, http.StatusBadRequest, "file is empty")
		return
	}

	result, err := h.engine.Upload(r.Context(), header.Filename, data)
	h.respond(w, result, err)
}

func (h *LookupHandler) respond(w http.ResponseWriter, result *engine.Result, err error) {
	if err != nil {
		api.HandleError(w, err)
		return
	}
	if result.Ignored {
		api.HandleError(w, domain.ErrInFlight)
		return
	}

	resp := LookupResponse{
		View:  result.View,
		Query: result.Query.Encode(),
	}
	if featured := result.View.Featured; featured.Kind == domain.FeaturedPlaceholder && !featured.AlreadyInscribed {
		resp.MintURL = h.mintURL
	}
	api.Success(w, http.StatusOK, resp)
}
