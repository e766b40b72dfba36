// Package api exposes the discovery service over HTTP.
//
// Routes:
//
//	POST /api/opportunities/search        → run the pipeline for a query
//	GET  /api/opportunities/cached        → recently stored records (?limit=&type=)
//	POST /api/opportunities/suggestions   → personalised search queries for a profile
//	GET  /api/opportunities/{id}          → one stored record
//	GET  /health                          → liveness
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"opportunity/discovery-service/internal/discovery"
	"opportunity/discovery-service/internal/model"
	"opportunity/discovery-service/internal/query"
)

const maxBodyBytes = 1 << 20

// Version is reported by /health.
var Version = "0.2.0"

// Handler holds shared dependencies.
type Handler struct {
	svc *discovery.Service
	log *zap.Logger
}

// NewHandler returns a configured Handler.
func NewHandler(svc *discovery.Service, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{svc: svc, log: log.With(zap.String("component", "api"))}
}

// RegisterRoutes mounts all discovery routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/opportunities/search", h.search)
	mux.HandleFunc("GET /api/opportunities/cached", h.cached)
	mux.HandleFunc("POST /api/opportunities/suggestions", h.suggestions)
	mux.HandleFunc("GET /api/opportunities/{id}", h.opportunity)
	mux.HandleFunc("GET /health", health)
}

// ─── Individual handlers ──────────────────────────────────────────────────────

type searchRequest struct {
	Query           string `json:"query"`
	OpportunityType string `json:"opportunity_type"`
	Year            string `json:"year"`
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	var body searchRequest
	if err := decode(w, r, &body); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(body.Query) == "" {
		jsonError(w, "query is required", http.StatusBadRequest)
		return
	}
	typ, err := model.ParseOptionalType(body.OpportunityType)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, err := h.svc.Search(r.Context(), model.OpportunityQuery{
		RawText:    body.Query,
		TypeFilter: typ,
		YearHint:   body.Year,
	})
	if err != nil {
		h.fail(w, "search", err)
		return
	}
	jsonOK(w, res)
}

type listResponse struct {
	Opportunities []model.OpportunityRecord `json:"opportunities"`
	Count         int                       `json:"count"`
}

func (h *Handler) cached(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			jsonError(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = v
	}
	typ, err := model.ParseOptionalType(r.URL.Query().Get("type"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	recs, err := h.svc.CachedOpportunities(r.Context(), limit, typ)
	if err != nil {
		h.fail(w, "cached", err)
		return
	}
	jsonOK(w, listResponse{Opportunities: recs, Count: len(recs)})
}

func (h *Handler) opportunity(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.Opportunity(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, "opportunity", err)
		return
	}
	jsonOK(w, rec)
}

func (h *Handler) suggestions(w http.ResponseWriter, r *http.Request) {
	var p query.Profile
	if err := decode(w, r, &p); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	jsonOK(w, map[string][]string{"suggestions": h.svc.Suggestions(p)})
}

func health(w http.ResponseWriter, _ *http.Request) {
	jsonOK(w, map[string]string{
		"status":  "ok",
		"service": "discovery-service",
		"version": Version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// fail maps service errors to status codes.
func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	var ve *discovery.ValidationError
	switch {
	case errors.As(err, &ve):
		jsonError(w, ve.Msg, http.StatusBadRequest)
	case errors.Is(err, discovery.ErrNotFound):
		jsonError(w, "opportunity not found", http.StatusNotFound)
	default:
		h.log.Error("Request failed", zap.String("op", op), zap.Error(err))
		jsonError(w, "internal error", http.StatusInternalServerError)
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}

func jsonOK(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
