// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"coffee_finder/internal/app"
)

type Handlers struct{ P *app.Pipeline }

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/coffee-shops", h.findShops)
	s.mux.Get("/v1/coffee-shops/{id}", h.getShop)
	s.mux.Get("/v1/stats", h.stats)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeJSON sends v with an ETag, short-circuiting to 304 when the client already has it.
func writeJSON(w http.ResponseWriter, r *http.Request, v any, name string) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag) // include ETag on 304
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msgf("failed to write %s body", name)
	}
}

func parseFloatParam(q map[string][]string, key string) (*float64, bool) {
	vs := q[key]
	if len(vs) == 0 || strings.TrimSpace(vs[0]) == "" {
		return nil, true
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(vs[0]), 64)
	if err != nil {
		return nil, false
	}
	return &f, true
}

func (h *Handlers) findShops(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	req := app.FindRequest{Location: strings.TrimSpace(q.Get("location"))}
	if req.Location == "" {
		req.Location = strings.TrimSpace(q.Get("zip_code"))
	}

	lat, ok1 := parseFloatParam(q, "lat")
	lng, ok2 := parseFloatParam(q, "lng")
	if !ok1 || !ok2 {
		writeProblem(w, http.StatusBadRequest, "Invalid coordinates", "lat and lng must be numbers")
		return
	}
	if (lat == nil) != (lng == nil) {
		writeProblem(w, http.StatusBadRequest, "Invalid coordinates", "lat and lng must be given together")
		return
	}
	if lat != nil && (*lat < -90 || *lat > 90 || *lng < -180 || *lng > 180) {
		writeProblem(w, http.StatusBadRequest, "Invalid coordinates", "lat must be within [-90,90] and lng within [-180,180]")
		return
	}
	req.Lat, req.Lng = lat, lng

	radius, ok := parseFloatParam(q, "radius")
	if !ok || (radius != nil && (*radius < 0 || *radius > 25)) {
		writeProblem(w, http.StatusBadRequest, "Invalid radius", "radius must be a number of miles between 0 and 25")
		return
	}
	if radius != nil {
		req.RadiusMiles = *radius
	}

	minRating, ok := parseFloatParam(q, "min_rating")
	if !ok || (minRating != nil && (*minRating < 0 || *minRating > 5)) {
		writeProblem(w, http.StatusBadRequest, "Invalid min_rating", "min_rating must be a number between 0 and 5")
		return
	}
	if minRating != nil {
		req.MinRating = *minRating
	}

	res := h.P.Find(r.Context(), req)
	writeJSON(w, r, res, "findShops")
}

func (h *Handlers) getShop(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id is required")
		return
	}
	v, ok := h.P.FindByID(r.Context(), id)
	if !ok {
		writeProblem(w, http.StatusNotFound, "Not Found", "coffee shop not found")
		return
	}
	writeJSON(w, r, v, "getShop")
}

func (h *Handlers) stats(w http.ResponseWriter, r *http.Request) {
	st, ok := h.P.Stats(r.Context())
	if !ok {
		writeProblem(w, http.StatusServiceUnavailable, "Unavailable", "record store is not configured")
		return
	}
	writeJSON(w, r, st, "stats")
}
