package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/openkenya/countymap/pkg/errors"
	"github.com/openkenya/countymap/pkg/pipeline"
	"github.com/openkenya/countymap/pkg/placement"
	"github.com/openkenya/countymap/pkg/project"
	"github.com/openkenya/countymap/pkg/render/mapsvg"
	"github.com/openkenya/countymap/pkg/viewport"
)

// Handler builds the chi router for the API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Get("/map.svg", s.handleMapSVG)
	r.Route("/api", func(r chi.Router) {
		r.Get("/records", s.handleRecords)
		r.Get("/facets", s.handleFacets)
		r.Get("/regions", s.handleRegions)
		r.Get("/regions/{key}/focus", s.handleFocus)
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"regions": s.datasets.Index.Len(),
		"records": len(s.datasets.Records),
		"placed":  s.placement.Placed,
		"dropped": s.placement.Dropped,
	})
}

// handleRecords returns placed records in pixel space, filtered by the
// year and county query parameters ("all" or empty means no filter).
func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	opts := s.renderOptions(r)
	year, yearAll := placement.ParseYearFilter(opts.Year)
	visible := placement.Filter(s.datasets.Records, year, yearAll, opts.County)

	proj := project.FitCollection(s.datasets.Index.Bound(), opts.Width, opts.Height, opts.Margin)
	data, err := mapsvg.RenderJSON(mapsvg.Map{
		Index:      s.datasets.Index,
		Records:    visible,
		Projection: proj,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *Server) handleFacets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.facets)
}

type regionInfo struct {
	Key   string  `json:"key"`
	Name  string  `json:"name"`
	Count int     `json:"count"`
	Lon   float64 `json:"lon"`
	Lat   float64 `json:"lat"`
}

func (s *Server) handleRegions(w http.ResponseWriter, r *http.Request) {
	out := make([]regionInfo, 0, s.datasets.Index.Len())
	for _, name := range s.datasets.Index.Names() {
		region, ok := s.datasets.Index.Lookup(name)
		if !ok {
			continue
		}
		out = append(out, regionInfo{
			Key:   region.Key,
			Name:  region.Name,
			Count: s.placement.ByCounty[region.Name],
			Lon:   region.Center.X(),
			Lat:   region.Center.Y(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// focusResponse carries the viewport transform that zooms the map onto
// one county, plus the compensated stroke and marker sizes at that zoom.
type focusResponse struct {
	Key          string  `json:"key"`
	K            float64 `json:"k"`
	TX           float64 `json:"tx"`
	TY           float64 `json:"ty"`
	TransitionMS int     `json:"transition_ms"`
	StrokeWidth  float64 `json:"stroke_width"`
	MarkerRadius float64 `json:"marker_radius"`
}

func (s *Server) handleFocus(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	region, ok := s.datasets.Index.Lookup(key)
	if !ok {
		writeError(w, errors.New(errors.ErrCodeRegionNotFound, "unknown county %q", key))
		return
	}

	opts := s.renderOptions(r)
	state := viewport.NewState(opts.Width, opts.Height, viewport.DefaultKMin, viewport.DefaultKMax)
	proj := project.FitCollection(s.datasets.Index.Bound(), opts.Width, opts.Height, opts.Margin)
	tr := state.Focus(region, proj)

	strokeBase := s.base.StrokeWidth
	if strokeBase <= 0 {
		strokeBase = 1.5
	}
	radiusBase := s.base.MarkerRadius
	if radiusBase <= 0 {
		radiusBase = 4
	}
	writeJSON(w, http.StatusOK, focusResponse{
		Key:          region.Key,
		K:            tr.K,
		TX:           tr.TX,
		TY:           tr.TY,
		TransitionMS: viewport.DefaultTransitionMS,
		StrokeWidth:  state.StrokeWidth(strokeBase, 0.2, strokeBase),
		MarkerRadius: state.MarkerRadius(radiusBase, 1, 6),
	})
}

func (s *Server) handleMapSVG(w http.ResponseWriter, r *http.Request) {
	opts := s.renderOptions(r)
	artifacts, _, err := s.runner.RenderWithCacheInfo(r.Context(), s.datasets, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	w.Write(artifacts[pipeline.FormatSVG])
}

// renderOptions derives per-request render options from the base options
// and the query string.
func (s *Server) renderOptions(r *http.Request) pipeline.Options {
	opts := s.base
	opts.Formats = []string{pipeline.FormatSVG}

	q := r.URL.Query()
	if v := q.Get("year"); v != "" {
		opts.Year = v
	}
	if v := q.Get("county"); v != "" {
		opts.County = v
	}
	if v := q.Get("focus"); v != "" {
		opts.Focus = v
	}
	if v, err := strconv.ParseFloat(q.Get("w"), 64); err == nil && v > 0 {
		opts.Width = v
	}
	if v, err := strconv.ParseFloat(q.Get("h"), 64); err == nil && v > 0 {
		opts.Height = v
	}
	if v, err := strconv.ParseFloat(q.Get("density"), 64); err == nil && v > 0 {
		opts.Density = v
	}
	return opts
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case errors.ErrCodeRegionNotFound, errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidRegion, errors.ErrCodeInvalidFormat:
		status = http.StatusBadRequest
	}
	writeJSON(w, status, errorResponse{
		Error: errors.UserMessage(err),
		Code:  strings.ToLower(string(code)),
	})
}
