// Package server exposes the county map over HTTP.
//
// The server loads and places the datasets once at startup and serves
// filtered views, facet counts, focus transforms, and rendered SVG from
// that warm state. Rendered artifacts still go through the runner's
// cache so repeated map requests with the same filters are cheap.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/openkenya/countymap/pkg/pipeline"
	"github.com/openkenya/countymap/pkg/placement"
)

const shutdownGrace = 5 * time.Second

// Server holds the warm pipeline state behind the HTTP API.
type Server struct {
	runner *pipeline.Runner
	base   pipeline.Options
	logger *log.Logger

	datasets  *pipeline.Datasets
	placement placement.Result
	facets    placement.Facets
}

// New loads and places the datasets and returns a ready server.
// The base options carry the dataset paths, seed, and theme; request
// parameters override the render-stage options per request.
func New(ctx context.Context, runner *pipeline.Runner, base pipeline.Options, logger *log.Logger) (*Server, error) {
	if err := base.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}

	ds, err := pipeline.Load(ctx, base)
	if err != nil {
		return nil, err
	}
	res, hit, err := runner.PlaceWithCacheInfo(ctx, ds, base)
	if err != nil {
		return nil, err
	}
	logger.Info("datasets ready",
		"regions", ds.Index.Len(),
		"records", len(ds.Records),
		"placed", res.Placed,
		"dropped", res.Dropped,
		"cached", hit)

	return &Server{
		runner:    runner,
		base:      base,
		logger:    logger,
		datasets:  ds,
		placement: res,
		facets:    placement.ComputeFacets(ds.Records),
	}, nil
}

// ListenAndServe runs the HTTP server until ctx is canceled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
