package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ist-ho/progdash/internal/metrics"
	"github.com/ist-ho/progdash/internal/utils"
	"github.com/ist-ho/progdash/pkg/auth"
	"github.com/ist-ho/progdash/pkg/pipeline"
	"github.com/ist-ho/progdash/pkg/report"
	"github.com/ist-ho/progdash/pkg/storage"
)

// LoadLister lists recent load attempts.
type LoadLister interface {
	ListLoads(ctx context.Context, limit int) ([]storage.LoadRun, error)
}

// Config wires the server's collaborators. Service is required; the rest
// fall back to sensible defaults when nil.
type Config struct {
	Service    *pipeline.Service
	Classifier report.Classifier
	Auth       auth.Authenticator
	Loads      LoadLister
	Metrics    *metrics.Metrics
	Gatherer   prometheus.Gatherer
}

type Server struct {
	svc        *pipeline.Service
	classifier report.Classifier
	auth       auth.Authenticator
	loads      LoadLister
	metrics    *metrics.Metrics
	gatherer   prometheus.Gatherer
	now        func() time.Time
}

func New(cfg Config) *Server {
	s := &Server{
		svc:        cfg.Service,
		classifier: cfg.Classifier,
		auth:       cfg.Auth,
		loads:      cfg.Loads,
		metrics:    cfg.Metrics,
		gatherer:   cfg.Gatherer,
		now:        time.Now,
	}
	if s.auth == nil {
		s.auth = auth.None{}
	}
	if len(s.classifier.Rules) == 0 {
		s.classifier = report.DefaultClassifier()
	}
	if s.gatherer == nil {
		s.gatherer = prometheus.DefaultGatherer
	}
	return s
}

// Router builds the HTTP routes.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(s.basicAuth)

		r.Get("/", s.handleDashboard)
		r.Get("/export.xlsx", s.handleExport)
		r.Post("/reload", s.handleReload)
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

		r.Route("/api", func(r chi.Router) {
			r.Get("/summary", s.handleSummary)
			r.Get("/monthly", s.handleMonthly)
			r.Get("/protocols", s.handleProtocols)
			r.Get("/breakdowns", s.handleBreakdowns)
			r.Get("/detail", s.handleDetail)
			r.Get("/options", s.handleOptions)
			r.Get("/loads", s.handleLoads)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "endpoint not found"})
	})

	return r
}

// Start serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		utils.Log.WithField("addr", addr).Info("Starting server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		utils.Log.Info("Shutting down server")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) basicAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, _ := r.BasicAuth()
		if !s.auth.Verify(user, pass) {
			w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
