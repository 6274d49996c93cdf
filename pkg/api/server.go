package api

import (
	"context"
	"io"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/lightning/pkg/lightning"
	"github.com/matzehuels/lightning/pkg/observability"
	"github.com/matzehuels/lightning/pkg/pipeline"
	"github.com/matzehuels/lightning/pkg/store"
)

// Options configure a Server.
type Options struct {
	// Settings and Kernel apply to jobs that do not specify their own.
	Settings lightning.Settings
	Kernel   string

	// MaxBodyBytes limits job submissions.
	MaxBodyBytes int64

	// RequestTimeout bounds synchronous requests; JobTimeout bounds
	// background jobs.
	RequestTimeout time.Duration
	JobTimeout     time.Duration

	// MaxConcurrentJobs limits background jobs running at once.
	MaxConcurrentJobs int
}

func (o *Options) setDefaults() {
	if o.Settings == (lightning.Settings{}) {
		o.Settings = lightning.DefaultSettings()
	}
	if o.Kernel == "" {
		o.Kernel = pipeline.DefaultKernel
	}
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = 32 << 20
	}
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = 2 * time.Minute
	}
	if o.JobTimeout <= 0 {
		o.JobTimeout = 10 * time.Minute
	}
	if o.MaxConcurrentJobs <= 0 {
		o.MaxConcurrentJobs = runtime.GOMAXPROCS(0)
	}
}

// Server handles HTTP requests. Create it with [New] and mount [Server.Handler].
type Server struct {
	runner *pipeline.Runner
	store  store.Store
	logger *log.Logger
	opts   Options

	jobs sync.WaitGroup
	sem  chan struct{}
}

// New creates a Server. A nil logger discards output.
func New(runner *pipeline.Runner, st store.Store, logger *log.Logger, opts Options) *Server {
	opts.setDefaults()
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Server{
		runner: runner,
		store:  st,
		logger: logger,
		opts:   opts,
		sem:    make(chan struct{}, opts.MaxConcurrentJobs),
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.opts.RequestTimeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1/jobs", func(r chi.Router) {
		r.Post("/", s.handleCreateJob)
		r.Get("/", s.handleListJobs)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(s.validateJobID)
			r.Get("/", s.handleGetJob)
			r.Get("/lines", s.handleGetLines)
			r.Get("/layers/{file}", s.handleGetLayer)
		})
	})
	return r
}

// Wait blocks until all background jobs have finished.
func (s *Server) Wait() {
	s.jobs.Wait()
}

// observe reports requests to the HTTP hooks and the logger.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		d := time.Since(start)
		observability.HTTP().OnResponse(r.Context(), r.Method, r.URL.Path, status, d)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration", d,
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// detached returns a context for background work that outlives the request.
func (s *Server) detached(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), s.opts.JobTimeout)
}
