package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/nao1215/seolens/internal/config"
	"github.com/nao1215/seolens/internal/model"
	"github.com/nao1215/seolens/internal/report"
)

const (
	// DefaultReadHeaderTimeout bounds how long a client may take to send headers.
	DefaultReadHeaderTimeout = 10 * time.Second

	// DefaultShutdownTimeout is how long Serve waits for in-flight crawls
	// after its context is cancelled.
	DefaultShutdownTimeout = 35 * time.Second

	errURLRequired = "URL is required"
)

// Crawler crawls a single page. *pipeline.Service implements it.
type Crawler interface {
	CrawlSite(ctx context.Context, rawURL string) (*model.Result, error)
}

// Server serves the crawl API.
type Server struct {
	crawler         Crawler
	addr            string
	logger          *slog.Logger
	shutdownTimeout time.Duration

	httpServer *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	return func(s *Server) {
		if addr != "" {
			s.addr = addr
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithShutdownTimeout sets the graceful shutdown window.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.shutdownTimeout = d
		}
	}
}

// New creates a Server backed by crawler.
func New(crawler Crawler, opts ...Option) *Server {
	s := &Server{
		crawler:         crawler,
		addr:            config.DefaultListenAddr,
		logger:          slog.Default(),
		shutdownTimeout: DefaultShutdownTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: DefaultReadHeaderTimeout,
	}
	return s
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.addr
}

// Handler returns the API routes wrapped in request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/crawl", s.handleCrawl)
	mux.HandleFunc("GET /healthz", handleHealth)
	return s.logRequests(mux)
}

// Serve listens on the configured address until ctx is cancelled, then
// shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener is Serve on an existing listener.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("api server listening", "addr", ln.Addr().String())
		errCh <- s.httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down api server")
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down api server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleCrawl(w http.ResponseWriter, r *http.Request) {
	rawURL := strings.TrimSpace(r.URL.Query().Get("url"))
	if rawURL == "" {
		writeFailure(w, &report.Failure{Error: errURLRequired, HTTPStatus: http.StatusBadRequest}, s.logger)
		return
	}

	result, err := s.crawler.CrawlSite(r.Context(), rawURL)
	if err != nil {
		failure := report.FailureFromError(err)
		failure.Input = rawURL
		s.logger.Debug("crawl failed",
			"url", rawURL,
			"kind", failure.Kind.String(),
			"error", err,
		)
		writeFailure(w, failure, s.logger)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := report.NewJSONWriter(w).Write(result); err != nil {
		s.logger.Error("failed to write response", "url", rawURL, "error", err)
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok")) //nolint:errcheck // Client went away
}

func writeFailure(w http.ResponseWriter, failure *report.Failure, logger *slog.Logger) {
	status := failure.HTTPStatus
	if status < 400 || status > 599 {
		status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := report.NewJSONWriter(w).WriteFailure(failure); err != nil {
		logger.Error("failed to write error response", "error", err)
	}
}
