package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hubgate/hubgate/internal/hub"
)

// Server represents the webhook HTTP server.
type Server struct {
	config    Config
	receivers map[string]*hub.Receiver
	logger    *slog.Logger
	server    *http.Server

	// endpoints maps URL paths to their configurations
	endpoints map[string]*EndpointConfig
}

// New creates a new webhook server instance. The receivers map is keyed by
// receiver name and must cover every configured endpoint.
func New(config Config, receivers map[string]*hub.Receiver, logger *slog.Logger) (*Server, error) {
	endpoints := make(map[string]*EndpointConfig)
	for i := range config.Endpoints {
		ep := &config.Endpoints[i]

		if ep.MaxBodySize == 0 {
			ep.MaxBodySize = DefaultMaxBodySize
		}
		if _, ok := receivers[ep.Receiver]; !ok {
			return nil, fmt.Errorf("endpoint %q: no receiver named %q", ep.Path, ep.Receiver)
		}

		endpoints[ep.Path] = ep
	}

	return &Server{
		config:    config,
		receivers: receivers,
		logger:    logger,
		endpoints: endpoints,
	}, nil
}

// Start starts the webhook HTTP server (blocking).
func (s *Server) Start(ctx context.Context) error {
	router := s.Router()

	s.server = &http.Server{
		Addr:         s.config.Listen,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("webhook server starting", "listen", s.config.Listen, "endpoints", len(s.endpoints))

	// Run server in goroutine
	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for context cancellation or server error
	select {
	case <-ctx.Done():
		s.logger.Info("webhook server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("webhook server shutdown failed: %w", err)
		}
		return ctx.Err()
	case err := <-errCh:
		return fmt.Errorf("webhook server error: %w", err)
	}
}

// Router builds the HTTP router. Exposed for tests.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)

	// Only GET (handshake) and POST (notification) are meaningful on an
	// endpoint; chi answers everything else 405 without the body being read.
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		s.respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	for path := range s.endpoints {
		r.Get(path, s.handleChallenge)
		r.Get(path+"/{id}", s.handleChallenge)
		r.Post(path, s.handleNotification)
		r.Post(path+"/{id}", s.handleNotification)
	}

	return r
}

// loggingMiddleware logs HTTP requests (excludes sensitive payloads).
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		// Log request (no body content for security)
		s.logger.Info("webhook request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
			"remote_addr", r.RemoteAddr,
		)
	})
}

// lookup resolves the endpoint and receiver for a request, along with the
// trailing subscription id segment (empty when absent).
func (s *Server) lookup(r *http.Request) (*EndpointConfig, *hub.Receiver, string, bool) {
	id := chi.URLParam(r, "id")
	path := r.URL.Path
	if id != "" {
		path = path[:len(path)-len(id)-1]
	}

	endpoint, ok := s.endpoints[path]
	if !ok {
		return nil, nil, "", false
	}
	return endpoint, s.receivers[endpoint.Receiver], id, true
}

// handleChallenge handles the GET subscription handshake.
func (s *Server) handleChallenge(w http.ResponseWriter, r *http.Request) {
	_, receiver, id, ok := s.lookup(r)
	if !ok {
		s.respondError(w, http.StatusNotFound, "endpoint not found")
		return
	}

	challenge, err := receiver.HandleChallenge(id, r.URL.Query())
	if err != nil {
		// Handshake failures are all the caller's fault.
		s.respondError(w, http.StatusBadRequest, "bad handshake")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, strconv.FormatInt(challenge, 10))
}

// handleNotification handles incoming webhook POST requests.
func (s *Server) handleNotification(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	endpoint, receiver, id, ok := s.lookup(r)
	if !ok {
		s.respondError(w, http.StatusNotFound, "endpoint not found")
		return
	}

	// Enforce body size limit
	limitedReader := io.LimitReader(r.Body, endpoint.MaxBodySize+1)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to read request body")
		return
	}

	if int64(len(body)) > endpoint.MaxBodySize {
		s.respondError(w, http.StatusRequestEntityTooLarge, "payload too large")
		return
	}

	signature := r.Header.Get(hub.SignatureHeader)

	deliveryID, err := receiver.VerifyAndForward(ctx, id, signature, body)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			s.logger.Error("failed to store delivery",
				"path", r.URL.Path,
				"receiver", receiver.Name(),
				"error", err,
			)
			s.respondError(w, status, "failed to store delivery")
			return
		}
		s.respondError(w, status, "verification failed")
		return
	}

	s.logger.Info("delivery stored",
		"path", r.URL.Path,
		"receiver", receiver.Name(),
		"subscription_id", id,
		"delivery_id", deliveryID,
	)

	s.respondJSON(w, http.StatusAccepted, AcceptedResponse{DeliveryID: deliveryID})
}

// statusFor translates verification errors exactly once at the HTTP
// boundary. Rejected requests are 400; only dispatcher failures are 500.
func statusFor(err error) int {
	var authErr *hub.AuthError
	if errors.As(err, &authErr) {
		return http.StatusBadRequest
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// respondJSON sends a JSON response.
func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends a JSON error response.
func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, ErrorResponse{Error: message})
}
