package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/enigma"
	"github.com/aretw0/enigma/internal/auth"
	"github.com/aretw0/enigma/internal/logging"
	"github.com/aretw0/enigma/pkg/domain"
	"github.com/aretw0/enigma/pkg/observability"
	"github.com/aretw0/enigma/pkg/session"
	"github.com/aretw0/enigma/pkg/wiring"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server serves stateless encryption and named sessions over HTTP.
type Server struct {
	Sessions *session.Manager
	Streams  *StreamManager

	tables   *wiring.Tables
	metrics  *observability.Metrics
	gatherer prometheus.Gatherer
	tokens   *auth.Manager
	logger   *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithTables sets the wiring tables used by stateless encryption and /rotors.
func WithTables(tables *wiring.Tables) Option {
	return func(s *Server) {
		s.tables = tables
	}
}

// WithMetrics feeds m from stateless machines and exposes gatherer at /metrics.
// Session machines report through the hooks given to the session manager.
func WithMetrics(m *observability.Metrics, gatherer prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = gatherer
	}
}

// WithLogger configures a logger for the Server.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a Server on top of a session manager.
func NewServer(sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		Sessions: sessions,
		Streams:  NewStreamManager(),
		tables:   wiring.Default(),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewHandler creates a new HTTP handler for the session manager.
func NewHandler(sessions *session.Manager, opts ...Option) http.Handler {
	return NewServer(sessions, opts...).Routes()
}

// Routes mounts every endpoint on a chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawDocument)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/rotors", s.ListRotors)
	r.Post("/encrypt", s.Encrypt)

	r.Route("/sessions", func(r chi.Router) {
		if s.tokens != nil {
			r.Use(s.requireToken)
		}
		r.Get("/", s.ListSessions)
		r.Post("/", s.CreateSession)
		r.Route("/{id}", func(r chi.Router) {
			if s.tokens != nil {
				r.Use(s.requireSession)
			}
			r.Get("/", s.GetSession)
			r.Put("/", s.PutSession)
			r.Delete("/", s.DeleteSession)
			r.Post("/encrypt", s.SessionEncrypt)
			r.Post("/reset", s.SessionReset)
			r.Get("/events", s.SubscribeEvents)
		})
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Enigma API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, s.logger)
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if swagger, err := GetSwagger(); err == nil && swagger.Info != nil {
		apiVersion = swagger.Info.Version
	}

	resp := map[string]string{
		"app":         "enigma-http",
		"version":     strings.TrimSpace(enigma.Version),
		"api_version": apiVersion,
	}
	writeJSON(w, http.StatusOK, resp, s.logger)
}

// fieldError is the wire form of a rejected parameter.
type fieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

type errorResponse struct {
	Error  string       `json:"error"`
	Fields []fieldError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Response encode failed", "err", err)
	}
}

// writeError maps errors onto status codes: bad parameters are 400, bad
// tokens 401, tokens for other sessions 403, unknown sessions 404 and anything
// else 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidToken):
		status = http.StatusUnauthorized
	case errors.Is(err, auth.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrSessionNotFound):
		status = http.StatusNotFound
	}

	resp := errorResponse{Error: err.Error()}
	for _, e := range domain.ConfigErrors(err) {
		var cfg *domain.ConfigError
		if errors.As(e, &cfg) {
			resp.Fields = append(resp.Fields, fieldError{Field: cfg.Field, Reason: cfg.Reason})
		}
	}

	if status == http.StatusInternalServerError {
		s.logger.Error(op+" failed", "err", err, "request_id", middleware.GetReqID(r.Context()))
	} else {
		s.logger.Warn(op+" rejected", "err", err, "request_id", middleware.GetReqID(r.Context()))
	}
	writeJSON(w, status, resp, s.logger)
}
