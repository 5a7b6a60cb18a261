package cli

import (
	"context"
	"encoding/hex"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/enigma/internal/auth"
	"github.com/aretw0/enigma/internal/logging"
	"github.com/aretw0/enigma/pkg/adapters/file"
	httpAdapter "github.com/aretw0/enigma/pkg/adapters/http"
	mcpAdapter "github.com/aretw0/enigma/pkg/adapters/mcp"
	"github.com/aretw0/enigma/pkg/adapters/memory"
	"github.com/aretw0/enigma/pkg/adapters/redis"
	"github.com/aretw0/enigma/pkg/domain"
	"github.com/aretw0/enigma/pkg/observability"
	"github.com/aretw0/enigma/pkg/persistence/middleware"
	"github.com/aretw0/enigma/pkg/ports"
	"github.com/aretw0/enigma/pkg/session"
	"github.com/aretw0/enigma/pkg/wiring"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// ServeOptions configures the session backends shared by serve and mcp.
type ServeOptions struct {
	Port           string
	RedisAddr      string // Empty keeps key sheets in memory
	RedisPassword  string
	RedisDB        int
	RedisPrefix    string
	SessionTTL     time.Duration
	StoreDir       string   // Key sheet directory; ignored when RedisAddr is set
	SQLitePath     string   // SQLite database file; needs a build with -tags sqlite
	SealKey        string   // Hex AES-256 key sealing stored key sheets
	SealPassphrase string   // Derives the sealing key when SealKey is empty
	SealFallback   []string // Older hex keys still accepted on load
	AuthSecret     string   // HMAC secret; when set /sessions routes need a bearer token
	Tables         string
	LogLevel       string
	LogJSON        bool
	LogOutput      io.Writer // Defaults to stderr
}

// Backend is the assembled session layer with its observability.
type Backend struct {
	Sessions *session.Manager
	Metrics  *observability.Metrics
	Registry *prometheus.Registry
	Tables   *wiring.Tables
	Logger   *slog.Logger
	closers  []io.Closer
}

// Close releases the store connection, if any.
func (b *Backend) Close() error {
	var first error
	for _, c := range b.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// NewBackend picks the key sheet store (Redis when an address is given, then
// SQLite, then a directory, memory otherwise), seals it when a key is given,
// and builds a session manager that reports to a fresh registry.
func NewBackend(opts ServeOptions) (*Backend, error) {
	logger := logging.NewWithOptions(logging.Options{
		Level:  logging.ParseLevel(opts.LogLevel),
		JSON:   opts.LogJSON,
		Writer: opts.LogOutput,
	})

	tables, err := LoadTables(opts.Tables)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(reg)

	b := &Backend{Metrics: metrics, Registry: reg, Tables: tables, Logger: logger}

	var store ports.KeySheetStore = memory.NewStore()
	mgrOpts := []session.Option{
		session.WithTables(tables),
		session.WithLogger(logger),
		session.WithHooks(metrics.Hooks()),
	}
	if opts.RedisAddr != "" {
		storeOpts := []redis.Option{redis.WithTTL(opts.SessionTTL)}
		if opts.RedisPrefix != "" {
			storeOpts = append(storeOpts, redis.WithPrefix(opts.RedisPrefix))
		}
		rs := redis.New(opts.RedisAddr, opts.RedisPassword, opts.RedisDB, storeOpts...)
		store = rs
		b.closers = append(b.closers, rs)
		lockPrefix := opts.RedisPrefix
		if lockPrefix == "" {
			lockPrefix = "enigma:"
		}
		mgrOpts = append(mgrOpts, session.WithLocker(redis.NewLocker(rs.Client(), lockPrefix)))
		logger.Info("Using Redis key sheet store", "address", opts.RedisAddr, "db", opts.RedisDB)
	} else if opts.SQLitePath != "" {
		ss, closer, err := openSQLiteStore(context.Background(), opts.SQLitePath)
		if err != nil {
			return nil, err
		}
		store = ss
		b.closers = append(b.closers, closer)
		logger.Info("Using SQLite key sheet store", "path", opts.SQLitePath)
	} else if opts.StoreDir != "" {
		store = file.New(opts.StoreDir)
		logger.Info("Using file key sheet store", "dir", opts.StoreDir)
	} else {
		logger.Info("Using in-memory key sheet store")
	}

	if opts.SealKey != "" || opts.SealPassphrase != "" {
		seal, err := sealMiddleware(opts)
		if err != nil {
			_ = b.Close()
			return nil, err
		}
		store = middleware.Chain(store, seal)
		logger.Info("Sealing stored key sheets", "fallback_keys", len(opts.SealFallback))
	}

	b.Sessions = session.NewManager(store, mgrOpts...)
	return b, nil
}

// sealSalt is fixed so every replica derives the same key from a passphrase.
var sealSalt = []byte("enigma:keysheets:v1")

func sealMiddleware(opts ServeOptions) (middleware.Middleware, error) {
	decode := func(field, key string) ([]byte, error) {
		b, err := hex.DecodeString(key)
		if err != nil {
			return nil, &domain.ConfigError{Field: field, Reason: "key must be hex encoded"}
		}
		return b, nil
	}
	cfg := middleware.EncryptionConfig{}
	var err error
	if opts.SealKey != "" {
		cfg.ActiveKey, err = decode("seal-key", opts.SealKey)
	} else {
		cfg.ActiveKey, err = middleware.KeyFromPassphrase(opts.SealPassphrase, sealSalt)
	}
	if err != nil {
		return nil, err
	}
	for _, k := range opts.SealFallback {
		key, err := decode("seal-fallback", k)
		if err != nil {
			return nil, err
		}
		cfg.FallbackKeys = append(cfg.FallbackKeys, key)
	}
	return middleware.NewEncryptionMiddleware(cfg)
}

// NewHTTPServer builds the HTTP server for the serve command.
func NewHTTPServer(opts ServeOptions) (*http.Server, *Backend, error) {
	b, err := NewBackend(opts)
	if err != nil {
		return nil, nil, err
	}
	httpOpts := []httpAdapter.Option{
		httpAdapter.WithTables(b.Tables),
		httpAdapter.WithMetrics(b.Metrics, b.Registry),
		httpAdapter.WithLogger(b.Logger),
	}
	if opts.AuthSecret != "" {
		tokens, err := auth.NewManager(opts.AuthSecret, 0)
		if err != nil {
			_ = b.Close()
			return nil, nil, &domain.ConfigError{Field: "auth-secret", Reason: err.Error()}
		}
		httpOpts = append(httpOpts, httpAdapter.WithAuth(tokens))
		b.Logger.Info("Session routes require a bearer token")
	}
	handler := httpAdapter.NewHandler(b.Sessions, httpOpts...)
	port := opts.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv, b, nil
}

// NewMCPServer builds the MCP server for the mcp command.
func NewMCPServer(opts ServeOptions) (*mcpAdapter.Server, *Backend, error) {
	b, err := NewBackend(opts)
	if err != nil {
		return nil, nil, err
	}
	return mcpAdapter.NewServer(b.Sessions,
		mcpAdapter.WithTables(b.Tables),
		mcpAdapter.WithLogger(b.Logger),
	), b, nil
}

// IssueToken signs a bearer token for the serve command's session routes.
// Without sessions the token grants every session.
func IssueToken(secret, subject string, ttl time.Duration, sessions []string) (string, error) {
	tokens, err := auth.NewManager(secret, ttl)
	if err != nil {
		return "", &domain.ConfigError{Field: "secret", Reason: err.Error()}
	}
	return tokens.Issue(subject, sessions...)
}
