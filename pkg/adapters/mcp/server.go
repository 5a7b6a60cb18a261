package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/enigma"
	"github.com/aretw0/enigma/internal/logging"
	"github.com/aretw0/enigma/internal/presentation/graph"
	"github.com/aretw0/enigma/pkg/domain"
	"github.com/aretw0/enigma/pkg/machine"
	"github.com/aretw0/enigma/pkg/runner"
	"github.com/aretw0/enigma/pkg/session"
	"github.com/aretw0/enigma/pkg/wiring"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"
)

// RotorsURI is the resource holding the wiring tables.
const RotorsURI = "enigma://rotors"

// EncryptResponse aligns with the OpenAPI schema and provides a unified structure across adapters.
type EncryptResponse struct {
	Text      string `json:"text" jsonschema_description:"The enciphered text"`
	Positions string `json:"positions" jsonschema_description:"Rotor positions after the text, leftmost first"`
}

// SessionResponse describes a session after a change.
type SessionResponse struct {
	Name      string          `json:"name" jsonschema_description:"The session ID"`
	Settings  domain.Settings `json:"settings" jsonschema_description:"The stored key sheet"`
	Positions string          `json:"positions" jsonschema_description:"Current rotor positions, leftmost first"`
}

// TraceResponse is the signal path of one letter.
type TraceResponse struct {
	Output  string `json:"output" jsonschema_description:"The enciphered letter"`
	Path    string `json:"path" jsonschema_description:"Letter after each stage, in order"`
	Mermaid string `json:"mermaid" jsonschema_description:"Mermaid flowchart of the path"`
}

// settingsArgs is the tool form of the machine settings plus the text to encipher.
type settingsArgs struct {
	domain.Settings `mapstructure:",squash"`
	ID              string `mapstructure:"id"`
	Text            string `mapstructure:"text"`
	Letter          string `mapstructure:"letter"`
}

// Server wraps a session manager and exposes it as an MCP Server.
type Server struct {
	sessions  *session.Manager
	tables    *wiring.Tables
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithTables sets the wiring tables used by stateless tools and the rotors resource.
func WithTables(tables *wiring.Tables) Option {
	return func(s *Server) {
		s.tables = tables
	}
}

// WithLogger configures a logger for the Server.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		sessions:  sessions,
		tables:    wiring.Default(),
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("enigma-mcp", strings.TrimSpace(enigma.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops it when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// settingsOptions are the tool parameters shared by every tool taking machine settings.
func settingsOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithArray("rotors", mcp.Required(),
			mcp.Description("Rotor ids 1-5, leftmost first. Either 3 or 5 of them."),
			mcp.Items(map[string]any{"type": "integer", "minimum": 1, "maximum": 5}),
		),
		mcp.WithString("code", mcp.Required(), mcp.Description("Starting rotor letters, one per rotor")),
		mcp.WithArray("ring_offsets",
			mcp.Description("Ring offsets 0-26, one per rotor (optional)"),
			mcp.Items(map[string]any{"type": "integer"}),
		),
		mcp.WithArray("plugboard",
			mcp.Description("Plugboard pairs such as \"AB\" (optional)"),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithBoolean("drop_punctuation", mcp.Description("Remove non-letters instead of passing them through")),
	}
}

func (s *Server) registerTools() {
	// TOOL: encrypt
	encryptOpts := append([]mcp.ToolOption{
		mcp.WithDescription("Encrypt or decrypt text with a fresh machine. The same settings undo the operation."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Text to encipher")),
		mcp.WithOutputSchema[EncryptResponse](),
	}, settingsOptions()...)
	s.mcpServer.AddTool(mcp.NewTool("encrypt", encryptOpts...), mcp.NewStructuredToolHandler(s.handleEncrypt))

	// TOOL: trace_letter
	traceOpts := append([]mcp.ToolOption{
		mcp.WithDescription("Show the path of one letter through plugboard, rotors and reflector."),
		mcp.WithString("letter", mcp.Required(), mcp.Description("A single letter")),
		mcp.WithOutputSchema[TraceResponse](),
	}, settingsOptions()...)
	s.mcpServer.AddTool(mcp.NewTool("trace_letter", traceOpts...), mcp.NewStructuredToolHandler(s.handleTrace))

	// TOOL: create_session
	createOpts := append([]mcp.ToolOption{
		mcp.WithDescription("Store a key sheet under a session ID. A missing ID is generated."),
		mcp.WithString("id", mcp.Description("Session ID (optional)")),
		mcp.WithOutputSchema[SessionResponse](),
	}, settingsOptions()...)
	s.mcpServer.AddTool(mcp.NewTool("create_session", createOpts...), mcp.NewStructuredToolHandler(s.handleCreateSession))

	// TOOL: session_encrypt
	s.mcpServer.AddTool(mcp.NewTool("session_encrypt",
		mcp.WithDescription("Encipher text with a session's machine. Rotor positions carry over between calls."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithString("text", mcp.Required(), mcp.Description("Text to encipher")),
		mcp.WithOutputSchema[EncryptResponse](),
	), mcp.NewStructuredToolHandler(s.handleSessionEncrypt))

	// TOOL: session_reset
	s.mcpServer.AddTool(mcp.NewTool("session_reset",
		mcp.WithDescription("Put a session's rotors back on its key sheet's code."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithOutputSchema[SessionResponse](),
	), mcp.NewStructuredToolHandler(s.handleSessionReset))

	// TOOL: list_rotors
	s.mcpServer.AddTool(mcp.NewTool("list_rotors",
		mcp.WithDescription("Get the rotor and reflector wiring tables."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		jsonBytes, err := json.Marshal(describeTables(s.tables))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("encode failed: %v", err)), nil
		}
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

// decodeArgs maps loosely typed tool arguments (JSON numbers arrive as float64) onto settingsArgs.
func decodeArgs(args map[string]interface{}) (settingsArgs, error) {
	var out settingsArgs
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &out,
	})
	if err != nil {
		return out, err
	}
	if err := dec.Decode(args); err != nil {
		return out, domain.Invalid("bad tool arguments: %v", err)
	}
	return out, nil
}

func (s *Server) handleEncrypt(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (EncryptResponse, error) {
	in, err := decodeArgs(args)
	if err != nil {
		return EncryptResponse{}, err
	}
	text, err := runner.SanitizeInput(in.Text)
	if err != nil {
		s.logger.Warn("MCP Encrypt: Input rejected", "err", err, "size", len(in.Text))
		return EncryptResponse{}, fmt.Errorf("input rejected: %w", err)
	}

	m, err := machine.New(s.tables, in.Settings, machine.WithLogger(s.logger))
	if err != nil {
		return EncryptResponse{}, err
	}
	out := m.EncryptString(text)
	return EncryptResponse{Text: out, Positions: m.Positions()}, nil
}

func (s *Server) handleTrace(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (TraceResponse, error) {
	in, err := decodeArgs(args)
	if err != nil {
		return TraceResponse{}, err
	}
	letter := []rune(in.Letter)
	if len(letter) != 1 {
		return TraceResponse{}, domain.Invalid("trace takes exactly one letter, got %q", in.Letter)
	}

	m, err := machine.New(s.tables, in.Settings, machine.WithLogger(s.logger))
	if err != nil {
		return TraceResponse{}, err
	}
	hops, err := m.Trace(letter[0])
	if err != nil {
		return TraceResponse{}, err
	}

	var path strings.Builder
	for _, h := range hops {
		path.WriteRune(h.Letter)
	}
	return TraceResponse{
		Output:  string(hops[len(hops)-1].Letter),
		Path:    path.String(),
		Mermaid: graph.GenerateMermaid(hops, nil),
	}, nil
}

func (s *Server) handleCreateSession(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (SessionResponse, error) {
	in, err := decodeArgs(args)
	if err != nil {
		return SessionResponse{}, err
	}
	sheet, err := s.sessions.Create(ctx, in.ID, in.Settings)
	if err != nil {
		return SessionResponse{}, err
	}
	return SessionResponse{Name: sheet.Name, Settings: sheet.Settings, Positions: sheet.Settings.Code}, nil
}

func (s *Server) handleSessionEncrypt(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (EncryptResponse, error) {
	id, _ := args["id"].(string)
	input, _ := args["text"].(string)

	clean, err := runner.SanitizeInput(input)
	if err != nil {
		s.logger.Warn("MCP SessionEncrypt: Input rejected", "err", err, "size", len(input))
		return EncryptResponse{}, fmt.Errorf("input rejected: %w", err)
	}
	out, positions, err := s.sessions.EncryptWithPositions(ctx, id, clean)
	if err != nil {
		return EncryptResponse{}, err
	}
	return EncryptResponse{Text: out, Positions: positions}, nil
}

func (s *Server) handleSessionReset(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (SessionResponse, error) {
	id, _ := args["id"].(string)
	if _, err := s.sessions.Reset(ctx, id); err != nil {
		return SessionResponse{}, err
	}
	st, err := s.sessions.Status(ctx, id)
	if err != nil {
		return SessionResponse{}, err
	}
	return SessionResponse{Name: st.Sheet.Name, Settings: st.Sheet.Settings, Positions: st.Positions}, nil
}

// rotorInfo is the JSON form of one rotor identity.
type rotorInfo struct {
	ID     int    `json:"id"`
	Wiring string `json:"wiring"`
	Notch  string `json:"notch"`
}

type tablesInfo struct {
	Reflector string      `json:"reflector"`
	Rotors    []rotorInfo `json:"rotors"`
}

func describeTables(t *wiring.Tables) tablesInfo {
	info := tablesInfo{Reflector: t.Reflector().String()}
	for _, r := range t.Rotors() {
		info.Rotors = append(info.Rotors, rotorInfo{ID: r.ID, Wiring: r.Wiring.String(), Notch: string(r.Notch.Rune())})
	}
	return info
}

func (s *Server) registerResources() {
	// EXPOSE: enigma://rotors
	s.mcpServer.AddResource(mcp.NewResource(RotorsURI, "Rotor Wiring Tables",
		mcp.WithMIMEType("application/json"),
	), s.readRotors)
}

func (s *Server) readRotors(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	jsonBytes, err := json.Marshal(describeTables(s.tables))
	if err != nil {
		return nil, fmt.Errorf("failed to encode tables: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      RotorsURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
