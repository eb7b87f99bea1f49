package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Newpaw/aivoice-flow-with-mcp/internal/services/flow/domain"
)

const (
	// serverName identifies this MCP server to clients.
	serverName = "Internet Offer Flow Server"
	// serverVersion identifies the MCP server version.
	serverVersion = "0.1.0"

	defaultShutdownTimeout = 10 * time.Second
)

// serverInstructions tells the calling agent how to drive the flow.
const serverInstructions = "Use this flow in order: " +
	"1) ask user for full name and rodne_cislo_suffix (last digits), " +
	"2) call authenticate_user with those values plus phone_number=731527923, " +
	"3) remember returned conversation_id and pass it to all next tools, " +
	"4) call download_user_info(conversation_id=...), " +
	"5) call prepare_new_offer(conversation_id=...), " +
	"6) ask user if they accept the offer, then call " +
	"submit_offer_to_external_service(accept_offer=..., persist_to_db=..., " +
	"conversation_id=...). " +
	"Do not call protected tools before successful authentication."

// TransportKind identifies the MCP transport implementation.
type TransportKind string

const (
	// TransportStdio uses standard input/output for MCP.
	TransportStdio TransportKind = "stdio"
	// TransportHTTP runs MCP over streamable HTTP for remote clients.
	TransportHTTP TransportKind = "http"
)

// Config configures how the flow MCP server is served.
type Config struct {
	Transport TransportKind
	HTTPAddr  string // HTTP listen address, defaults to localhost:8000.
	HTTPPath  string // HTTP mount path for the MCP endpoint, defaults to /mcp.
}

// Server hosts the flow MCP server and the per-session state it hands to
// tool handlers.
type Server struct {
	mcpServer *mcp.Server

	mu       sync.Mutex
	sessions map[string]*domain.SessionState
}

// New binds the flow tools to a fresh MCP server. The directory resolves
// credentials, the recorder persists accepted submissions, and the registry
// keeps conversation snapshots for session recovery.
func New(directory domain.UserDirectory, recorder domain.SubmissionRecorder, registry domain.ConversationRegistry) *Server {
	server := &Server{sessions: make(map[string]*domain.SessionState)}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{Name: serverName, Version: serverVersion},
		&mcp.ServerOptions{Instructions: serverInstructions},
	)
	registerFlowTools(mcpServer, directory, recorder, registry, server.sessionState)

	server.mcpServer = mcpServer
	return server
}

// sessionState returns the call-scoped state for the MCP session behind the
// request. Requests without a session share one fallback state, which also
// lets tests drive handlers directly.
func (s *Server) sessionState(req *mcp.CallToolRequest) *domain.SessionState {
	sessionID := ""
	if req != nil && req.Session != nil {
		sessionID = req.Session.ID()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.sessions[sessionID]
	if !ok {
		state = &domain.SessionState{}
		s.sessions[sessionID] = state
	}
	return state
}

// Serve starts the MCP server on stdio and blocks until it stops or the
// context ends.
func (s *Server) Serve(ctx context.Context) error {
	return s.serveWithTransport(ctx, &mcp.StdioTransport{})
}

// serveWithTransport starts the MCP server using the provided transport.
// Context cancellation is the normal stop path and is not reported as an
// error.
func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}

// Run is the service entrypoint and blocks until context cancellation.
func (s *Server) Run(ctx context.Context, cfg Config) error {
	if cfg.Transport == "" {
		cfg.Transport = TransportStdio
	}

	switch cfg.Transport {
	case TransportStdio:
		return s.Serve(ctx)
	case TransportHTTP:
		return s.runHTTP(ctx, cfg)
	default:
		return fmt.Errorf("transport %q is not supported", cfg.Transport)
	}
}

// runHTTP serves the MCP server over streamable HTTP with a health endpoint
// next to the MCP mount path.
func (s *Server) runHTTP(ctx context.Context, cfg Config) error {
	addr := strings.TrimSpace(cfg.HTTPAddr)
	if addr == "" {
		addr = "localhost:8000"
	}
	path := strings.TrimSpace(cfg.HTTPPath)
	if path == "" {
		path = "/mcp"
	}
	path = "/" + strings.Trim(path, "/")

	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcpServer
	}, nil)

	mux := http.NewServeMux()
	mux.Handle(path, handler)
	mux.HandleFunc(path+"/health", handleHealth)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	log.Printf("Starting flow MCP HTTP server on %s%s", addr, path)

	errChan := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Printf("Shutting down flow MCP HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown HTTP server: %w", err)
		}
		return nil
	case err := <-errChan:
		return fmt.Errorf("HTTP server error: %w", err)
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": serverName,
	})
}
