package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/ironsheep/paint-palette-mcp/internal/engine"
	"github.com/ironsheep/paint-palette-mcp/internal/imaging"
)

// Server handles MCP protocol communication
type Server struct {
	cfg    Config
	log    *slog.Logger
	cache  *imaging.DecodeCache
	engine *engine.Engine
	picker *engine.Picker

	mu       sync.Mutex
	inflight map[string]context.CancelFunc
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// MCPNotification represents an outgoing notification (no ID)
type MCPNotification struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

// cancelledParams is the payload of a notifications/cancelled message.
type cancelledParams struct {
	RequestID interface{} `json:"requestId"`
	Reason    string      `json:"reason,omitempty"`
}

// New creates a server with DefaultConfig that discards its logs
func New() *Server {
	return NewWithConfig(DefaultConfig(), nil)
}

// NewWithConfig creates a server from cfg. A nil logger discards output.
func NewWithConfig(cfg Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	loader := imaging.NewLoader(imaging.ImageDecoder{}, imaging.NewDecodeCache(cfg.CacheSize))
	eng := engine.New(loader, engine.Options{})

	return &Server{
		cfg:      cfg,
		log:      logger,
		cache:    loader.Cache(),
		engine:   eng,
		picker:   engine.NewPicker(eng, cfg.PickDelay),
		inflight: make(map[string]context.CancelFunc),
	}
}

// Run starts the MCP server, reading from stdin and writing to stdout
func (s *Server) Run() error {
	return s.Serve(context.Background(), os.Stdin, os.Stdout)
}

// Serve reads line-delimited JSON-RPC requests from in and writes responses
// to out until in is exhausted or ctx is canceled.
//
// Each request runs in its own goroutine so a slow extraction never blocks a
// ping or a color pick; writes are serialized. A notifications/cancelled
// message cancels the context of the matching in-flight request.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	scanner := bufio.NewScanner(in)
	// Increase buffer size for large requests; inline image payloads can be big
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 32*1024*1024)

	var (
		writeMu sync.Mutex
		wg      sync.WaitGroup
	)
	encoder := json.NewEncoder(out)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			s.log.Warn("failed to parse request", "err", err)
			continue
		}

		if req.Method == "notifications/cancelled" {
			s.cancelRequest(req.Params)
			continue
		}

		reqCtx, release := s.track(ctx, req.ID)
		wg.Add(1)
		go func(req MCPRequest) {
			defer wg.Done()
			defer release()

			resp := s.handleRequest(reqCtx, &req)
			if resp == nil {
				return
			}
			writeMu.Lock()
			defer writeMu.Unlock()
			if err := encoder.Encode(resp); err != nil {
				s.log.Error("failed to encode response", "err", err)
			}
		}(req)
	}

	wg.Wait()

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}
	return nil
}

// track derives a cancellable context for a request with an ID.
func (s *Server) track(ctx context.Context, id interface{}) (context.Context, func()) {
	reqCtx, cancel := context.WithCancel(ctx)
	if id == nil {
		return reqCtx, cancel
	}

	key := fmt.Sprint(id)
	s.mu.Lock()
	s.inflight[key] = cancel
	s.mu.Unlock()

	return reqCtx, func() {
		s.mu.Lock()
		delete(s.inflight, key)
		s.mu.Unlock()
		cancel()
	}
}

// cancelRequest handles notifications/cancelled.
func (s *Server) cancelRequest(raw json.RawMessage) {
	var p cancelledParams
	if err := json.Unmarshal(raw, &p); err != nil || p.RequestID == nil {
		s.log.Warn("ignoring malformed cancellation", "err", err)
		return
	}

	key := fmt.Sprint(p.RequestID)
	s.mu.Lock()
	cancel, ok := s.inflight[key]
	s.mu.Unlock()
	if ok {
		s.log.Debug("request cancelled", "id", key, "reason", p.Reason)
		cancel()
	}
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(ctx context.Context, req *MCPRequest) *MCPResponse {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(ctx, req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &MCPError{
				Code:    -32601,
				Message: fmt.Sprintf("Method not found: %s", req.Method),
			},
		}
	}
}

// handleInitialize responds to the initialize request
func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    "paint-palette-mcp",
				"version": "0.1.0",
			},
		},
	}
}
