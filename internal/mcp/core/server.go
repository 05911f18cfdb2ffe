package core

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"
)

// ServerName is reported by initialize and /health
const ServerName = "lifeforce"

// Server is a small HTTP server with a JSON tool endpoint at /mcp. Other
// handlers can be mounted next to it.
type Server struct {
	port         int
	logger       *zap.Logger
	mux          *http.ServeMux
	httpServer   *fasthttp.Server
	toolRegistry *ToolRegistry
	limiter      *rateLimiter
	running      bool
	mu           sync.Mutex
	onShutdown   []func() // Callbacks on shutdown
	hooks        map[string][]Handler
}

// ToolRegistry holds all available tools
type ToolRegistry struct {
	tools map[string]Tool
}

// Tool describes a callable tool
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"`
}

// Handler is the function type for tool handlers
type Handler func(ctx context.Context, args map[string]interface{}) (interface{}, error)

// NewServer creates a server on port. rateLimitPerMin limits POST requests
// per client IP; 0 disables the limit.
func NewServer(port int, logger *zap.Logger, rateLimitPerMin int) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		port:         port,
		logger:       logger,
		mux:          http.NewServeMux(),
		toolRegistry: NewToolRegistry(),
		limiter:      newRateLimiter(rateLimitPerMin),
		hooks:        make(map[string][]Handler),
	}

	s.mux.HandleFunc("/mcp", s.handleMCP)
	s.mux.HandleFunc("/health", s.healthHandler)

	return s
}

func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{
		tools: make(map[string]Tool),
	}
}

// Register adds a tool to the registry
func (r *ToolRegistry) Register(name, description string, parameters map[string]interface{}) {
	r.tools[name] = Tool{
		Name:        name,
		Description: description,
		Parameters:  parameters,
	}
}

// Get returns a tool by name
func (r *ToolRegistry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// List returns all registered tools sorted by name
func (r *ToolRegistry) List() []Tool {
	list := make([]Tool, 0, len(r.tools))
	for _, t := range r.tools {
		list = append(list, t)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

// AddHandler adds a handler for a tool
func (s *Server) AddHandler(name, description string, parameters map[string]interface{}, handler Handler) {
	s.toolRegistry.Register(name, description, parameters)
	s.hooks[name] = append(s.hooks[name], handler)
}

// Mount serves handler for pattern on the same listener
func (s *Server) Mount(pattern string, handler http.Handler) {
	s.mux.Handle(pattern, handler)
}

// OnShutdown adds a callback to run on shutdown
func (s *Server) OnShutdown(callback func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onShutdown = append(s.onShutdown, callback)
}

// Handler returns every route behind the rate limiter
func (s *Server) Handler() http.Handler {
	return s.rateLimit(s.mux)
}

// Start serves until ctx is cancelled, then shuts down
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("server already running")
	}
	s.running = true
	s.httpServer = &fasthttp.Server{
		Handler:      fasthttpadaptor.NewFastHTTPHandler(s.Handler()),
		Name:         ServerName,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", s.port)
		s.logger.Info("server listening", zap.String("addr", addr))
		errCh <- s.httpServer.ListenAndServe(addr)
	}()

	select {
	case <-ctx.Done():
		return s.Stop()
	case err := <-errCh:
		s.mu.Lock()
		s.running = false
		s.runShutdownHooks()
		s.mu.Unlock()
		if err != nil {
			return fmt.Errorf("listen on port %d: %w", s.port, err)
		}
		return nil
	}
}

// Stop gracefully shuts down the server
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.running = false

	s.runShutdownHooks()

	s.logger.Info("server shutting down")
	return s.httpServer.ShutdownWithContext(ctx)
}

// runShutdownHooks runs each OnShutdown callback once. Callers hold s.mu.
func (s *Server) runShutdownHooks() {
	for _, cb := range s.onShutdown {
		cb()
	}
	s.onShutdown = nil
}

func (s *Server) handleMCP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req MCPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	response := s.handleRequest(r.Context(), req)
	WriteJSON(w, http.StatusOK, response)
}

func (s *Server) handleRequest(ctx context.Context, req MCPRequest) MCPResponse {
	switch req.Method {
	case "initialize":
		return MCPResponse{
			Result: map[string]interface{}{
				"protocolVersion": "2024-11-05",
				"capabilities": map[string]interface{}{
					"tools": s.toolRegistry.List(),
				},
				"serverInfo": map[string]string{
					"name":    ServerName,
					"version": "1.0.0",
				},
			},
		}

	case "tools/list":
		return MCPResponse{
			Result: map[string]interface{}{
				"tools": s.toolRegistry.List(),
			},
		}

	case "tools/call":
		toolName, ok := req.Params["name"].(string)
		if !ok {
			return MCPResponse{Error: "missing tool name"}
		}

		toolArgs, _ := req.Params["arguments"].(map[string]interface{})
		if toolArgs == nil {
			toolArgs = make(map[string]interface{})
		}

		_, exists := s.toolRegistry.Get(toolName)
		if !exists {
			return MCPResponse{Error: fmt.Sprintf("unknown tool: %s", toolName)}
		}

		// Execute all handlers for this tool
		handlers := s.hooks[toolName]
		if len(handlers) == 0 {
			return MCPResponse{Error: fmt.Sprintf("no handler for tool: %s", toolName)}
		}

		var finalResult interface{}
		for _, handler := range handlers {
			result, err := handler(ctx, toolArgs)
			if err != nil {
				return MCPResponse{Error: err.Error()}
			}
			finalResult = result
		}

		text, err := json.Marshal(finalResult)
		if err != nil {
			return MCPResponse{Error: fmt.Sprintf("encode result: %v", err)}
		}

		return MCPResponse{
			Result: map[string]interface{}{
				"content": []map[string]interface{}{
					{
						"type": "text",
						"text": string(text),
					},
				},
			},
		}

	default:
		return MCPResponse{Error: fmt.Sprintf("unknown method: %s", req.Method)}
	}
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"server": ServerName,
	})
}

// WriteJSON writes v as a JSON response with the given status. If v cannot
// be encoded nothing of it is sent and the response is a 500.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(body, '\n'))
}

// MCPRequest is a tool endpoint request
type MCPRequest struct {
	Method string                 `json:"method"`
	Params map[string]interface{} `json:"params"`
}

// MCPResponse is a tool endpoint response
type MCPResponse struct {
	Result interface{} `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// ToolParameters returns standard parameters for a tool
func ToolParameters(fields map[string]map[string]interface{}, required ...string) map[string]interface{} {
	p := map[string]interface{}{
		"type":       "object",
		"properties": fields,
	}
	if len(required) > 0 {
		p["required"] = required
	}
	return p
}

// StringParam creates a string parameter
func StringParam(description string, enum []string) map[string]interface{} {
	p := map[string]interface{}{
		"type":        "string",
		"description": description,
	}
	if enum != nil {
		p["enum"] = enum
	}
	return p
}
