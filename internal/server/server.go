package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"nutrition_tracker/internal/nodes"
	"nutrition_tracker/pkg"
	"nutrition_tracker/src/logger"
	"nutrition_tracker/src/model"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"
	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/components/tool"
	"github.com/rs/zerolog"
)

type toolEntry struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ToolServer answers MCP tool calls over plain HTTP POST
type ToolServer struct {
	httpServer *http.Server
	tools      map[string]tool.InvokableTool
	listing    []toolEntry
	log        zerolog.Logger

	// tracker files assume a single writer
	mu sync.Mutex
}

func NewToolServer(ctx context.Context, cfg model.ServerConfig, tools []tool.InvokableTool) (*ToolServer, error) {
	byName, err := nodes.ToolMap(ctx, tools)
	if err != nil {
		return nil, err
	}

	s := &ToolServer{tools: byName, log: logger.With("server")}
	for name, t := range byName {
		info, err := t.Info(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read tool info: %w", err)
		}
		s.listing = append(s.listing, toolEntry{Name: name, Description: info.Desc})
		s.log.Debug().Str("tool", name).Msg("Registered tool")
	}
	sort.Slice(s.listing, func(i, j int) bool { return s.listing[i].Name < s.listing[j].Name })

	s.httpServer = &http.Server{
		Addr:              cfg.Addr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

func (s *ToolServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/tools", s.handleListTools)
	mux.HandleFunc("/", s.handleCallTool)
	return mux
}

func setCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
}

func (s *ToolServer) handleListTools(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, s.listing)
}

func (s *ToolServer) handleCallTool(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request protocol.CallToolRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, fmt.Sprintf("Invalid JSON: %v", err), http.StatusBadRequest)
		return
	}

	t, ok := s.tools[request.Name]
	if !ok {
		http.Error(w, fmt.Sprintf("Unknown tool: %s", request.Name), http.StatusNotFound)
		return
	}

	args := "{}"
	if len(request.Arguments) > 0 {
		encoded, err := sonic.MarshalString(request.Arguments)
		if err != nil {
			http.Error(w, fmt.Sprintf("Invalid arguments: %v", err), http.StatusBadRequest)
			return
		}
		args = encoded
	}

	start := time.Now()
	s.mu.Lock()
	out, err := t.InvokableRun(r.Context(), args)
	s.mu.Unlock()

	event := s.log.Info()
	if err != nil {
		event = s.log.Warn().Err(err)
	}
	event.Str("tool", request.Name).Dur("elapsed", time.Since(start)).Msg("Tool call")

	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	writeJSON(w, &protocol.CallToolResult{
		Content: []protocol.Content{
			protocol.TextContent{
				Type: "text",
				Text: out,
			},
		},
	})
}

func statusFor(err error) int {
	var verr *pkg.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, pkg.ErrProfileNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error().Err(err).Msg("Failed to encode response")
	}
}

func (s *ToolServer) Start(ctx context.Context) error {
	s.log.Info().Str("addr", s.httpServer.Addr).Int("tools", len(s.tools)).Msg("Starting tool server")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *ToolServer) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
