package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/agentkit"
	"github.com/aretw0/agentkit/pkg/dispatch"
	"github.com/aretw0/agentkit/pkg/registry"
)

// DispatchTool is the meta-tool that routes {action, arguments} by name.
const DispatchTool = "dispatch"

// ActionsResource lists the catalog as JSON.
const ActionsResource = "agentkit://actions"

var dispatchSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "action": {"type": "string", "description": "Action name, e.g. GET_BALANCE"},
    "arguments": {
      "description": "Action arguments as an object, a JSON string or key=value pairs",
      "oneOf": [{"type": "object"}, {"type": "string"}]
    }
  },
  "required": ["action"]
}`)

// Server exposes a dispatcher as an MCP server.
type Server struct {
	dispatcher *dispatch.Dispatcher
	session    *dispatch.Session
	logger     *slog.Logger
	mcpServer  *server.MCPServer
}

// NewServer registers one tool per action plus the dispatch meta-tool.
func NewServer(d *dispatch.Dispatcher, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		dispatcher: d,
		session:    dispatch.NewSession(),
		logger:     logger,
		mcpServer: server.NewMCPServer("agentkit-mcp", strings.TrimSpace(agentkit.Version),
			server.WithRecovery(),
		),
	}
	if err := s.registerTools(); err != nil {
		return nil, err
	}
	s.registerResources()
	return s, nil
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer { return s.mcpServer }

// Session returns the connection state.
func (s *Server) Session() *dispatch.Session { return s.session }

// ServeStdio serves on Stdin/Stdout until EOF.
func (s *Server) ServeStdio() error {
	if err := s.session.Listen(); err != nil {
		return err
	}
	defer s.session.Close()
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves on the given port using SSE until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if err := s.session.Listen(); err != nil {
		return err
	}
	defer s.session.Close()

	serverErrors := make(chan error, 1)
	lifecycle.Go(ctx, func(ctx context.Context) error {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
		return nil
	})

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down server")
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

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() error {
	for _, d := range s.dispatcher.Registry().List() {
		tool, err := toolFor(d)
		if err != nil {
			return err
		}
		name := d.Name
		s.mcpServer.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return s.call(ctx, name, req.Params.Arguments), nil
		})
	}

	meta := mcp.NewToolWithRawSchema(DispatchTool,
		"Dispatch any action by name. Unknown names are reported, never executed.",
		dispatchSchema,
	)
	meta.Annotations.ReadOnlyHint = mcp.ToBoolPtr(false)
	meta.Annotations.OpenWorldHint = mcp.ToBoolPtr(true)
	s.mcpServer.AddTool(meta, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()
		action, _ := args["action"].(string)
		return s.call(ctx, action, args["arguments"]), nil
	})
	return nil
}

func toolFor(d registry.Descriptor) (mcp.Tool, error) {
	raw, err := json.Marshal(d.Entry().InputSchema)
	if err != nil {
		return mcp.Tool{}, fmt.Errorf("action %s: encode schema: %w", d.Name, err)
	}
	tool := mcp.NewToolWithRawSchema(d.Name, d.Description, raw)
	tool.Annotations.ReadOnlyHint = mcp.ToBoolPtr(!d.Mutating)
	tool.Annotations.DestructiveHint = mcp.ToBoolPtr(d.Mutating)
	tool.Annotations.OpenWorldHint = mcp.ToBoolPtr(true)
	return tool, nil
}

// call runs one dispatch. Failures stay in-band as text so the host sees
// the same message a human would.
func (s *Server) call(ctx context.Context, action string, args any) *mcp.CallToolResult {
	if err := s.session.Begin(); err != nil {
		return mcp.NewToolResultError("Error: " + err.Error())
	}
	defer s.session.End()

	reply := s.dispatcher.Dispatch(ctx, action, args)
	if reply.Envelope == nil {
		return mcp.NewToolResultError(reply.Text)
	}
	return mcp.NewToolResultText(reply.Text)
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(ActionsResource, "Action Catalog",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.dispatcher.Registry().Entries())
		if err != nil {
			return nil, fmt.Errorf("failed to encode catalog: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      ActionsResource,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
