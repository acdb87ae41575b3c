package mcp

import (
	"context"
	"encoding/json"

	"canasim/internal/config"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

// Server holds the state for the MCP server.
type Server struct {
	cfg *config.AppConfig
	srv *mcp.Server
}

// NewServer creates a new MCP server with every simulation tool registered.
func NewServer(cfg *config.AppConfig, version string) (*Server, error) {
	s := &Server{
		cfg: cfg,
		srv: mcp.NewServer(&mcp.Implementation{Name: "canasim", Version: version}, nil),
	}
	if err := s.registerTools(); err != nil {
		return nil, err
	}
	return s, nil
}

// Serve runs the MCP session over Stdio until the client disconnects or ctx ends.
func (s *Server) Serve(ctx context.Context) error {
	log.Info().Msg("Serving MCP over stdio")
	return s.srv.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) formatResult(data interface{}) *mcp.CallToolResult {
	out, _ := json.MarshalIndent(data, "", "  ")
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(out)}},
	}
}
