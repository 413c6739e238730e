// Package mcpserver exposes the retrieval half of the pipeline as MCP tools.
package mcpserver

import (
	"context"
	"errors"

	"github.com/akolanti/studyrag/internal/rag"
	"github.com/akolanti/studyrag/pkg/logger_i"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const Version = "1.0.0"

type Server struct {
	ragService rag.Service
	server     *mcp.Server
	logger     *logger_i.Logger
}

func NewServer(ragService rag.Service) (*Server, error) {
	if ragService == nil {
		return nil, errors.New("rag service is required")
	}
	s := &Server{
		ragService: ragService,
		server:     mcp.NewServer(&mcp.Implementation{Name: "studyrag", Version: Version}, nil),
		logger:     logger_i.NewLogger("MCP"),
	}
	s.registerTools()
	return s, nil
}

// Run serves over stdio until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}
