package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/akolanti/studyrag/internal/bootstrap"
	"github.com/akolanti/studyrag/internal/config"
	"github.com/akolanti/studyrag/internal/mcpserver"
	"github.com/akolanti/studyrag/pkg/logger_i"
)

func main() {
	logger_i.InitTo(os.Stderr)
	logger := logger_i.NewLogger("mcp")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ragService, err := bootstrap.RagService(ctx, config.Load())
	if err != nil {
		logger.Error("Could not initialize services", "error", err)
		os.Exit(1)
	}

	server, err := mcpserver.NewServer(ragService)
	if err != nil {
		logger.Error("Could not create MCP server", "error", err)
		os.Exit(1)
	}

	logger.Info("MCP server running on stdio")
	if err := server.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("MCP server stopped", "error", err)
		os.Exit(1)
	}
}
