// Package server provides the MCP server implementation for the ArcGIS
// Location Services integration.
package server

import (
	"log/slog"

	"github.com/NERVsystems/arcgismcp/pkg/tools"
	"github.com/NERVsystems/arcgismcp/pkg/tools/prompts"
	"github.com/mark3labs/mcp-go/server"
)

const (
	// ServerName is the name of the MCP server
	ServerName = "arcgis-location-services"

	// ServerVersion is the version of the MCP server
	ServerVersion = "0.1.0"
)

// Server encapsulates the MCP server with ArcGIS Location Services tools.
type Server struct {
	srv *server.MCPServer
}

// NewServer creates a new ArcGIS MCP server with all tools registered.
func NewServer() (*Server, error) {
	logger := slog.Default()
	logger.Info("initializing ArcGIS Location Services MCP server",
		"name", ServerName,
		"version", ServerVersion)

	// Create MCP server with options
	srv := server.NewMCPServer(
		ServerName,
		ServerVersion,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	// Create tool registry and register all tools
	registry := tools.NewRegistry(logger)
	registry.RegisterTools(srv)

	// Register usage-guidance prompts
	prompts.RegisterLocationPrompts(srv)

	return &Server{srv: srv}, nil
}

// Run starts the MCP server using stdin/stdout for communication.
func (s *Server) Run() error {
	return server.ServeStdio(s.srv)
}
