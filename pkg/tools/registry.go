// Package tools provides the ArcGIS Location Services MCP tool
// implementations.
package tools

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Registry holds all MCP tool registrations for the ArcGIS Location
// Services.
type Registry struct {
	logger *slog.Logger
}

// NewRegistry creates a new MCP tool registry.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger: logger,
	}
}

// ToolDefinition represents an ArcGIS MCP tool definition.
type ToolDefinition struct {
	Name        string
	Description string
	Tool        mcp.Tool
	Handler     func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

// GetToolDefinitions returns all ArcGIS MCP tool definitions.
func (r *Registry) GetToolDefinitions() []ToolDefinition {
	return []ToolDefinition{
		// Geocoding Tools
		{
			Name:        "geocode",
			Description: "Search for an address, place or point of interest",
			Tool:        GeocodeTool(),
			Handler:     HandleGeocode,
		},
		{
			Name:        "reverse_geocode",
			Description: "Convert geographic coordinates to an address",
			Tool:        ReverseGeocodeTool(),
			Handler:     HandleReverseGeocode,
		},

		// Place Search Tools
		{
			Name:        "find_nearby_places",
			Description: "Find nearby places and points of interest",
			Tool:        FindNearbyPlacesTool(),
			Handler:     HandleFindNearbyPlaces,
		},

		// Routing Tools
		{
			Name:        "get_directions",
			Description: "Get detailed turn-by-turn directions between locations",
			Tool:        GetDirectionsTool(),
			Handler:     HandleGetDirections,
		},

		// Elevation Tools
		{
			Name:        "get_elevation",
			Description: "Get elevation for locations on land or water",
			Tool:        GetElevationTool(),
			Handler:     HandleGetElevation,
		},

		// Basemap Tools
		{
			Name:        "get_basemap_tile",
			Description: "Access static basemap tiles service with different styles",
			Tool:        GetBasemapTileTool(),
			Handler:     HandleGetBasemapTile,
		},
	}
}

// RegisterTools registers all tools with the MCP server.
func (r *Registry) RegisterTools(mcpServer *server.MCPServer) {
	for _, def := range r.GetToolDefinitions() {
		r.logger.Info("registering tool", "name", def.Name)
		mcpServer.AddTool(def.Tool, def.Handler)
	}
}
