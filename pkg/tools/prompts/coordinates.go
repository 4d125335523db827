// Package prompts provides prompt templates for use with the MCP server.
package prompts

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterLocationPrompts registers all location-services prompts with the
// MCP server
func RegisterLocationPrompts(s *server.MCPServer) {
	// Register the main coordinate formatting prompt
	s.AddPrompt(mcp.NewPrompt("coordinate_formats",
		mcp.WithPromptDescription("Instructions for formatting coordinates for the ArcGIS tools"),
	), CoordinateFormatsPromptHandler)

	// Register examples for get_directions
	s.AddPrompt(mcp.NewPrompt("get_directions_examples",
		mcp.WithPromptDescription("Examples of properly formatted routing requests"),
	), DirectionsExamplesHandler)
}

// CoordinateFormatsPromptHandler returns the main prompt for coordinate
// formatting
func CoordinateFormatsPromptHandler(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	systemPrompt := `You have access to ArcGIS location tools. All of them use
LONGITUDE-FIRST coordinate ordering, which is the opposite of the common
"latitude, longitude" reading order.

1. String locations are "longitude,latitude", e.g. "-122.4194,37.7749" for San Francisco
2. Route stops are a semicolon-separated list of such pairs: "lon1,lat1;lon2,lat2"
3. Multi-point elevation coordinates are a JSON array of [lon, lat] pairs: "[[-117.182, 34.0555],[-117.185, 34.057]]"
4. Longitude must be between -180 and 180, latitude between -90 and 90
5. Use decimal degrees, not degrees/minutes/seconds

FORMATTING EXAMPLES:
GOOD: "-79.3871,43.6426" (CN Tower, Toronto)
BAD: "43.6426,-79.3871" (latitude first - will be rejected or point somewhere else)

GOOD: "[[-117.182, 34.0555],[-117.185, 34.057]]"
BAD: "(-117.182, 34.0555), (-117.185, 34.057)" (not JSON)

ERROR HANDLING GUIDELINES:
When a tool returns a validation error:
1. Check the coordinate ordering - longitude always comes first
2. Check that every value is a plain decimal number
3. Check that longitude and latitude are within their valid ranges`

	return mcp.NewGetPromptResult(
		"Coordinate Formatting Guidelines",
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(
				mcp.RoleAssistant,
				mcp.NewTextContent(systemPrompt),
			),
		},
	), nil
}

// DirectionsExamplesHandler returns examples for get_directions
func DirectionsExamplesHandler(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	examplesPrompt := `EXAMPLES OF EFFECTIVE GET_DIRECTIONS USAGE:

User: "How do I drive from downtown Portland to the convention center?"
AI: *geocodes both places, then uses get_directions with stops: "-122.68782,45.51238;-122.690176,45.522054"*

User: "Directions from A to B with a stop at C"
AI: *uses get_directions with three stops: "lonA,latA;lonC,latC;lonB,latB"*

ERROR CORRECTION PATTERN:
1. If you get a validation error about stops, verify there are at least two
2. Verify each stop is "longitude,latitude" with longitude first
3. If the routing service reports no route, the stops may be unreachable by road -
   try nearby coordinates on the street network`

	return mcp.NewGetPromptResult(
		"Routing Examples",
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(
				mcp.RoleAssistant,
				mcp.NewTextContent(examplesPrompt),
			),
		},
	), nil
}
