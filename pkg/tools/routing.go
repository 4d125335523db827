package tools

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"strings"

	"github.com/NERVsystems/arcgismcp/pkg/arcgis"
	"github.com/mark3labs/mcp-go/mcp"
)

// RouteOutput defines the output format for solved routes. Maneuvers are
// kept in the order the routing service returned them.
type RouteOutput struct {
	Summary    RouteSummary `json:"summary"`
	Directions []Maneuver   `json:"directions"`
}

// GetDirectionsTool returns a tool definition for route solving
func GetDirectionsTool() mcp.Tool {
	return mcp.NewTool("get_directions",
		mcp.WithDescription("Get detailed turn-by-turn directions between locations"),
		mcp.WithString("stops",
			mcp.Required(),
			mcp.Description("Two or more locations as a semicolon-separated list of \"longitude,latitude\" pairs (e.g., \"-122.68782,45.51238;-122.690176,45.522054\")"),
		),
	)
}

// HandleGetDirections implements the route solving functionality
func HandleGetDirections(ctx context.Context, rawInput mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := slog.Default().With("tool", "get_directions")

	// Parse input
	stops := mcp.ParseString(rawInput, "stops", "")
	points, err := arcgis.ParseStops(stops)
	if err != nil {
		return ErrorResult("get_directions", err), nil
	}

	// Build query parameters
	params := url.Values{}
	params.Set("stops", stops)

	// Call the routing service
	body, err := arcgis.GetJSON(ctx, arcgis.ServiceRouting, arcgis.RoutingBaseURL+"/solve", params)
	if err != nil {
		logger.Error("routing request failed", "error", err)
		return ErrorResult("get_directions", err), nil
	}

	// Parse response
	var routeResp struct {
		Routes struct {
			Features []struct {
				Attributes struct {
					TotalMiles      float64 `json:"Total_Miles"`
					TotalKilometers float64 `json:"Total_Kilometers"`
					TotalMinutes    float64 `json:"Total_Minutes"`
				} `json:"attributes"`
			} `json:"features"`
		} `json:"routes"`
		Directions []struct {
			Features []struct {
				Attributes struct {
					Text   string  `json:"text"`
					Length float64 `json:"length"`
				} `json:"attributes"`
			} `json:"features"`
		} `json:"directions"`
	}

	if err := json.Unmarshal(body, &routeResp); err != nil {
		logger.Error("failed to decode response", "error", err)
		return ErrorResult("get_directions", arcgis.NewUpstreamError(0, "failed to parse routing response")), nil
	}

	if len(routeResp.Routes.Features) == 0 {
		return ErrorResult("get_directions",
			arcgis.NewUpstreamError(0, "no route found between the specified stops")), nil
	}

	route := routeResp.Routes.Features[0]
	distance := route.Attributes.TotalMiles
	if distance == 0 && route.Attributes.TotalKilometers != 0 {
		// Some network datasets report kilometers only
		distance = route.Attributes.TotalKilometers / 1.609344
	}

	stopStrings := strings.Split(stops, ";")
	output := RouteOutput{
		Summary: RouteSummary{
			From:          stopStrings[0],
			To:            stopStrings[len(stopStrings)-1],
			Stops:         len(points),
			DistanceMiles: distance,
			TimeMinutes:   route.Attributes.TotalMinutes,
		},
		Directions: []Maneuver{},
	}

	if len(routeResp.Directions) > 0 {
		for _, feature := range routeResp.Directions[0].Features {
			output.Directions = append(output.Directions, Maneuver{
				Text:        feature.Attributes.Text,
				LengthMiles: feature.Attributes.Length,
			})
		}
	}

	// Return result
	resultBytes, err := json.Marshal(output)
	if err != nil {
		logger.Error("failed to marshal result", "error", err)
		return ErrorResult("get_directions", err), nil
	}

	return mcp.NewToolResultText(string(resultBytes)), nil
}
