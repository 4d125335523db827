package tools

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/NERVsystems/arcgismcp/pkg/arcgis"
	"github.com/mark3labs/mcp-go/mcp"
)

// ElevationOutput defines the output format for elevation queries.
type ElevationOutput struct {
	Datum  string           `json:"datum"`
	Points []ElevationPoint `json:"points"`
}

// GetElevationTool returns a tool definition for elevation queries
func GetElevationTool() mcp.Tool {
	return mcp.NewTool("get_elevation",
		mcp.WithDescription("Get elevation for locations on land or water"),
		mcp.WithNumber("lon",
			mcp.Description("Longitude of a single point (e.g., -117.195)"),
		),
		mcp.WithNumber("lat",
			mcp.Description("Latitude of a single point (e.g., 34.065)"),
		),
		mcp.WithString("coordinates",
			mcp.Description("JSON array of [lon, lat] pairs for multiple points (e.g., \"[[-117.182, 34.0555],[-117.185, 34.057]]\")"),
		),
		mcp.WithString("relativeTo",
			mcp.Description("Reference point for elevation measurement (\"meanSeaLevel\" or \"ellipsoid\")"),
		),
	)
}

// HandleGetElevation implements the elevation query functionality
func HandleGetElevation(ctx context.Context, rawInput mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := slog.Default().With("tool", "get_elevation")

	// Parse input
	_, hasLon := rawInput.Params.Arguments["lon"]
	_, hasLat := rawInput.Params.Arguments["lat"]
	coordinates := mcp.ParseString(rawInput, "coordinates", "")
	relativeTo := mcp.ParseString(rawInput, "relativeTo", "")

	if relativeTo != "" && relativeTo != "meanSeaLevel" && relativeTo != "ellipsoid" {
		return ValidationResult("get_elevation", "relativeTo must be \"meanSeaLevel\" or \"ellipsoid\", got %q", relativeTo), nil
	}

	switch {
	case hasLon && hasLat:
		lon := mcp.ParseFloat64(rawInput, "lon", 0)
		lat := mcp.ParseFloat64(rawInput, "lat", 0)
		return handleSinglePointElevation(ctx, logger, lon, lat, relativeTo)
	case coordinates != "":
		return handleMultiPointElevation(ctx, logger, coordinates, relativeTo)
	case hasLon || hasLat:
		return ValidationResult("get_elevation", "both lon and lat are required for a single point"), nil
	default:
		return ValidationResult("get_elevation", "either lon/lat or coordinates must be provided"), nil
	}
}

func handleSinglePointElevation(ctx context.Context, logger *slog.Logger, lon, lat float64, relativeTo string) (*mcp.CallToolResult, error) {
	if err := arcgis.ValidateLonLat(lon, lat); err != nil {
		return ErrorResult("get_elevation", err), nil
	}

	params := url.Values{}
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	if relativeTo != "" {
		params.Set("relativeTo", relativeTo)
	}

	body, err := arcgis.GetJSON(ctx, arcgis.ServiceElevation, arcgis.ElevationBaseURL+"/at-point", params)
	if err != nil {
		logger.Error("elevation request failed", "error", err)
		return ErrorResult("get_elevation", err), nil
	}

	var elevResp struct {
		ElevationInfo struct {
			RelativeTo string `json:"relativeTo"`
		} `json:"elevationInfo"`
		Result struct {
			Point struct {
				X float64  `json:"x"`
				Y float64  `json:"y"`
				Z *float64 `json:"z"`
			} `json:"point"`
		} `json:"result"`
	}

	if err := json.Unmarshal(body, &elevResp); err != nil {
		logger.Error("failed to decode response", "error", err)
		return ErrorResult("get_elevation", arcgis.NewUpstreamError(0, "failed to parse elevation response")), nil
	}

	if elevResp.Result.Point.Z == nil {
		return ErrorResult("get_elevation",
			arcgis.NewUpstreamError(0, "no elevation data available at the requested location")), nil
	}

	output := ElevationOutput{
		Datum: datumOrDefault(elevResp.ElevationInfo.RelativeTo),
		Points: []ElevationPoint{{
			Longitude: elevResp.Result.Point.X,
			Latitude:  elevResp.Result.Point.Y,
			Elevation: elevResp.Result.Point.Z,
		}},
	}

	resultBytes, err := json.Marshal(output)
	if err != nil {
		logger.Error("failed to marshal result", "error", err)
		return ErrorResult("get_elevation", err), nil
	}

	return mcp.NewToolResultText(string(resultBytes)), nil
}

func handleMultiPointElevation(ctx context.Context, logger *slog.Logger, coordinates, relativeTo string) (*mcp.CallToolResult, error) {
	// Strict parse up front; the raw string is forwarded untouched once
	// it validates
	if _, err := arcgis.ParseCoordinateList(coordinates); err != nil {
		return ErrorResult("get_elevation", err), nil
	}

	reqBody := map[string]any{
		"coordinates": coordinates,
	}
	if relativeTo != "" {
		reqBody["relativeTo"] = relativeTo
	}

	body, err := arcgis.PostJSON(ctx, arcgis.ServiceElevation, arcgis.ElevationBaseURL+"/at-many-points", reqBody)
	if err != nil {
		logger.Error("elevation request failed", "error", err)
		return ErrorResult("get_elevation", err), nil
	}

	var elevResp struct {
		ElevationInfo struct {
			RelativeTo string `json:"relativeTo"`
		} `json:"elevationInfo"`
		Result struct {
			Points []struct {
				X float64  `json:"x"`
				Y float64  `json:"y"`
				Z *float64 `json:"z"`
			} `json:"points"`
		} `json:"result"`
	}

	if err := json.Unmarshal(body, &elevResp); err != nil {
		logger.Error("failed to decode response", "error", err)
		return ErrorResult("get_elevation", arcgis.NewUpstreamError(0, "failed to parse elevation response")), nil
	}

	if len(elevResp.Result.Points) == 0 {
		return ErrorResult("get_elevation",
			arcgis.NewUpstreamError(0, "no elevation data returned for the specified coordinates")), nil
	}

	output := ElevationOutput{
		Datum:  datumOrDefault(elevResp.ElevationInfo.RelativeTo),
		Points: make([]ElevationPoint, 0, len(elevResp.Result.Points)),
	}
	for _, p := range elevResp.Result.Points {
		output.Points = append(output.Points, ElevationPoint{
			Longitude: p.X,
			Latitude:  p.Y,
			Elevation: p.Z,
		})
	}

	resultBytes, err := json.Marshal(output)
	if err != nil {
		logger.Error("failed to marshal result", "error", err)
		return ErrorResult("get_elevation", err), nil
	}

	return mcp.NewToolResultText(string(resultBytes)), nil
}

// datumOrDefault returns the service-reported datum, defaulting to
// meanSeaLevel as the elevation service does.
func datumOrDefault(relativeTo string) string {
	if relativeTo == "" {
		return "meanSeaLevel"
	}
	return relativeTo
}
