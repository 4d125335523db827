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

// GeocodeOutput defines the output format for geocoding searches.
// Candidate order and scores are preserved exactly as returned by the
// geocoding service.
type GeocodeOutput struct {
	Candidates []Candidate `json:"candidates"`
}

// GeocodeTool returns a tool definition for geocoding searches
func GeocodeTool() mcp.Tool {
	return mcp.NewTool("geocode",
		mcp.WithDescription("Search for an address, place or point of interest"),
		mcp.WithString("singleLine",
			mcp.Description("Complete address in a single string (e.g., \"1600 Pennsylvania Ave NW, DC\")"),
		),
		mcp.WithString("address",
			mcp.Description("Place name or address (e.g., \"Starbucks\" or \"380 New York St\")"),
		),
		mcp.WithString("location",
			mcp.Description("Optional point to search near, as \"longitude,latitude\" (e.g., \"-122.4194,37.7749\")"),
		),
		mcp.WithString("category",
			mcp.Description("Optional POI category to search for (e.g., \"gas station\")"),
		),
		mcp.WithString("outFields",
			mcp.Description("Fields to return in the response"),
			mcp.DefaultString("*"),
		),
	)
}

// HandleGeocode implements the geocoding search functionality
func HandleGeocode(ctx context.Context, rawInput mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := slog.Default().With("tool", "geocode")

	// Parse input
	singleLine := mcp.ParseString(rawInput, "singleLine", "")
	address := mcp.ParseString(rawInput, "address", "")
	location := mcp.ParseString(rawInput, "location", "")
	category := mcp.ParseString(rawInput, "category", "")
	outFields := mcp.ParseString(rawInput, "outFields", "*")

	if singleLine == "" && address == "" && category == "" {
		return ValidationResult("geocode", "one of singleLine, address or category is required"), nil
	}

	// Build query parameters
	params := url.Values{}
	params.Set("outFields", outFields)
	params.Set("maxLocations", "5")
	params.Set("outSR", "4326")

	// Search parameters are mutually exclusive upstream; honor them in
	// order of specificity
	switch {
	case singleLine != "":
		params.Set("singleLine", singleLine)
	case address != "":
		params.Set("address", address)
	case category != "":
		params.Set("category", category)
	}

	if location != "" {
		if _, err := arcgis.ParseLonLat(location); err != nil {
			return ErrorResult("geocode", err), nil
		}
		params.Set("location", location)
	}

	// Call the geocoding service
	body, err := arcgis.GetJSON(ctx, arcgis.ServiceGeocode, arcgis.GeocodeBaseURL+"/findAddressCandidates", params)
	if err != nil {
		logger.Error("geocoding request failed", "error", err)
		return ErrorResult("geocode", err), nil
	}

	// Parse response
	var geocodeResp struct {
		Candidates []struct {
			Address  string `json:"address"`
			Location struct {
				X float64 `json:"x"`
				Y float64 `json:"y"`
			} `json:"location"`
			Score      float64        `json:"score"`
			Attributes map[string]any `json:"attributes"`
		} `json:"candidates"`
	}

	if err := json.Unmarshal(body, &geocodeResp); err != nil {
		logger.Error("failed to decode response", "error", err)
		return ErrorResult("geocode", arcgis.NewUpstreamError(0, "failed to parse geocoding response")), nil
	}

	// Convert candidates, preserving upstream order and scores
	output := GeocodeOutput{Candidates: make([]Candidate, 0, len(geocodeResp.Candidates))}
	for _, c := range geocodeResp.Candidates {
		output.Candidates = append(output.Candidates, Candidate{
			Address: c.Address,
			Location: Location{
				Longitude: c.Location.X,
				Latitude:  c.Location.Y,
			},
			Score:      c.Score,
			Attributes: c.Attributes,
		})
	}

	// Return result
	resultBytes, err := json.Marshal(output)
	if err != nil {
		logger.Error("failed to marshal result", "error", err)
		return ErrorResult("geocode", err), nil
	}

	return mcp.NewToolResultText(string(resultBytes)), nil
}

// ReverseGeocodeOutput defines the output format for reverse geocoding.
// Components carries every address field the service returned, verbatim.
type ReverseGeocodeOutput struct {
	Address     string         `json:"address"`
	AddressType string         `json:"address_type,omitempty"`
	Location    Location       `json:"location"`
	Components  map[string]any `json:"components,omitempty"`
}

// ReverseGeocodeTool returns a tool definition for reverse geocoding
func ReverseGeocodeTool() mcp.Tool {
	return mcp.NewTool("reverse_geocode",
		mcp.WithDescription("Convert geographic coordinates to an address"),
		mcp.WithString("location",
			mcp.Required(),
			mcp.Description("Location as \"longitude,latitude\" (e.g., \"-79.3871,43.6426\")"),
		),
		mcp.WithString("outFields",
			mcp.Description("Fields to include in the response"),
			mcp.DefaultString("*"),
		),
	)
}

// HandleReverseGeocode implements the reverse geocoding functionality
func HandleReverseGeocode(ctx context.Context, rawInput mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := slog.Default().With("tool", "reverse_geocode")

	// Parse input
	location := mcp.ParseString(rawInput, "location", "")
	outFields := mcp.ParseString(rawInput, "outFields", "*")

	if location == "" {
		return ValidationResult("reverse_geocode", "location is required, formatted as \"longitude,latitude\""), nil
	}
	point, err := arcgis.ParseLonLat(location)
	if err != nil {
		return ErrorResult("reverse_geocode", err), nil
	}

	// Build query parameters
	params := url.Values{}
	params.Set("location", location)
	params.Set("outSR", "4326")
	params.Set("outFields", outFields)
	params.Set("returnIntersection", "false")

	// Call the geocoding service
	body, err := arcgis.GetJSON(ctx, arcgis.ServiceGeocode, arcgis.GeocodeBaseURL+"/reverseGeocode", params)
	if err != nil {
		logger.Error("reverse geocoding request failed", "error", err)
		return ErrorResult("reverse_geocode", err), nil
	}

	// Parse response
	var reverseResp struct {
		Address  map[string]any `json:"address"`
		Location struct {
			X float64 `json:"x"`
			Y float64 `json:"y"`
		} `json:"location"`
	}

	if err := json.Unmarshal(body, &reverseResp); err != nil {
		logger.Error("failed to decode response", "error", err)
		return ErrorResult("reverse_geocode", arcgis.NewUpstreamError(0, "failed to parse reverse geocoding response")), nil
	}

	if len(reverseResp.Address) == 0 {
		return ErrorResult("reverse_geocode",
			arcgis.NewUpstreamError(0, "no address found at coordinates "+location)), nil
	}

	// The full match address can live under Match_addr or Address
	// depending on the locator
	matchAddr := stringField(reverseResp.Address, "Match_addr")
	if matchAddr == "" {
		matchAddr = stringField(reverseResp.Address, "Address")
	}

	output := ReverseGeocodeOutput{
		Address:     matchAddr,
		AddressType: stringField(reverseResp.Address, "Addr_type"),
		Location: Location{
			Longitude: reverseResp.Location.X,
			Latitude:  reverseResp.Location.Y,
		},
		Components: reverseResp.Address,
	}
	// The service echoes the request point when it omits a location
	if reverseResp.Location.X == 0 && reverseResp.Location.Y == 0 {
		output.Location = Location{Longitude: point.Longitude, Latitude: point.Latitude}
	}

	// Return result
	resultBytes, err := json.Marshal(output)
	if err != nil {
		logger.Error("failed to marshal result", "error", err)
		return ErrorResult("reverse_geocode", err), nil
	}

	return mcp.NewToolResultText(string(resultBytes)), nil
}

// stringField extracts a string value from a decoded JSON object,
// tolerating absent or non-string values.
func stringField(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}
