package tools

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/NERVsystems/arcgismcp/pkg/arcgis"
	"github.com/NERVsystems/arcgismcp/pkg/cache"
	"github.com/mark3labs/mcp-go/mcp"
)

// detailsCache holds place-details lookups. Details change rarely, and the
// same place tends to be expanded repeatedly within a conversation.
var detailsCache = cache.NewTTLCache[string, *PlaceDetails](15 * time.Minute)

// PlaceListOutput defines the output format for nearby place searches
type PlaceListOutput struct {
	Places []Place `json:"places"`
}

// FindNearbyPlacesTool returns a tool definition for finding nearby places
func FindNearbyPlacesTool() mcp.Tool {
	return mcp.NewTool("find_nearby_places",
		mcp.WithDescription("Find nearby places and points of interest with optional detailed information"),
		mcp.WithNumber("x",
			mcp.Required(),
			mcp.Description("Longitude of the center point (e.g., -122.4194)"),
		),
		mcp.WithNumber("y",
			mcp.Required(),
			mcp.Description("Latitude of the center point (e.g., 37.7749)"),
		),
		mcp.WithNumber("pageSize",
			mcp.Description("Number of results to return"),
			mcp.DefaultNumber(10),
		),
		mcp.WithString("categories",
			mcp.Description("Optional category filter (e.g., \"restaurant\", \"hotel\", \"coffee\")"),
			mcp.DefaultString(""),
		),
		mcp.WithNumber("radius",
			mcp.Description("Search radius in meters"),
			mcp.DefaultNumber(5000),
		),
		mcp.WithBoolean("includeDetails",
			mcp.Description("Whether to include full details for each place"),
		),
		mcp.WithNumber("detailsLimit",
			mcp.Description("Maximum number of places to fetch details for when includeDetails is true"),
			mcp.DefaultNumber(1),
		),
	)
}

// HandleFindNearbyPlaces implements the nearby place search functionality
func HandleFindNearbyPlaces(ctx context.Context, rawInput mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := slog.Default().With("tool", "find_nearby_places")

	// Parse input parameters
	if _, ok := rawInput.Params.Arguments["x"]; !ok {
		return ValidationResult("find_nearby_places", "x (longitude) is required"), nil
	}
	if _, ok := rawInput.Params.Arguments["y"]; !ok {
		return ValidationResult("find_nearby_places", "y (latitude) is required"), nil
	}
	x := mcp.ParseFloat64(rawInput, "x", 0)
	y := mcp.ParseFloat64(rawInput, "y", 0)
	pageSize := int(mcp.ParseFloat64(rawInput, "pageSize", 10))
	categories := mcp.ParseString(rawInput, "categories", "")
	radius := mcp.ParseFloat64(rawInput, "radius", 5000)
	includeDetails := mcp.ParseBoolean(rawInput, "includeDetails", false)
	detailsLimit := int(mcp.ParseFloat64(rawInput, "detailsLimit", 1))

	// Basic validation
	if err := arcgis.ValidateLonLat(x, y); err != nil {
		return ErrorResult("find_nearby_places", err), nil
	}
	if radius <= 0 {
		return ValidationResult("find_nearby_places", "radius must be greater than 0"), nil
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	if pageSize > 50 {
		pageSize = 50
	}
	if detailsLimit <= 0 {
		detailsLimit = 1
	}

	// Build query parameters
	params := url.Values{}
	params.Set("x", strconv.FormatFloat(x, 'f', -1, 64))
	params.Set("y", strconv.FormatFloat(y, 'f', -1, 64))
	params.Set("pageSize", strconv.Itoa(pageSize))
	params.Set("radius", strconv.FormatFloat(radius, 'f', -1, 64))
	if categories != "" {
		params.Set("categories", categories)
	}

	// Call the places service
	body, err := arcgis.GetJSON(ctx, arcgis.ServicePlaces, arcgis.PlacesBaseURL+"/near-point", params)
	if err != nil {
		logger.Error("places request failed", "error", err)
		return ErrorResult("find_nearby_places", err), nil
	}

	// Parse response
	var placesResp struct {
		Results []struct {
			PlaceID  string  `json:"placeId"`
			Name     string  `json:"name"`
			Distance float64 `json:"distance"`
			Phone    string  `json:"phone"`
			Location struct {
				X float64 `json:"x"`
				Y float64 `json:"y"`
			} `json:"location"`
			Address struct {
				FormattedAddress string `json:"formattedAddress"`
				StreetNumber     string `json:"streetNumber"`
				StreetName       string `json:"streetName"`
				City             string `json:"city"`
				Region           string `json:"region"`
				PostalCode       string `json:"postalCode"`
			} `json:"address"`
			Categories []struct {
				Label string `json:"label"`
			} `json:"categories"`
			Category struct {
				Label string `json:"label"`
			} `json:"category"`
		} `json:"results"`
	}

	if err := json.Unmarshal(body, &placesResp); err != nil {
		logger.Error("failed to decode response", "error", err)
		return ErrorResult("find_nearby_places", arcgis.NewUpstreamError(0, "failed to parse places response")), nil
	}

	// Convert to Place objects
	output := PlaceListOutput{Places: make([]Place, 0, len(placesResp.Results))}
	detailed := 0
	for _, result := range placesResp.Results {
		// Fall back to assembling the address from components when the
		// formatted form is missing
		formatted := result.Address.FormattedAddress
		if formatted == "" {
			parts := []string{}
			for _, part := range []string{
				result.Address.StreetNumber,
				result.Address.StreetName,
				result.Address.City,
				result.Address.Region,
				result.Address.PostalCode,
			} {
				if part != "" {
					parts = append(parts, part)
				}
			}
			formatted = strings.Join(parts, ", ")
		}

		labels := make([]string, 0, len(result.Categories))
		for _, c := range result.Categories {
			if c.Label != "" {
				labels = append(labels, c.Label)
			}
		}
		if len(labels) == 0 && result.Category.Label != "" {
			labels = append(labels, result.Category.Label)
		}

		place := Place{
			PlaceID:    result.PlaceID,
			Name:       result.Name,
			Address:    formatted,
			Categories: labels,
			Location: Location{
				Longitude: result.Location.X,
				Latitude:  result.Location.Y,
			},
			Phone:    result.Phone,
			Distance: result.Distance,
		}

		if includeDetails && result.PlaceID != "" && detailed < detailsLimit {
			if details := fetchPlaceDetails(ctx, logger, result.PlaceID); details != nil {
				place.Details = details
				detailed++
			}
		}

		output.Places = append(output.Places, place)
	}

	// Return result
	resultBytes, err := json.Marshal(output)
	if err != nil {
		logger.Error("failed to marshal result", "error", err)
		return ErrorResult("find_nearby_places", err), nil
	}

	return mcp.NewToolResultText(string(resultBytes)), nil
}

// fetchPlaceDetails retrieves detailed information for a place by ID.
// Failures are logged and swallowed: details are an enrichment, not part
// of the search contract.
func fetchPlaceDetails(ctx context.Context, logger *slog.Logger, placeID string) *PlaceDetails {
	if details, ok := detailsCache.Get(placeID); ok {
		return details
	}

	body, err := arcgis.GetJSON(ctx, arcgis.ServicePlaces, arcgis.PlacesBaseURL+"/"+url.PathEscape(placeID), url.Values{})
	if err != nil {
		logger.Debug("place details lookup failed", "place_id", placeID, "error", err)
		return nil
	}

	var detailsResp struct {
		Address struct {
			StreetNumber string `json:"streetNumber"`
			StreetName   string `json:"streetName"`
			City         string `json:"city"`
			Region       string `json:"region"`
			PostalCode   string `json:"postalCode"`
			Country      string `json:"country"`
		} `json:"address"`
		URL          string         `json:"url"`
		Email        string         `json:"email"`
		Description  string         `json:"description"`
		OpeningHours map[string]any `json:"openingHours"`
		Rating       *struct {
			Value float64 `json:"value"`
			Count int     `json:"count"`
		} `json:"rating"`
	}

	if err := json.Unmarshal(body, &detailsResp); err != nil {
		logger.Debug("failed to decode place details", "place_id", placeID, "error", err)
		return nil
	}

	address := map[string]string{}
	for key, value := range map[string]string{
		"street_number": detailsResp.Address.StreetNumber,
		"street_name":   detailsResp.Address.StreetName,
		"city":          detailsResp.Address.City,
		"region":        detailsResp.Address.Region,
		"postal_code":   detailsResp.Address.PostalCode,
		"country":       detailsResp.Address.Country,
	} {
		if value != "" {
			address[key] = value
		}
	}

	details := &PlaceDetails{
		Address:      address,
		Website:      detailsResp.URL,
		Email:        detailsResp.Email,
		Description:  detailsResp.Description,
		OpeningHours: detailsResp.OpeningHours,
	}
	if detailsResp.Rating != nil {
		details.Rating = &Rating{
			Value: detailsResp.Rating.Value,
			Count: detailsResp.Rating.Count,
		}
	}

	detailsCache.Set(placeID, details)
	return details
}
