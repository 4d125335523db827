package tools

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/NERVsystems/arcgismcp/pkg/arcgis"
	"github.com/mark3labs/mcp-go/mcp"
)

// TestMissingAPIKeyAllTools verifies that every tool fails with a
// configuration error before any request leaves the process when no API
// key is set.
func TestMissingAPIKeyAllTools(t *testing.T) {
	withAPIKey(t, "")

	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	overrideBaseURL(t, &arcgis.GeocodeBaseURL, srv.URL)
	overrideBaseURL(t, &arcgis.PlacesBaseURL, srv.URL)
	overrideBaseURL(t, &arcgis.RoutingBaseURL, srv.URL)
	overrideBaseURL(t, &arcgis.ElevationBaseURL, srv.URL)
	overrideBaseURL(t, &arcgis.BasemapBaseURL, srv.URL)

	tests := []struct {
		tool    string
		handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)
		args    map[string]any
	}{
		{
			tool:    "geocode",
			handler: HandleGeocode,
			args:    map[string]any{"singleLine": "380 New York St, Redlands"},
		},
		{
			tool:    "reverse_geocode",
			handler: HandleReverseGeocode,
			args:    map[string]any{"location": "-122.4194,37.7749"},
		},
		{
			tool:    "find_nearby_places",
			handler: HandleFindNearbyPlaces,
			args:    map[string]any{"x": -117.19, "y": 34.05},
		},
		{
			tool:    "get_directions",
			handler: HandleGetDirections,
			args:    map[string]any{"stops": "-122.68,45.51;-122.69,45.52"},
		},
		{
			tool:    "get_elevation",
			handler: HandleGetElevation,
			args:    map[string]any{"lon": -117.195, "lat": 34.065},
		},
		{
			tool:    "get_basemap_tile",
			handler: HandleGetBasemapTile,
			args:    map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			result, err := tt.handler(context.Background(), newCallToolRequest(tt.tool, tt.args))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			te := decodeToolError(t, result)
			if te.Kind != "configuration" {
				t.Errorf("error kind = %q, want configuration", te.Kind)
			}
			if te.Tool != tt.tool {
				t.Errorf("error tool = %q, want %q", te.Tool, tt.tool)
			}
			if te.Guidance != GuidanceAPIKey {
				t.Errorf("guidance = %q, want %q", te.Guidance, GuidanceAPIKey)
			}
		})
	}

	if n := hits.Load(); n != 0 {
		t.Errorf("upstream received %d requests, want 0", n)
	}
}

func TestGuidanceForUpstreamStatuses(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{status: 401, want: GuidanceInvalidToken},
		{status: 498, want: GuidanceInvalidToken},
		{status: 499, want: GuidanceInvalidToken},
		{status: 403, want: GuidanceEntitlement},
		{status: 429, want: GuidanceRateLimit},
		{status: 504, want: GuidanceTimeout},
		{status: 400, want: GuidanceBadRequest},
		{status: 500, want: GuidanceServerError},
		{status: 418, want: GuidanceGeneral},
	}

	for _, tt := range tests {
		err := arcgis.NewUpstreamError(tt.status, "test")
		if got := guidanceFor(err); got != tt.want {
			t.Errorf("guidanceFor(status=%d) = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestErrorResultPlainError(t *testing.T) {
	result := ErrorResult("geocode", context.DeadlineExceeded)
	te := decodeToolError(t, result)
	if te.Kind != "upstream" {
		t.Errorf("error kind = %q, want upstream", te.Kind)
	}
	if te.Message != context.DeadlineExceeded.Error() {
		t.Errorf("message = %q", te.Message)
	}
}
