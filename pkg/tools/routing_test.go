package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/NERVsystems/arcgismcp/pkg/arcgis"
)

func TestHandleGetDirectionsValidation(t *testing.T) {
	withAPIKey(t, "test-key")

	tests := []struct {
		name  string
		stops string
	}{
		{name: "empty stops", stops: ""},
		{name: "single stop", stops: "-122.68782,45.51238"},
		{name: "malformed stop", stops: "-122.68,45.51;not-a-pair"},
		{name: "latitude out of range", stops: "-122.68,45.51;-122.69,95.52"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := map[string]any{}
			if tt.stops != "" {
				args["stops"] = tt.stops
			}
			result, err := HandleGetDirections(context.Background(), newCallToolRequest("get_directions", args))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			te := decodeToolError(t, result)
			if te.Kind != "validation" {
				t.Errorf("error kind = %q, want validation", te.Kind)
			}
			if te.Tool != "get_directions" {
				t.Errorf("error tool = %q, want get_directions", te.Tool)
			}
		})
	}
}

func TestHandleGetDirections(t *testing.T) {
	withAPIKey(t, "test-key")

	stops := "-122.68782,45.51238;-122.690176,45.522054"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/solve" {
			t.Errorf("path = %q, want /solve", r.URL.Path)
		}
		if got := r.URL.Query().Get("stops"); got != stops {
			t.Errorf("stops = %q, want %q", got, stops)
		}
		w.Write([]byte(`{
			"routes": {
				"features": [
					{"attributes": {"Total_Miles": 1.24, "Total_Minutes": 4.8}}
				]
			},
			"directions": [
				{
					"features": [
						{"attributes": {"text": "Start at SW 5th Ave", "length": 0}},
						{"attributes": {"text": "Turn right on W Burnside St", "length": 0.7}},
						{"attributes": {"text": "Finish at NW Couch St", "length": 0.54}}
					]
				}
			]
		}`))
	}))
	defer srv.Close()
	overrideBaseURL(t, &arcgis.RoutingBaseURL, srv.URL)

	result, err := HandleGetDirections(context.Background(), newCallToolRequest("get_directions", map[string]any{
		"stops": stops,
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, result))
	}

	var output RouteOutput
	if err := json.Unmarshal([]byte(resultText(t, result)), &output); err != nil {
		t.Fatalf("failed to parse result: %v", err)
	}

	if output.Summary.Stops != 2 {
		t.Errorf("stops = %d, want 2", output.Summary.Stops)
	}
	if output.Summary.From != "-122.68782,45.51238" {
		t.Errorf("from = %q", output.Summary.From)
	}
	if output.Summary.To != "-122.690176,45.522054" {
		t.Errorf("to = %q", output.Summary.To)
	}
	if output.Summary.DistanceMiles != 1.24 {
		t.Errorf("distance = %g, want 1.24", output.Summary.DistanceMiles)
	}
	if output.Summary.TimeMinutes != 4.8 {
		t.Errorf("time = %g, want 4.8", output.Summary.TimeMinutes)
	}
	if len(output.Directions) != 3 {
		t.Fatalf("got %d maneuvers, want 3", len(output.Directions))
	}
	if output.Directions[1].Text != "Turn right on W Burnside St" {
		t.Errorf("second maneuver = %q", output.Directions[1].Text)
	}
	if output.Directions[1].LengthMiles != 0.7 {
		t.Errorf("second maneuver length = %g, want 0.7", output.Directions[1].LengthMiles)
	}
}

func TestHandleGetDirectionsNoRoute(t *testing.T) {
	withAPIKey(t, "test-key")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"routes": {"features": []}}`))
	}))
	defer srv.Close()
	overrideBaseURL(t, &arcgis.RoutingBaseURL, srv.URL)

	result, err := HandleGetDirections(context.Background(), newCallToolRequest("get_directions", map[string]any{
		"stops": "-122.68,45.51;-122.69,45.52",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	te := decodeToolError(t, result)
	if te.Kind != "upstream" {
		t.Errorf("error kind = %q, want upstream", te.Kind)
	}
}

func TestHandleGetDirectionsUpstreamEnvelope(t *testing.T) {
	withAPIKey(t, "test-key")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error": {"code": 400, "message": "Unable to complete operation."}}`))
	}))
	defer srv.Close()
	overrideBaseURL(t, &arcgis.RoutingBaseURL, srv.URL)

	result, err := HandleGetDirections(context.Background(), newCallToolRequest("get_directions", map[string]any{
		"stops": "-122.68,45.51;-122.69,45.52",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	te := decodeToolError(t, result)
	if te.Kind != "upstream" {
		t.Errorf("error kind = %q, want upstream", te.Kind)
	}
	if te.Status != 400 {
		t.Errorf("error status = %d, want 400", te.Status)
	}
	if te.Message != "Unable to complete operation." {
		t.Errorf("error message = %q", te.Message)
	}
}
