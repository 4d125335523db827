// Package tools provides the ArcGIS Location Services MCP tool
// implementations.
package tools

// Location represents a geographic coordinate in longitude-first order,
// matching the ArcGIS wire format.
type Location struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// Candidate represents a single geocoding match. Score and attributes are
// passed through from the geocoding service unmodified.
type Candidate struct {
	Address    string         `json:"address"`
	Location   Location       `json:"location"`
	Score      float64        `json:"score"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// Place represents a point of interest returned by the places service.
type Place struct {
	PlaceID    string        `json:"place_id,omitempty"`
	Name       string        `json:"name"`
	Address    string        `json:"address,omitempty"`
	Categories []string      `json:"categories,omitempty"`
	Location   Location      `json:"location"`
	Phone      string        `json:"phone,omitempty"`
	Distance   float64       `json:"distance,omitempty"` // in meters
	Details    *PlaceDetails `json:"details,omitempty"`
}

// PlaceDetails carries the extra fields available from a place lookup by ID.
type PlaceDetails struct {
	Address      map[string]string `json:"address,omitempty"`
	Website      string            `json:"website,omitempty"`
	Email        string            `json:"email,omitempty"`
	Description  string            `json:"description,omitempty"`
	OpeningHours map[string]any    `json:"opening_hours,omitempty"`
	Rating       *Rating           `json:"rating,omitempty"`
}

// Rating is an aggregate user rating for a place.
type Rating struct {
	Value float64 `json:"value"`
	Count int     `json:"count"`
}

// RouteSummary describes a solved route end to end.
type RouteSummary struct {
	From          string  `json:"from"`
	To            string  `json:"to"`
	Stops         int     `json:"stops"`
	DistanceMiles float64 `json:"distance_miles"`
	TimeMinutes   float64 `json:"time_minutes"`
}

// Maneuver is a single turn-by-turn direction along a route.
type Maneuver struct {
	Text        string  `json:"text"`
	LengthMiles float64 `json:"length_miles"`
}

// ElevationPoint is the elevation at a single coordinate. Elevation is nil
// when the service has no data for the point.
type ElevationPoint struct {
	Longitude float64  `json:"longitude"`
	Latitude  float64  `json:"latitude"`
	Elevation *float64 `json:"elevation"` // in meters relative to the datum
}

// TileInfo identifies a static basemap tile.
type TileInfo struct {
	Version   string `json:"version"`
	StyleBase string `json:"style_base"`
	StyleName string `json:"style_name"`
	Row       int    `json:"row"`
	Level     int    `json:"level"`
	Column    int    `json:"column"`
}
