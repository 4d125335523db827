package arcgis

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Point is a WGS84 coordinate pair in the longitude-first order the
// ArcGIS REST APIs use on the wire.
type Point struct {
	Longitude float64
	Latitude  float64
}

// ValidateLonLat checks that a coordinate pair is within WGS84 bounds.
func ValidateLonLat(lon, lat float64) error {
	if lon < -180 || lon > 180 {
		return NewValidationError("longitude %g out of range (must be between -180 and 180)", lon)
	}
	if lat < -90 || lat > 90 {
		return NewValidationError("latitude %g out of range (must be between -90 and 90)", lat)
	}
	return nil
}

// ParseLonLat parses a "longitude,latitude" string. Parsing is strict:
// exactly two comma-separated numeric fields, both within WGS84 bounds.
func ParseLonLat(s string) (Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Point{}, NewValidationError("location %q must be formatted as \"longitude,latitude\"", s)
	}

	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Point{}, NewValidationError("location %q has a non-numeric longitude", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Point{}, NewValidationError("location %q has a non-numeric latitude", s)
	}

	if err := ValidateLonLat(lon, lat); err != nil {
		return Point{}, err
	}

	return Point{Longitude: lon, Latitude: lat}, nil
}

// ParseStops parses a semicolon-separated list of "longitude,latitude"
// pairs. At least two stops are required; a single malformed pair fails
// the whole list rather than being dropped.
func ParseStops(s string) ([]Point, error) {
	if strings.TrimSpace(s) == "" {
		return nil, NewValidationError("stops must not be empty")
	}

	parts := strings.Split(s, ";")
	if len(parts) < 2 {
		return nil, NewValidationError("at least two stops are required (origin and destination) in format \"lon1,lat1;lon2,lat2\"")
	}

	points := make([]Point, 0, len(parts))
	for i, part := range parts {
		pt, err := ParseLonLat(part)
		if err != nil {
			return nil, NewValidationError("stop %d: %s", i+1, err.(*Error).Message)
		}
		points = append(points, pt)
	}

	return points, nil
}

// ParseCoordinateList parses a JSON array of [longitude, latitude] pairs,
// e.g. "[[-117.182, 34.0555],[-117.185, 34.057]]".
func ParseCoordinateList(s string) ([]Point, error) {
	var raw [][]float64
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, NewValidationError("coordinates must be a JSON array of [longitude, latitude] pairs: %v", err)
	}
	if len(raw) == 0 {
		return nil, NewValidationError("coordinates must contain at least one [longitude, latitude] pair")
	}

	points := make([]Point, 0, len(raw))
	for i, pair := range raw {
		if len(pair) != 2 {
			return nil, NewValidationError("coordinate %d must have exactly two values [longitude, latitude], got %d", i+1, len(pair))
		}
		if err := ValidateLonLat(pair[0], pair[1]); err != nil {
			return nil, NewValidationError("coordinate %d: %s", i+1, err.(*Error).Message)
		}
		points = append(points, Point{Longitude: pair[0], Latitude: pair[1]})
	}

	return points, nil
}

// FormatLonLat renders a point in the "longitude,latitude" wire format.
func FormatLonLat(p Point) string {
	return strconv.FormatFloat(p.Longitude, 'f', -1, 64) + "," +
		strconv.FormatFloat(p.Latitude, 'f', -1, 64)
}
