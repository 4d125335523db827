package arcgis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"
)

const (
	// DefaultUserAgent is the User-Agent string sent with every request
	DefaultUserAgent = "arcgis-location-services-mcp/0.1.0"

	// APIKeyEnvVar is the environment variable holding the API key
	APIKeyEnvVar = "ARCGIS_LOCATION_SERVICE_API_KEY"
)

// Base URLs for the ArcGIS Location Services. These are variables rather
// than constants so tests can point them at local stub servers.
var (
	GeocodeBaseURL   = "https://geocode-api.arcgis.com/arcgis/rest/services/World/GeocodeServer"
	PlacesBaseURL    = "https://places-api.arcgis.com/arcgis/rest/services/places-service/v1/places"
	RoutingBaseURL   = "https://route-api.arcgis.com/arcgis/rest/services/World/Route/NAServer/Route_World"
	ElevationBaseURL = "https://elevation-api.arcgis.com/arcgis/rest/services/elevation-service/v1/elevation"
	BasemapBaseURL   = "https://static-map-tiles-api.arcgis.com/arcgis/rest/services/static-basemap-tiles-service"
)

var (
	// Global HTTP client with connection pooling
	httpClient *http.Client

	// API key shared by all tool invocations
	apiKey     string
	apiKeyLock sync.RWMutex

	// User agent string
	userAgent     string
	userAgentLock sync.RWMutex
)

// init initializes the global HTTP client
func init() {
	httpClient = &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
		Timeout: 30 * time.Second,
	}

	SetUserAgent(DefaultUserAgent)
}

// SetAPIKey sets the API key used to authenticate against all services.
func SetAPIKey(key string) {
	apiKeyLock.Lock()
	defer apiKeyLock.Unlock()
	apiKey = key
}

// APIKey returns the configured API key, or an empty string if none is set.
func APIKey() string {
	apiKeyLock.RLock()
	defer apiKeyLock.RUnlock()
	return apiKey
}

// SetUserAgent sets the User-Agent string
func SetUserAgent(ua string) {
	userAgentLock.Lock()
	defer userAgentLock.Unlock()
	userAgent = ua
}

// GetUserAgent returns the current User-Agent string
func GetUserAgent() string {
	userAgentLock.RLock()
	defer userAgentLock.RUnlock()
	return userAgent
}

// errorEnvelope is the error structure ArcGIS services embed in otherwise
// well-formed JSON responses.
type errorEnvelope struct {
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// checkAPIKey returns the configured key or a configuration error. Every
// outbound call goes through this guard so a missing key never reaches the
// network.
func checkAPIKey() (string, *Error) {
	key := APIKey()
	if key == "" {
		return "", NewConfigurationError(
			fmt.Sprintf("no API key configured; set %s", APIKeyEnvVar))
	}
	return key, nil
}

// redactParams returns a copy of params with the token value masked,
// for safe logging.
func redactParams(params url.Values) url.Values {
	safe := url.Values{}
	for k, vs := range params {
		if k == "token" {
			safe.Set(k, "......")
			continue
		}
		for _, v := range vs {
			safe.Add(k, v)
		}
	}
	return safe
}

// classifyTransportError maps an http.Client error onto a network error.
func classifyTransportError(err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return NewNetworkError(fmt.Errorf("request timed out: %w", err))
	}
	return NewNetworkError(err)
}

// GetJSON performs an authenticated GET against an ArcGIS service and
// returns the raw response body after status and error-envelope checks.
// The service name selects the rate limiter to wait on.
func GetJSON(ctx context.Context, service, rawURL string, params url.Values) ([]byte, error) {
	return doJSON(ctx, service, http.MethodGet, rawURL, params, nil)
}

// PostJSON performs an authenticated POST with a JSON body. Following the
// ArcGIS REST convention, the token and format parameters travel in the
// query string while body carries the operation parameters.
func PostJSON(ctx context.Context, service, rawURL string, body map[string]any) ([]byte, error) {
	return doJSON(ctx, service, http.MethodPost, rawURL, url.Values{}, body)
}

func doJSON(ctx context.Context, service, method, rawURL string, params url.Values, body map[string]any) ([]byte, error) {
	logger := slog.Default().With("service", service)

	key, cfgErr := checkAPIKey()
	if cfgErr != nil {
		return nil, cfgErr
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("token", key)
	if params.Get("f") == "" {
		params.Set("f", "json")
	}

	reqURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, NewValidationError("invalid request URL: %v", err)
	}
	reqURL.RawQuery = params.Encode()

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, NewValidationError("invalid request body: %v", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	if err := WaitForService(ctx, service); err != nil {
		return nil, classifyTransportError(err)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), bodyReader)
	if err != nil {
		return nil, NewValidationError("failed to create request: %v", err)
	}
	req.Header.Set("User-Agent", GetUserAgent())
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logger.Debug("arcgis request",
		"method", method,
		"host", reqURL.Host,
		"path", reqURL.Path,
		"params", redactParams(params).Encode())

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewNetworkError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// ArcGIS often returns a JSON error body with non-2xx statuses
		var envelope errorEnvelope
		if json.Unmarshal(data, &envelope) == nil && envelope.Error != nil {
			return nil, NewUpstreamError(resp.StatusCode, envelope.Error.Message)
		}
		return nil, NewUpstreamError(resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	// ArcGIS also embeds errors inside 200 responses
	var envelope errorEnvelope
	if json.Unmarshal(data, &envelope) == nil && envelope.Error != nil {
		code := envelope.Error.Code
		if code == 0 {
			code = resp.StatusCode
		}
		return nil, NewUpstreamError(code, envelope.Error.Message)
	}

	return data, nil
}

// Head performs an authenticated HEAD request and returns the response
// status code. Used for tile availability probes where the body is not
// needed.
func Head(ctx context.Context, service, rawURL string) (int, error) {
	logger := slog.Default().With("service", service)

	key, cfgErr := checkAPIKey()
	if cfgErr != nil {
		return 0, cfgErr
	}

	reqURL, err := url.Parse(rawURL)
	if err != nil {
		return 0, NewValidationError("invalid request URL: %v", err)
	}
	q := reqURL.Query()
	q.Set("token", key)
	reqURL.RawQuery = q.Encode()

	if err := WaitForService(ctx, service); err != nil {
		return 0, classifyTransportError(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, reqURL.String(), nil)
	if err != nil {
		return 0, NewValidationError("failed to create request: %v", err)
	}
	req.Header.Set("User-Agent", GetUserAgent())

	logger.Debug("arcgis request",
		"method", http.MethodHead,
		"host", reqURL.Host,
		"path", reqURL.Path)

	resp, err := httpClient.Do(req)
	if err != nil {
		return 0, classifyTransportError(err)
	}
	defer resp.Body.Close()

	return resp.StatusCode, nil
}
