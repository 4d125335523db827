// Package tools provides the ArcGIS Location Services MCP tool
// implementations.
package tools

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/NERVsystems/arcgismcp/pkg/arcgis"
	"github.com/mark3labs/mcp-go/mcp"
)

// ToolError is the structured error payload returned to MCP clients. It
// identifies the failing tool and carries enough information to recover.
type ToolError struct {
	Kind     string `json:"kind"`             // configuration, validation, upstream or network
	Tool     string `json:"tool"`             // the tool that failed
	Status   int    `json:"status,omitempty"` // HTTP status or ArcGIS error code
	Message  string `json:"message"`
	Guidance string `json:"guidance,omitempty"`
}

// Common error guidance messages
const (
	GuidanceAPIKey       = "Set the ARCGIS_LOCATION_SERVICE_API_KEY environment variable to a valid ArcGIS API key."
	GuidanceInvalidToken = "The API key was rejected. Check that it is valid and has access to this service."
	GuidanceEntitlement  = "The API key does not have permission to use this service. It may require a paid subscription."
	GuidanceRateLimit    = "Rate limit exceeded. Please try again in a few moments."
	GuidanceTimeout      = "The request timed out. Check your internet connection and try again."
	GuidanceBadRequest   = "The request was invalid. Check your parameters and try again."
	GuidanceServerError  = "The service encountered an error. This is likely temporary, please try again later."
	GuidanceValidation   = "Please correct the parameters and try again."
	GuidanceNetwork      = "Check your internet connection and try again."
	GuidanceGeneral      = "Please try again later or modify your request parameters."
)

// guidanceFor infers a recovery hint from the kind and status of an error.
func guidanceFor(err *arcgis.Error) string {
	switch err.Kind {
	case arcgis.KindConfiguration:
		return GuidanceAPIKey
	case arcgis.KindValidation:
		return GuidanceValidation
	case arcgis.KindNetwork:
		return GuidanceNetwork
	case arcgis.KindUpstream:
		switch err.StatusCode {
		case http.StatusUnauthorized, 498, 499: // 498/499 are ArcGIS token errors
			return GuidanceInvalidToken
		case http.StatusForbidden:
			return GuidanceEntitlement
		case http.StatusTooManyRequests:
			return GuidanceRateLimit
		case http.StatusRequestTimeout, http.StatusGatewayTimeout:
			return GuidanceTimeout
		case http.StatusBadRequest:
			return GuidanceBadRequest
		case http.StatusInternalServerError, http.StatusServiceUnavailable:
			return GuidanceServerError
		default:
			return GuidanceGeneral
		}
	default:
		return GuidanceGeneral
	}
}

// ErrorResult converts an error into a structured MCP tool error result.
// Every handler funnels its failures through here so clients always see
// the same shape.
func ErrorResult(tool string, err error) *mcp.CallToolResult {
	te := ToolError{
		Kind:     string(arcgis.KindUpstream),
		Tool:     tool,
		Message:  err.Error(),
		Guidance: GuidanceGeneral,
	}

	var ae *arcgis.Error
	if errors.As(err, &ae) {
		te.Kind = string(ae.Kind)
		te.Status = ae.StatusCode
		te.Message = ae.Message
		te.Guidance = guidanceFor(ae)
	}

	payload := struct {
		Error ToolError `json:"error"`
	}{Error: te}

	data, marshalErr := json.Marshal(payload)
	if marshalErr != nil {
		return mcp.NewToolResultError(fmt.Sprintf("%s: %s", tool, te.Message))
	}
	return mcp.NewToolResultError(string(data))
}

// ValidationResult is a convenience wrapper for argument validation errors.
func ValidationResult(tool, format string, args ...any) *mcp.CallToolResult {
	return ErrorResult(tool, arcgis.NewValidationError(format, args...))
}
