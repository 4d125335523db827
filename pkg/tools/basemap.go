package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/NERVsystems/arcgismcp/pkg/arcgis"
	"github.com/mark3labs/mcp-go/mcp"
)

// tileProbeTimeout bounds the availability check; tile probes should be
// fast and there is no body to wait for.
const tileProbeTimeout = 10 * time.Second

// Tile availability statuses
const (
	TileStatusAvailable = "available"
	TileStatusNotFound  = "not_found"
)

// TileOutput defines the output format for basemap tile probes
type TileOutput struct {
	Status   string   `json:"status"`
	URL      string   `json:"url"`
	TileInfo TileInfo `json:"tileInfo"`
}

// GetBasemapTileTool returns a tool definition for basemap tile probes
func GetBasemapTileTool() mcp.Tool {
	return mcp.NewTool("get_basemap_tile",
		mcp.WithDescription("Access static basemap tiles service with different styles"),
		mcp.WithString("version",
			mcp.Description("API version"),
			mcp.DefaultString("v1"),
		),
		mcp.WithString("style_base",
			mcp.Description("The base style category"),
			mcp.DefaultString("arcgis"),
		),
		mcp.WithString("style_name",
			mcp.Description("Map style name (e.g., navigation, streets, satellite)"),
			mcp.DefaultString("navigation"),
		),
		mcp.WithNumber("row",
			mcp.Description("Tile row coordinate"),
			mcp.DefaultNumber(17),
		),
		mcp.WithNumber("level",
			mcp.Description("Zoom level"),
			mcp.DefaultNumber(52333),
		),
		mcp.WithNumber("column",
			mcp.Description("Tile column coordinate"),
			mcp.DefaultNumber(22866),
		),
	)
}

// HandleGetBasemapTile implements the basemap tile availability probe
func HandleGetBasemapTile(ctx context.Context, rawInput mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := slog.Default().With("tool", "get_basemap_tile")

	// Parse input
	version := mcp.ParseString(rawInput, "version", "v1")
	styleBase := mcp.ParseString(rawInput, "style_base", "arcgis")
	styleName := mcp.ParseString(rawInput, "style_name", "navigation")
	row := int(mcp.ParseFloat64(rawInput, "row", 17))
	level := int(mcp.ParseFloat64(rawInput, "level", 52333))
	column := int(mcp.ParseFloat64(rawInput, "column", 22866))

	if row < 0 || level < 0 || column < 0 {
		return ValidationResult("get_basemap_tile", "row, level and column must be non-negative"), nil
	}

	tileURL := fmt.Sprintf("%s/%s/%s/%s/static/tile/%d/%d/%d",
		arcgis.BasemapBaseURL, version, styleBase, styleName, row, level, column)

	probeCtx, cancel := context.WithTimeout(ctx, tileProbeTimeout)
	defer cancel()

	status, err := arcgis.Head(probeCtx, arcgis.ServiceBasemap, tileURL)
	if err != nil {
		logger.Error("tile probe failed", "error", err)
		return ErrorResult("get_basemap_tile", err), nil
	}

	output := TileOutput{
		URL: tileURL,
		TileInfo: TileInfo{
			Version:   version,
			StyleBase: styleBase,
			StyleName: styleName,
			Row:       row,
			Level:     level,
			Column:    column,
		},
	}

	switch {
	case status == http.StatusOK:
		output.Status = TileStatusAvailable
	case status == http.StatusNotFound:
		output.Status = TileStatusNotFound
	default:
		return ErrorResult("get_basemap_tile",
			arcgis.NewUpstreamError(status, "tile not accessible")), nil
	}

	resultBytes, err := json.Marshal(output)
	if err != nil {
		logger.Error("failed to marshal result", "error", err)
		return ErrorResult("get_basemap_tile", err), nil
	}

	return mcp.NewToolResultText(string(resultBytes)), nil
}
