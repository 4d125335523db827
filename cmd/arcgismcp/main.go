// Command arcgismcp runs an MCP stdio server exposing the ArcGIS Location
// Services (geocoding, places, routing, elevation, basemap tiles) as tools.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/NERVsystems/arcgismcp/pkg/arcgis"
	"github.com/NERVsystems/arcgismcp/pkg/server"
	"github.com/NERVsystems/arcgismcp/pkg/version"
	"github.com/joho/godotenv"
)

var (
	showVersionFlag bool
	debug           bool
	generateConfig  string
)

func init() {
	flag.BoolVar(&showVersionFlag, "version", false, "Display version information")
	flag.BoolVar(&debug, "debug", false, "Enable debug logging")
	flag.StringVar(&generateConfig, "generate-config", "", "Generate a Claude Desktop Client config file at the specified path")
}

func main() {
	flag.Parse()

	// Configure logging
	var logLevel slog.Level
	if debug {
		logLevel = slog.LevelDebug
	} else {
		logLevel = slog.LevelInfo
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Show version and exit if requested
	if showVersionFlag {
		fmt.Println(version.String())
		return
	}

	// Generate Claude Desktop config if requested
	if generateConfig != "" {
		if err := generateClientConfig(generateConfig); err != nil {
			logger.Error("failed to generate config", "error", err)
			os.Exit(1)
		}
		logger.Info("successfully generated Claude Desktop Client config", "path", generateConfig)
		return
	}

	// Load a .env file if one is present; the environment itself wins
	if err := godotenv.Load(); err == nil {
		logger.Debug("loaded environment from .env file")
	}

	// Wire the API key. Tools report a configuration error per call when
	// it is missing; the process itself keeps running.
	apiKey := os.Getenv(arcgis.APIKeyEnvVar)
	arcgis.SetAPIKey(apiKey)
	if apiKey == "" {
		logger.Warn("no API key configured, all tool calls will fail",
			"env_var", arcgis.APIKeyEnvVar)
	}

	logger.Info("starting ArcGIS Location Services MCP server",
		"version", version.BuildVersion,
		"log_level", logLevel.String())

	// Create and run the MCP server
	srv, err := server.NewServer()
	if err != nil {
		logger.Error("failed to create server", "error", err)
		os.Exit(1)
	}

	logger.Info("server initialized, waiting for requests")
	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// generateClientConfig creates or updates a Claude Desktop Client config file
func generateClientConfig(outputPath string) error {
	logger := slog.Default()

	// Get absolute path to executable
	execPath, err := os.Executable()
	if err != nil {
		execPath = os.Args[0] // Fallback to args if cannot get executable path
	}
	absExecPath, err := filepath.Abs(execPath)
	if err != nil {
		absExecPath = execPath // Use as is if cannot resolve absolute path
	}

	// Carry the current key into the generated config, with a placeholder
	// when none is set
	apiKey := os.Getenv(arcgis.APIKeyEnvVar)
	if apiKey == "" {
		apiKey = "<your-arcgis-api-key>"
	}

	// Prepare our server config
	arcgisConfig := map[string]interface{}{
		"command": absExecPath,
		"args":    []string{},
		"env": map[string]string{
			arcgis.APIKeyEnvVar: apiKey,
		},
	}

	// Define the config structure
	var config map[string]interface{}

	// Check if file exists already
	if _, err := os.Stat(outputPath); err == nil {
		// File exists, read it
		data, err := os.ReadFile(outputPath)
		if err != nil {
			return fmt.Errorf("failed to read existing config: %w", err)
		}

		// Parse existing JSON
		if err := json.Unmarshal(data, &config); err != nil {
			logger.Warn("existing config is not valid JSON, will create new", "error", err)
			config = make(map[string]interface{})
		}
	} else {
		// File doesn't exist, create new config
		config = make(map[string]interface{})
	}

	// Check if mcpServers exists, create it if not
	mcpServers, ok := config["mcpServers"].(map[string]interface{})
	if !ok {
		mcpServers = make(map[string]interface{})
		config["mcpServers"] = mcpServers
	}

	// Add or update our server
	mcpServers["arcgis"] = arcgisConfig

	// Marshal to JSON with pretty printing
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Add a newline at the end for better formatting
	data = append(data, '\n')

	// Make sure parent directory exists
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	// Write to the output file. The config carries the API key, so keep
	// it owner-readable only.
	if err := os.WriteFile(outputPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
