// Package config holds server configuration and the YAML workflow
// definition format.
package config

// ServerConfig holds configuration for the flowrun status server.
type ServerConfig struct {
	Addr      string // listen address (default ":8080")
	LogLevel  string // log level: debug, info, warn, error
	LogFormat string // log format: text, json
	DBPath    string // SQLite history database path (":memory:" for testing)
}

// DefaultServerConfig returns sensible defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:      ":8080",
		LogLevel:  "info",
		LogFormat: "text",
		DBPath:    "flowrun.db",
	}
}
