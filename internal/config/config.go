// Package config loads and validates splitbill configuration.
//
// Values are resolved in order of precedence: SPLITBILL_* environment
// variables, then an optional config file, then defaults. Nested keys map to
// env names with dots replaced by underscores (server.port → SPLITBILL_SERVER_PORT).
package config

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Log      LogConfig      `mapstructure:"log" validate:"required"`
	Receipt  ReceiptConfig  `mapstructure:"receipt"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	ShutdownTimeout int `mapstructure:"shutdown_timeout_seconds" validate:"gte=0"`
}

// DatabaseConfig contains SQLite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=text json"`
}

// ReceiptConfig configures receipt extraction. Extraction is disabled when
// GeminiAPIKey is empty.
type ReceiptConfig struct {
	GeminiAPIKey string `mapstructure:"gemini_api_key"`
	Model        string `mapstructure:"model" validate:"required_with=GeminiAPIKey"`
}

// Enabled reports whether receipt extraction is configured.
func (c ReceiptConfig) Enabled() bool {
	return c.GeminiAPIKey != ""
}
