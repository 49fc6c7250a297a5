package config

// Config holds the application configuration.
type Config struct {
	Env      string   `yaml:"env" validate:"omitempty,oneof=development production test"`
	Server   Server   `yaml:"server"`
	Database Database `yaml:"database"`
	Logger   Logger   `yaml:"logger"`
	Telegram Telegram `yaml:"telegram"`
	Import   Import   `yaml:"import"`
	Metrics  Metrics  `yaml:"metrics"`
}

// Server hold the configuration for the Fiber server Config
type Server struct {
	PrintRoutes bool     `yaml:"show_routes"`
	Port        uint32   `yaml:"port" validate:"required"`
	CORSOrigins []string `yaml:"cors_origins"`
	BodyLimitMB int      `yaml:"body_limit_mb" validate:"gte=0"`
}

// Database holds the configuration for the database
type Database struct {
	Path string `yaml:"path" validate:"required"`
}

// Logger holds the configuration for the app logging
type Logger struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `yaml:"format" validate:"omitempty,oneof=json text logfmt"`
}

type Telegram struct {
	Enabled      bool     `yaml:"enabled"`
	Token        string   `yaml:"token"`
	AllowedUsers []string `yaml:"allowedUsers"`
}

// Import holds the configuration for bulk song imports from a watched directory
type Import struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path" validate:"required_if=Enabled true"`
}

// Metrics holds the configuration for the prometheus endpoint
type Metrics struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path" validate:"required_if=Enabled true"`
}

// IsDevelopment reports whether detailed errors may be returned to clients.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
