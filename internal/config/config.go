package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`
	DatabasePath      string        `mapstructure:"database_path" yaml:"database_path"`
	TrustProxyHeaders bool          `mapstructure:"trust_proxy_headers" yaml:"trust_proxy_headers"`

	AdminName          string        `mapstructure:"admin_name" yaml:"admin_name"`
	AdminPassword      string        `mapstructure:"admin_password" yaml:"admin_password"`
	AdminTokenSecret   string        `mapstructure:"admin_token_secret" yaml:"admin_token_secret"`
	AdminTokenIssuer   string        `mapstructure:"admin_token_issuer" yaml:"admin_token_issuer"`
	AdminTokenAudience string        `mapstructure:"admin_token_audience" yaml:"admin_token_audience"`
	AdminTokenTTL      time.Duration `mapstructure:"admin_token_ttl" yaml:"admin_token_ttl"`
	AdminLoginLimit    int           `mapstructure:"admin_login_limit" yaml:"admin_login_limit"`

	BanDuration time.Duration `mapstructure:"ban_duration" yaml:"ban_duration"`
	BannedWords []string      `mapstructure:"banned_words" yaml:"banned_words"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		DatabasePath:      "openroom.db",

		AdminName:          "admin",
		AdminTokenIssuer:   "openroom",
		AdminTokenAudience: "openroom-admin",
		AdminTokenTTL:      12 * time.Hour,
		AdminLoginLimit:    10,

		BanDuration: 2 * time.Minute,
	}
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.Addr != "" {
		c.Addr = other.Addr
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.DatabasePath != "" {
		c.DatabasePath = other.DatabasePath
	}
	if other.ReadHeaderTimeout != 0 {
		c.ReadHeaderTimeout = other.ReadHeaderTimeout
	}
	if other.ShutdownTimeout != 0 {
		c.ShutdownTimeout = other.ShutdownTimeout
	}
}
