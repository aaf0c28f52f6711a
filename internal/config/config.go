package config

import "time"

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Auth      AuthConfig      `koanf:"auth"`
	Preview   PreviewConfig   `koanf:"preview"`
	Log       LogConfig       `koanf:"log"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
}

type ServerConfig struct {
	Host           string    `koanf:"host"`
	Port           int       `koanf:"port"`
	PublicURL      string    `koanf:"public_url"`
	AllowedOrigins []string  `koanf:"allowed_origins"`
	TLS            TLSConfig `koanf:"tls"`
}

type TLSConfig struct {
	Mode     string        `koanf:"mode"` // off, auto, manual
	CertFile string        `koanf:"cert_file"`
	KeyFile  string        `koanf:"key_file"`
	Auto     TLSAutoConfig `koanf:"auto"`
}

type TLSAutoConfig struct {
	Domain   string `koanf:"domain"`
	Email    string `koanf:"email"`
	CacheDir string `koanf:"cache_dir"`
}

type DatabaseConfig struct {
	Path string `koanf:"path"`
}

type AuthConfig struct {
	JWTSecret     string        `koanf:"jwt_secret"`
	TokenDuration time.Duration `koanf:"token_duration"`
	BcryptCost    int           `koanf:"bcrypt_cost"`
}

type PreviewConfig struct {
	FetchTimeout time.Duration `koanf:"fetch_timeout"`
	UserAgent    string        `koanf:"user_agent"`
}

type LogConfig struct {
	Level  string        `koanf:"level"`  // debug, info, warn, error
	Format string        `koanf:"format"` // text, json
	File   LogFileConfig `koanf:"file"`
}

type LogFileConfig struct {
	Path       string `koanf:"path"` // empty disables file logging
	MaxSizeMB  int    `koanf:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups"`
	MaxAgeDays int    `koanf:"max_age_days"`
}

type RateLimitConfig struct {
	Enabled  bool              `koanf:"enabled"`
	Login    RateLimitEndpoint `koanf:"login"`
	Register RateLimitEndpoint `koanf:"register"`
}

type RateLimitEndpoint struct {
	Limit  int           `koanf:"limit"`
	Window time.Duration `koanf:"window"`
}

func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host:      "0.0.0.0",
			Port:      8080,
			PublicURL: "http://localhost:8080",
		},
		Database: DatabaseConfig{
			Path: "./data/wewatch.db",
		},
		Auth: AuthConfig{
			TokenDuration: 168 * time.Hour, // 7 days
			BcryptCost:    12,
		},
		Preview: PreviewConfig{
			FetchTimeout: 5 * time.Second,
			UserAgent:    "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
			File: LogFileConfig{
				MaxSizeMB:  50,
				MaxBackups: 3,
				MaxAgeDays: 28,
			},
		},
		RateLimit: RateLimitConfig{
			Enabled:  true,
			Login:    RateLimitEndpoint{Limit: 10, Window: time.Minute},
			Register: RateLimitEndpoint{Limit: 5, Window: time.Hour},
		},
	}
}
