package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "VACATION_PAY"

// Config represents application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Calendar CalendarConfig `mapstructure:"calendar"`
	Daemon   DaemonConfig   `mapstructure:"daemon"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Addr            string   `mapstructure:"addr"`
	ReadTimeout     string   `mapstructure:"read_timeout"`
	WriteTimeout    string   `mapstructure:"write_timeout"`
	ShutdownTimeout string   `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
}

// CalendarConfig represents calendar configuration
type CalendarConfig struct {
	Type      string `mapstructure:"type"`     // "isdayoff" or "offline"
	BaseURL   string `mapstructure:"base_url"` // For isdayoff type
	Timeout   string `mapstructure:"timeout"`
	CacheTTL  string `mapstructure:"cache_ttl"` // Empty or "0" caches forever
	Fallback  string `mapstructure:"fallback"`  // "offline" or "none"
	StorePath string `mapstructure:"store_path"`
}

// DaemonConfig represents daemon mode configuration
type DaemonConfig struct {
	DailyTime string `mapstructure:"daily_time"` // Time to warm the calendar cache (HH:MM, MSK timezone)
	Jitter    string `mapstructure:"jitter"`     // Random delay added to each daily warm-up
}

// LogConfig represents logging configuration
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// Load loads configuration from file.
// A missing config file is not an error: defaults and environment apply.
func Load(configPath string) (*Config, error) {
	// Optional .env next to the binary; real environment wins
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.vacation-pay")
		v.AddConfigPath("/etc/vacation-pay")
	}

	// Read environment variables: VACATION_PAY_CALENDAR_BASE_URL etc.
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate config
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("calendar.type", "isdayoff")
	v.SetDefault("calendar.base_url", "https://isdayoff.ru")
	v.SetDefault("calendar.timeout", "10s")
	v.SetDefault("calendar.cache_ttl", "0")
	v.SetDefault("calendar.fallback", "none")
	v.SetDefault("calendar.store_path", "")

	v.SetDefault("daemon.daily_time", "03:00")
	v.SetDefault("daemon.jitter", "5m")

	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	// Validate Server config
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	for name, value := range map[string]string{
		"server.read_timeout":     c.Server.ReadTimeout,
		"server.write_timeout":    c.Server.WriteTimeout,
		"server.shutdown_timeout": c.Server.ShutdownTimeout,
		"calendar.timeout":        c.Calendar.Timeout,
		"calendar.cache_ttl":      c.Calendar.CacheTTL,
		"daemon.jitter":           c.Daemon.Jitter,
	} {
		if value == "" {
			continue
		}
		if d, err := time.ParseDuration(value); err != nil || d < 0 {
			return fmt.Errorf("%s must be a non-negative duration, got '%s'", name, value)
		}
	}

	// Validate Calendar config
	switch c.Calendar.Type {
	case "isdayoff":
		if c.Calendar.BaseURL == "" {
			return fmt.Errorf("calendar.base_url is required for isdayoff type")
		}
	case "offline":
	default:
		return fmt.Errorf("calendar.type must be 'isdayoff' or 'offline', got '%s'", c.Calendar.Type)
	}

	switch c.Calendar.Fallback {
	case "", "none", "offline":
	default:
		return fmt.Errorf("calendar.fallback must be 'offline' or 'none', got '%s'", c.Calendar.Fallback)
	}

	// Validate Daemon config
	if _, _, err := parseDailyTime(c.Daemon.DailyTime); err != nil {
		return fmt.Errorf("daemon.daily_time: %w", err)
	}

	return nil
}

// GetTimeout returns the calendar HTTP timeout
func (c *CalendarConfig) GetTimeout() time.Duration {
	return parseDurationOr(c.Timeout, 10*time.Second)
}

// GetCacheTTL returns cache TTL duration; zero means cache forever
func (c *CalendarConfig) GetCacheTTL() time.Duration {
	return parseDurationOr(c.CacheTTL, 0)
}

// UseOfflineFallback reports whether API failures fall back to the offline calendar
func (c *CalendarConfig) UseOfflineFallback() bool {
	return c.Type == "isdayoff" && c.Fallback == "offline"
}

// GetReadTimeout returns the HTTP server read timeout
func (c *ServerConfig) GetReadTimeout() time.Duration {
	return parseDurationOr(c.ReadTimeout, 15*time.Second)
}

// GetWriteTimeout returns the HTTP server write timeout
func (c *ServerConfig) GetWriteTimeout() time.Duration {
	return parseDurationOr(c.WriteTimeout, 30*time.Second)
}

// GetShutdownTimeout returns the graceful shutdown timeout
func (c *ServerConfig) GetShutdownTimeout() time.Duration {
	return parseDurationOr(c.ShutdownTimeout, 30*time.Second)
}

// GetDailyTime returns the configured daily warm-up time (MSK timezone)
// Returns hour and minute (0-23, 0-59). Default: 03:00
func (c *DaemonConfig) GetDailyTime() (hour, minute int) {
	h, m, err := parseDailyTime(c.DailyTime)
	if err != nil {
		return 3, 0
	}
	return h, m
}

// GetJitter returns the maximum random delay of the daily warm-up
func (c *DaemonConfig) GetJitter() time.Duration {
	return parseDurationOr(c.Jitter, 0)
}

func parseDailyTime(value string) (hour, minute int, err error) {
	if value == "" {
		return 3, 0, nil
	}
	if _, err := fmt.Sscanf(value, "%d:%d", &hour, &minute); err != nil {
		return 0, 0, fmt.Errorf("expected HH:MM, got '%s'", value)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("time out of range: '%s'", value)
	}
	return hour, minute, nil
}

func parseDurationOr(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return duration
}
