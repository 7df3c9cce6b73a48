package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/i474232898/jogging-weather/internal/logging"
)

type AppConfig struct {
	Port string `yaml:"port" validate:"required,numeric"`

	// HTTPTimeout is the client timeout for outbound provider calls.
	HTTPTimeout time.Duration `yaml:"http_timeout" validate:"gt=0"`
	// WeatherTimeout bounds one whole enrichment, retries included.
	WeatherTimeout time.Duration `yaml:"weather_timeout" validate:"gt=0"`

	// WeatherProviders are asked in order until one returns conditions.
	WeatherProviders  []string `yaml:"weather_providers" validate:"min=1,dive,oneof=openmeteo openweather openweathermap weatherapi"`
	OpenMeteoBaseURL  string   `yaml:"openmeteo_base_url" validate:"omitempty,url"`
	OpenWeatherAPIKey string   `yaml:"openweather_api_key"`
	WeatherAPIKey     string   `yaml:"weatherapi_api_key"`

	StoreDriver string `yaml:"store_driver" validate:"oneof=memory postgres"`
	PostgresURL string `yaml:"postgres_url" validate:"required_if=StoreDriver postgres"`

	JWTSecret string `yaml:"jwt_secret" validate:"required"`
	JWTIssuer string `yaml:"jwt_issuer"`

	// StatsInterval controls how often the stored-record gauge is refreshed (0 = never).
	StatsInterval time.Duration `yaml:"stats_interval" validate:"gte=0"`

	Log logging.Config `yaml:"log"`
}

var validate = validator.New()

// Default returns the configuration used when nothing is set.
func Default() *AppConfig {
	return &AppConfig{
		Port:             "8080",
		HTTPTimeout:      5 * time.Second,
		WeatherTimeout:   10 * time.Second,
		WeatherProviders: []string{"openmeteo"},
		StoreDriver:      "memory",
		StatsInterval:    time.Minute,
		Log: logging.Config{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads configuration from an optional YAML file (CONFIG_FILE) and the
// environment (including .env), environment winning.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration.
func (c *AppConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func loadFile(path string, cfg *AppConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *AppConfig) error {
	cfg.Port = getenvDefault("PORT", cfg.Port)
	cfg.OpenMeteoBaseURL = getenvDefault("OPENMETEO_BASE_URL", cfg.OpenMeteoBaseURL)
	cfg.OpenWeatherAPIKey = getenvDefault("OPENWEATHER_API_KEY", cfg.OpenWeatherAPIKey)
	cfg.WeatherAPIKey = getenvDefault("WEATHERAPI_API_KEY", cfg.WeatherAPIKey)
	cfg.StoreDriver = getenvDefault("STORE_DRIVER", cfg.StoreDriver)
	cfg.PostgresURL = getenvDefault("POSTGRES_URL", cfg.PostgresURL)
	cfg.JWTSecret = getenvDefault("JWT_SECRET", cfg.JWTSecret)
	cfg.JWTIssuer = getenvDefault("JWT_ISSUER", cfg.JWTIssuer)
	cfg.Log.Level = getenvDefault("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getenvDefault("LOG_FORMAT", cfg.Log.Format)

	if v := os.Getenv("WEATHER_PROVIDERS"); v != "" {
		cfg.WeatherProviders = splitAndTrim(v)
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"HTTP_TIMEOUT", &cfg.HTTPTimeout},
		{"WEATHER_TIMEOUT", &cfg.WeatherTimeout},
		{"STATS_INTERVAL", &cfg.StatsInterval},
	}
	for _, d := range durations {
		v := os.Getenv(d.key)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", d.key, err)
		}
		*d.dst = parsed
	}
	return nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
