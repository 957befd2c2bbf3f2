// Package config loads application settings for the forecast CLI and
// server from a config file, METNO_* environment variables and a .env file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/devskill-org/metno/meteo"
)

// EnvPrefix is prepended to every environment variable, e.g.
// METNO_USER_AGENT or METNO_LIMITS_MAX_RETRIES.
const EnvPrefix = "METNO"

// Config represents the configuration of the forecast application
type Config struct {
	// API settings
	UserAgent  string        `mapstructure:"user_agent" json:"user_agent" validate:"required"`                          // Identity sent as User-Agent, must include contact info
	BaseURL    string        `mapstructure:"base_url" json:"base_url" validate:"required,url"`                          // LocationForecast root URL
	Product    string        `mapstructure:"product" json:"product" validate:"oneof=complete compact"`                  // Endpoint variant
	APITimeout time.Duration `mapstructure:"api_timeout" json:"api_timeout" validate:"gt=0"`                            // Timeout for API calls
	Gzip       bool          `mapstructure:"gzip" json:"gzip"`                                                          // Request gzip-compressed bodies
	Latitude   float64       `mapstructure:"latitude" json:"latitude" validate:"gte=-90,lte=90"`                        // Latitude for weather data
	Longitude  float64       `mapstructure:"longitude" json:"longitude" validate:"gte=-180,lte=180"`                    // Longitude for weather data
	Altitude   *int          `mapstructure:"altitude" json:"altitude,omitempty" validate:"omitempty,gte=-500,lte=9000"` // Ground height in metres, optional

	Log    LogConfig    `mapstructure:"log" json:"log"`
	Limits LimitsConfig `mapstructure:"limits" json:"limits"`
	Server ServerConfig `mapstructure:"server" json:"server"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level" json:"level" validate:"oneof=debug info warn error"` // debug, info, warn, error
	Format string `mapstructure:"format" json:"format" validate:"oneof=text json"`          // text, json
}

// LimitsConfig bounds the request rate towards the API.
type LimitsConfig struct {
	RatePerSecond float64 `mapstructure:"rate_per_second" json:"rate_per_second" validate:"gt=0"`
	Burst         int     `mapstructure:"burst" json:"burst" validate:"gte=1"`
	MaxInFlight   int64   `mapstructure:"max_in_flight" json:"max_in_flight" validate:"gte=1"`
	MaxRetries    int     `mapstructure:"max_retries" json:"max_retries" validate:"gte=0,lte=10"`
}

// ServerConfig holds settings of the forecast web server.
type ServerConfig struct {
	Port            int           `mapstructure:"port" json:"port" validate:"gte=0,lte=65535"`                // 0 = disabled
	RefreshInterval time.Duration `mapstructure:"refresh_interval" json:"refresh_interval" validate:"gte=1m"` // How often to poll the API
	Days            int           `mapstructure:"days" json:"days" validate:"gte=1,lte=10"`                   // Days in the daily summary
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		UserAgent:  "",
		BaseURL:    meteo.DefaultBaseURL,
		Product:    string(meteo.ProductComplete),
		APITimeout: 30 * time.Second,
		Gzip:       true,
		Latitude:   56.9496, // Riga, Latvia
		Longitude:  24.1052, // Riga, Latvia
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Limits: LimitsConfig{
			RatePerSecond: 20,
			Burst:         20,
			MaxInFlight:   50,
			MaxRetries:    3,
		},
		Server: ServerConfig{
			Port:            0,
			RefreshInterval: 10 * time.Minute,
			Days:            7,
		},
	}
}

func setDefaults(v *viper.Viper, c *Config) {
	v.SetDefault("user_agent", c.UserAgent)
	v.SetDefault("base_url", c.BaseURL)
	v.SetDefault("product", c.Product)
	v.SetDefault("api_timeout", c.APITimeout)
	v.SetDefault("gzip", c.Gzip)
	v.SetDefault("latitude", c.Latitude)
	v.SetDefault("longitude", c.Longitude)
	v.SetDefault("log.level", c.Log.Level)
	v.SetDefault("log.format", c.Log.Format)
	v.SetDefault("limits.rate_per_second", c.Limits.RatePerSecond)
	v.SetDefault("limits.burst", c.Limits.Burst)
	v.SetDefault("limits.max_in_flight", c.Limits.MaxInFlight)
	v.SetDefault("limits.max_retries", c.Limits.MaxRetries)
	v.SetDefault("server.port", c.Server.Port)
	v.SetDefault("server.refresh_interval", c.Server.RefreshInterval)
	v.SetDefault("server.days", c.Server.Days)
}

// Load reads configuration from path (JSON or YAML, by extension), then
// applies METNO_* environment variables on top. Variables from envFiles are
// loaded into the environment first; ".env" is used when none are given
// and a missing .env is not an error.
//
// With an empty path, "metno.yaml" or "metno.json" in the working directory
// is used when present.
func Load(path string, envFiles ...string) (*Config, error) {
	if err := loadEnvFiles(envFiles); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// No default exists for altitude, so AutomaticEnv would not see it.
	_ = v.BindEnv("altitude")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.SetConfigName("metno")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func loadEnvFiles(files []string) error {
	if len(files) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to load .env: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("failed to load env files: %w", err)
	}
	return nil
}

var validate = func() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		return name
	})
	return v
}()

// Validate checks if the configuration values are valid
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			_, field, _ := strings.Cut(fe.Namespace(), ".")
			if fe.Param() != "" {
				return fmt.Errorf("%s: failed %s=%s, got: %v", field, fe.Tag(), fe.Param(), fe.Value())
			}
			return fmt.Errorf("%s: failed %s, got: %v", field, fe.Tag(), fe.Value())
		}
		return err
	}

	if err := meteo.ValidateIdentity(c.UserAgent); err != nil {
		return fmt.Errorf("user_agent: %w", err)
	}
	return nil
}

// Params returns the forecast request parameters for the configured location.
func (c *Config) Params() meteo.Params {
	return meteo.Params{Latitude: c.Latitude, Longitude: c.Longitude, Altitude: c.Altitude}
}

// SaveConfigToWriter saves the configuration as indented JSON
func (c *Config) SaveConfigToWriter(writer io.Writer) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config JSON: %w", err)
	}
	return nil
}

// MarshalJSON implements custom JSON marshaling to handle durations
func (c *Config) MarshalJSON() ([]byte, error) {
	type Alias Config
	type serverAlias ServerConfig
	return json.Marshal(&struct {
		*Alias
		APITimeout string `json:"api_timeout"`
		Server     struct {
			*serverAlias
			RefreshInterval string `json:"refresh_interval"`
		} `json:"server"`
	}{
		Alias:      (*Alias)(c),
		APITimeout: c.APITimeout.String(),
		Server: struct {
			*serverAlias
			RefreshInterval string `json:"refresh_interval"`
		}{
			serverAlias:     (*serverAlias)(&c.Server),
			RefreshInterval: c.Server.RefreshInterval.String(),
		},
	})
}
