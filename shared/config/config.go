package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"weather-talk/internal/models"
	"weather-talk/internal/reference"
)

type Config struct {
	Location   LocationConfig   `yaml:"location"`
	OpenMeteo  OpenMeteoConfig  `yaml:"open_meteo"`
	Features   map[string]bool  `yaml:"features"`
	Ranking    RankingConfig    `yaml:"ranking"`
	Reference  reference.Data   `yaml:"reference"`
	Output     OutputConfig     `yaml:"output"`
	Email      EmailConfig      `yaml:"email"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Schedule   string           `yaml:"schedule" validate:"required"`
}

type LocationConfig struct {
	Name      string  `yaml:"name" validate:"required"`
	Latitude  float64 `yaml:"latitude" validate:"latitude"`
	Longitude float64 `yaml:"longitude" validate:"longitude"`
	Timezone  string  `yaml:"timezone" validate:"required,timezone"`
}

type OpenMeteoConfig struct {
	BaseURL      string        `yaml:"base_url" validate:"required,url"`
	PastDays     int           `yaml:"past_days" validate:"gte=1,lte=92"`
	ForecastDays int           `yaml:"forecast_days" validate:"gte=2,lte=16"`
	Timeout      time.Duration `yaml:"timeout" validate:"gt=0"`
	MaxRetries   int           `yaml:"max_retries" validate:"gte=0,lte=10"`
}

type RankingConfig struct {
	TopicOrder []models.Topic          `yaml:"topic_order" validate:"required,min=1,dive,required"`
	Limits     map[models.Topic]int    `yaml:"limits" validate:"dive,gte=0"`
	TopN       int                     `yaml:"top_n" validate:"gte=1"`
	Headers    map[models.Topic]string `yaml:"headers"`
}

type OutputConfig struct {
	Path string `yaml:"path" validate:"required"`
}

type EmailConfig struct {
	Enabled    bool   `yaml:"enabled"`
	SMTPServer string `yaml:"smtp_server" validate:"required_if=Enabled true"`
	SMTPPort   int    `yaml:"smtp_port" validate:"required_if=Enabled true"`
	Username   string `yaml:"username" validate:"required_if=Enabled true"`
	Password   string `yaml:"password" validate:"required_if=Enabled true"`
	FromEmail  string `yaml:"from_email" validate:"omitempty,email"`
	ToEmail    string `yaml:"to_email" validate:"required_if=Enabled true"`
}

type MonitoringConfig struct {
	HealthPort int `yaml:"health_port" validate:"gte=1,lte=65535"`
}

// envOverrides lists the variables that win over the config file.
type envOverrides struct {
	EmailUsername string `envconfig:"EMAIL_USERNAME"`
	EmailPassword string `envconfig:"EMAIL_PASSWORD"`
	OutputPath    string `envconfig:"OUTPUT_PATH"`
	Schedule      string `envconfig:"SCHEDULE"`
	Timezone      string `envconfig:"TIMEZONE"`
	HealthPort    int    `envconfig:"HEALTH_PORT"`
	OpenMeteoURL  string `envconfig:"OPEN_METEO_URL"`
}

// Default returns a configuration for Tokyo that runs without a config file.
func Default() *Config {
	return &Config{
		Location: LocationConfig{
			Name:      "Tokyo",
			Latitude:  35.6769,
			Longitude: 139.65,
			Timezone:  "Asia/Tokyo",
		},
		OpenMeteo: OpenMeteoConfig{
			BaseURL:      "https://api.open-meteo.com/v1/forecast",
			PastDays:     6,
			ForecastDays: 2,
			Timeout:      30 * time.Second,
			MaxRetries:   3,
		},
		Features: map[string]bool{},
		Ranking: RankingConfig{
			TopicOrder: []models.Topic{
				models.TopicTemp,
				models.TopicRain,
				models.TopicFeel,
				models.TopicSeason,
				models.TopicComparison,
				models.TopicFallback,
			},
			Limits: map[models.Topic]int{
				models.TopicTemp:       2,
				models.TopicRain:       2,
				models.TopicFeel:       2,
				models.TopicSeason:     2,
				models.TopicComparison: 2,
				models.TopicFallback:   1,
			},
			TopN: 3,
			Headers: map[models.Topic]string{
				models.TopicTemp:       "Temperature",
				models.TopicRain:       "Rain",
				models.TopicFeel:       "How it feels",
				models.TopicSeason:     "Season",
				models.TopicComparison: "Compared to normal",
				models.TopicFallback:   "Other",
			},
		},
		Reference: reference.Default(),
		Output:    OutputConfig{Path: "data/weather.json"},
		Email: EmailConfig{
			SMTPServer: "smtp.gmail.com",
			SMTPPort:   587,
		},
		Monitoring: MonitoringConfig{HealthPort: 8080},
		Schedule:   "0 0 * * * *", // hourly, on the hour
	}
}

// Load reads CONFIG_FILE (default config.yaml) over the defaults, applies
// environment overrides and validates the result. A missing default config
// file is not an error; a missing CONFIG_FILE is.
func Load() (*Config, error) {
	_ = godotenv.Load()

	configFile, explicit := os.LookupEnv("CONFIG_FILE")
	if configFile == "" {
		configFile = "config.yaml"
	}

	cfg := Default()
	data, err := os.ReadFile(configFile)
	switch {
	case err == nil:
		if err := cfg.merge(data); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configFile, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// run on defaults
	default:
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// merge decodes YAML on top of the current values. Maps are merged key by
// key, so a file that sets one limit keeps the other defaults.
func (c *Config) merge(data []byte) error {
	return yaml.Unmarshal(data, c)
}

func (c *Config) applyEnv() error {
	var env envOverrides
	if err := envconfig.Process("", &env); err != nil {
		return err
	}

	if env.EmailUsername != "" {
		c.Email.Username = env.EmailUsername
	}
	if env.EmailPassword != "" {
		c.Email.Password = env.EmailPassword
	}
	if env.OutputPath != "" {
		c.Output.Path = env.OutputPath
	}
	if env.Schedule != "" {
		c.Schedule = env.Schedule
	}
	if env.Timezone != "" {
		c.Location.Timezone = env.Timezone
	}
	if env.HealthPort != 0 {
		c.Monitoring.HealthPort = env.HealthPort
	}
	if env.OpenMeteoURL != "" {
		c.OpenMeteo.BaseURL = env.OpenMeteoURL
	}
	return nil
}

func (c *Config) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// TimeLocation resolves the configured IANA timezone.
func (c *Config) TimeLocation() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Location.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %s: %w", c.Location.Timezone, err)
	}
	return loc, nil
}

// Header returns the display header for a topic, or the topic name.
func (r RankingConfig) Header(t models.Topic) string {
	if h, ok := r.Headers[t]; ok && h != "" {
		return h
	}
	return string(t)
}
