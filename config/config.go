// Package config loads eventfinder's settings from an optional YAML file,
// an optional .env file and the environment, in increasing precedence.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/findrandomevents/eventfinder/errors"
)

type SerpAPI struct {
	BaseURL  string        `yaml:"base_url"`
	APIKey   string        `yaml:"api_key"`
	Language string        `yaml:"language"`
	Region   string        `yaml:"region"`
	Timeout  time.Duration `yaml:"timeout"`
}

type Geocode struct {
	BaseURL   string        `yaml:"base_url"`
	UserAgent string        `yaml:"user_agent"`
	Timeout   time.Duration `yaml:"timeout"`
}

type Sessions struct {
	TTL            time.Duration `yaml:"ttl"`
	ExpirySchedule string        `yaml:"expiry_schedule"`
	// MinMoveMeters is nil until set. Zero turns off locality reuse for
	// nearby searches.
	MinMoveMeters *float64 `yaml:"min_move_meters"`
}

type Config struct {
	Listen      string   `yaml:"listen"`
	Environment string   `yaml:"environment"`
	CORSOrigins []string `yaml:"cors_origins"`

	SerpAPI  SerpAPI  `yaml:"serpapi"`
	Geocode  Geocode  `yaml:"geocode"`
	Sessions Sessions `yaml:"sessions"`
}

// Load reads the YAML file at path, if path isn't empty, then applies the
// variables from envFile and the process environment. A missing envFile is
// not an error.
func Load(path, envFile string) (*Config, error) {
	const op errors.Op = "config.Load"

	var c Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.E(op, errors.Invalid, err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, errors.E(op, errors.Invalid, errors.Errorf("parse %s: %v", path, err))
		}
	}

	if envFile != "" {
		// godotenv.Load doesn't override variables already set.
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, errors.E(op, errors.Invalid, err)
		}
	}

	if err := c.applyEnv(); err != nil {
		return nil, errors.E(op, errors.Invalid, err)
	}
	c.setDefaults()

	return &c, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Listen, "LISTEN")
	setString(&c.Environment, "ENV")
	if v, ok := os.LookupEnv("CORS_ORIGINS"); ok {
		c.CORSOrigins = splitList(v)
	}

	setString(&c.SerpAPI.BaseURL, "SERPAPI_BASE_URL")
	setString(&c.SerpAPI.APIKey, "SERPAPI_KEY")
	setString(&c.SerpAPI.Language, "SERPAPI_HL")
	setString(&c.SerpAPI.Region, "SERPAPI_GL")
	setString(&c.Geocode.BaseURL, "GEOCODE_BASE_URL")
	setString(&c.Geocode.UserAgent, "GEOCODE_USER_AGENT")
	setString(&c.Sessions.ExpirySchedule, "SESSION_EXPIRY_SCHEDULE")

	for key, d := range map[string]*time.Duration{
		"SERPAPI_TIMEOUT": &c.SerpAPI.Timeout,
		"GEOCODE_TIMEOUT": &c.Geocode.Timeout,
		"SESSION_TTL":     &c.Sessions.TTL,
	} {
		v, ok := os.LookupEnv(key)
		if !ok || v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return errors.Errorf("%s: %v", key, err)
		}
		*d = parsed
	}

	if v, ok := os.LookupEnv("MIN_MOVE_METERS"); ok && v != "" {
		m, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.Errorf("MIN_MOVE_METERS: %v", err)
		}
		c.Sessions.MinMoveMeters = &m
	}

	return nil
}

func (c *Config) setDefaults() {
	if c.Listen == "" {
		c.Listen = ":8080"
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.SerpAPI.BaseURL == "" {
		c.SerpAPI.BaseURL = "https://serpapi.com"
	}
	if c.SerpAPI.Language == "" {
		c.SerpAPI.Language = "en"
	}
	if c.SerpAPI.Region == "" {
		c.SerpAPI.Region = "us"
	}
	if c.SerpAPI.Timeout == 0 {
		c.SerpAPI.Timeout = 15 * time.Second
	}
	if c.Geocode.BaseURL == "" {
		c.Geocode.BaseURL = "https://nominatim.openstreetmap.org"
	}
	if c.Geocode.UserAgent == "" {
		c.Geocode.UserAgent = "eventfinder/1.0"
	}
	if c.Geocode.Timeout == 0 {
		c.Geocode.Timeout = 10 * time.Second
	}
	if c.Sessions.TTL == 0 {
		c.Sessions.TTL = 2 * time.Hour
	}
	if c.Sessions.ExpirySchedule == "" {
		c.Sessions.ExpirySchedule = "@every 5m"
	}
	if c.Sessions.MinMoveMeters == nil {
		m := 5.0
		c.Sessions.MinMoveMeters = &m
	}
}

// Validate reports settings the server can't start without.
func (c *Config) Validate() error {
	const op errors.Op = "config.Validate"
	if c.SerpAPI.APIKey == "" {
		return errors.E(op, errors.Invalid, "missing SerpApi key, set SERPAPI_KEY")
	}
	if c.Sessions.MinMoveMeters != nil && *c.Sessions.MinMoveMeters < 0 {
		return errors.E(op, errors.Invalid, "min_move_meters must not be negative")
	}
	return nil
}

// String describes c for logging. The API key is masked.
func (c Config) String() string {
	key := ""
	if c.SerpAPI.APIKey != "" {
		key = "REDACTED"
	}
	minMove := "unset"
	if c.Sessions.MinMoveMeters != nil {
		minMove = strconv.FormatFloat(*c.Sessions.MinMoveMeters, 'g', -1, 64) + "m"
	}
	return fmt.Sprintf("listen=%s env=%s serpapi=%s hl=%s gl=%s key=%s geocode=%s session_ttl=%s expiry=%q min_move=%s cors=%s",
		c.Listen, c.Environment, c.SerpAPI.BaseURL, c.SerpAPI.Language, c.SerpAPI.Region, key,
		c.Geocode.BaseURL, c.Sessions.TTL, c.Sessions.ExpirySchedule, minMove,
		strings.Join(c.CORSOrigins, ","))
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
