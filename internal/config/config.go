package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Per-group minimum stock floors. Rarer groups keep smaller floors.
var defaultBloodThresholds = map[string]int{
	"O+": 25, "O-": 12,
	"A+": 15, "A-": 12,
	"B+": 15, "B-": 10,
	"AB+": 8, "AB-": 6,
}

type Config struct {
	Port        string   `mapstructure:"PORT"`
	Env         string   `mapstructure:"ENV"`
	CORSOrigins []string `mapstructure:"CORS_ORIGINS"`

	RateLimitRPS   float64 `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int     `mapstructure:"RATE_LIMIT_BURST"`

	// Wards with this many free beds or fewer trigger transfer prompts.
	BedLowAvailThreshold int `mapstructure:"BED_LOW_AVAIL_THRESHOLD"`

	AlertRadiusMinKm float64 `mapstructure:"ALERT_RADIUS_MIN_KM"`
	AlertRadiusMaxKm float64 `mapstructure:"ALERT_RADIUS_MAX_KM"`
	// Fraction of a group's min threshold below which stock is critical.
	BloodCriticalRatio float64 `mapstructure:"BLOOD_CRITICAL_RATIO"`

	// "A+=15,O-=12" overrides; unlisted groups keep defaults.
	BloodMinThresholds string `mapstructure:"BLOOD_MIN_THRESHOLDS"`

	DirectoryURL string `mapstructure:"DIRECTORY_URL"`
	NotifyURL    string `mapstructure:"NOTIFY_URL"`
	IdentityURL  string `mapstructure:"IDENTITY_URL"`

	ProviderTimeout    time.Duration `mapstructure:"PROVIDER_TIMEOUT"`
	ProviderMaxRetries int           `mapstructure:"PROVIDER_MAX_RETRIES"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)
	v.SetDefault("BED_LOW_AVAIL_THRESHOLD", 2)
	v.SetDefault("ALERT_RADIUS_MIN_KM", 1)
	v.SetDefault("ALERT_RADIUS_MAX_KM", 25)
	v.SetDefault("BLOOD_CRITICAL_RATIO", 0.3)
	v.SetDefault("PROVIDER_TIMEOUT", "5s")
	v.SetDefault("PROVIDER_MAX_RETRIES", 3)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("RATE_LIMIT_RPS")
	v.BindEnv("RATE_LIMIT_BURST")
	v.BindEnv("BED_LOW_AVAIL_THRESHOLD")
	v.BindEnv("ALERT_RADIUS_MIN_KM")
	v.BindEnv("ALERT_RADIUS_MAX_KM")
	v.BindEnv("BLOOD_CRITICAL_RATIO")
	v.BindEnv("BLOOD_MIN_THRESHOLDS")
	v.BindEnv("DIRECTORY_URL")
	v.BindEnv("NOTIFY_URL")
	v.BindEnv("IDENTITY_URL")
	v.BindEnv("PROVIDER_TIMEOUT")
	v.BindEnv("PROVIDER_MAX_RETRIES")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.BedLowAvailThreshold < 0 {
		return fmt.Errorf("BED_LOW_AVAIL_THRESHOLD must be >= 0, got %d", c.BedLowAvailThreshold)
	}
	if c.AlertRadiusMinKm < 0 || c.AlertRadiusMaxKm < c.AlertRadiusMinKm {
		return fmt.Errorf("alert radius bounds invalid: min=%v max=%v", c.AlertRadiusMinKm, c.AlertRadiusMaxKm)
	}
	if c.BloodCriticalRatio <= 0 || c.BloodCriticalRatio >= 1 {
		return fmt.Errorf("BLOOD_CRITICAL_RATIO must be in (0, 1), got %v", c.BloodCriticalRatio)
	}
	if c.ProviderMaxRetries < 0 {
		return fmt.Errorf("PROVIDER_MAX_RETRIES must be >= 0, got %d", c.ProviderMaxRetries)
	}
	if _, err := c.BloodThresholds(); err != nil {
		return err
	}
	return nil
}

// BloodThresholds returns the per-group minimum stock thresholds: built-in
// defaults overlaid with any BLOOD_MIN_THRESHOLDS overrides.
func (c *Config) BloodThresholds() (map[string]int, error) {
	out := make(map[string]int, len(defaultBloodThresholds))
	for g, n := range defaultBloodThresholds {
		out[g] = n
	}
	if c.BloodMinThresholds == "" {
		return out, nil
	}
	for _, pair := range strings.Split(c.BloodMinThresholds, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		group, val, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("BLOOD_MIN_THRESHOLDS entry %q: expected GROUP=N", pair)
		}
		group = strings.TrimSpace(group)
		if _, known := defaultBloodThresholds[group]; !known {
			return nil, fmt.Errorf("BLOOD_MIN_THRESHOLDS entry %q: unknown blood group", pair)
		}
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil || n < 0 {
			return nil, fmt.Errorf("BLOOD_MIN_THRESHOLDS entry %q: threshold must be a non-negative integer", pair)
		}
		out[group] = n
	}
	return out, nil
}
