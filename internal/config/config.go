package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Simplici0/councilroi/internal/pricing"
	"github.com/Simplici0/councilroi/internal/roi"
)

const (
	defaultDBPath             = "./dev.db"
	defaultPort               = "8080"
	defaultAppEnv             = "development"
	defaultLogLevel           = "info"
	defaultLogFormat          = "json"
	defaultRateLimitPerMinute = 60
)

// PriceRow is one tier of a price list supplied in the config file.
type PriceRow struct {
	Tier            string  `mapstructure:"tier"`
	BasePriceAnnual float64 `mapstructure:"base_price_annual"`
	CommunityVoting float64 `mapstructure:"community_voting"`
	GrantMapping    float64 `mapstructure:"grant_mapping"`
	BundleDiscount  float64 `mapstructure:"bundle_discount"`
}

// Config holds application configuration sourced from the environment, an optional
// .env file and an optional config file.
type Config struct {
	Port               string  `mapstructure:"port"`
	DBPath             string  `mapstructure:"db_path"`
	AppEnv             string  `mapstructure:"app_env"`
	LogLevel           string  `mapstructure:"log_level"`
	LogFormat          string  `mapstructure:"log_format"`
	RedisAddr          string  `mapstructure:"redis_addr"`
	RateLimitPerMinute int     `mapstructure:"rate_limit_per_minute"`
	DefaultHorizon     int     `mapstructure:"default_horizon_years"`
	DefaultDiscount    float64 `mapstructure:"default_discount_rate"`

	Pricing []PriceRow `mapstructure:"pricing"`
}

// IsDev reports whether the service runs in development, where the database is
// migrated and seeded on startup.
func (c Config) IsDev() bool {
	return strings.EqualFold(c.AppEnv, defaultAppEnv)
}

// Projection returns the configured default horizon and discount rate.
func (c Config) Projection() roi.Projection {
	return roi.Projection{HorizonYears: c.DefaultHorizon, DiscountRate: c.DefaultDiscount}
}

// Catalog builds the price list. Without a pricing section the published list is used.
func (c Config) Catalog() (*pricing.Catalog, error) {
	if len(c.Pricing) == 0 {
		return pricing.DefaultCatalog(), nil
	}

	rows := make([]pricing.Row, 0, len(c.Pricing))
	for _, p := range c.Pricing {
		tier, err := pricing.ParseTier(p.Tier)
		if err != nil {
			return nil, fmt.Errorf("pricing: %w", err)
		}
		rows = append(rows, pricing.Row{
			Tier:            tier,
			BasePriceAnnual: p.BasePriceAnnual,
			AddOns: map[pricing.AddOn]float64{
				pricing.CommunityVoting: p.CommunityVoting,
				pricing.GrantMapping:    p.GrantMapping,
			},
			BundleDiscount: p.BundleDiscount,
		})
	}

	catalog, err := pricing.NewCatalog(rows...)
	if err != nil {
		return nil, fmt.Errorf("pricing: %w", err)
	}
	return catalog, nil
}

// Load reads .env from the working directory (if present), then the environment
// and the file named by CONFIG_FILE.
func Load() (Config, error) {
	return load(".env")
}

func load(dotenvPath string) (Config, error) {
	// Existing environment variables win over the .env file.
	if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", dotenvPath, err)
	}

	v := viper.New()
	v.SetDefault("port", defaultPort)
	v.SetDefault("db_path", defaultDBPath)
	v.SetDefault("app_env", defaultAppEnv)
	v.SetDefault("log_level", defaultLogLevel)
	v.SetDefault("log_format", defaultLogFormat)
	v.SetDefault("redis_addr", "")
	v.SetDefault("rate_limit_per_minute", defaultRateLimitPerMinute)
	v.SetDefault("default_horizon_years", roi.DefaultHorizonYears)
	v.SetDefault("default_discount_rate", roi.DefaultDiscountRate)
	v.AutomaticEnv()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if strings.TrimSpace(c.Port) == "" {
		return errors.New("PORT must not be empty")
	}
	if strings.TrimSpace(c.DBPath) == "" {
		return errors.New("DB_PATH must not be empty")
	}
	if c.RateLimitPerMinute < 0 {
		return errors.New("RATE_LIMIT_PER_MINUTE must be 0 or more")
	}
	if errs := roi.NewValidator().ValidateProjection(c.Projection()); len(errs) > 0 {
		return fmt.Errorf("default projection: %w", errs)
	}
	if _, err := c.Catalog(); err != nil {
		return err
	}
	return nil
}
