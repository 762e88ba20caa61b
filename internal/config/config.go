// Package config loads and validates enricher configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Airtable AirtableConfig `mapstructure:"airtable"`
	Fields   FieldsConfig   `mapstructure:"fields"`
	Crawler  CrawlerConfig  `mapstructure:"crawler"`
	Store    StoreConfig    `mapstructure:"store"`
	Report   ReportConfig   `mapstructure:"report"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// AirtableConfig identifies the record store base and tables.
type AirtableConfig struct {
	Token       string `mapstructure:"token"`
	BaseID      string `mapstructure:"base_id"`
	Table       string `mapstructure:"table"`
	SourceTable string `mapstructure:"source_table"`
	APIRoot     string `mapstructure:"api_root"`
}

// FieldsConfig names the target table's key fields. Destination attribute
// fields are fixed by the canonical slot names.
type FieldsConfig struct {
	Company string `mapstructure:"company"`
	Website string `mapstructure:"website"`
}

// CrawlerConfig governs the site crawl pipeline.
type CrawlerConfig struct {
	UserAgent       string        `mapstructure:"user_agent"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	Pause           time.Duration `mapstructure:"pause"`
	RecordPause     time.Duration `mapstructure:"record_pause"`
	MaxPagesPerSite int           `mapstructure:"max_pages_per_site"`
	RespectRobots   bool          `mapstructure:"respect_robots"`
}

// StoreConfig configures record store client retry and batching behavior.
type StoreConfig struct {
	Timeout       time.Duration `mapstructure:"timeout"`
	RetryAttempts uint          `mapstructure:"retry_attempts"`
	BackoffBase   time.Duration `mapstructure:"backoff_base"`
	ChunkSize     int           `mapstructure:"chunk_size"`
	ChunkPause    time.Duration `mapstructure:"chunk_pause"`
}

// ReportConfig sets where run reports land.
type ReportConfig struct {
	Dir string `mapstructure:"dir"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// MetricsConfig controls the optional Prometheus listener.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("ENRICHER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Credentials default to empty so Viper registers the keys; without a
	// known key AutomaticEnv never surfaces the variable during Unmarshal.
	v.SetDefault("airtable.token", "")
	v.SetDefault("airtable.base_id", "")
	v.SetDefault("airtable.table", "Startups")
	v.SetDefault("airtable.source_table", "")
	v.SetDefault("airtable.api_root", "https://api.airtable.com/v0")
	v.SetDefault("fields.company", "Company name")
	v.SetDefault("fields.website", "website")
	v.SetDefault("crawler.user_agent",
		"Mozilla/5.0 (compatible; StartupEnricher/1.0; +https://example.com/bot-info)")
	v.SetDefault("crawler.request_timeout", "20s")
	v.SetDefault("crawler.pause", "600ms")
	v.SetDefault("crawler.record_pause", "200ms")
	v.SetDefault("crawler.max_pages_per_site", 12)
	v.SetDefault("crawler.respect_robots", true)
	v.SetDefault("store.timeout", "20s")
	v.SetDefault("store.retry_attempts", 6)
	v.SetDefault("store.backoff_base", "600ms")
	v.SetDefault("store.chunk_size", 10)
	v.SetDefault("store.chunk_pause", "200ms")
	v.SetDefault("report.dir", ".")
	v.SetDefault("logging.development", true)
	v.SetDefault("metrics.addr", "")
}

// Validate enforces required credentials and reasonable limits. Failures
// here abort the run before any record is touched.
func (c Config) Validate() error {
	if c.Airtable.Token == "" {
		return fmt.Errorf("airtable.token must be set (ENRICHER_AIRTABLE_TOKEN)")
	}
	if c.Airtable.BaseID == "" {
		return fmt.Errorf("airtable.base_id must be set (ENRICHER_AIRTABLE_BASE_ID)")
	}
	if c.Airtable.Table == "" {
		return fmt.Errorf("airtable.table must be set")
	}
	if c.Fields.Company == "" {
		return fmt.Errorf("fields.company must be set")
	}
	if c.Crawler.UserAgent == "" {
		return fmt.Errorf("crawler.user_agent must be set")
	}
	if c.Crawler.MaxPagesPerSite <= 1 {
		return fmt.Errorf("crawler.max_pages_per_site must be > 1")
	}
	if c.Store.ChunkSize <= 0 {
		return fmt.Errorf("store.chunk_size must be > 0")
	}
	if c.Store.RetryAttempts == 0 {
		return fmt.Errorf("store.retry_attempts must be > 0")
	}
	return nil
}
