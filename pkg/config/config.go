// Package config loads sdnexport settings from the environment (and an
// optional .env file).
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron/v3"

	"github.com/coolbeans/sdnexport/pkg/extract"
	"github.com/coolbeans/sdnexport/pkg/fetch"
)

// Output formats accepted by SDN_OUTPUT_FORMAT.
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

// Config holds every tunable of the exporter.
type Config struct {
	FeedURL             string        `envconfig:"SDN_FEED_URL" default:"https://www.treasury.gov/ofac/downloads/sanctions/1.0/sdn_advanced.xml"`
	DownloadDirectory   string        `envconfig:"SDN_DOWNLOAD_DIR" default:".sdnexport/downloads"`
	OutputPath          string        `envconfig:"SDN_OUTPUT_PATH" default:"output/sdn_output.xlsx"`
	OutputFormat        string        `envconfig:"SDN_OUTPUT_FORMAT" default:"xlsx"`
	HTTPTimeout         time.Duration `envconfig:"SDN_HTTP_TIMEOUT" default:"5m"`
	MaxRetries          int           `envconfig:"SDN_MAX_RETRIES" default:"3"`
	RetryBaseDelay      time.Duration `envconfig:"SDN_RETRY_BASE_DELAY" default:"5s"`
	UserAgent           string        `envconfig:"SDN_USER_AGENT" default:"sdnexport/1.0"`
	InsecureSkipVerify  bool          `envconfig:"SDN_INSECURE_SKIP_VERIFY" default:"false"`
	StrictDocumentDates bool          `envconfig:"SDN_STRICT_DOCUMENT_DATES" default:"false"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	// Postgres sink, disabled when PostgresDSN is empty.
	PostgresDSN         string `envconfig:"POSTGRES_DSN"`
	PostgresTablePrefix string `envconfig:"POSTGRES_TABLE_PREFIX" default:"sdn_"`

	// S3 publishing, disabled when S3Bucket is empty.
	S3Bucket    string `envconfig:"S3_BUCKET"`
	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey string `envconfig:"S3_SECRET_KEY"`
	S3Prefix    string `envconfig:"S3_PREFIX" default:"sdn/"`

	CronSchedule    string `envconfig:"CRON_SCHEDULE" default:"0 6 * * *"`
	HTTPAddr        string `envconfig:"HTTP_ADDR" default:":9090"`
	MetricsTextfile string `envconfig:"METRICS_TEXTFILE"`
}

// Load reads a .env file if present, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return &c, nil
}

// Validate rejects settings that would only fail later, mid-run.
func (c *Config) Validate() error {
	switch c.OutputFormat {
	case FormatXLSX, FormatCSV:
	default:
		return fmt.Errorf("unknown output format %q (available: xlsx, csv)", c.OutputFormat)
	}

	if c.CronSchedule != "" {
		if _, err := cron.ParseStandard(c.CronSchedule); err != nil {
			return fmt.Errorf("invalid CRON_SCHEDULE %q: %w", c.CronSchedule, err)
		}
	}

	if c.MaxRetries < 1 {
		return fmt.Errorf("SDN_MAX_RETRIES must be at least 1, got %d", c.MaxRetries)
	}

	if c.S3Bucket != "" && (c.S3AccessKey == "") != (c.S3SecretKey == "") {
		return fmt.Errorf("S3_ACCESS_KEY and S3_SECRET_KEY must be set together")
	}

	return nil
}

// PostgresEnabled reports whether the Postgres sink is configured.
func (c *Config) PostgresEnabled() bool {
	return c.PostgresDSN != ""
}

// S3Enabled reports whether artifacts are published to S3.
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != ""
}

// FetchConfig returns the downloader settings.
func (c *Config) FetchConfig() fetch.Config {
	return fetch.Config{
		DownloadDirectory:  c.DownloadDirectory,
		Timeout:            c.HTTPTimeout,
		UserAgent:          c.UserAgent,
		MaxRetries:         c.MaxRetries,
		RetryBaseDelay:     c.RetryBaseDelay,
		InsecureSkipVerify: c.InsecureSkipVerify,
	}
}

// ExtractOptions returns the extraction settings.
func (c *Config) ExtractOptions() extract.Options {
	return extract.Options{StrictDocumentDates: c.StrictDocumentDates}
}
