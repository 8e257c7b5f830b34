package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://www.treasury.gov/ofac/downloads/sanctions/1.0/sdn_advanced.xml", c.FeedURL)
	assert.Equal(t, ".sdnexport/downloads", c.DownloadDirectory)
	assert.Equal(t, "output/sdn_output.xlsx", c.OutputPath)
	assert.Equal(t, FormatXLSX, c.OutputFormat)
	assert.Equal(t, 5*time.Minute, c.HTTPTimeout)
	assert.Equal(t, 3, c.MaxRetries)
	assert.Equal(t, 5*time.Second, c.RetryBaseDelay)
	assert.False(t, c.InsecureSkipVerify)
	assert.False(t, c.StrictDocumentDates)
	assert.Equal(t, "sdn_", c.PostgresTablePrefix)
	assert.Equal(t, "us-east-1", c.S3Region)
	assert.Equal(t, "0 6 * * *", c.CronSchedule)
	assert.Equal(t, ":9090", c.HTTPAddr)
	assert.False(t, c.PostgresEnabled())
	assert.False(t, c.S3Enabled())
	assert.NoError(t, c.Validate())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SDN_OUTPUT_FORMAT", "csv")
	t.Setenv("SDN_HTTP_TIMEOUT", "30s")
	t.Setenv("SDN_STRICT_DOCUMENT_DATES", "true")
	t.Setenv("POSTGRES_DSN", "postgres://localhost/sdn")
	t.Setenv("S3_BUCKET", "exports")

	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, FormatCSV, c.OutputFormat)
	assert.Equal(t, 30*time.Second, c.HTTPTimeout)
	assert.True(t, c.StrictDocumentDates)
	assert.True(t, c.PostgresEnabled())
	assert.True(t, c.S3Enabled())
}

func TestLoadInvalidValue(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SDN_MAX_RETRIES", "many")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{OutputFormat: FormatXLSX, CronSchedule: "0 6 * * *", MaxRetries: 3}
	}

	testCases := []struct {
		name        string
		mutate      func(*Config)
		expectError string
	}{
		{"valid", func(c *Config) {}, ""},
		{"csv", func(c *Config) { c.OutputFormat = FormatCSV }, ""},
		{"unknown format", func(c *Config) { c.OutputFormat = "parquet" }, "unknown output format"},
		{"bad cron", func(c *Config) { c.CronSchedule = "every day" }, "invalid CRON_SCHEDULE"},
		{"no cron", func(c *Config) { c.CronSchedule = "" }, ""},
		{"zero retries", func(c *Config) { c.MaxRetries = 0 }, "SDN_MAX_RETRIES"},
		{"half credentials", func(c *Config) { c.S3Bucket = "b"; c.S3AccessKey = "key" }, "must be set together"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			c := valid()
			testCase.mutate(&c)
			err := c.Validate()
			if testCase.expectError == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), testCase.expectError)
		})
	}
}

func TestDerivedSettings(t *testing.T) {
	c := Config{
		DownloadDirectory:   "/var/sdn",
		HTTPTimeout:         time.Minute,
		UserAgent:           "agent",
		MaxRetries:          4,
		RetryBaseDelay:      time.Second,
		InsecureSkipVerify:  true,
		StrictDocumentDates: true,
	}

	fetchConfig := c.FetchConfig()
	assert.Equal(t, "/var/sdn", fetchConfig.DownloadDirectory)
	assert.Equal(t, time.Minute, fetchConfig.Timeout)
	assert.Equal(t, "agent", fetchConfig.UserAgent)
	assert.Equal(t, 4, fetchConfig.MaxRetries)
	assert.Equal(t, time.Second, fetchConfig.RetryBaseDelay)
	assert.True(t, fetchConfig.InsecureSkipVerify)
	assert.Nil(t, fetchConfig.HTTPClient)

	assert.True(t, c.ExtractOptions().StrictDocumentDates)
}
