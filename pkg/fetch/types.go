// Package fetch downloads the SDN Advanced feed with retries, conditional
// requests and a persistent manifest of what was fetched.
package fetch

import (
	"net/http"
	"time"
)

// DefaultFeedURL is where OFAC publishes the SDN Advanced XML feed.
const DefaultFeedURL = "https://www.treasury.gov/ofac/downloads/sanctions/1.0/sdn_advanced.xml"

// ProgressCallback is called during download with bytes transferred so far.
// totalBytes is -1 when the server does not announce a length.
type ProgressCallback func(bytesDownloaded int64, totalBytes int64)

// Config holds configuration for the downloader.
type Config struct {
	// DownloadDirectory receives downloaded files and manifest.json.
	DownloadDirectory string

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration

	// UserAgent is the User-Agent header sent with requests.
	UserAgent string

	// MaxRetries is the maximum number of attempts for transient errors.
	MaxRetries int

	// RetryBaseDelay is the initial delay between retries (doubles each attempt).
	RetryBaseDelay time.Duration

	// InsecureSkipVerify disables TLS certificate verification.
	InsecureSkipVerify bool

	// HTTPClient allows injection of a custom HTTP client (for testing).
	HTTPClient *http.Client
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DownloadDirectory: ".sdnexport/downloads",
		Timeout:           5 * time.Minute,
		UserAgent:         "sdnexport/1.0",
		MaxRetries:        3,
		RetryBaseDelay:    5 * time.Second,
	}
}

// Result describes a completed fetch.
type Result struct {
	URL          string    `json:"url"`
	LocalPath    string    `json:"local_path"`
	BytesWritten int64     `json:"bytes_written"`
	SHA256       string    `json:"sha256"`
	NotModified  bool      `json:"not_modified"`
	FetchedAt    time.Time `json:"fetched_at"`
}
