package fetch

import (
	"context"
	"crypto/sha256"
	"crypto/tls"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrNotModified is returned by a single attempt when the server answers 304.
var ErrNotModified = errors.New("not modified")

const defaultFileName = "sdn_advanced.xml"

// Downloader fetches feed files into a download directory and keeps a
// manifest of ETag, Last-Modified and checksum per URL.
type Downloader struct {
	config       Config
	httpClient   *http.Client
	manifest     *Manifest
	manifestPath string
	logger       *zap.Logger
}

// NewDownloader creates a Downloader with the given config.
// Initializes the download directory and loads any existing manifest.
func NewDownloader(config Config, logger *zap.Logger) (*Downloader, error) {
	if err := os.MkdirAll(config.DownloadDirectory, 0755); err != nil {
		return nil, fmt.Errorf("failed to create download directory: %w", err)
	}

	manifestPath := filepath.Join(config.DownloadDirectory, "manifest.json")
	manifest, err := LoadManifest(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load manifest: %w", err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = newHTTPClient(config)
	}

	return &Downloader{
		config:       config,
		httpClient:   httpClient,
		manifest:     manifest,
		manifestPath: manifestPath,
		logger:       logger,
	}, nil
}

func newHTTPClient(config Config) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if config.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &http.Client{
		Timeout:   config.Timeout,
		Transport: transport,
		CheckRedirect: func(request *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}
}

// Fetch downloads feedURL into the download directory. When the manifest holds
// validators for the URL and the file is still on disk, the request is
// conditional and a 304 answer returns the previous file with NotModified set.
// Transient errors (5xx, network failures) are retried with exponential backoff.
func (downloader *Downloader) Fetch(ctx context.Context, feedURL string, progressCallback ProgressCallback) (*Result, error) {
	localPath, err := downloader.LocalPath(feedURL)
	if err != nil {
		return nil, err
	}

	log := downloader.logger.With(zap.String("url", feedURL), zap.String("path", localPath))

	previous := downloader.manifest.Lookup(feedURL)
	if previous != nil {
		if info, statErr := os.Stat(previous.LocalPath); statErr != nil || info.Size() == 0 {
			previous = nil
		}
	}

	maxRetries := downloader.config.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 1
	}
	retryDelay := downloader.config.RetryBaseDelay
	if retryDelay <= 0 {
		retryDelay = 5 * time.Second
	}

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			currentDelay := retryDelay * time.Duration(1<<uint(attempt-1))
			log.Warn("retrying download", zap.Int("attempt", attempt+1), zap.Duration("delay", currentDelay), zap.Error(lastErr))
			if err := sleepContext(ctx, currentDelay); err != nil {
				return nil, err
			}
		}

		record, err := downloader.fetchAttempt(ctx, feedURL, localPath, previous, progressCallback)
		if errors.Is(err, ErrNotModified) {
			log.Info("feed not modified", zap.String("etag", previous.ETag))
			return &Result{
				URL:          feedURL,
				LocalPath:    previous.LocalPath,
				BytesWritten: previous.SizeBytes,
				SHA256:       previous.SHA256,
				NotModified:  true,
				FetchedAt:    time.Now(),
			}, nil
		}
		if err == nil {
			downloader.manifest.Put(record)
			if err := downloader.SaveManifest(); err != nil {
				return nil, err
			}
			log.Info("feed downloaded", zap.Int64("bytes", record.SizeBytes), zap.String("sha256", record.SHA256))
			return &Result{
				URL:          feedURL,
				LocalPath:    record.LocalPath,
				BytesWritten: record.SizeBytes,
				SHA256:       record.SHA256,
				FetchedAt:    record.FetchedAt,
			}, nil
		}

		lastErr = err

		if !isRetryableError(err) {
			return nil, err
		}
	}

	return nil, fmt.Errorf("failed after %d attempts: %w", maxRetries, lastErr)
}

// fetchAttempt performs a single download attempt. The body is streamed to a
// temporary file that replaces localPath only once it is complete.
func (downloader *Downloader) fetchAttempt(ctx context.Context, feedURL, localPath string, previous *Record, progressCallback ProgressCallback) (*Record, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	request.Header.Set("User-Agent", downloader.config.UserAgent)
	if previous != nil {
		if previous.ETag != "" {
			request.Header.Set("If-None-Match", previous.ETag)
		}
		if previous.LastModified != "" {
			request.Header.Set("If-Modified-Since", previous.LastModified)
		}
	}

	response, err := downloader.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", feedURL, err)
	}
	defer response.Body.Close()

	if response.StatusCode == http.StatusNotModified {
		if previous == nil {
			return nil, fmt.Errorf("HTTP 304 for unconditional request to %s", feedURL)
		}
		return nil, ErrNotModified
	}
	if response.StatusCode >= 500 {
		return nil, &retryableHTTPError{StatusCode: response.StatusCode, URL: feedURL}
	}
	if response.StatusCode >= 400 {
		return nil, fmt.Errorf("HTTP %d for %s", response.StatusCode, feedURL)
	}

	partialPath := localPath + ".part"
	outputFile, err := os.Create(partialPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file %s: %w", partialPath, err)
	}

	hasher := sha256.New()
	bytesWritten, copyErr := copyWithProgress(io.MultiWriter(outputFile, hasher), response.Body, response.ContentLength, progressCallback)
	closeErr := outputFile.Close()
	if copyErr == nil {
		copyErr = closeErr
	}
	if copyErr != nil {
		os.Remove(partialPath)
		return nil, copyErr
	}

	if err := os.Rename(partialPath, localPath); err != nil {
		os.Remove(partialPath)
		return nil, fmt.Errorf("failed to move download into place: %w", err)
	}

	return &Record{
		URL:          feedURL,
		LocalPath:    localPath,
		ETag:         response.Header.Get("ETag"),
		LastModified: response.Header.Get("Last-Modified"),
		SizeBytes:    bytesWritten,
		SHA256:       hex.EncodeToString(hasher.Sum(nil)),
		FetchedAt:    time.Now(),
	}, nil
}

func copyWithProgress(destination io.Writer, source io.Reader, totalBytes int64, progressCallback ProgressCallback) (int64, error) {
	var bytesWritten int64

	buffer := make([]byte, 32*1024)
	for {
		bytesRead, readErr := source.Read(buffer)
		if bytesRead > 0 {
			written, writeErr := destination.Write(buffer[:bytesRead])
			if writeErr != nil {
				return bytesWritten, fmt.Errorf("write error: %w", writeErr)
			}
			bytesWritten += int64(written)

			if progressCallback != nil {
				progressCallback(bytesWritten, totalBytes)
			}
		}
		if readErr != nil {
			if readErr == io.EOF {
				break
			}
			return bytesWritten, fmt.Errorf("read error: %w", readErr)
		}
	}

	return bytesWritten, nil
}

// LocalPath returns where feedURL is stored inside the download directory.
func (downloader *Downloader) LocalPath(feedURL string) (string, error) {
	parsedURL, err := url.Parse(feedURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL %s: %w", feedURL, err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return "", fmt.Errorf("unsupported URL scheme %q in %s", parsedURL.Scheme, feedURL)
	}

	fileName := path.Base(parsedURL.Path)
	if fileName == "." || fileName == "/" || fileName == "" {
		fileName = defaultFileName
	}
	return filepath.Join(downloader.config.DownloadDirectory, fileName), nil
}

// Manifest returns the underlying download manifest.
func (downloader *Downloader) Manifest() *Manifest {
	return downloader.manifest
}

// SaveManifest persists the download manifest to disk.
func (downloader *Downloader) SaveManifest() error {
	return downloader.manifest.Save(downloader.manifestPath)
}

func sleepContext(ctx context.Context, delay time.Duration) error {
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// retryableHTTPError represents an HTTP error that should trigger a retry.
type retryableHTTPError struct {
	StatusCode int
	URL        string
}

func (e *retryableHTTPError) Error() string {
	return fmt.Sprintf("HTTP %d for %s", e.StatusCode, e.URL)
}

// isRetryableError returns true if the error warrants a retry attempt.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var httpError *retryableHTTPError
	if errors.As(err, &httpError) {
		return true
	}

	var networkError net.Error
	if errors.As(err, &networkError) && networkError.Timeout() {
		return true
	}

	errMsg := err.Error()
	retryablePatterns := []string{
		"connection reset",
		"connection refused",
		"timeout",
		"EOF",
		"broken pipe",
		"temporary failure",
	}
	for _, pattern := range retryablePatterns {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}
	return false
}
