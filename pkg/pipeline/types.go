// Package pipeline runs one export end to end: obtain the feed, parse it,
// extract the sheets, write them to every sink and publish the artifacts.
package pipeline

import (
	"context"
	"time"

	"github.com/coolbeans/sdnexport/pkg/extract"
	"github.com/coolbeans/sdnexport/pkg/fetch"
)

// Fetcher retrieves the feed into a local file.
type Fetcher interface {
	Fetch(ctx context.Context, feedURL string, progressCallback fetch.ProgressCallback) (*fetch.Result, error)
}

// Publisher uploads a local artifact and returns where it can be found.
type Publisher interface {
	Publish(ctx context.Context, localPath string) (string, error)
}

// Options controls a run.
type Options struct {
	// FeedURL is fetched when InputPath is empty.
	FeedURL string

	// InputPath is a local feed file (XML or zipped XML) to convert instead of fetching.
	InputPath string

	// ExtractDirectory receives the XML pulled out of a zipped feed. Defaults
	// to an "extracted" directory next to the archive.
	ExtractDirectory string

	// SkipUnchanged ends the run without writing when the server reports the
	// feed as not modified.
	SkipUnchanged bool

	// MetricsTextfile, when set, receives the metrics after every run.
	MetricsTextfile string

	Extract  extract.Options
	Progress fetch.ProgressCallback
}

// Run statuses.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
	StatusSkipped = "skipped"
)

// RunReport summarizes one run.
type RunReport struct {
	RunID         string         `json:"run_id"`
	Status        string         `json:"status"`
	Source        string         `json:"source"`
	LocalPath     string         `json:"local_path,omitempty"`
	SourceBytes   int64          `json:"source_bytes"`
	SHA256        string         `json:"sha256,omitempty"`
	NotModified   bool           `json:"not_modified"`
	DateOfIssue   string         `json:"date_of_issue,omitempty"`
	RowCounts     map[string]int `json:"row_counts,omitempty"`
	Artifacts     []string       `json:"artifacts,omitempty"`
	PublishedURLs []string       `json:"published_urls,omitempty"`
	StartedAt     time.Time      `json:"started_at"`
	FinishedAt    time.Time      `json:"finished_at"`
	Error         string         `json:"error,omitempty"`
}

// Duration returns the wall time of the run.
func (report *RunReport) Duration() time.Duration {
	return report.FinishedAt.Sub(report.StartedAt)
}

// TotalRows sums the row counts of every sheet.
func (report *RunReport) TotalRows() int {
	total := 0
	for _, rows := range report.RowCounts {
		total += rows
	}
	return total
}
