package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/coolbeans/sdnexport/pkg/extract"
	"github.com/coolbeans/sdnexport/pkg/fetch"
	"github.com/coolbeans/sdnexport/pkg/metrics"
	"github.com/coolbeans/sdnexport/pkg/sdn"
	"github.com/coolbeans/sdnexport/pkg/sink"
	"github.com/coolbeans/sdnexport/pkg/table"
)

// Runner executes export runs. It is safe to call Run from one goroutine at
// a time; the scheduler serializes runs.
type Runner struct {
	options   Options
	fetcher   Fetcher
	sinks     []sink.Sink
	publisher Publisher
	recorder  *metrics.Recorder
	logger    *zap.Logger
}

// NewRunner creates a Runner. fetcher may be nil when options.InputPath is set.
func NewRunner(options Options, fetcher Fetcher, sinks []sink.Sink, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		options: options,
		fetcher: fetcher,
		sinks:   sinks,
		logger:  logger,
	}
}

// WithPublisher uploads every artifact after the sinks have written.
func (runner *Runner) WithPublisher(publisher Publisher) *Runner {
	runner.publisher = publisher
	return runner
}

// WithRecorder records run metrics.
func (runner *Runner) WithRecorder(recorder *metrics.Recorder) *Runner {
	runner.recorder = recorder
	return runner
}

// Recorder returns the metrics recorder, or nil.
func (runner *Runner) Recorder() *metrics.Recorder {
	return runner.recorder
}

// Run performs one export. The returned report is never nil; on failure its
// Error field repeats the returned error. Nothing is written to any sink
// unless the whole document parsed and extracted cleanly.
func (runner *Runner) Run(ctx context.Context) (*RunReport, error) {
	report := &RunReport{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
	}
	log := runner.logger.With(zap.String("run_id", report.RunID))
	log.Info("export run started")

	err := runner.run(ctx, report, log)
	report.FinishedAt = time.Now()

	switch {
	case err != nil:
		report.Status = StatusFailure
		report.Error = err.Error()
		log.Error("export run failed", zap.Error(err), zap.Duration("duration", report.Duration()))
	case report.Status == StatusSkipped:
		log.Info("export run skipped, feed not modified", zap.Duration("duration", report.Duration()))
	default:
		report.Status = StatusSuccess
		log.Info("export run finished",
			zap.Int("rows", report.TotalRows()),
			zap.Int("artifacts", len(report.Artifacts)),
			zap.Duration("duration", report.Duration()))
	}

	runner.recordMetrics(report, log)
	return report, err
}

func (runner *Runner) run(ctx context.Context, report *RunReport, log *zap.Logger) error {
	feedPath, err := runner.obtainFeed(ctx, report)
	if err != nil {
		return err
	}
	if report.NotModified && runner.options.SkipUnchanged {
		report.Status = StatusSkipped
		return nil
	}

	feedPath, err = runner.unpack(feedPath)
	if err != nil {
		return err
	}

	document, err := sdn.ParseFile(feedPath)
	if err != nil {
		return err
	}
	if !document.DateOfIssue.IsZero() {
		report.DateOfIssue = document.DateOfIssue.Year + "-" + document.DateOfIssue.Month + "-" + document.DateOfIssue.Day
	}

	sheets, err := extract.Run(document, runner.options.Extract)
	if err != nil {
		return err
	}
	report.RowCounts = table.RowCounts(sheets)
	log.Info("sheets extracted", zap.Any("rows", report.RowCounts), zap.String("date_of_issue", report.DateOfIssue))

	for _, currentSink := range runner.sinks {
		paths, err := currentSink.Write(ctx, sheets)
		if err != nil {
			return fmt.Errorf("%s sink: %w", currentSink.Name(), err)
		}
		report.Artifacts = append(report.Artifacts, paths...)
	}

	if runner.publisher != nil {
		for _, artifact := range report.Artifacts {
			publishedURL, err := runner.publisher.Publish(ctx, artifact)
			if err != nil {
				return err
			}
			report.PublishedURLs = append(report.PublishedURLs, publishedURL)
		}
	}

	return nil
}

func (runner *Runner) obtainFeed(ctx context.Context, report *RunReport) (string, error) {
	if runner.options.InputPath != "" {
		info, err := os.Stat(runner.options.InputPath)
		if err != nil {
			return "", fmt.Errorf("input file: %w", err)
		}
		report.Source = runner.options.InputPath
		report.LocalPath = runner.options.InputPath
		report.SourceBytes = info.Size()
		return runner.options.InputPath, nil
	}

	if runner.fetcher == nil {
		return "", errors.New("no input file and no fetcher configured")
	}

	feedURL := runner.options.FeedURL
	if feedURL == "" {
		feedURL = fetch.DefaultFeedURL
	}
	report.Source = feedURL

	result, err := runner.fetcher.Fetch(ctx, feedURL, runner.options.Progress)
	if err != nil {
		return "", fmt.Errorf("fetch feed: %w", err)
	}
	report.LocalPath = result.LocalPath
	report.SourceBytes = result.BytesWritten
	report.SHA256 = result.SHA256
	report.NotModified = result.NotModified
	return result.LocalPath, nil
}

func (runner *Runner) unpack(feedPath string) (string, error) {
	isZIP, err := fetch.IsZIP(feedPath)
	if err != nil {
		return "", err
	}
	if !isZIP {
		return feedPath, nil
	}

	extractDirectory := runner.options.ExtractDirectory
	if extractDirectory == "" {
		extractDirectory = filepath.Join(filepath.Dir(feedPath), "extracted")
	}
	return fetch.ExtractFeedXML(feedPath, extractDirectory)
}

func (runner *Runner) recordMetrics(report *RunReport, log *zap.Logger) {
	if runner.recorder == nil {
		return
	}

	switch report.Status {
	case StatusSuccess:
		runner.recorder.RecordSuccess(report.RowCounts, report.SourceBytes, report.Duration(), report.FinishedAt)
	case StatusSkipped:
		runner.recorder.RecordSkipped(report.Duration())
	default:
		runner.recorder.RecordFailure(report.Duration())
	}

	if runner.options.MetricsTextfile != "" {
		if err := runner.recorder.WriteTextfile(runner.options.MetricsTextfile); err != nil {
			log.Warn("failed to write metrics textfile", zap.Error(err))
		}
	}
}
