package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/coolbeans/sdnexport/pkg/config"
	"github.com/coolbeans/sdnexport/pkg/fetch"
	"github.com/coolbeans/sdnexport/pkg/logging"
	"github.com/coolbeans/sdnexport/pkg/metrics"
	"github.com/coolbeans/sdnexport/pkg/pipeline"
	"github.com/coolbeans/sdnexport/pkg/publish"
	"github.com/coolbeans/sdnexport/pkg/reference"
	"github.com/coolbeans/sdnexport/pkg/schedule"
	"github.com/coolbeans/sdnexport/pkg/sdn"
	"github.com/coolbeans/sdnexport/pkg/sink"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "sdnexport",
		Short: "OFAC SDN Advanced feed exporter",
		Long: `sdnexport converts the OFAC SDN Advanced XML feed into flat tables.

It produces five sheets:
  - FEATURE            features of each party (titles, birthdates, gender, ...)
  - ID                 identity documents with issue and expiration dates
  - ADDRESS            addresses, one row per script
  - SANCTIONS_ENTRIES  sanctions programs and measures
  - NAME               rendered names and aliases

Settings come from the environment (and a .env file); flags override them.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "Log format (json, console)")

	rootCmd.AddCommand(fetchCmd())
	rootCmd.AddCommand(convertCmd())
	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(inspectCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadEnvironment reads the configuration, applies the global flags and
// builds the logger.
func loadEnvironment(cmd *cobra.Command) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}
	if format, _ := cmd.Flags().GetString("log-format"); format != "" {
		cfg.LogFormat = format
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func fetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download the SDN Advanced feed",
		Long: `Download the feed into the download directory. Repeated fetches send
If-None-Match / If-Modified-Since and keep the previous file when the
server reports no change.

Example:
  sdnexport fetch
  sdnexport fetch --url https://example.com/sdn_advanced.xml --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadEnvironment(cmd)
			if err != nil {
				return err
			}
			defer logger.Sync()

			feedURL, _ := cmd.Flags().GetString("url")
			downloadDir, _ := cmd.Flags().GetString("download-dir")
			outputFormat, _ := cmd.Flags().GetString("format")
			showProgress, _ := cmd.Flags().GetBool("progress")

			if feedURL != "" {
				cfg.FeedURL = feedURL
			}
			if downloadDir != "" {
				cfg.DownloadDirectory = downloadDir
			}

			downloader, err := fetch.NewDownloader(cfg.FetchConfig(), logger)
			if err != nil {
				return err
			}

			var progress fetch.ProgressCallback
			if showProgress {
				progress = pipeline.PrintDownloadProgress
			}

			result, err := downloader.Fetch(cmd.Context(), cfg.FeedURL, progress)
			if showProgress {
				fmt.Println()
			}
			if err != nil {
				return err
			}

			if outputFormat == "json" {
				data, err := json.MarshalIndent(result, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				return nil
			}

			status := "downloaded"
			if result.NotModified {
				status = "not modified"
			}
			fmt.Printf("%s: %s (%s)\n", status, result.LocalPath, pipeline.FormatBytes(result.BytesWritten))
			fmt.Printf("  sha256: %s\n", result.SHA256)
			return nil
		},
	}

	cmd.Flags().String("url", "", "Feed URL (default from SDN_FEED_URL)")
	cmd.Flags().String("download-dir", "", "Download directory (default from SDN_DOWNLOAD_DIR)")
	cmd.Flags().StringP("format", "f", "text", "Output format (text, json)")
	cmd.Flags().Bool("progress", false, "Show a progress bar")

	return cmd
}

func convertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a local SDN Advanced file",
		Long: `Convert a local feed file (XML, or a ZIP holding the XML) into the
five sheets and write them to the configured sinks.

Example:
  sdnexport convert --input sdn_advanced.xml
  sdnexport convert --input sdn_advanced.xml --output out/sdn.xlsx
  sdnexport convert --input sdn_advanced.zip --format csv --output out/sdn.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, _ := cmd.Flags().GetString("input")
			if input == "" {
				return fmt.Errorf("--input flag is required")
			}
			return runExport(cmd, input)
		},
	}

	cmd.Flags().StringP("input", "i", "", "Input feed file")
	addExportFlags(cmd)

	return cmd
}

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fetch the feed and export it",
		Long: `Fetch the feed, convert it and write every configured sink. When
S3_BUCKET is set the artifacts are uploaded afterwards.

Example:
  sdnexport run
  sdnexport run --skip-unchanged --report-format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, "")
		},
	}

	cmd.Flags().String("url", "", "Feed URL (default from SDN_FEED_URL)")
	cmd.Flags().Bool("skip-unchanged", false, "Write nothing when the feed is not modified")
	cmd.Flags().Bool("progress", false, "Show a progress bar")
	addExportFlags(cmd)

	return cmd
}

func addExportFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", "", "Output path (default from SDN_OUTPUT_PATH)")
	cmd.Flags().StringP("format", "f", "", "Output format (xlsx, csv)")
	cmd.Flags().Bool("strict-dates", false, "Take document dates only from issue/expiration tagged events")
	cmd.Flags().String("report-format", "text", "Report format (text, json)")
}

// runExport drives convert (inputPath set) and run (inputPath empty).
func runExport(cmd *cobra.Command, inputPath string) error {
	cfg, logger, err := loadEnvironment(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	applyExportFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	options := exportOptions(cfg)
	options.InputPath = inputPath
	if cmd.Flags().Lookup("skip-unchanged") != nil {
		options.SkipUnchanged, _ = cmd.Flags().GetBool("skip-unchanged")
	}
	if showProgress, _ := cmd.Flags().GetBool("progress"); showProgress {
		options.Progress = pipeline.PrintDownloadProgress
	}

	runner, cleanup, err := buildRunner(cmd.Context(), cfg, options, inputPath == "", logger)
	if err != nil {
		return err
	}
	defer cleanup()

	report, runErr := runner.Run(cmd.Context())
	if options.Progress != nil {
		fmt.Println()
	}

	reportFormat, _ := cmd.Flags().GetString("report-format")
	if reportFormat == "json" {
		fmt.Println(pipeline.FormatRunReportJSON(report))
	} else {
		fmt.Print(pipeline.FormatRunReport(report))
	}
	return runErr
}

func applyExportFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Lookup("url") != nil {
		if feedURL, _ := cmd.Flags().GetString("url"); feedURL != "" {
			cfg.FeedURL = feedURL
		}
	}
	if output, _ := cmd.Flags().GetString("output"); output != "" {
		cfg.OutputPath = output
	}
	if format, _ := cmd.Flags().GetString("format"); format != "" {
		cfg.OutputFormat = format
	}
	if strictDates, _ := cmd.Flags().GetBool("strict-dates"); strictDates {
		cfg.StrictDocumentDates = true
	}
}

func exportOptions(cfg *config.Config) pipeline.Options {
	return pipeline.Options{
		FeedURL:         cfg.FeedURL,
		MetricsTextfile: cfg.MetricsTextfile,
		Extract:         cfg.ExtractOptions(),
	}
}

// buildRunner wires the downloader, sinks, publisher and metrics recorder
// described by cfg. The returned cleanup closes the database connection.
func buildRunner(ctx context.Context, cfg *config.Config, options pipeline.Options, withFetcher bool, logger *zap.Logger) (*pipeline.Runner, func(), error) {
	cleanup := func() {}

	var fetcher pipeline.Fetcher
	if withFetcher {
		downloader, err := fetch.NewDownloader(cfg.FetchConfig(), logger.Named("fetch"))
		if err != nil {
			return nil, cleanup, err
		}
		fetcher = downloader
	}

	sinks := []sink.Sink{fileSink(cfg, logger.Named("sink"))}

	if cfg.PostgresEnabled() {
		db, err := sink.OpenPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, cleanup, err
		}
		cleanup = func() { db.Close() }
		sinks = append(sinks, sink.NewPostgresSink(db, cfg.PostgresTablePrefix, logger.Named("sink")))
	}

	runner := pipeline.NewRunner(options, fetcher, sinks, logger.Named("pipeline")).
		WithRecorder(metrics.NewRecorder())

	if cfg.S3Enabled() {
		publisher, err := publish.NewS3Publisher(ctx, publish.S3Options{
			Bucket:    cfg.S3Bucket,
			Prefix:    cfg.S3Prefix,
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		}, logger.Named("publish"))
		if err != nil {
			cleanup()
			return nil, func() {}, err
		}
		runner.WithPublisher(publisher)
	}

	return runner, cleanup, nil
}

// fileSink maps the output path to a workbook, or for CSV to
// <dir>/<name>_<SHEET>.csv files.
func fileSink(cfg *config.Config, logger *zap.Logger) sink.Sink {
	if cfg.OutputFormat == config.FormatCSV {
		baseName := filepath.Base(cfg.OutputPath)
		prefix := strings.TrimSuffix(baseName, filepath.Ext(baseName)) + "_"
		return sink.NewCSVSink(filepath.Dir(cfg.OutputPath), prefix, logger)
	}
	return sink.NewXLSXSink(cfg.OutputPath, logger)
}

func inspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Summarize a local SDN Advanced file",
		Long: `Parse a feed file and print its publication date, entity counts and
reference table sizes. Structural problems are listed after the summary.

Example:
  sdnexport inspect --input sdn_advanced.xml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, _ := cmd.Flags().GetString("input")
			if input == "" {
				return fmt.Errorf("--input flag is required")
			}

			document, err := sdn.ParseFile(input)
			if document == nil {
				return err
			}

			fmt.Print(pipeline.FormatDocumentSummary(document, reference.Load(document)))
			if err != nil {
				fmt.Println("\nStructural problems")
				fmt.Println(strings.Repeat("─", 50))
				for _, line := range strings.Split(err.Error(), "\n") {
					fmt.Printf("  %s\n", line)
				}
				return errors.New("document failed validation")
			}
			return nil
		},
	}

	cmd.Flags().StringP("input", "i", "", "Input feed file")

	return cmd
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run exports on a schedule and serve the control API",
		Long: `Run the export on CRON_SCHEDULE and serve:
  GET  /healthz       liveness and next scheduled run
  GET  /metrics       Prometheus metrics
  GET  /runs/latest   report of the last run
  POST /runs          start a run now

Example:
  sdnexport serve --addr :9090 --schedule "0 6 * * *" --run-now`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadEnvironment(cmd)
			if err != nil {
				return err
			}
			defer logger.Sync()

			if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
				cfg.HTTPAddr = addr
			}
			if cronSchedule, _ := cmd.Flags().GetString("schedule"); cronSchedule != "" {
				cfg.CronSchedule = cronSchedule
			}
			runNow, _ := cmd.Flags().GetBool("run-now")

			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			options := exportOptions(cfg)
			options.SkipUnchanged = true
			runner, cleanup, err := buildRunner(ctx, cfg, options, true, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			service, err := schedule.NewService(runner, cfg.CronSchedule, runner.Recorder(), logger.Named("schedule"))
			if err != nil {
				return err
			}
			gin.SetMode(gin.ReleaseMode)
			service.Start()
			if runNow {
				if err := service.TriggerAsync(); err != nil {
					logger.Warn("initial run not started", zap.Error(err))
				}
			}

			server := &http.Server{
				Addr:              cfg.HTTPAddr,
				Handler:           service.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			serverErr := make(chan error, 1)
			go func() {
				logger.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
				close(serverErr)
			}()

			select {
			case <-ctx.Done():
				logger.Info("shutting down")
			case err := <-serverErr:
				if err != nil {
					service.Stop(context.Background())
					return fmt.Errorf("http server: %w", err)
				}
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				logger.Warn("http server shutdown", zap.Error(err))
			}
			return service.Stop(shutdownCtx)
		},
	}

	cmd.Flags().String("addr", "", "Listen address (default from HTTP_ADDR)")
	cmd.Flags().String("schedule", "", "Cron schedule (default from CRON_SCHEDULE)")
	cmd.Flags().Bool("run-now", false, "Start a run immediately")

	return cmd
}
