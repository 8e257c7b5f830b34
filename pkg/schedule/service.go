// Package schedule runs exports on a cron schedule and exposes an HTTP
// control surface for health, metrics and on-demand runs.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/coolbeans/sdnexport/pkg/metrics"
	"github.com/coolbeans/sdnexport/pkg/pipeline"
)

// ErrRunInProgress is returned when a run is requested while another is active.
var ErrRunInProgress = errors.New("an export run is already in progress")

// Runner performs one export.
type Runner interface {
	Run(ctx context.Context) (*pipeline.RunReport, error)
}

// Service owns the cron scheduler and remembers the latest report. At most one
// run is active at any time; overlapping requests are refused.
type Service struct {
	runner   Runner
	recorder *metrics.Recorder
	schedule string
	cron     *cron.Cron
	logger   *zap.Logger

	baseContext context.Context
	cancel      context.CancelFunc
	background  sync.WaitGroup

	mutex   sync.Mutex
	running bool
	latest  *pipeline.RunReport
}

// NewService validates schedule (standard five-field cron syntax) and prepares
// the scheduler. An empty schedule disables timed runs.
func NewService(runner Runner, schedule string, recorder *metrics.Recorder, logger *zap.Logger) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if recorder == nil {
		recorder = metrics.NewRecorder()
	}

	service := &Service{
		runner:   runner,
		recorder: recorder,
		schedule: schedule,
		cron:     cron.New(),
		logger:   logger,
	}
	service.baseContext, service.cancel = context.WithCancel(context.Background())

	if schedule != "" {
		if _, err := service.cron.AddFunc(schedule, service.scheduledRun); err != nil {
			return nil, fmt.Errorf("invalid schedule %q: %w", schedule, err)
		}
	}
	return service, nil
}

func (s *Service) scheduledRun() {
	if _, err := s.Trigger(s.baseContext); errors.Is(err, ErrRunInProgress) {
		s.logger.Warn("scheduled run skipped", zap.Error(err))
	}
}

// Start begins firing scheduled runs.
func (s *Service) Start() {
	s.cron.Start()
	if next, ok := s.NextRun(); ok {
		s.logger.Info("scheduler started", zap.String("schedule", s.schedule), zap.Time("next_run", next))
	}
}

// Stop halts the scheduler and waits for active runs. When ctx expires first
// the active run is canceled and ctx's error returned.
func (s *Service) Stop(ctx context.Context) error {
	cronDone := s.cron.Stop()

	done := make(chan struct{})
	go func() {
		<-cronDone.Done()
		s.background.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.cancel()
		return nil
	case <-ctx.Done():
		s.cancel()
		return ctx.Err()
	}
}

// NextRun returns the next scheduled time once the scheduler has started.
func (s *Service) NextRun() (time.Time, bool) {
	entries := s.cron.Entries()
	if len(entries) == 0 || entries[0].Next.IsZero() {
		return time.Time{}, false
	}
	return entries[0].Next, true
}

// Trigger runs an export now and waits for it.
func (s *Service) Trigger(ctx context.Context) (*pipeline.RunReport, error) {
	if !s.begin() {
		return nil, ErrRunInProgress
	}
	return s.execute(ctx)
}

// TriggerAsync starts an export in the background.
func (s *Service) TriggerAsync() error {
	if !s.begin() {
		return ErrRunInProgress
	}

	s.background.Add(1)
	go func() {
		defer s.background.Done()
		s.execute(s.baseContext)
	}()
	return nil
}

// Latest returns the report of the most recent completed run, or nil.
func (s *Service) Latest() *pipeline.RunReport {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.latest
}

// Running reports whether a run is active.
func (s *Service) Running() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.running
}

func (s *Service) begin() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.running {
		return false
	}
	s.running = true
	return true
}

func (s *Service) execute(ctx context.Context) (*pipeline.RunReport, error) {
	report, err := s.runner.Run(ctx)

	s.mutex.Lock()
	s.running = false
	if report != nil {
		s.latest = report
	}
	s.mutex.Unlock()

	return report, err
}

// Handler returns the HTTP routes:
//
//	GET  /healthz
//	GET  /metrics
//	GET  /runs/latest
//	POST /runs
func (s *Service) Handler() http.Handler {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(s.logger))

	router.GET("/healthz", s.handleHealth)
	router.GET("/metrics", gin.WrapH(s.recorder.Handler()))
	router.GET("/runs/latest", s.handleLatest)
	router.POST("/runs", s.handleTrigger)

	return router
}

func (s *Service) handleHealth(c *gin.Context) {
	body := gin.H{"status": "ok", "running": s.Running()}
	if next, ok := s.NextRun(); ok {
		body["next_run"] = next
	}
	c.JSON(http.StatusOK, body)
}

func (s *Service) handleLatest(c *gin.Context) {
	report := s.Latest()
	if report == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no run has completed yet"})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Service) handleTrigger(c *gin.Context) {
	if err := s.TriggerAsync(); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "started"})
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startedAt := time.Now()
		c.Next()
		logger.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(startedAt)))
	}
}
