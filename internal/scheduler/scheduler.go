package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"StockAnalyzer/internal/pipeline"
)

// Runner executes one analysis.
type Runner interface {
	Run(ctx context.Context) (*pipeline.Result, error)
}

// Scheduler re-runs the analysis on a cron expression, one run at a time.
type Scheduler struct {
	Cron   *cron.Cron
	Runner Runner
	Ctx    context.Context

	logger zerolog.Logger
}

// NewScheduler creates a new Scheduler. Expressions use six fields (with seconds).
func NewScheduler(ctx context.Context, runner Runner) *Scheduler {
	logger := log.With().Str("component", "scheduler").Logger()
	return &Scheduler{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.Recover(cronLogger{logger}), cron.SkipIfStillRunning(cronLogger{logger})),
		),
		Runner: runner,
		Ctx:    ctx,
		logger: logger,
	}
}

// Register adds the analysis task on expr.
func (s *Scheduler) Register(expr string) error {
	if _, err := s.Cron.AddFunc(expr, s.RunNow); err != nil {
		return fmt.Errorf("register analysis task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.logger.Info().Msg("scheduler started")
}

// Stop stops the scheduler and waits for a running analysis to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.logger.Info().Msg("scheduler stopped")
}

// RunNow executes the analysis immediately. Failures are logged; the next
// tick still fires.
func (s *Scheduler) RunNow() {
	if s.Ctx.Err() != nil {
		return
	}
	s.logger.Info().Msg("running scheduled analysis")
	res, err := s.Runner.Run(s.Ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("scheduled analysis failed")
		return
	}
	s.logger.Info().Int("patterns", len(res.Patterns)).Str("chart", res.ChartPath).Msg("scheduled analysis done")
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
