// Package scheduler runs the digest for the previous week on a cron schedule.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	cronlib "github.com/robfig/cron/v3"

	"notiondigest/internal/logger"
	"notiondigest/internal/week"
)

// ErrEmptySchedule is returned when no cron expression is configured.
var ErrEmptySchedule = errors.New("schedule.cron is empty")

// Job generates the digest for a week.
type Job func(ctx context.Context, week string) error

// Scheduler triggers Job for the week before each firing.
type Scheduler struct {
	schedule cronlib.Schedule
	job      Job
	log      *logger.Logger
	now      func() time.Time
	location *time.Location
	expr     string
}

// New parses expr as a five-field cron expression or a descriptor such as "@weekly".
func New(expr string, job Job, log *logger.Logger) (*Scheduler, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, ErrEmptySchedule
	}

	parser := cronlib.NewParser(cronlib.Minute | cronlib.Hour | cronlib.Dom | cronlib.Month | cronlib.Dow | cronlib.Descriptor)

	sched, err := parser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}

	return &Scheduler{
		schedule: sched,
		job:      job,
		log:      log.With("component", "scheduler"),
		now:      time.Now,
		location: time.Local,
		expr:     expr,
	}, nil
}

// Next returns the first firing after t.
func (s *Scheduler) Next(t time.Time) time.Time {
	return s.schedule.Next(t.In(s.location))
}

// RunOnce runs the job for the week before now.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	wk := week.Previous(s.now())
	s.log.Info("Running scheduled digest", "week", wk)

	if err := s.job(ctx, wk); err != nil {
		s.log.Error("Scheduled digest failed", "week", wk, "error", err)

		return err
	}

	return nil
}

// Start runs the job on every firing until ctx is cancelled. Job errors are logged
// and do not stop the schedule. Start waits for a running job before returning.
func (s *Scheduler) Start(ctx context.Context) error {
	c := cronlib.New(
		cronlib.WithLocation(s.location),
		cronlib.WithLogger(cronLogger{log: s.log}),
		cronlib.WithChain(cronlib.SkipIfStillRunning(cronLogger{log: s.log})),
	)

	c.Schedule(s.schedule, cronlib.FuncJob(func() {
		_ = s.RunOnce(ctx)
	}))

	s.log.Info("Scheduler started", "cron", s.expr, "next", s.Next(s.now()).Format(time.RFC3339))
	c.Start()

	<-ctx.Done()

	<-c.Stop().Done()
	s.log.Info("Scheduler stopped")

	return nil
}

// cronLogger adapts the logger to cron's logging interface.
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error(msg, append(keysAndValues, "error", err)...)
}
