// Package retention runs the scheduled purge of old activity log entries.
package retention

import (
	"context"
	"fmt"
	"time"

	"bondvoyage/pkg/logger"

	"github.com/robfig/cron/v3"
)

type Purger interface {
	Purge(ctx context.Context, now time.Time) (int64, error)
}

// Observer is satisfied by *metrics.Metrics.
type Observer interface {
	RetentionRun(deleted int64, err error)
}

type Job struct {
	purger   Purger
	observer Observer
	schedule cron.Schedule
	spec     string
	timeout  time.Duration
	log      *logger.Logger
	now      func() time.Time
}

// NewJob parses spec as a standard five-field cron expression.
func NewJob(purger Purger, observer Observer, spec string, timeout time.Duration, log *logger.Logger) (*Job, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid retention schedule %q: %w", spec, err)
	}
	return &Job{
		purger:   purger,
		observer: observer,
		schedule: schedule,
		spec:     spec,
		timeout:  timeout,
		log:      log,
		now:      time.Now,
	}, nil
}

// Run schedules the purge and blocks until ctx is cancelled, then waits for a
// running purge to finish.
func (j *Job) Run(ctx context.Context) error {
	cronLog := cronLogger{log: j.log}
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithLogger(cronLog),
		cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
	)
	c.Schedule(j.schedule, cron.FuncJob(func() { j.RunOnce(ctx) }))

	c.Start()
	j.log.Info("Retention job scheduled", "schedule", j.spec, "next_run", j.schedule.Next(j.now().UTC()))

	<-ctx.Done()
	<-c.Stop().Done()
	j.log.Info("Retention job stopped")
	return nil
}

// RunOnce purges entries older than the retention window relative to now.
func (j *Job) RunOnce(ctx context.Context) (int64, error) {
	if ctx.Err() != nil {
		return 0, ctx.Err()
	}
	runCtx := ctx
	if j.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	deleted, err := j.purger.Purge(runCtx, j.now().UTC())
	if j.observer != nil {
		j.observer.RetentionRun(deleted, err)
	}
	if err != nil {
		j.log.Error("Retention run failed", "error", err)
		return 0, err
	}
	return deleted, nil
}

// cronLogger adapts the service logger to cron.Logger.
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error(msg, append(keysAndValues, "error", err)...)
}
