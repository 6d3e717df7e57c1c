package cron

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/robfig/cron/v3"
)

// shutdownGrace bounds how long Shutdown waits for running jobs.
const shutdownGrace = 30 * time.Second

// Scheduler runs recurring jobs on cron specs.
type Scheduler struct {
	inner *cron.Cron
}

// NewScheduler returns a stopped scheduler that logs through the context
// logger.
func NewScheduler(ctx context.Context) *Scheduler {
	l := log.FromContext(ctx).WithPrefix("cron")
	return &Scheduler{
		inner: cron.New(cron.WithLogger(cronLogger{l})),
	}
}

// Start begins running scheduled jobs.
func (s *Scheduler) Start() {
	s.inner.Start()
}

// AddFunc schedules fn to run on the given cron spec and returns the job id.
func (s *Scheduler) AddFunc(spec string, fn func()) (int, error) {
	id, err := s.inner.AddFunc(spec, fn)
	return int(id), err
}

// Remove drops a job from the schedule.
func (s *Scheduler) Remove(id int) {
	s.inner.Remove(cron.EntryID(id))
}

// Shutdown stops the scheduler and waits up to shutdownGrace for running
// jobs to finish.
func (s *Scheduler) Shutdown() {
	stopped := s.inner.Stop()
	ctx, cancel := context.WithTimeout(stopped, shutdownGrace)
	defer cancel()
	<-ctx.Done()
}

// cronLogger adapts log.Logger to the cron.Logger interface. Routine chatter
// from the library lands at debug level.
type cronLogger struct {
	logger *log.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, "err", err)...)
}
