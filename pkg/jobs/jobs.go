// Package jobs holds the recurring maintenance jobs the scheduler runs.
package jobs

import (
	"context"
	"sync"
)

// Runner describes one recurring job. Spec reads the job's cron schedule
// from config; Func builds the closure the scheduler invokes on that
// schedule.
type Runner interface {
	Spec(context.Context) string
	Func(context.Context) func()
}

// Job is a registered job together with its scheduler entry id once it has
// been added to a scheduler.
type Job struct {
	ID     int
	Runner Runner
}

var (
	registryMtx sync.Mutex
	registry    = make(map[string]*Job)
)

// Register adds a job under the given name. Jobs register themselves from
// package init functions.
func Register(name string, runner Runner) {
	registryMtx.Lock()
	defer registryMtx.Unlock()
	registry[name] = &Job{Runner: runner}
}

// List returns the registered jobs by name.
func List() map[string]*Job {
	registryMtx.Lock()
	defer registryMtx.Unlock()
	jobs := make(map[string]*Job, len(registry))
	for name, job := range registry {
		jobs[name] = job
	}
	return jobs
}
