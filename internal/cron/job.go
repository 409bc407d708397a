package cron

import (
	"context"
	"fmt"
	"time"
)

// Job is a unit of scheduled work. Run must be safe to invoke repeatedly and
// must tolerate overlapping state left by a previous crashed run.
type Job interface {
	Name() string
	Interval() time.Duration
	Run(ctx context.Context) error
}

// Registry holds the jobs a worker instance schedules.
type Registry struct {
	jobs []Job
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a job. Duplicate names are rejected so lock keys stay unique.
func (r *Registry) Register(job Job) error {
	if job == nil {
		return fmt.Errorf("nil job")
	}
	if job.Name() == "" {
		return fmt.Errorf("job name required")
	}
	if job.Interval() <= 0 {
		return fmt.Errorf("job %s: interval must be positive", job.Name())
	}
	for _, existing := range r.jobs {
		if existing.Name() == job.Name() {
			return fmt.Errorf("job %s already registered", job.Name())
		}
	}
	r.jobs = append(r.jobs, job)
	return nil
}

// Jobs returns the registered jobs in registration order.
func (r *Registry) Jobs() []Job {
	return r.jobs
}
