// internal/scheduler/scheduler.go
package scheduler

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is a named piece of periodic work. A job with a Retry policy is retried
// within the same firing before it is reported as failed.
type Job struct {
	Name     string
	Schedule string
	Run      func(ctx context.Context) error
	Retry    *RetryPolicy
}

func (j Job) execute(ctx context.Context) error {
	if j.Retry == nil {
		return j.Run(ctx)
	}
	return j.Retry.Execute(ctx, j.Run)
}

// Entry describes a registered job and when it next fires.
type Entry struct {
	Name     string
	Schedule string
	Next     time.Time
}

// Scheduler fires jobs on their cron schedules.
type Scheduler struct {
	jobs    []Job
	cron    *cron.Cron
	ids     map[string]cron.EntryID
	started bool
}

// cronParser accepts both standard 5-field cron expressions and 6-field
// expressions with an optional seconds field.
var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Validate reports whether expr is a schedule the scheduler accepts.
func Validate(expr string) error {
	_, err := cronParser.Parse(expr)
	return err
}

// New creates a Scheduler for jobs. Nothing fires until Start.
func New(jobs ...Job) *Scheduler {
	return &Scheduler{
		jobs: jobs,
		cron: cron.New(cron.WithParser(cronParser)),
		ids:  make(map[string]cron.EntryID),
	}
}

// Start registers every job with a schedule and starts the cron ticker. Jobs
// run with ctx; a job with an invalid expression is logged and skipped.
func (s *Scheduler) Start(ctx context.Context) {
	for _, job := range s.jobs {
		if job.Schedule == "" || job.Run == nil {
			continue
		}

		job := job
		id, err := s.cron.AddFunc(job.Schedule, func() {
			start := time.Now()
			slog.Info("cron firing job", "name", job.Name)
			if err := job.execute(ctx); err != nil {
				slog.Error("scheduled job failed", "name", job.Name, "error", err)
				return
			}
			slog.Info("scheduled job finished", "name", job.Name, "duration", time.Since(start))
		})
		if err != nil {
			slog.Error("invalid cron schedule", "name", job.Name, "schedule", job.Schedule, "error", err)
			continue
		}
		s.ids[job.Name] = id
		slog.Info("scheduled job", "name", job.Name, "schedule", job.Schedule)
	}

	s.cron.Start()
	s.started = true
}

// Entries lists the registered jobs sorted by name.
func (s *Scheduler) Entries() []Entry {
	schedules := make(map[string]string, len(s.jobs))
	for _, job := range s.jobs {
		schedules[job.Name] = job.Schedule
	}

	out := make([]Entry, 0, len(s.ids))
	for name, id := range s.ids {
		out = append(out, Entry{
			Name:     name,
			Schedule: schedules[name],
			Next:     s.cron.Entry(id).Next,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Stop stops the cron ticker and waits for running jobs to return.
func (s *Scheduler) Stop() {
	if !s.started {
		return
	}
	<-s.cron.Stop().Done()
	s.started = false
}
