// Package scheduler runs named cron jobs and keeps track of their outcome.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
)

// JobStatus represents the status of a job.
type JobStatus string

const (
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusScheduled JobStatus = "scheduled"
)

// JobFunc is the work done by a job.
type JobFunc func(ctx context.Context) error

// Job describes a job to schedule.
type Job struct {
	ID          string
	Name        string
	Description string
	// Schedule is a five field cron expression.
	Schedule string
	// Singleton reschedules a run that would overlap a running one.
	Singleton bool
	// RunOnStart runs the job once as soon as the scheduler starts.
	RunOnStart bool
	Run        JobFunc
}

// JobInfo is a snapshot of a job's state.
type JobInfo struct {
	ID          string
	Name        string
	Description string
	Schedule    string
	Status      JobStatus
	LastRun     time.Time
	NextRun     time.Time
	RunCount    int
	ErrorCount  int
	LastError   string
	Singleton   bool
}

type job struct {
	info       JobInfo
	runOnStart bool
	gocron     gocron.Job
}

// Scheduler manages scheduled jobs.
type Scheduler struct {
	gocron gocron.Scheduler
	clock  clockwork.Clock

	mu   sync.RWMutex
	jobs map[string]*job

	ctx    context.Context
	cancel context.CancelFunc
}

// Option configures a Scheduler.
type Option func(*options)

type options struct {
	clock clockwork.Clock
}

// WithClock drives the scheduler from the given clock.
func WithClock(c clockwork.Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

// New creates a new scheduler.
func New(opts ...Option) (*Scheduler, error) {
	o := options{clock: clockwork.NewRealClock()}
	for _, opt := range opts {
		opt(&o)
	}

	gocronScheduler, err := gocron.NewScheduler(
		gocron.WithLogger(newLogger()),
		gocron.WithClock(o.clock),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		gocron: gocronScheduler,
		clock:  o.clock,
		jobs:   make(map[string]*job),
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

// Add schedules a job. Job ids must be unique.
func (s *Scheduler) Add(j Job) error {
	if j.Run == nil {
		return fmt.Errorf("job %s has no function", j.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[j.ID]; exists {
		return fmt.Errorf("job %s already exists", j.ID)
	}

	var jobOptions []gocron.JobOption
	if j.Singleton {
		jobOptions = append(jobOptions, gocron.WithSingletonMode(gocron.LimitModeReschedule))
	}

	gj, err := s.gocron.NewJob(
		gocron.CronJob(j.Schedule, false),
		gocron.NewTask(s.wrapJobFunc(j.ID, j.Run)),
		jobOptions...,
	)
	if err != nil {
		return fmt.Errorf("failed to create job %s: %w", j.ID, err)
	}

	s.jobs[j.ID] = &job{
		info: JobInfo{
			ID:          j.ID,
			Name:        j.Name,
			Description: j.Description,
			Schedule:    j.Schedule,
			Status:      JobStatusScheduled,
			Singleton:   j.Singleton,
		},
		runOnStart: j.RunOnStart,
		gocron:     gj,
	}
	log.Info("Added job to scheduler", "id", j.ID, "name", j.Name, "schedule", j.Schedule, "singleton", j.Singleton)
	return nil
}

// Start starts the scheduler and runs the jobs marked to run on start.
func (s *Scheduler) Start() {
	log.Info("Starting job scheduler")
	s.gocron.Start()

	s.mu.Lock()
	var instant []string
	for id, j := range s.jobs {
		if nextRun, err := j.gocron.NextRun(); err == nil {
			j.info.NextRun = nextRun
			log.Debug("Next run time for job", "id", id, "nextRun", nextRun)
		} else {
			log.Warn("Failed to get next run time for job", "id", id, "error", err)
		}
		if j.runOnStart {
			instant = append(instant, id)
		}
	}
	s.mu.Unlock()

	for _, id := range instant {
		if err := s.RunNow(id); err != nil {
			log.Error("Failed to run job immediately after start", "id", id, "error", err)
		}
	}
}

// Stop cancels running jobs and shuts the scheduler down.
func (s *Scheduler) Stop() error {
	log.Info("Stopping job scheduler")
	s.cancel()
	return s.gocron.Shutdown()
}

// RunNow triggers a job immediately.
func (s *Scheduler) RunNow(id string) error {
	s.mu.RLock()
	j, exists := s.jobs[id]
	s.mu.RUnlock()
	if !exists {
		return fmt.Errorf("job %s not found", id)
	}

	log.Info("Manually triggering job", "id", id, "name", j.info.Name)
	if err := j.gocron.RunNow(); err != nil {
		return fmt.Errorf("failed to trigger job %s: %w", id, err)
	}
	return nil
}

// Job returns a snapshot of the job with the given id.
func (s *Scheduler) Job(id string) (JobInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, exists := s.jobs[id]
	if !exists {
		return JobInfo{}, false
	}
	return j.info, true
}

// Jobs returns snapshots of all jobs.
func (s *Scheduler) Jobs() []JobInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]JobInfo, 0, len(s.jobs))
	for _, j := range s.jobs {
		out = append(out, j.info)
	}
	return out
}

// wrapJobFunc wraps a job function to update job statistics.
func (s *Scheduler) wrapJobFunc(id string, jobFunc JobFunc) func() {
	return func() {
		s.mu.Lock()
		j := s.jobs[id]
		if j == nil {
			s.mu.Unlock()
			log.Error("Job info not found", "id", id)
			return
		}
		name := j.info.Name
		j.info.Status = JobStatusRunning
		j.info.LastRun = s.clock.Now()
		if nextRun, err := j.gocron.NextRun(); err == nil {
			j.info.NextRun = nextRun
		}
		j.info.RunCount++
		s.mu.Unlock()

		log.Info("Starting job", "id", id, "name", name)
		err := jobFunc(s.ctx)

		s.mu.Lock()
		defer s.mu.Unlock()
		if err != nil {
			log.Error("Job failed", "id", id, "name", name, "error", err)
			j.info.Status = JobStatusFailed
			j.info.ErrorCount++
			j.info.LastError = err.Error()
			return
		}
		log.Info("Job completed successfully", "id", id, "name", name)
		j.info.Status = JobStatusCompleted
		j.info.LastError = ""
	}
}
