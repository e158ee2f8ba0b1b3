package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// JobStatus represents the outcome of a job run
type JobStatus string

const (
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
)

// Job is a named periodic task. Schedule accepts standard five-field cron
// expressions and descriptors such as "@every 5s".
type Job struct {
	Name     string
	Schedule string
	Timeout  time.Duration
	Run      func(ctx context.Context) error
}

// RunRecorder persists job run history
type RunRecorder interface {
	RecordJobStart(ctx context.Context, jobName string) (uuid.UUID, error)
	RecordJobComplete(ctx context.Context, runID uuid.UUID, success bool, errMsg string) error
}

// JobState is a snapshot of a registered job
type JobState struct {
	Name       string     `json:"name"`
	Schedule   string     `json:"schedule"`
	Running    bool       `json:"running"`
	LastRunAt  *time.Time `json:"last_run_at,omitempty"`
	LastStatus JobStatus  `json:"last_status,omitempty"`
	LastError  string     `json:"last_error,omitempty"`
	NextRunAt  *time.Time `json:"next_run_at,omitempty"`
	Runs       int        `json:"runs"`
	Failures   int        `json:"failures"`
}

type registeredJob struct {
	job     Job
	entryID cron.EntryID
	running atomic.Bool
	state   JobState
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithRunRecorder persists every run
func WithRunRecorder(recorder RunRecorder) Option {
	return func(s *Scheduler) {
		s.recorder = recorder
	}
}

// WithLocation sets the time zone cron expressions are evaluated in
func WithLocation(loc *time.Location) Option {
	return func(s *Scheduler) {
		s.location = loc
	}
}

// Scheduler runs background jobs on cron schedules. A job never overlaps
// itself: a tick that arrives while the previous run is still going is
// skipped.
type Scheduler struct {
	cron     *cron.Cron
	logger   *zap.Logger
	recorder RunRecorder
	location *time.Location

	mu        sync.Mutex
	jobs      map[string]*registeredJob
	baseCtx   context.Context
	cancel    context.CancelFunc
	isRunning bool
}

// New creates a stopped scheduler
func New(logger *zap.Logger, opts ...Option) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Scheduler{
		logger:   logger.Named("scheduler"),
		location: time.Local,
		jobs:     make(map[string]*registeredJob),
		baseCtx:  context.Background(),
	}
	for _, opt := range opts {
		opt(s)
	}
	cronLogger := newCronLogger(s.logger)
	s.cron = cron.New(
		cron.WithLocation(s.location),
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger)),
	)
	return s
}

// Register adds a job. Jobs may be registered before or after Start.
func (s *Scheduler) Register(job Job) error {
	if job.Name == "" || job.Run == nil {
		return fmt.Errorf("%w: job needs a name and a run function", ErrInvalidConfig)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.jobs[job.Name]; exists {
		return fmt.Errorf("%w: job %q registered twice", ErrInvalidConfig, job.Name)
	}

	rj := &registeredJob{job: job, state: JobState{Name: job.Name, Schedule: job.Schedule}}
	// failures are logged and recorded by execute
	entryID, err := s.cron.AddFunc(job.Schedule, func() {
		_ = s.execute(s.runContext(), rj)
	})
	if err != nil {
		return fmt.Errorf("%w: job %q schedule %q: %v", ErrInvalidConfig, job.Name, job.Schedule, err)
	}
	rj.entryID = entryID
	s.jobs[job.Name] = rj
	return nil
}

// Start begins firing jobs. Runs are cancelled when ctx ends or Stop is called.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return
	}
	s.baseCtx, s.cancel = context.WithCancel(ctx)
	s.isRunning = true
	s.cron.Start()

	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	s.logger.Info("Scheduler started", zap.Strings("jobs", names))
}

// Stop cancels in-flight runs and waits for them until ctx expires
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	cancel := s.cancel
	s.mu.Unlock()

	done := s.cron.Stop()
	cancel()

	select {
	case <-done.Done():
		s.logger.Info("Scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out")
		return ctx.Err()
	}
}

// RunNow executes a job immediately in the caller's context
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	s.mu.Lock()
	rj, ok := s.jobs[name]
	running := s.isRunning
	s.mu.Unlock()
	if !ok {
		return ErrJobNotFound
	}
	if !running {
		return ErrSchedulerNotRunning
	}
	return s.execute(ctx, rj)
}

// Status returns a snapshot of every registered job ordered by name
func (s *Scheduler) Status() []JobState {
	s.mu.Lock()
	defer s.mu.Unlock()

	states := make([]JobState, 0, len(s.jobs))
	for _, rj := range s.jobs {
		state := rj.state
		state.Running = rj.running.Load()
		if next := s.cron.Entry(rj.entryID).Next; !next.IsZero() {
			state.NextRunAt = &next
		}
		states = append(states, state)
	}
	sort.Slice(states, func(i, j int) bool { return states[i].Name < states[j].Name })
	return states
}

func (s *Scheduler) runContext() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.baseCtx
}

func (s *Scheduler) execute(ctx context.Context, rj *registeredJob) (err error) {
	if !rj.running.CompareAndSwap(false, true) {
		s.logger.Debug("Skipping overlapping run", zap.String("job", rj.job.Name))
		return ErrJobAlreadyRunning
	}
	defer rj.running.Store(false)

	if rj.job.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, rj.job.Timeout)
		defer cancel()
	}

	var runID uuid.UUID
	if s.recorder != nil {
		if id, recErr := s.recorder.RecordJobStart(ctx, rj.job.Name); recErr != nil {
			s.logger.Warn("Failed to record job start", zap.String("job", rj.job.Name), zap.Error(recErr))
		} else {
			runID = id
		}
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job %s panicked: %v", rj.job.Name, r)
		}
		s.finish(ctx, rj, runID, start, err)
	}()

	return rj.job.Run(ctx)
}

func (s *Scheduler) finish(ctx context.Context, rj *registeredJob, runID uuid.UUID, start time.Time, err error) {
	elapsed := time.Since(start)

	s.mu.Lock()
	rj.state.LastRunAt = &start
	rj.state.Runs++
	if err != nil {
		rj.state.LastStatus = JobStatusFailed
		rj.state.LastError = err.Error()
		rj.state.Failures++
	} else {
		rj.state.LastStatus = JobStatusSuccess
		rj.state.LastError = ""
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("Job failed",
			zap.String("job", rj.job.Name),
			zap.Duration("duration", elapsed),
			zap.Error(err))
	} else {
		s.logger.Debug("Job completed", zap.String("job", rj.job.Name), zap.Duration("duration", elapsed))
	}

	if s.recorder != nil && runID != uuid.Nil {
		errMsg := ""
		if err != nil {
			errMsg = err.Error()
		}
		// the run context may already be done
		recCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if recErr := s.recorder.RecordJobComplete(recCtx, runID, err == nil, errMsg); recErr != nil {
			s.logger.Warn("Failed to record job completion", zap.String("job", rj.job.Name), zap.Error(recErr))
		}
	}
}

// cronLogger routes cron's internal logging through zap
type cronLogger struct {
	sugar *zap.SugaredLogger
}

func newCronLogger(logger *zap.Logger) cron.Logger {
	return cronLogger{sugar: logger.Sugar()}
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.sugar.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.sugar.Errorw(msg, append(keysAndValues, "error", err)...)
}
