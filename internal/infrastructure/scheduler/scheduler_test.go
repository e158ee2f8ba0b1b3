package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func startedScheduler(t *testing.T, opts ...Option) *Scheduler {
	t.Helper()
	s := New(zap.NewNop(), opts...)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.Stop(ctx)
	})
	return s
}

func noop(context.Context) error { return nil }

func TestScheduler_Register(t *testing.T) {
	s := New(nil)

	tests := []struct {
		name string
		job  Job
	}{
		{"missing name", Job{Schedule: "@every 1m", Run: noop}},
		{"missing run", Job{Name: "x", Schedule: "@every 1m"}},
		{"bad schedule", Job{Name: "x", Schedule: "every minute", Run: noop}},
		{"too many fields", Job{Name: "x", Schedule: "* * * * * * *", Run: noop}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, s.Register(tt.job), ErrInvalidConfig)
		})
	}

	require.NoError(t, s.Register(Job{Name: "ok", Schedule: "*/5 * * * *", Run: noop}))
	assert.ErrorIs(t, s.Register(Job{Name: "ok", Schedule: "@hourly", Run: noop}), ErrInvalidConfig)
}

func TestScheduler_RunNow(t *testing.T) {
	ctx := context.Background()
	s := startedScheduler(t)

	calls := 0
	require.NoError(t, s.Register(Job{Name: "count", Schedule: "@yearly", Run: func(context.Context) error {
		calls++
		return nil
	}}))
	require.NoError(t, s.Register(Job{Name: "broken", Schedule: "@yearly", Run: func(context.Context) error {
		return errors.New("database unavailable")
	}}))
	require.NoError(t, s.Register(Job{Name: "panics", Schedule: "@yearly", Run: func(context.Context) error {
		panic("boom")
	}}))

	assert.ErrorIs(t, s.RunNow(ctx, "count"), ErrSchedulerNotRunning)

	s.Start(ctx)

	require.NoError(t, s.RunNow(ctx, "count"))
	require.NoError(t, s.RunNow(ctx, "count"))
	assert.Equal(t, 2, calls)

	assert.EqualError(t, s.RunNow(ctx, "broken"), "database unavailable")
	assert.ErrorContains(t, s.RunNow(ctx, "panics"), "panicked: boom")
	assert.ErrorIs(t, s.RunNow(ctx, "missing"), ErrJobNotFound)

	states := s.Status()
	require.Len(t, states, 3)

	assert.Equal(t, "broken", states[0].Name)
	assert.Equal(t, JobStatusFailed, states[0].LastStatus)
	assert.Equal(t, "database unavailable", states[0].LastError)
	assert.Equal(t, 1, states[0].Failures)

	assert.Equal(t, "count", states[1].Name)
	assert.Equal(t, JobStatusSuccess, states[1].LastStatus)
	assert.Equal(t, 2, states[1].Runs)
	assert.NotNil(t, states[1].LastRunAt)
	assert.NotNil(t, states[1].NextRunAt)

	assert.Equal(t, JobStatusFailed, states[2].LastStatus)
}

func TestScheduler_SkipsOverlappingRuns(t *testing.T) {
	ctx := context.Background()
	s := startedScheduler(t)

	release := make(chan struct{})
	require.NoError(t, s.Register(Job{Name: "slow", Schedule: "@yearly", Run: func(context.Context) error {
		<-release
		return nil
	}}))
	s.Start(ctx)

	done := make(chan error, 1)
	go func() { done <- s.RunNow(ctx, "slow") }()

	require.Eventually(t, func() bool { return s.Status()[0].Running }, 2*time.Second, 10*time.Millisecond)
	assert.ErrorIs(t, s.RunNow(ctx, "slow"), ErrJobAlreadyRunning)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, s.Status()[0].Runs)
}

func TestScheduler_FiresOnScheduleAndStops(t *testing.T) {
	s := startedScheduler(t)

	var fired atomic.Int32
	var cancelled atomic.Bool
	require.NoError(t, s.Register(Job{Name: "tick", Schedule: "@every 1s", Run: func(ctx context.Context) error {
		if fired.Add(1) == 1 {
			<-ctx.Done()
			cancelled.Store(true)
		}
		return ctx.Err()
	}}))
	s.Start(context.Background())

	require.Eventually(t, func() bool { return fired.Load() >= 1 }, 3*time.Second, 20*time.Millisecond)

	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Stop(stopCtx))
	assert.True(t, cancelled.Load(), "in-flight run sees cancellation")
}

func TestScheduler_JobTimeout(t *testing.T) {
	ctx := context.Background()
	s := startedScheduler(t)
	require.NoError(t, s.Register(Job{Name: "bounded", Schedule: "@yearly", Timeout: 20 * time.Millisecond,
		Run: func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		}}))
	s.Start(ctx)

	assert.ErrorIs(t, s.RunNow(ctx, "bounded"), context.DeadlineExceeded)
}

func newRunRepository(t *testing.T) *JobRunRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&JobRunRecord{}))
	return NewJobRunRepository(db)
}

func TestScheduler_RecordsRuns(t *testing.T) {
	ctx := context.Background()
	repo := newRunRepository(t)
	s := startedScheduler(t, WithRunRecorder(repo), WithLocation(time.UTC))

	fail := true
	require.NoError(t, s.Register(Job{Name: JobOutboxCleanup, Schedule: "@daily", Run: func(context.Context) error {
		if fail {
			return errors.New("disk full")
		}
		return nil
	}}))
	s.Start(ctx)

	require.Error(t, s.RunNow(ctx, JobOutboxCleanup))
	last, err := repo.LastRun(ctx, JobOutboxCleanup)
	require.NoError(t, err)
	assert.Equal(t, string(JobStatusFailed), last.Status)
	assert.Equal(t, "disk full", last.Error)
	assert.NotNil(t, last.CompletedAt)

	fail = false
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, s.RunNow(ctx, JobOutboxCleanup))
	last, err = repo.LastRun(ctx, JobOutboxCleanup)
	require.NoError(t, err)
	assert.Equal(t, string(JobStatusSuccess), last.Status)
	assert.Empty(t, last.Error)

	deleted, err := repo.DeleteBefore(ctx, time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
}
