package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Job names
const (
	JobDocumentRetry = "document-retry"
	JobOutboxRelay   = "outbox-relay"
	JobOutboxCleanup = "outbox-cleanup"
	JobRunHistory    = "job-run-history"
)

// DocumentRetrier re-renders documents left pending by failed generation
type DocumentRetrier interface {
	RetryPending(ctx context.Context, limit int) (attempted, stored int, err error)
}

// OutboxRelayer publishes and prunes outbox entries
type OutboxRelayer interface {
	RelayOnce(ctx context.Context) (int, error)
	Cleanup(ctx context.Context) (int64, error)
}

// RunHistoryPruner deletes recorded job runs
type RunHistoryPruner interface {
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// DocumentRetryJob retries up to batchSize pending documents per run
func DocumentRetryJob(retrier DocumentRetrier, schedule string, batchSize int, logger *zap.Logger) Job {
	if logger == nil {
		logger = zap.NewNop()
	}
	return Job{
		Name:     JobDocumentRetry,
		Schedule: schedule,
		Timeout:  5 * time.Minute,
		Run: func(ctx context.Context) error {
			attempted, stored, err := retrier.RetryPending(ctx, batchSize)
			if attempted > 0 {
				logger.Info("Pending documents retried",
					zap.Int("attempted", attempted),
					zap.Int("stored", stored),
					zap.Int("still_pending", attempted-stored))
			}
			return err
		},
	}
}

// OutboxRelayJob publishes one outbox batch per run
func OutboxRelayJob(relayer OutboxRelayer, schedule string) Job {
	return Job{
		Name:     JobOutboxRelay,
		Schedule: schedule,
		Timeout:  time.Minute,
		Run: func(ctx context.Context) error {
			_, err := relayer.RelayOnce(ctx)
			return err
		},
	}
}

// OutboxCleanupJob deletes sent entries past retention
func OutboxCleanupJob(relayer OutboxRelayer, schedule string) Job {
	return Job{
		Name:     JobOutboxCleanup,
		Schedule: schedule,
		Timeout:  10 * time.Minute,
		Run: func(ctx context.Context) error {
			_, err := relayer.Cleanup(ctx)
			return err
		},
	}
}

// RunHistoryCleanupJob drops job run records older than retention
func RunHistoryCleanupJob(pruner RunHistoryPruner, schedule string, retention time.Duration) Job {
	return Job{
		Name:     JobRunHistory,
		Schedule: schedule,
		Timeout:  5 * time.Minute,
		Run: func(ctx context.Context) error {
			_, err := pruner.DeleteBefore(ctx, time.Now().Add(-retention))
			return err
		},
	}
}
