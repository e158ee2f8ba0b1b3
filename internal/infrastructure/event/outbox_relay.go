package event

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/fulfillment/internal/domain/shared"
	"go.uber.org/zap"
)

// OutboxRelayConfig holds configuration for the outbox relay
type OutboxRelayConfig struct {
	BatchSize int
	// Retention is how long sent entries are kept before Cleanup removes them
	Retention time.Duration
}

// DefaultOutboxRelayConfig returns default configuration
func DefaultOutboxRelayConfig() OutboxRelayConfig {
	return OutboxRelayConfig{
		BatchSize: 100,
		Retention: 7 * 24 * time.Hour,
	}
}

// OutboxRelay publishes committed outbox entries to the event bus. It is
// driven by the scheduler; each run handles one batch.
type OutboxRelay struct {
	repo       shared.OutboxRepository
	publisher  shared.EventPublisher
	serializer *EventSerializer
	config     OutboxRelayConfig
	logger     *zap.Logger
	now        func() time.Time
}

// NewOutboxRelay creates a new outbox relay
func NewOutboxRelay(
	repo shared.OutboxRepository,
	publisher shared.EventPublisher,
	serializer *EventSerializer,
	config OutboxRelayConfig,
	logger *zap.Logger,
) *OutboxRelay {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultOutboxRelayConfig().BatchSize
	}
	return &OutboxRelay{
		repo:       repo,
		publisher:  publisher,
		serializer: serializer,
		config:     config,
		logger:     logger,
		now:        time.Now,
	}
}

// RelayOnce publishes one batch of dispatchable entries and returns how many
// were sent
func (r *OutboxRelay) RelayOnce(ctx context.Context) (int, error) {
	entries, err := r.repo.FindDispatchable(ctx, r.now(), r.config.BatchSize)
	if err != nil {
		return 0, fmt.Errorf("find dispatchable outbox entries: %w", err)
	}

	sent := 0
	for _, entry := range entries {
		if ctx.Err() != nil {
			return sent, ctx.Err()
		}
		if r.relay(ctx, entry) {
			sent++
		}
	}
	if len(entries) > 0 {
		r.logger.Debug("outbox batch relayed",
			zap.Int("fetched", len(entries)),
			zap.Int("sent", sent),
		)
	}
	return sent, nil
}

func (r *OutboxRelay) relay(ctx context.Context, entry *shared.OutboxEntry) bool {
	event, err := r.serializer.Deserialize(entry.EventType, entry.Payload)
	if err == nil {
		err = r.publisher.Publish(ctx, event)
	}
	if err != nil {
		r.fail(ctx, entry, err)
		return false
	}

	entry.MarkSent()
	if err := r.repo.Update(ctx, entry); err != nil {
		r.logger.Error("failed to mark outbox entry as sent",
			zap.String("event_id", entry.EventID.String()),
			zap.Error(err),
		)
		return false
	}
	return true
}

func (r *OutboxRelay) fail(ctx context.Context, entry *shared.OutboxEntry, cause error) {
	entry.MarkFailed(cause.Error())

	fields := []zap.Field{
		zap.String("event_id", entry.EventID.String()),
		zap.String("event_type", entry.EventType),
		zap.String("aggregate_id", entry.AggregateID.String()),
		zap.Int("retry_count", entry.RetryCount),
		zap.Error(cause),
	}
	if entry.IsDead() {
		r.logger.Warn("outbox entry moved to dead letter", fields...)
	} else {
		r.logger.Error("failed to relay outbox entry", fields...)
	}

	if err := r.repo.Update(ctx, entry); err != nil {
		r.logger.Error("failed to update outbox entry", zap.Error(err))
	}
}

// Cleanup removes sent entries older than the retention period
func (r *OutboxRelay) Cleanup(ctx context.Context) (int64, error) {
	cutoff := r.now().Add(-r.config.Retention)
	deleted, err := r.repo.DeleteSentBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete sent outbox entries: %w", err)
	}
	if deleted > 0 {
		r.logger.Info("cleaned up sent outbox entries",
			zap.Int64("deleted", deleted),
			zap.Time("cutoff", cutoff),
		)
	}
	return deleted, nil
}
