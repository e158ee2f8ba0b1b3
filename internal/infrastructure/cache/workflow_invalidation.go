package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	defaultInvalidationChannel = "erp:fulfillment:workflow:invalidate"
	defaultCloseTimeout        = 5 * time.Second
)

// WorkflowInvalidation tells other instances to drop a cached definition
type WorkflowInvalidation struct {
	TenantID    uuid.UUID `json:"tenant_id"`
	ProcessType string    `json:"process_type"`
	Source      string    `json:"source"`
	Timestamp   int64     `json:"timestamp"`
}

// RedisWorkflowInvalidator publishes and receives invalidations over Redis
// Pub/Sub. The client belongs to the caller.
type RedisWorkflowInvalidator struct {
	client    *redis.Client
	channel   string
	logger    *zap.Logger
	cancelFn  context.CancelFunc
	doneCh    chan struct{}
	doneOnce  sync.Once
	mu        sync.Mutex
	isRunning bool
}

// RedisWorkflowInvalidatorOption configures the invalidator
type RedisWorkflowInvalidatorOption func(*RedisWorkflowInvalidator)

// WithInvalidationChannel sets the Pub/Sub channel name
func WithInvalidationChannel(channel string) RedisWorkflowInvalidatorOption {
	return func(i *RedisWorkflowInvalidator) {
		i.channel = channel
	}
}

// WithInvalidatorLogger sets the logger
func WithInvalidatorLogger(logger *zap.Logger) RedisWorkflowInvalidatorOption {
	return func(i *RedisWorkflowInvalidator) {
		i.logger = logger
	}
}

// NewRedisWorkflowInvalidator creates an invalidator over an existing client
func NewRedisWorkflowInvalidator(client *redis.Client, opts ...RedisWorkflowInvalidatorOption) *RedisWorkflowInvalidator {
	i := &RedisWorkflowInvalidator{
		client:  client,
		channel: defaultInvalidationChannel,
		logger:  zap.NewNop(),
		doneCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Publish sends an invalidation to all subscribers
func (i *RedisWorkflowInvalidator) Publish(ctx context.Context, msg WorkflowInvalidation) error {
	if msg.Timestamp == 0 {
		msg.Timestamp = time.Now().UnixNano()
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal invalidation: %w", err)
	}
	if err := i.client.Publish(ctx, i.channel, data).Err(); err != nil {
		i.logger.Error("failed to publish workflow invalidation",
			zap.String("channel", i.channel),
			zap.Error(err))
		return fmt.Errorf("failed to publish invalidation: %w", err)
	}
	return nil
}

// Subscribe blocks, invoking callback for every invalidation received until
// ctx is cancelled or Close is called.
func (i *RedisWorkflowInvalidator) Subscribe(ctx context.Context, callback func(WorkflowInvalidation)) error {
	i.mu.Lock()
	if i.isRunning {
		i.mu.Unlock()
		return fmt.Errorf("subscription already running")
	}
	i.isRunning = true
	subCtx, cancel := context.WithCancel(ctx)
	i.cancelFn = cancel
	i.mu.Unlock()

	defer func() {
		i.mu.Lock()
		i.isRunning = false
		i.mu.Unlock()
		i.markDone()
	}()

	pubsub := i.client.Subscribe(subCtx, i.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(subCtx); err != nil {
		return fmt.Errorf("failed to subscribe to channel: %w", err)
	}
	i.logger.Info("subscribed to workflow invalidation channel", zap.String("channel", i.channel))

	ch := pubsub.Channel()
	for {
		select {
		case <-subCtx.Done():
			return subCtx.Err()
		case msg, ok := <-ch:
			if !ok {
				i.logger.Warn("workflow invalidation channel closed")
				return nil
			}
			var inv WorkflowInvalidation
			if err := json.Unmarshal([]byte(msg.Payload), &inv); err != nil {
				i.logger.Error("failed to unmarshal workflow invalidation",
					zap.String("payload", msg.Payload),
					zap.Error(err))
				continue
			}
			i.dispatch(callback, inv)
		}
	}
}

func (i *RedisWorkflowInvalidator) dispatch(callback func(WorkflowInvalidation), inv WorkflowInvalidation) {
	defer func() {
		if r := recover(); r != nil {
			i.logger.Error("panic in workflow invalidation callback", zap.Any("panic", r))
		}
	}()
	callback(inv)
}

func (i *RedisWorkflowInvalidator) markDone() {
	i.doneOnce.Do(func() {
		close(i.doneCh)
	})
}

// Close stops a running subscription
func (i *RedisWorkflowInvalidator) Close() error {
	i.mu.Lock()
	cancelFn := i.cancelFn
	i.mu.Unlock()

	if cancelFn != nil {
		cancelFn()
		select {
		case <-i.doneCh:
		case <-time.After(defaultCloseTimeout):
			i.logger.Warn("timeout waiting for workflow invalidation subscription to stop")
		}
	}
	return nil
}
