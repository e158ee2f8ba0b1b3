package cache

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/erp/fulfillment/internal/domain/fulfillment"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultLocalTTL        = 30 * time.Second
	defaultCleanupInterval = 30 * time.Second
)

// cacheEntry wraps a cached value with expiration time. A nil value records
// that the tenant has no definition configured.
type cacheEntry[T any] struct {
	value     *T
	expiresAt time.Time
}

func (e *cacheEntry[T]) isExpired(now time.Time) bool {
	return now.After(e.expiresAt)
}

// LocalWorkflowCache is the per-instance L1 cache of workflow definitions
type LocalWorkflowCache struct {
	entries sync.Map // map[string]*cacheEntry[fulfillment.WorkflowDefinition]
	ttl     time.Duration
	logger  *zap.Logger
	now     func() time.Time
	stopCh  chan struct{}
	stopped int32

	hits   int64
	misses int64
}

// LocalWorkflowCacheOption configures a LocalWorkflowCache
type LocalWorkflowCacheOption func(*LocalWorkflowCache)

// WithLocalTTL sets how long entries stay valid
func WithLocalTTL(ttl time.Duration) LocalWorkflowCacheOption {
	return func(c *LocalWorkflowCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithLocalLogger sets the logger
func WithLocalLogger(logger *zap.Logger) LocalWorkflowCacheOption {
	return func(c *LocalWorkflowCache) {
		c.logger = logger
	}
}

// NewLocalWorkflowCache creates the cache and starts its cleanup loop.
// Call Close to stop it.
func NewLocalWorkflowCache(opts ...LocalWorkflowCacheOption) *LocalWorkflowCache {
	c := &LocalWorkflowCache{
		ttl:    defaultLocalTTL,
		logger: zap.NewNop(),
		now:    time.Now,
		stopCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	go c.cleanupLoop()
	return c
}

func workflowKey(tenantID uuid.UUID, processType string) string {
	return "workflow:" + tenantID.String() + ":" + processType
}

// Get returns the cached definition. found is false on a miss; a hit with a
// nil definition means the tenant has none configured.
func (c *LocalWorkflowCache) Get(tenantID uuid.UUID, processType string) (def *fulfillment.WorkflowDefinition, found bool) {
	key := workflowKey(tenantID, processType)
	if value, ok := c.entries.Load(key); ok {
		entry := value.(*cacheEntry[fulfillment.WorkflowDefinition])
		if !entry.isExpired(c.now()) {
			atomic.AddInt64(&c.hits, 1)
			return entry.value, true
		}
		c.entries.Delete(key)
	}
	atomic.AddInt64(&c.misses, 1)
	return nil, false
}

// Set caches def, which may be nil
func (c *LocalWorkflowCache) Set(tenantID uuid.UUID, processType string, def *fulfillment.WorkflowDefinition) {
	c.entries.Store(workflowKey(tenantID, processType), &cacheEntry[fulfillment.WorkflowDefinition]{
		value:     def,
		expiresAt: c.now().Add(c.ttl),
	})
}

// Delete evicts one entry
func (c *LocalWorkflowCache) Delete(tenantID uuid.UUID, processType string) {
	c.entries.Delete(workflowKey(tenantID, processType))
	c.logger.Debug("evicted workflow definition from L1",
		zap.String("tenant_id", tenantID.String()),
		zap.String("process_type", processType))
}

// Clear evicts everything
func (c *LocalWorkflowCache) Clear() {
	c.entries.Range(func(key, _ any) bool {
		c.entries.Delete(key)
		return true
	})
}

// Size returns the number of entries, expired ones included
func (c *LocalWorkflowCache) Size() int {
	n := 0
	c.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Stats returns hit and miss counts
func (c *LocalWorkflowCache) Stats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}

// Close stops the cleanup loop
func (c *LocalWorkflowCache) Close() error {
	if atomic.CompareAndSwapInt32(&c.stopped, 0, 1) {
		close(c.stopCh)
	}
	return nil
}

func (c *LocalWorkflowCache) cleanupLoop() {
	ticker := time.NewTicker(defaultCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.removeExpired()
		}
	}
}

func (c *LocalWorkflowCache) removeExpired() {
	now := c.now()
	removed := 0
	c.entries.Range(func(key, value any) bool {
		if value.(*cacheEntry[fulfillment.WorkflowDefinition]).isExpired(now) {
			c.entries.Delete(key)
			removed++
		}
		return true
	})
	if removed > 0 {
		c.logger.Debug("removed expired workflow definitions", zap.Int("count", removed))
	}
}
