package cache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/erp/fulfillment/internal/domain/fulfillment"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WorkflowStore is the durable source of tenant workflow definitions
type WorkflowStore interface {
	Find(ctx context.Context, tenantID uuid.UUID, processType string) (*fulfillment.WorkflowDefinition, error)
	Save(ctx context.Context, def *fulfillment.WorkflowDefinition) error
}

// RemoteWorkflowCache is the shared L2 tier
type RemoteWorkflowCache interface {
	Get(ctx context.Context, tenantID uuid.UUID, processType string) (*fulfillment.WorkflowDefinition, bool, error)
	Set(ctx context.Context, tenantID uuid.UUID, processType string, def *fulfillment.WorkflowDefinition) error
	Delete(ctx context.Context, tenantID uuid.UUID, processType string) error
}

// WorkflowInvalidator broadcasts and receives evictions between instances
type WorkflowInvalidator interface {
	Publish(ctx context.Context, msg WorkflowInvalidation) error
	Subscribe(ctx context.Context, callback func(WorkflowInvalidation)) error
	Close() error
}

// WorkflowResolverStats reports cache effectiveness
type WorkflowResolverStats struct {
	L1Hits     int64
	L1Misses   int64
	L2Hits     int64
	L2Misses   int64
	StoreReads int64
}

// TieredWorkflowResolver looks up workflow definitions through an in-memory
// L1, an optional Redis L2, the database, and finally the static definitions
// from configuration. Absence is cached too.
type TieredWorkflowResolver struct {
	local       *LocalWorkflowCache
	remote      RemoteWorkflowCache
	store       WorkflowStore
	invalidator WorkflowInvalidator
	static      map[uuid.UUID]*fulfillment.WorkflowDefinition
	instanceID  string
	logger      *zap.Logger

	l2Hits     int64
	l2Misses   int64
	storeReads int64
}

// TieredWorkflowResolverOption configures the resolver
type TieredWorkflowResolverOption func(*TieredWorkflowResolver)

// WithRemoteCache enables the L2 tier
func WithRemoteCache(remote RemoteWorkflowCache) TieredWorkflowResolverOption {
	return func(r *TieredWorkflowResolver) {
		r.remote = remote
	}
}

// WithInvalidator enables cross-instance invalidation
func WithInvalidator(invalidator WorkflowInvalidator) TieredWorkflowResolverOption {
	return func(r *TieredWorkflowResolver) {
		r.invalidator = invalidator
	}
}

// WithStaticDefinitions sets per-tenant sales definitions used when the
// database has none
func WithStaticDefinitions(defs map[uuid.UUID]*fulfillment.WorkflowDefinition) TieredWorkflowResolverOption {
	return func(r *TieredWorkflowResolver) {
		r.static = defs
	}
}

// WithResolverLogger sets the logger
func WithResolverLogger(logger *zap.Logger) TieredWorkflowResolverOption {
	return func(r *TieredWorkflowResolver) {
		r.logger = logger
	}
}

// NewTieredWorkflowResolver creates a resolver. store may be nil when only
// static definitions are used.
func NewTieredWorkflowResolver(local *LocalWorkflowCache, store WorkflowStore, opts ...TieredWorkflowResolverOption) *TieredWorkflowResolver {
	r := &TieredWorkflowResolver{
		local:      local,
		store:      store,
		instanceID: uuid.NewString(),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Definition returns the tenant's definition for processType, or nil when
// none is configured anywhere.
func (r *TieredWorkflowResolver) Definition(ctx context.Context, tenantID uuid.UUID, processType string) (*fulfillment.WorkflowDefinition, error) {
	if def, ok := r.local.Get(tenantID, processType); ok {
		return def, nil
	}

	if r.remote != nil {
		def, ok, err := r.remote.Get(ctx, tenantID, processType)
		switch {
		case err != nil:
			r.logger.Warn("L2 workflow lookup failed, reading through",
				zap.String("tenant_id", tenantID.String()),
				zap.Error(err))
		case ok:
			atomic.AddInt64(&r.l2Hits, 1)
			r.local.Set(tenantID, processType, def)
			return def, nil
		default:
			atomic.AddInt64(&r.l2Misses, 1)
		}
	}

	def, err := r.load(ctx, tenantID, processType)
	if err != nil {
		return nil, err
	}

	r.local.Set(tenantID, processType, def)
	if r.remote != nil {
		if err := r.remote.Set(ctx, tenantID, processType, def); err != nil {
			r.logger.Warn("failed to populate L2 workflow cache", zap.Error(err))
		}
	}
	return def, nil
}

func (r *TieredWorkflowResolver) load(ctx context.Context, tenantID uuid.UUID, processType string) (*fulfillment.WorkflowDefinition, error) {
	if r.store != nil {
		atomic.AddInt64(&r.storeReads, 1)
		def, err := r.store.Find(ctx, tenantID, processType)
		if err == nil && def != nil {
			err = def.Validate()
		}
		switch {
		case errors.Is(err, fulfillment.ErrInvalidWorkflow):
			r.logger.Error("ignoring invalid stored workflow definition",
				zap.String("tenant_id", tenantID.String()),
				zap.String("process_type", processType),
				zap.Error(err))
		case err != nil:
			return nil, fmt.Errorf("load workflow definition: %w", err)
		case def != nil:
			return def, nil
		}
	}
	if processType == fulfillment.ProcessTypeSalesOrder {
		if def, ok := r.static[tenantID]; ok {
			return def, nil
		}
	}
	return nil, nil
}

// Save persists def and evicts it from every tier on every instance
func (r *TieredWorkflowResolver) Save(ctx context.Context, def *fulfillment.WorkflowDefinition) error {
	if r.store == nil {
		return fmt.Errorf("workflow definitions are read-only")
	}
	if err := r.store.Save(ctx, def); err != nil {
		return err
	}
	return r.Invalidate(ctx, def.TenantID, def.ProcessType)
}

// Invalidate evicts one definition locally, from L2, and on peers
func (r *TieredWorkflowResolver) Invalidate(ctx context.Context, tenantID uuid.UUID, processType string) error {
	r.local.Delete(tenantID, processType)
	if r.remote != nil {
		if err := r.remote.Delete(ctx, tenantID, processType); err != nil {
			return err
		}
	}
	if r.invalidator != nil {
		return r.invalidator.Publish(ctx, WorkflowInvalidation{
			TenantID:    tenantID,
			ProcessType: processType,
			Source:      r.instanceID,
		})
	}
	return nil
}

// StartInvalidationSubscription blocks while applying peer invalidations to L1
func (r *TieredWorkflowResolver) StartInvalidationSubscription(ctx context.Context) error {
	if r.invalidator == nil {
		return nil
	}
	return r.invalidator.Subscribe(ctx, r.handleInvalidation)
}

func (r *TieredWorkflowResolver) handleInvalidation(msg WorkflowInvalidation) {
	if msg.Source == r.instanceID {
		return
	}
	r.local.Delete(msg.TenantID, msg.ProcessType)
}

// Stats returns hit and miss counters for every tier
func (r *TieredWorkflowResolver) Stats() WorkflowResolverStats {
	l1Hits, l1Misses := r.local.Stats()
	return WorkflowResolverStats{
		L1Hits:     l1Hits,
		L1Misses:   l1Misses,
		L2Hits:     atomic.LoadInt64(&r.l2Hits),
		L2Misses:   atomic.LoadInt64(&r.l2Misses),
		StoreReads: atomic.LoadInt64(&r.storeReads),
	}
}

// Close stops the subscription and the L1 cleanup loop
func (r *TieredWorkflowResolver) Close() error {
	if r.invalidator != nil {
		if err := r.invalidator.Close(); err != nil {
			return err
		}
	}
	return r.local.Close()
}

// ParseStaticDefinitions converts the configured tenant step lists into
// validated sales order definitions
func ParseStaticDefinitions(raw map[string][]string) (map[uuid.UUID]*fulfillment.WorkflowDefinition, error) {
	defs := make(map[uuid.UUID]*fulfillment.WorkflowDefinition, len(raw))
	for tenant, steps := range raw {
		tenantID, err := uuid.Parse(tenant)
		if err != nil {
			return nil, fmt.Errorf("workflow definition tenant %q: %w", tenant, err)
		}
		def := &fulfillment.WorkflowDefinition{TenantID: tenantID, ProcessType: fulfillment.ProcessTypeSalesOrder}
		for _, s := range steps {
			def.Steps = append(def.Steps, fulfillment.Step(s))
		}
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("workflow definition for tenant %s: %w", tenant, err)
		}
		defs[tenantID] = def
	}
	return defs, nil
}
