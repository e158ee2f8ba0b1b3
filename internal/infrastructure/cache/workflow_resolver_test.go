package cache

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/erp/fulfillment/internal/domain/fulfillment"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockWorkflowStore struct {
	mock.Mock
}

func (m *MockWorkflowStore) Find(ctx context.Context, tenantID uuid.UUID, processType string) (*fulfillment.WorkflowDefinition, error) {
	args := m.Called(ctx, tenantID, processType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillment.WorkflowDefinition), args.Error(1)
}

func (m *MockWorkflowStore) Save(ctx context.Context, def *fulfillment.WorkflowDefinition) error {
	return m.Called(ctx, def).Error(0)
}

// memoryRemote stands in for the Redis tier
type memoryRemote struct {
	entries map[string]*fulfillment.WorkflowDefinition
	getErr  error
	deletes int
}

func newMemoryRemote() *memoryRemote {
	return &memoryRemote{entries: map[string]*fulfillment.WorkflowDefinition{}}
}

func (m *memoryRemote) Get(_ context.Context, tenantID uuid.UUID, processType string) (*fulfillment.WorkflowDefinition, bool, error) {
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	def, ok := m.entries[workflowKey(tenantID, processType)]
	return def, ok, nil
}

func (m *memoryRemote) Set(_ context.Context, tenantID uuid.UUID, processType string, def *fulfillment.WorkflowDefinition) error {
	m.entries[workflowKey(tenantID, processType)] = def
	return nil
}

func (m *memoryRemote) Delete(_ context.Context, tenantID uuid.UUID, processType string) error {
	delete(m.entries, workflowKey(tenantID, processType))
	m.deletes++
	return nil
}

// loopbackInvalidator delivers published messages to every subscriber
type loopbackInvalidator struct {
	published   []WorkflowInvalidation
	subscribers []func(WorkflowInvalidation)
}

func (l *loopbackInvalidator) Publish(_ context.Context, msg WorkflowInvalidation) error {
	l.published = append(l.published, msg)
	for _, s := range l.subscribers {
		s(msg)
	}
	return nil
}

func (l *loopbackInvalidator) Subscribe(_ context.Context, callback func(WorkflowInvalidation)) error {
	l.subscribers = append(l.subscribers, callback)
	return nil
}

func (l *loopbackInvalidator) Close() error { return nil }

func customDefinition(tenantID uuid.UUID) *fulfillment.WorkflowDefinition {
	return &fulfillment.WorkflowDefinition{
		TenantID:    tenantID,
		ProcessType: fulfillment.ProcessTypeSalesOrder,
		Steps: []fulfillment.Step{
			fulfillment.StepAllocate, fulfillment.StepPick, fulfillment.StepPack,
			fulfillment.StepShip, fulfillment.StepDeliver, "invoice",
		},
	}
}

func TestTieredWorkflowResolver_Definition(t *testing.T) {
	ctx := context.Background()

	t.Run("reads through to the store once", func(t *testing.T) {
		tenantID := uuid.New()
		def := customDefinition(tenantID)
		store := new(MockWorkflowStore)
		store.On("Find", ctx, tenantID, fulfillment.ProcessTypeSalesOrder).Return(def, nil).Once()

		resolver := NewTieredWorkflowResolver(NewLocalWorkflowCache(), store)
		defer resolver.Close()

		for i := 0; i < 3; i++ {
			got, err := resolver.Definition(ctx, tenantID, fulfillment.ProcessTypeSalesOrder)
			require.NoError(t, err)
			assert.Equal(t, def, got)
		}
		store.AssertExpectations(t)

		stats := resolver.Stats()
		assert.Equal(t, int64(2), stats.L1Hits)
		assert.Equal(t, int64(1), stats.StoreReads)
	})

	t.Run("absence is cached", func(t *testing.T) {
		tenantID := uuid.New()
		store := new(MockWorkflowStore)
		store.On("Find", ctx, tenantID, fulfillment.ProcessTypeSalesOrder).Return(nil, nil).Once()

		resolver := NewTieredWorkflowResolver(NewLocalWorkflowCache(), store)
		defer resolver.Close()

		for i := 0; i < 2; i++ {
			got, err := resolver.Definition(ctx, tenantID, fulfillment.ProcessTypeSalesOrder)
			require.NoError(t, err)
			assert.Nil(t, got)
		}
		store.AssertExpectations(t)
	})

	t.Run("falls back to static definitions", func(t *testing.T) {
		tenantID := uuid.New()
		static := customDefinition(tenantID)
		store := new(MockWorkflowStore)
		store.On("Find", ctx, tenantID, mock.Anything).Return(nil, nil)

		resolver := NewTieredWorkflowResolver(NewLocalWorkflowCache(), store,
			WithStaticDefinitions(map[uuid.UUID]*fulfillment.WorkflowDefinition{tenantID: static}))
		defer resolver.Close()

		got, err := resolver.Definition(ctx, tenantID, fulfillment.ProcessTypeSalesOrder)
		require.NoError(t, err)
		assert.Equal(t, static, got)

		// static definitions only cover the sales process
		got, err = resolver.Definition(ctx, tenantID, fulfillment.ProcessTypePurchaseOrder)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("store errors are returned and not cached", func(t *testing.T) {
		tenantID := uuid.New()
		store := new(MockWorkflowStore)
		store.On("Find", ctx, tenantID, fulfillment.ProcessTypeSalesOrder).Return(nil, errors.New("db down")).Once()
		store.On("Find", ctx, tenantID, fulfillment.ProcessTypeSalesOrder).Return(nil, nil).Once()

		resolver := NewTieredWorkflowResolver(NewLocalWorkflowCache(), store)
		defer resolver.Close()

		_, err := resolver.Definition(ctx, tenantID, fulfillment.ProcessTypeSalesOrder)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db down")

		got, err := resolver.Definition(ctx, tenantID, fulfillment.ProcessTypeSalesOrder)
		require.NoError(t, err)
		assert.Nil(t, got)
		store.AssertExpectations(t)
	})

	t.Run("invalid stored definition falls back to the default chain", func(t *testing.T) {
		tenantID := uuid.New()
		bad := &fulfillment.WorkflowDefinition{
			TenantID:    tenantID,
			ProcessType: fulfillment.ProcessTypeSalesOrder,
			Steps: []fulfillment.Step{
				fulfillment.StepAllocate, fulfillment.StepPack, fulfillment.StepPick,
				fulfillment.StepShip, fulfillment.StepDeliver,
			},
		}
		store := new(MockWorkflowStore)
		store.On("Find", ctx, tenantID, fulfillment.ProcessTypeSalesOrder).Return(bad, nil).Once()

		resolver := NewTieredWorkflowResolver(NewLocalWorkflowCache(), store)
		defer resolver.Close()

		got, err := resolver.Definition(ctx, tenantID, fulfillment.ProcessTypeSalesOrder)
		require.NoError(t, err)
		assert.Nil(t, got)

		next, resolution := fulfillment.ResolveNextStep(got, fulfillment.StepAllocate)
		assert.Equal(t, fulfillment.StepPick, next)
		assert.Equal(t, fulfillment.ResolutionDefaultChain, resolution)
		store.AssertExpectations(t)
	})

	t.Run("invalid definition error from the store falls back to static", func(t *testing.T) {
		tenantID := uuid.New()
		static := customDefinition(tenantID)
		store := new(MockWorkflowStore)
		store.On("Find", ctx, tenantID, fulfillment.ProcessTypeSalesOrder).
			Return(nil, fmt.Errorf("stored row: %w", fulfillment.ErrInvalidWorkflow))

		resolver := NewTieredWorkflowResolver(NewLocalWorkflowCache(), store,
			WithStaticDefinitions(map[uuid.UUID]*fulfillment.WorkflowDefinition{tenantID: static}))
		defer resolver.Close()

		got, err := resolver.Definition(ctx, tenantID, fulfillment.ProcessTypeSalesOrder)
		require.NoError(t, err)
		assert.Equal(t, static, got)
	})

	t.Run("L2 hit skips the store and fills L1", func(t *testing.T) {
		tenantID := uuid.New()
		def := customDefinition(tenantID)
		remote := newMemoryRemote()
		require.NoError(t, remote.Set(ctx, tenantID, fulfillment.ProcessTypeSalesOrder, def))
		store := new(MockWorkflowStore)

		local := NewLocalWorkflowCache()
		resolver := NewTieredWorkflowResolver(local, store, WithRemoteCache(remote))
		defer resolver.Close()

		got, err := resolver.Definition(ctx, tenantID, fulfillment.ProcessTypeSalesOrder)
		require.NoError(t, err)
		assert.Equal(t, def, got)
		store.AssertNotCalled(t, "Find", mock.Anything, mock.Anything, mock.Anything)

		_, found := local.Get(tenantID, fulfillment.ProcessTypeSalesOrder)
		assert.True(t, found)
		assert.Equal(t, int64(1), resolver.Stats().L2Hits)
	})

	t.Run("L2 miss populates L2", func(t *testing.T) {
		tenantID := uuid.New()
		remote := newMemoryRemote()
		store := new(MockWorkflowStore)
		store.On("Find", ctx, tenantID, fulfillment.ProcessTypeSalesOrder).Return(nil, nil)

		resolver := NewTieredWorkflowResolver(NewLocalWorkflowCache(), store, WithRemoteCache(remote))
		defer resolver.Close()

		_, err := resolver.Definition(ctx, tenantID, fulfillment.ProcessTypeSalesOrder)
		require.NoError(t, err)

		_, ok, _ := remote.Get(ctx, tenantID, fulfillment.ProcessTypeSalesOrder)
		assert.True(t, ok)
		assert.Equal(t, int64(1), resolver.Stats().L2Misses)
	})

	t.Run("L2 failure degrades to the store", func(t *testing.T) {
		tenantID := uuid.New()
		def := customDefinition(tenantID)
		remote := newMemoryRemote()
		remote.getErr = errors.New("connection refused")
		store := new(MockWorkflowStore)
		store.On("Find", ctx, tenantID, fulfillment.ProcessTypeSalesOrder).Return(def, nil)

		resolver := NewTieredWorkflowResolver(NewLocalWorkflowCache(), store, WithRemoteCache(remote))
		defer resolver.Close()

		got, err := resolver.Definition(ctx, tenantID, fulfillment.ProcessTypeSalesOrder)
		require.NoError(t, err)
		assert.Equal(t, def, got)
	})
}

func TestTieredWorkflowResolver_Save(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	def := customDefinition(tenantID)

	store := new(MockWorkflowStore)
	store.On("Find", ctx, tenantID, fulfillment.ProcessTypeSalesOrder).Return(nil, nil).Once()
	store.On("Save", ctx, def).Return(nil)
	store.On("Find", ctx, tenantID, fulfillment.ProcessTypeSalesOrder).Return(def, nil).Once()

	remote := newMemoryRemote()
	invalidator := &loopbackInvalidator{}
	resolver := NewTieredWorkflowResolver(NewLocalWorkflowCache(), store,
		WithRemoteCache(remote), WithInvalidator(invalidator))
	defer resolver.Close()

	before, err := resolver.Definition(ctx, tenantID, fulfillment.ProcessTypeSalesOrder)
	require.NoError(t, err)
	assert.Nil(t, before)

	require.NoError(t, resolver.Save(ctx, def))
	assert.Equal(t, 1, remote.deletes)
	require.Len(t, invalidator.published, 1)
	assert.Equal(t, tenantID, invalidator.published[0].TenantID)
	assert.Equal(t, fulfillment.ProcessTypeSalesOrder, invalidator.published[0].ProcessType)

	after, err := resolver.Definition(ctx, tenantID, fulfillment.ProcessTypeSalesOrder)
	require.NoError(t, err)
	assert.Equal(t, def, after)
	store.AssertExpectations(t)
}

func TestTieredWorkflowResolver_SaveWithoutStore(t *testing.T) {
	resolver := NewTieredWorkflowResolver(NewLocalWorkflowCache(), nil)
	defer resolver.Close()

	err := resolver.Save(context.Background(), customDefinition(uuid.New()))
	assert.Error(t, err)
}

func TestTieredWorkflowResolver_PeerInvalidation(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	invalidator := &loopbackInvalidator{}

	localA, localB := NewLocalWorkflowCache(), NewLocalWorkflowCache()
	a := NewTieredWorkflowResolver(localA, nil, WithInvalidator(invalidator))
	b := NewTieredWorkflowResolver(localB, nil, WithInvalidator(invalidator))
	defer a.Close()
	defer b.Close()

	require.NoError(t, a.StartInvalidationSubscription(ctx))
	require.NoError(t, b.StartInvalidationSubscription(ctx))

	localA.Set(tenantID, fulfillment.ProcessTypeSalesOrder, nil)
	localB.Set(tenantID, fulfillment.ProcessTypeSalesOrder, nil)

	require.NoError(t, a.Invalidate(ctx, tenantID, fulfillment.ProcessTypeSalesOrder))

	_, found := localA.Get(tenantID, fulfillment.ProcessTypeSalesOrder)
	assert.False(t, found)
	_, found = localB.Get(tenantID, fulfillment.ProcessTypeSalesOrder)
	assert.False(t, found)
}

func TestParseStaticDefinitions(t *testing.T) {
	tenant := "7f2b9c1e-0000-0000-0000-000000000001"

	t.Run("valid", func(t *testing.T) {
		defs, err := ParseStaticDefinitions(map[string][]string{
			tenant: {"allocate", "pick", "pack", "ship", "deliver", "invoice"},
		})
		require.NoError(t, err)

		def := defs[uuid.MustParse(tenant)]
		require.NotNil(t, def)
		assert.Equal(t, fulfillment.ProcessTypeSalesOrder, def.ProcessType)
		assert.Len(t, def.Steps, 6)
	})

	t.Run("bad tenant id", func(t *testing.T) {
		_, err := ParseStaticDefinitions(map[string][]string{"acme": {"allocate"}})
		assert.Error(t, err)
	})

	t.Run("out of order core steps", func(t *testing.T) {
		_, err := ParseStaticDefinitions(map[string][]string{
			tenant: {"allocate", "pack", "pick", "ship", "deliver"},
		})
		assert.Error(t, err)
	})
}
