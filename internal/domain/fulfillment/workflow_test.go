package fulfillment

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveNextStep(t *testing.T) {
	tenantID := uuid.New()
	withInvoice := &WorkflowDefinition{
		TenantID:    tenantID,
		ProcessType: ProcessTypeSalesOrder,
		Steps:       []Step{StepAllocate, StepPick, StepPack, StepShip, StepDeliver, "invoice"},
	}
	withoutComplete := &WorkflowDefinition{
		TenantID:    tenantID,
		ProcessType: ProcessTypeSalesOrder,
		Steps:       []Step{StepAllocate, StepPick, StepPack, StepShip, StepDeliver},
	}

	tests := []struct {
		name       string
		def        *WorkflowDefinition
		current    Step
		want       Step
		resolution StepResolution
	}{
		{"configured successor", withInvoice, StepPack, StepShip, ResolutionConfigured},
		{"configured extra step", withInvoice, StepDeliver, "invoice", ResolutionConfigured},
		{"last configured step", withoutComplete, StepDeliver, StepComplete, ResolutionEndOfFlow},
		{"step absent from definition", withoutComplete, "audit", StepComplete, ResolutionEndOfFlow},
		{"no definition uses default chain", nil, StepAllocate, StepPick, ResolutionDefaultChain},
		{"default chain ends in complete", nil, StepDeliver, StepComplete, ResolutionDefaultChain},
		{"empty definition uses default chain", &WorkflowDefinition{}, StepShip, StepDeliver, ResolutionDefaultChain},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, resolution := ResolveNextStep(tt.def, tt.current)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.resolution, resolution)
		})
	}
}

func TestWorkflowDefinition_Validate(t *testing.T) {
	tests := []struct {
		name    string
		steps   []Step
		wantErr bool
	}{
		{"default chain", defaultChain, false},
		{"extra step after deliver", []Step{StepAllocate, StepPick, StepPack, StepShip, StepDeliver, "invoice", StepComplete}, false},
		{"missing pack", []Step{StepAllocate, StepPick, StepShip, StepDeliver}, true},
		{"out of order", []Step{StepAllocate, StepPack, StepPick, StepShip, StepDeliver}, true},
		{"extra step before deliver", []Step{StepAllocate, StepPick, "qa", StepPack, StepShip, StepDeliver}, true},
		{"duplicate", []Step{StepAllocate, StepPick, StepPack, StepShip, StepDeliver, StepDeliver}, true},
		{"empty key", []Step{StepAllocate, StepPick, StepPack, StepShip, StepDeliver, ""}, true},
		{"no steps", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := &WorkflowDefinition{ProcessType: ProcessTypeSalesOrder, Steps: tt.steps}
			err := def.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	t.Run("purchase workflows only need unique keys", func(t *testing.T) {
		def := &WorkflowDefinition{ProcessType: ProcessTypePurchaseOrder, Steps: []Step{"approve", StepReceive}}
		assert.NoError(t, def.Validate())
	})
}

func TestDefaultWorkflowDefinition(t *testing.T) {
	def := DefaultWorkflowDefinition(uuid.New())
	require.NoError(t, def.Validate())

	def.Steps[0] = "mutated"
	assert.Equal(t, StepAllocate, defaultChain[0])
}

func TestFulfillmentDocument_Lifecycle(t *testing.T) {
	order := newTestOrder(t, 1)
	doc, err := NewFulfillmentDocument(order, DocumentTypePack, "PACK-202610-00001", nil, []byte(`{}`))
	require.NoError(t, err)
	assert.True(t, doc.IsPending())

	doc.RecordFailure(errors.New("chrome unavailable"), 2)
	assert.True(t, doc.IsPending())
	assert.Equal(t, 1, doc.Attempts)

	doc.RecordFailure(errors.New("chrome unavailable"), 2)
	assert.Equal(t, DocumentStatusFailed, doc.Status)

	require.NoError(t, doc.ResetForRetry())
	assert.True(t, doc.IsPending())
	assert.Equal(t, 0, doc.Attempts)

	doc.MarkStored("tenant/PACK/2026/10/PACK-202610-00001.pdf")
	assert.Equal(t, DocumentStatusStored, doc.Status)
	assert.Empty(t, doc.LastError)
	assert.Error(t, doc.ResetForRetry())
}
