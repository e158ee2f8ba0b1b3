package fulfillment

import (
	"fmt"

	"github.com/erp/fulfillment/internal/domain/shared"
	"github.com/google/uuid"
)

// coreSteps are the steps this engine acts on, in the only order it accepts
var coreSteps = []Step{StepAllocate, StepPick, StepPack, StepShip, StepDeliver}

// defaultChain is used when a tenant has no workflow definition
var defaultChain = []Step{StepAllocate, StepPick, StepPack, StepShip, StepDeliver, StepComplete}

// ErrInvalidWorkflow matches every error returned by Validate
var ErrInvalidWorkflow = shared.NewDomainError("INVALID_WORKFLOW", "Invalid workflow definition")

// WorkflowDefinition is the ordered list of step keys a tenant configured
// for a process type.
type WorkflowDefinition struct {
	TenantID    uuid.UUID
	ProcessType string
	Steps       []Step
}

// DefaultWorkflowDefinition returns the built-in sales fulfillment chain
func DefaultWorkflowDefinition(tenantID uuid.UUID) *WorkflowDefinition {
	steps := make([]Step, len(defaultChain))
	copy(steps, defaultChain)
	return &WorkflowDefinition{TenantID: tenantID, ProcessType: ProcessTypeSalesOrder, Steps: steps}
}

// Validate checks step keys are unique and non-empty, and that the core
// steps are all present in canonical order with extra steps only after deliver.
func (d *WorkflowDefinition) Validate() error {
	if len(d.Steps) == 0 {
		return shared.NewDomainError("INVALID_WORKFLOW", "Workflow definition has no steps")
	}
	seen := make(map[Step]bool, len(d.Steps))
	for _, s := range d.Steps {
		if s == "" {
			return shared.NewDomainError("INVALID_WORKFLOW", "Workflow step key cannot be empty")
		}
		if seen[s] {
			return shared.NewDomainError("INVALID_WORKFLOW", fmt.Sprintf("Workflow step %q appears more than once", s))
		}
		seen[s] = true
	}
	if d.ProcessType != ProcessTypeSalesOrder {
		return nil
	}

	if len(d.Steps) < len(coreSteps) {
		return shared.NewDomainError("INVALID_WORKFLOW", "Sales workflow must contain allocate, pick, pack, ship and deliver")
	}
	for i, want := range coreSteps {
		if d.Steps[i] != want {
			return shared.NewDomainError("INVALID_WORKFLOW",
				fmt.Sprintf("Sales workflow step %d must be %q, got %q", i+1, want, d.Steps[i]))
		}
	}
	return nil
}

// Contains reports whether the definition has the step
func (d *WorkflowDefinition) Contains(step Step) bool {
	return d.indexOf(step) >= 0
}

func (d *WorkflowDefinition) indexOf(step Step) int {
	for i, s := range d.Steps {
		if s == step {
			return i
		}
	}
	return -1
}

// StepResolution names the branch ResolveNextStep took
type StepResolution string

const (
	ResolutionConfigured   StepResolution = "configured"
	ResolutionEndOfFlow    StepResolution = "end_of_definition"
	ResolutionDefaultChain StepResolution = "default_chain"
)

// ResolveNextStep returns the step after current.
//   - definition has a successor for current: that successor
//   - definition present, current is last or not in it: complete
//   - no definition: the built-in chain allocate, pick, pack, ship, deliver, complete
func ResolveNextStep(def *WorkflowDefinition, current Step) (Step, StepResolution) {
	if def == nil || len(def.Steps) == 0 {
		return nextInChain(defaultChain, current), ResolutionDefaultChain
	}
	idx := def.indexOf(current)
	if idx >= 0 && idx+1 < len(def.Steps) {
		return def.Steps[idx+1], ResolutionConfigured
	}
	return StepComplete, ResolutionEndOfFlow
}

func nextInChain(chain []Step, current Step) Step {
	for i, s := range chain {
		if s == current && i+1 < len(chain) {
			return chain[i+1]
		}
	}
	return StepComplete
}
