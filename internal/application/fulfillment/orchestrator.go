package fulfillment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/erp/fulfillment/internal/domain/fulfillment"
	"github.com/erp/fulfillment/internal/domain/shared"
	"github.com/erp/fulfillment/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const auditModule = "fulfillment"

// Orchestrator sequences the fulfillment managers against an order's
// (status, step) pair. Every call runs in exactly one transaction; document
// rendering and audit logging happen after commit.
type Orchestrator struct {
	scope      TransactionScope
	workflows  WorkflowDefinitions
	docs       *DocumentService
	dispatcher EventDispatcher
	serializer EventSerializer
	audit      AuditRecorder
	metrics    TransitionRecorder
	logger     *zap.Logger

	allocations *AllocationManager
	picks       *PickManager
	packs       *PackManager
	shipments   *ShipmentManager
	deliveries  *DeliveryManager
}

// OrchestratorOption configures an Orchestrator
type OrchestratorOption func(*Orchestrator)

// WithEventDispatcher sets the dispatcher for in-transaction event handlers
func WithEventDispatcher(d EventDispatcher) OrchestratorOption {
	return func(o *Orchestrator) {
		o.dispatcher = d
	}
}

// WithOutbox enables writing raised events to the transactional outbox
func WithOutbox(serializer EventSerializer) OrchestratorOption {
	return func(o *Orchestrator) {
		o.serializer = serializer
	}
}

// WithAuditRecorder sets the audit recorder
func WithAuditRecorder(a AuditRecorder) OrchestratorOption {
	return func(o *Orchestrator) {
		if a != nil {
			o.audit = a
		}
	}
}

// WithTransitionRecorder sets the metrics recorder
func WithTransitionRecorder(r TransitionRecorder) OrchestratorOption {
	return func(o *Orchestrator) {
		if r != nil {
			o.metrics = r
		}
	}
}

// NewOrchestrator creates a new Orchestrator
func NewOrchestrator(scope TransactionScope, workflows WorkflowDefinitions, docs *DocumentService, logger *zap.Logger, opts ...OrchestratorOption) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	o := &Orchestrator{
		scope:       scope,
		workflows:   workflows,
		docs:        docs,
		audit:       noopAudit{},
		metrics:     noopRecorder{},
		logger:      logger,
		allocations: NewAllocationManager(logger),
		picks:       NewPickManager(logger),
		packs:       NewPackManager(docs, logger),
		shipments:   NewShipmentManager(docs, logger),
		deliveries:  NewDeliveryManager(docs, logger),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// stateCheck re-validates a stale order after a lost optimistic race
type stateCheck func(ctx context.Context, repos TransactionalRepositories, order *fulfillment.SalesOrder) error

func operationCheck(op fulfillment.Operation) stateCheck {
	return func(_ context.Context, _ TransactionalRepositories, order *fulfillment.SalesOrder) error {
		return order.CheckOperation(op)
	}
}

// Allocate reserves stock for one order line
func (o *Orchestrator) Allocate(ctx context.Context, cmd AllocateCommand) (*AllocationResult, error) {
	result := &AllocationResult{}
	err := o.observe(ctx, fulfillment.OperationAllocateLine.String(), cmd.OrderID, func(ctx context.Context) error {
		order, err := o.execute(ctx, cmd.Actor, cmd.OrderID, operationCheck(fulfillment.OperationAllocateLine),
			func(repos TransactionalRepositories, order *fulfillment.SalesOrder) error {
				allocation, err := o.allocations.Allocate(ctx, repos, order, cmd)
				result.Allocation = allocation
				return err
			})
		result.Order = order
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Deallocate removes one allocation
func (o *Orchestrator) Deallocate(ctx context.Context, cmd DeallocateCommand) (*fulfillment.SalesOrder, error) {
	var order *fulfillment.SalesOrder
	err := o.observe(ctx, fulfillment.OperationDeallocate.String(), cmd.OrderID, func(ctx context.Context) error {
		var err error
		order, err = o.execute(ctx, cmd.Actor, cmd.OrderID, operationCheck(fulfillment.OperationDeallocate),
			func(repos TransactionalRepositories, order *fulfillment.SalesOrder) error {
				return o.allocations.Deallocate(ctx, repos, order, cmd)
			})
		return err
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Pick records a physical pick
func (o *Orchestrator) Pick(ctx context.Context, cmd PickCommand) (*PickResult, error) {
	result := &PickResult{}
	err := o.observe(ctx, fulfillment.OperationPickLine.String(), cmd.OrderID, func(ctx context.Context) error {
		order, err := o.execute(ctx, cmd.Actor, cmd.OrderID, operationCheck(fulfillment.OperationPickLine),
			func(repos TransactionalRepositories, order *fulfillment.SalesOrder) error {
				pick, err := o.picks.Pick(ctx, repos, order, cmd)
				result.Pick = pick
				return err
			})
		result.Order = order
		return err
	})
	if err != nil {
		return nil, err
	}
	result.ReadyForPack = result.Order.ReadyForPack()
	return result, nil
}

// SavePackages replaces the order's unshipped packages
func (o *Orchestrator) SavePackages(ctx context.Context, cmd SavePackagesCommand) (*PackagesResult, error) {
	result := &PackagesResult{}
	err := o.observe(ctx, fulfillment.OperationSavePackages.String(), cmd.OrderID, func(ctx context.Context) error {
		order, err := o.execute(ctx, cmd.Actor, cmd.OrderID, operationCheck(fulfillment.OperationSavePackages),
			func(repos TransactionalRepositories, order *fulfillment.SalesOrder) error {
				packages, err := o.packs.SavePackages(ctx, repos, order, cmd.Packages)
				result.Packages = packages
				return err
			})
		result.Order = order
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Advance applies a confirming transition. The state change, the manager's
// writes, the pending document record and the outbox entries commit together.
// A document that fails to render afterwards leaves the transition applied
// and is reported through DocumentPending.
func (o *Orchestrator) Advance(ctx context.Context, cmd AdvanceCommand) (*TransitionResult, error) {
	if _, err := fulfillment.ParseTransition(cmd.Transition.String()); err != nil {
		return nil, err
	}

	result := &TransitionResult{}
	var doc *fulfillment.FulfillmentDocument
	err := o.observe(ctx, "transition_"+cmd.Transition.String(), cmd.OrderID, func(ctx context.Context) error {
		order, err := o.execute(ctx, cmd.Actor, cmd.OrderID, o.transitionCheck(cmd.Transition),
			func(repos TransactionalRepositories, order *fulfillment.SalesOrder) error {
				result.PreviousState = order.State()
				next, resolution, err := o.nextStep(ctx, order)
				if err != nil {
					return err
				}
				result.NextStep = next
				result.Resolution = resolution

				doc, err = o.dispatch(ctx, repos, order, cmd, next, result)
				return err
			})
		if err != nil {
			return err
		}
		result.Order = order

		o.logger.Info("order transitioned",
			zap.String("order_id", order.ID.String()),
			zap.String("order_number", order.OrderNumber),
			zap.String("transition", cmd.Transition.String()),
			zap.String("from", result.PreviousState.String()),
			zap.String("to", order.State().String()),
			zap.String("resolution", string(result.Resolution)),
		)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if doc != nil {
		result.Document = doc
		if genErr := o.docs.Generate(ctx, doc); genErr != nil {
			result.DocumentPending = true
			result.DocumentError = genErr.Error()
		}
	}
	o.recordTransitionAudit(ctx, cmd, result)
	return result, nil
}

// dispatch delegates the transition to its manager
func (o *Orchestrator) dispatch(ctx context.Context, repos TransactionalRepositories, order *fulfillment.SalesOrder, cmd AdvanceCommand, next fulfillment.Step, result *TransitionResult) (*fulfillment.FulfillmentDocument, error) {
	switch cmd.Transition {
	case fulfillment.TransitionAllocate:
		return nil, o.allocations.ConfirmAllocation(order, next)
	case fulfillment.TransitionPick:
		return nil, o.picks.ConfirmPick(order, next)
	case fulfillment.TransitionPack:
		doc, packages, err := o.packs.ConfirmPack(ctx, repos, order, next)
		result.Packages = packages
		return doc, err
	case fulfillment.TransitionShip:
		shipment, doc, err := o.shipments.ConfirmShip(ctx, repos, order, cmd.Ship, next)
		result.Shipment = shipment
		return doc, err
	case fulfillment.TransitionDeliver:
		delivery, doc, err := o.deliveries.ConfirmDelivery(ctx, repos, order, cmd.Deliver, next)
		if delivery != nil {
			result.Delivery = delivery
			result.ReturnOrderID = delivery.ReturnOrderID
		}
		return doc, err
	}
	return nil, shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Unknown transition %q", cmd.Transition))
}

func (o *Orchestrator) transitionCheck(t fulfillment.Transition) stateCheck {
	return func(ctx context.Context, repos TransactionalRepositories, order *fulfillment.SalesOrder) error {
		if t == fulfillment.TransitionDeliver {
			if err := o.deliveries.ExistingDelivery(ctx, repos, order); err != nil {
				return err
			}
		}
		return order.CheckTransition(t)
	}
}

// nextStep resolves the step after the order's current one from the
// tenant's workflow definition
func (o *Orchestrator) nextStep(ctx context.Context, order *fulfillment.SalesOrder) (fulfillment.Step, fulfillment.StepResolution, error) {
	var def *fulfillment.WorkflowDefinition
	if o.workflows != nil {
		var err error
		def, err = o.workflows.Definition(ctx, order.TenantID, fulfillment.ProcessTypeSalesOrder)
		if err != nil {
			return "", "", fmt.Errorf("load workflow definition: %w", err)
		}
	}
	next, resolution := fulfillment.ResolveNextStep(def, order.WorkflowState)
	if resolution != fulfillment.ResolutionConfigured {
		o.logger.Info("workflow step resolved by fallback",
			zap.String("tenant_id", order.TenantID.String()),
			zap.String("current_step", order.WorkflowState.String()),
			zap.String("next_step", next.String()),
			zap.String("resolution", string(resolution)),
		)
	}
	return next, resolution, nil
}

// execute loads the order under lock, applies fn, writes the state with the
// optimistic version check, hands raised events to in-transaction handlers
// and the outbox, all in one transaction.
func (o *Orchestrator) execute(ctx context.Context, actor Actor, orderID uuid.UUID, check stateCheck, fn func(repos TransactionalRepositories, order *fulfillment.SalesOrder) error) (*fulfillment.SalesOrder, error) {
	var result *fulfillment.SalesOrder
	err := o.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.OrderRepo().FindByIDForUpdate(ctx, actor.TenantID, orderID)
		if err != nil {
			return err
		}
		prev := order.State()
		if err := fn(repos, order); err != nil {
			return err
		}
		if err := repos.OrderRepo().SaveState(ctx, order, prev); err != nil {
			return err
		}
		if err := o.publish(ctx, repos, order.PullDomainEvents()); err != nil {
			return err
		}
		result = order
		return nil
	})
	if errors.Is(err, shared.ErrConcurrencyConflict) {
		return nil, o.reread(ctx, actor, orderID, check)
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

// reread reports why a transaction lost its race. When the fresh order no
// longer satisfies the precondition the caller gets that error; otherwise
// the conflict is returned as is and the call may be retried.
func (o *Orchestrator) reread(ctx context.Context, actor Actor, orderID uuid.UUID, check stateCheck) error {
	var checkErr error
	err := o.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.OrderRepo().FindByID(ctx, actor.TenantID, orderID)
		if err != nil {
			return err
		}
		checkErr = check(ctx, repos, order)
		return nil
	})
	if err != nil {
		return err
	}
	if checkErr != nil {
		return checkErr
	}
	return shared.ErrConcurrencyConflict
}

// publish runs in-transaction handlers and writes outbox entries
func (o *Orchestrator) publish(ctx context.Context, repos TransactionalRepositories, events []shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}
	if o.dispatcher != nil {
		if err := o.dispatcher.Dispatch(ctx, repos, events...); err != nil {
			return err
		}
	} else {
		for _, event := range events {
			if req, ok := event.(shared.HandlerRequired); ok && req.RequiresHandler() {
				return fmt.Errorf("no handler registered for %s", event.EventType())
			}
		}
	}

	if o.serializer == nil {
		return nil
	}
	entries := make([]*shared.OutboxEntry, 0, len(events))
	for _, event := range events {
		payload, err := o.serializer.Serialize(event)
		if err != nil {
			return fmt.Errorf("serialize %s: %w", event.EventType(), err)
		}
		entries = append(entries, shared.NewOutboxEntry(event, payload))
	}
	if err := repos.OutboxRepo().Save(ctx, entries...); err != nil {
		return fmt.Errorf("save outbox entries: %w", err)
	}
	return nil
}

// observe wraps an operation in a span, profiling labels and a metric sample
func (o *Orchestrator) observe(ctx context.Context, action string, orderID uuid.UUID, fn func(context.Context) error) error {
	start := time.Now()
	ctx, span := telemetry.StartServiceSpan(ctx, "fulfillment", action,
		telemetry.WithAttribute(telemetry.SpanAttrOrderID, orderID.String()),
	)
	defer span.End()

	var err error
	telemetry.WithProfilingLabels(ctx, telemetry.OperationLabels(action, nil), func(c context.Context) {
		err = fn(c)
	})

	outcome := OutcomeSuccess
	if err != nil {
		telemetry.RecordError(span, err)
		outcome = OutcomeError
		if shared.CodeOf(err) != "" {
			outcome = OutcomeRejected
		}
		o.logger.Warn("fulfillment operation failed",
			zap.String("action", action),
			zap.String("order_id", orderID.String()),
			zap.String("code", shared.CodeOf(err)),
			zap.Error(err),
		)
	} else {
		telemetry.SetOK(span)
	}
	o.metrics.RecordTransition(ctx, action, outcome, time.Since(start))
	return err
}

func (o *Orchestrator) recordTransitionAudit(ctx context.Context, cmd AdvanceCommand, result *TransitionResult) {
	description := fmt.Sprintf("Order %s: %s confirmed, %s -> %s",
		result.Order.OrderNumber, cmd.Transition, result.PreviousState, result.Order.State())
	path := ""
	if result.Document != nil {
		description += fmt.Sprintf(", document %s", result.Document.DocumentNumber)
		if result.DocumentPending {
			description += " pending"
		}
		path = result.Document.StoragePath
	}
	o.audit.RecordAudit(ctx, AuditEntry{
		TenantID:     cmd.TenantID,
		UserID:       cmd.UserID,
		Module:       auditModule,
		Action:       "transition_" + cmd.Transition.String(),
		ResourceType: "sales_order",
		ResourceID:   result.Order.ID,
		Description:  description,
		DocumentPath: path,
	})
}

// GetOrder returns the order with everything fulfillment recorded for it
func (o *Orchestrator) GetOrder(ctx context.Context, tenantID, orderID uuid.UUID) (*OrderView, error) {
	view := &OrderView{}
	err := o.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.OrderRepo().FindByID(ctx, tenantID, orderID)
		if err != nil {
			return err
		}
		view.Order = order
		if view.Allocations, err = repos.AllocationRepo().FindByOrder(ctx, tenantID, orderID); err != nil {
			return err
		}
		if view.Picks, err = repos.PickRepo().FindByOrder(ctx, tenantID, orderID); err != nil {
			return err
		}
		if view.Packages, err = repos.PackageRepo().FindByOrder(ctx, tenantID, orderID); err != nil {
			return err
		}
		if view.Documents, err = repos.DocumentRepo().FindByOrder(ctx, tenantID, orderID); err != nil {
			return err
		}
		shipment, err := repos.ShipmentRepo().FindByOrder(ctx, tenantID, orderID)
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		view.Shipment = shipment
		delivery, err := repos.DeliveryRepo().FindByShipment(ctx, tenantID, shipment.ID)
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		view.Delivery = delivery
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// RetryDocument re-renders one document of an order
func (o *Orchestrator) RetryDocument(ctx context.Context, tenantID, documentID uuid.UUID) (*fulfillment.FulfillmentDocument, error) {
	return o.docs.Retry(ctx, tenantID, documentID)
}
