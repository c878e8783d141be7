package workflows

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	orderapp "github.com/Apurer/flower-shop-api/internal/domains/orders/application"
	"github.com/Apurer/flower-shop-api/internal/domains/orders/domain"
	"github.com/Apurer/flower-shop-api/internal/domains/orders/ports"
	orderactivities "github.com/Apurer/flower-shop-api/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/Apurer/flower-shop-api/internal/platform/temporal/workflows/orders"
)

var (
	_ ports.WorkflowOrchestrator = (*TemporalOrderWorkflows)(nil)
	_ ports.WorkflowOrchestrator = (*InlineOrderWorkflows)(nil)
)

// TemporalOrderWorkflows starts order placement on a Temporal cluster.
type TemporalOrderWorkflows struct {
	client    client.Client
	taskQueue string
}

// NewTemporalOrderWorkflows wires a Temporal client into the orchestrator.
func NewTemporalOrderWorkflows(c client.Client) *TemporalOrderWorkflows {
	return &TemporalOrderWorkflows{client: c, taskQueue: orderworkflows.PlacementTaskQueue}
}

// PlaceOrder starts the placement workflow and waits for the stored order.
// Requests without an idempotency key get a generated one so activity retries stay idempotent.
// The workflow ID covers the key and the payload fingerprint, so a reused key with a
// different body never attaches to the running placement of the first one.
func (o *TemporalOrderWorkflows) PlaceOrder(ctx context.Context, input ports.PlaceOrderInput) (*domain.Order, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal order workflows not configured")
	}
	clientKey := strings.TrimSpace(input.IdempotencyKey)
	if clientKey == "" {
		input.IdempotencyKey = "placement-" + uuid.NewString()
	}
	fingerprint, err := orderapp.FingerprintPlaceOrder(input)
	if err != nil {
		return nil, err
	}
	traceComponent := workflowTraceComponent(ctx)
	workflowID := buildPlacementWorkflowID(input.IdempotencyKey, fingerprint)
	options := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		orderworkflows.PlacementWorkflow,
		orderworkflows.PlacementWorkflowInput{Command: input, TraceID: traceComponent},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) && clientKey != "" {
			existingRun := o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
			var order domain.Order
			if err := existingRun.Get(ctx, &order); err != nil {
				return nil, placementError(err)
			}
			return &order, nil
		}
		return nil, err
	}
	var order domain.Order
	if err := run.Get(ctx, &order); err != nil {
		return nil, placementError(err)
	}
	return &order, nil
}

// placementError restores the application sentinels carried as Temporal application error types.
func placementError(err error) error {
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return err
	}
	switch appErr.Type() {
	case orderactivities.ErrorTypeInvalidInput:
		return fmt.Errorf("%w: %s", orderapp.ErrInvalidInput, appErr.Error())
	case orderactivities.ErrorTypeIdempotencyConflict:
		return fmt.Errorf("%w: %s", ports.ErrIdempotencyConflict, appErr.Error())
	}
	return err
}

// InlineOrderWorkflows runs placement synchronously when Temporal is not configured.
type InlineOrderWorkflows struct {
	service ports.Service
	logger  *slog.Logger
}

// NewInlineOrderWorkflows wraps the orders service for synchronous execution.
func NewInlineOrderWorkflows(service ports.Service, logger *slog.Logger) *InlineOrderWorkflows {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &InlineOrderWorkflows{service: service, logger: logger}
}

// PlaceOrder stores the order and sends the confirmation best effort.
func (o *InlineOrderWorkflows) PlaceOrder(ctx context.Context, input ports.PlaceOrderInput) (*domain.Order, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline order workflows not configured")
	}
	order, err := o.service.PlaceOrder(ctx, input)
	if err != nil {
		return nil, err
	}
	if err := o.service.SendConfirmation(ctx, order.ID); err != nil {
		o.logger.WarnContext(ctx, "order confirmation not sent", slog.String("order.id", order.ID), slog.String("error", err.Error()))
	}
	return order, nil
}

func buildPlacementWorkflowID(key, fingerprint string) string {
	return fmt.Sprintf("order-placement-%s", hashIdempotencyKey(key, fingerprint))
}

func hashIdempotencyKey(key, fingerprint string) string {
	sum := sha256.Sum256([]byte(key + "\x00" + fingerprint))
	return hex.EncodeToString(sum[:12])
}

func workflowTraceComponent(ctx context.Context) string {
	if traceID := workflowTraceID(ctx); traceID != "" {
		return traceID
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
