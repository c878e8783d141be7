package workflows

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	orderapp "github.com/Apurer/flower-shop-api/internal/domains/orders/application"
	"github.com/Apurer/flower-shop-api/internal/domains/orders/domain"
	"github.com/Apurer/flower-shop-api/internal/domains/orders/ports"
	orderactivities "github.com/Apurer/flower-shop-api/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/Apurer/flower-shop-api/internal/platform/temporal/workflows/orders"
)

type temporalClientMock struct {
	client.Client
	mock.Mock
}

func (m *temporalClientMock) ExecuteWorkflow(_ context.Context, options client.StartWorkflowOptions, _ interface{}, args ...interface{}) (client.WorkflowRun, error) {
	called := m.Called(options.ID, args[0])
	run, _ := called.Get(0).(client.WorkflowRun)
	return run, called.Error(1)
}

func (m *temporalClientMock) GetWorkflow(_ context.Context, workflowID, runID string) client.WorkflowRun {
	return m.Called(workflowID, runID).Get(0).(client.WorkflowRun)
}

type workflowRunStub struct {
	client.WorkflowRun
	order *domain.Order
	err   error
}

func (r workflowRunStub) Get(_ context.Context, valuePtr interface{}) error {
	if r.err != nil {
		return r.err
	}
	*(valuePtr.(*domain.Order)) = *r.order
	return nil
}

func placement() ports.PlaceOrderInput {
	return ports.PlaceOrderInput{
		UserID:         "user-1",
		IdempotencyKey: "checkout-abc",
		Items:          []ports.ItemInput{{ProductID: "rose", Quantity: 2}},
		Shipping:       domain.Shipping{Name: "Lan", Phone: "0901234567", Address: "12 Le Loi"},
	}
}

// activityFailure mirrors the chain run.Get returns when an activity fails.
func activityFailure(errType string) error {
	cause := temporal.NewNonRetryableApplicationError("rejected", errType, nil)
	return fmt.Errorf("workflow execution error: %w", fmt.Errorf("activity error: %w", cause))
}

func TestTemporalOrderWorkflows_MapsActivityFailures(t *testing.T) {
	cases := map[string]struct {
		errType string
		want    error
	}{
		"invalid input":        {errType: orderactivities.ErrorTypeInvalidInput, want: orderapp.ErrInvalidInput},
		"idempotency conflict": {errType: orderactivities.ErrorTypeIdempotencyConflict, want: ports.ErrIdempotencyConflict},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			c := &temporalClientMock{}
			c.On("ExecuteWorkflow", mock.Anything, mock.Anything).
				Return(workflowRunStub{err: activityFailure(tc.errType)}, nil)

			_, err := NewTemporalOrderWorkflows(c).PlaceOrder(context.Background(), placement())
			require.ErrorIs(t, err, tc.want)
			c.AssertExpectations(t)
		})
	}
}

func TestTemporalOrderWorkflows_UnknownFailurePassesThrough(t *testing.T) {
	c := &temporalClientMock{}
	c.On("ExecuteWorkflow", mock.Anything, mock.Anything).
		Return(workflowRunStub{err: activityFailure("orders.Unexpected")}, nil)

	_, err := NewTemporalOrderWorkflows(c).PlaceOrder(context.Background(), placement())
	require.Error(t, err)
	assert.NotErrorIs(t, err, orderapp.ErrInvalidInput)
	assert.NotErrorIs(t, err, ports.ErrIdempotencyConflict)
}

func TestTemporalOrderWorkflows_WorkflowIDTracksPayload(t *testing.T) {
	var ids []string
	c := &temporalClientMock{}
	c.On("ExecuteWorkflow", mock.Anything, mock.AnythingOfType("orders.PlacementWorkflowInput")).
		Run(func(args mock.Arguments) { ids = append(ids, args.String(0)) }).
		Return(workflowRunStub{order: &domain.Order{ID: "order-1"}}, nil)
	orchestrator := NewTemporalOrderWorkflows(c)

	_, err := orchestrator.PlaceOrder(context.Background(), placement())
	require.NoError(t, err)
	_, err = orchestrator.PlaceOrder(context.Background(), placement())
	require.NoError(t, err)
	changed := placement()
	changed.Items[0].Quantity = 5
	_, err = orchestrator.PlaceOrder(context.Background(), changed)
	require.NoError(t, err)

	require.Len(t, ids, 3)
	assert.Equal(t, ids[0], ids[1])
	assert.NotEqual(t, ids[0], ids[2])
}

func TestTemporalOrderWorkflows_AttachesToRunningPlacement(t *testing.T) {
	c := &temporalClientMock{}
	c.On("ExecuteWorkflow", mock.Anything, mock.Anything).
		Return(nil, &serviceerror.WorkflowExecutionAlreadyStarted{Message: "running", RunId: "run-1"})
	c.On("GetWorkflow", mock.Anything, "run-1").
		Return(workflowRunStub{order: &domain.Order{ID: "order-1"}})

	order, err := NewTemporalOrderWorkflows(c).PlaceOrder(context.Background(), placement())
	require.NoError(t, err)
	assert.Equal(t, "order-1", order.ID)
	c.AssertExpectations(t)
}

func TestTemporalOrderWorkflows_UsesPlacementQueue(t *testing.T) {
	orchestrator := NewTemporalOrderWorkflows(&temporalClientMock{})
	assert.Equal(t, orderworkflows.PlacementTaskQueue, orchestrator.taskQueue)
}
