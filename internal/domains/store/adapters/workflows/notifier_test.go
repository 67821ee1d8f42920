package workflows

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/mocks"

	"github.com/petopia/petopia-server/internal/domains/store/ports"
	orderworkflows "github.com/petopia/petopia-server/internal/platform/temporal/workflows/orders"
)

func optionsFor(orderID int64) interface{} {
	return mock.MatchedBy(func(o client.StartWorkflowOptions) bool {
		return o.ID == CancellationWorkflowID(orderID) && o.TaskQueue == orderworkflows.NotificationsTaskQueue
	})
}

func TestTemporalNotifier_StartsWorkflowPerOrder(t *testing.T) {
	c := &mocks.Client{}
	notice := ports.CancellationNotice{OrderID: 5, UserID: 2}
	c.On("ExecuteWorkflow", mock.Anything, optionsFor(5), orderworkflows.CancellationNoticeWorkflowName, notice).
		Return(&mocks.WorkflowRun{}, nil).Once()

	require.NoError(t, NewTemporalNotifier(c).NotifyCancellation(context.Background(), notice))
	c.AssertExpectations(t)
}

func TestTemporalNotifier_DuplicateStartIsNotAnError(t *testing.T) {
	c := &mocks.Client{}
	notice := ports.CancellationNotice{OrderID: 6}
	c.On("ExecuteWorkflow", mock.Anything, optionsFor(6), orderworkflows.CancellationNoticeWorkflowName, notice).
		Return(nil, serviceerror.NewWorkflowExecutionAlreadyStarted("already started", "", "run-1")).Once()

	require.NoError(t, NewTemporalNotifier(c).NotifyCancellation(context.Background(), notice))
	c.AssertExpectations(t)
}

func TestTemporalNotifier_PropagatesStartFailure(t *testing.T) {
	c := &mocks.Client{}
	notice := ports.CancellationNotice{OrderID: 8}
	c.On("ExecuteWorkflow", mock.Anything, optionsFor(8), orderworkflows.CancellationNoticeWorkflowName, notice).
		Return(nil, errors.New("frontend unavailable")).Once()

	require.Error(t, NewTemporalNotifier(c).NotifyCancellation(context.Background(), notice))
}

func TestInlineNotifier_RequiresDelegate(t *testing.T) {
	require.Error(t, NewInlineNotifier(nil).NotifyCancellation(context.Background(), ports.CancellationNotice{}))
	require.NoError(t, NewInlineNotifier(ports.NoopNotifier).NotifyCancellation(context.Background(), ports.CancellationNotice{}))
}
