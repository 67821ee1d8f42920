package workflows

import (
	"context"
	"errors"
	"fmt"

	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/petopia/petopia-server/internal/domains/store/ports"
	orderworkflows "github.com/petopia/petopia-server/internal/platform/temporal/workflows/orders"
)

var (
	_ ports.CancellationNotifier = (*TemporalNotifier)(nil)
	_ ports.CancellationNotifier = (*InlineNotifier)(nil)
)

// TemporalNotifier hands cancellation notices to the worker through a workflow.
type TemporalNotifier struct {
	client    client.Client
	taskQueue string
}

func NewTemporalNotifier(c client.Client) *TemporalNotifier {
	return &TemporalNotifier{client: c, taskQueue: orderworkflows.NotificationsTaskQueue}
}

// NotifyCancellation starts the workflow without waiting for delivery.
// The workflow id is derived from the order so a second start is rejected.
func (n *TemporalNotifier) NotifyCancellation(ctx context.Context, notice ports.CancellationNotice) error {
	if n == nil || n.client == nil {
		return errors.New("temporal notifier not configured")
	}
	options := client.StartWorkflowOptions{
		ID:                                       CancellationWorkflowID(notice.OrderID),
		TaskQueue:                                n.taskQueue,
		WorkflowIDReusePolicy:                    enumspb.WORKFLOW_ID_REUSE_POLICY_REJECT_DUPLICATE,
		WorkflowExecutionErrorWhenAlreadyStarted: true,
	}
	_, err := n.client.ExecuteWorkflow(ctx, options, orderworkflows.CancellationNoticeWorkflowName, notice)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) {
			return nil
		}
		return err
	}
	return nil
}

// CancellationWorkflowID is stable per order.
func CancellationWorkflowID(orderID int64) string {
	return fmt.Sprintf("order-cancellation-%d", orderID)
}

// InlineNotifier delivers directly without durable orchestration, used when Temporal is unavailable.
type InlineNotifier struct {
	delegate ports.CancellationNotifier
}

func NewInlineNotifier(delegate ports.CancellationNotifier) *InlineNotifier {
	return &InlineNotifier{delegate: delegate}
}

func (n *InlineNotifier) NotifyCancellation(ctx context.Context, notice ports.CancellationNotice) error {
	if n == nil || n.delegate == nil {
		return errors.New("inline notifier not configured")
	}
	return n.delegate.NotifyCancellation(ctx, notice)
}
