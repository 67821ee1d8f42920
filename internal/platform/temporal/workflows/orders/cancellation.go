package orders

import (
	"go.temporal.io/sdk/workflow"

	storeports "github.com/petopia/petopia-server/internal/domains/store/ports"
	"github.com/petopia/petopia-server/internal/platform/temporal/sequences"
)

const (
	// NotificationsTaskQueue is polled by the worker for order notification work.
	NotificationsTaskQueue = "ORDER_NOTIFICATIONS"
	// CancellationNoticeWorkflowName is the registered workflow type.
	CancellationNoticeWorkflowName = "orders.workflows.CancellationNotice"
)

// CancellationNoticeWorkflow notifies the customer that an order was cancelled.
func CancellationNoticeWorkflow(ctx workflow.Context, notice storeports.CancellationNotice) error {
	return sequences.RunCancellationNoticeSequence(ctx, notice)
}
