package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	storeports "github.com/petopia/petopia-server/internal/domains/store/ports"
	orderactivities "github.com/petopia/petopia-server/internal/platform/temporal/activities/orders"
)

// RunCancellationNoticeSequence sends the cancellation email exactly once at most.
// A failed attempt is not retried so the customer never receives duplicates.
func RunCancellationNoticeSequence(ctx workflow.Context, notice storeports.CancellationNotice) error {
	logger := workflow.GetLogger(ctx)
	logger.Info("cancellation notice sequence started", "orderId", notice.OrderID)
	options := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	}
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, options), orderactivities.SendCancellationEmailActivityName, notice).Get(ctx, nil)
	if err != nil {
		logger.Error("cancellation notice sequence failed", "orderId", notice.OrderID, "error", err)
		return err
	}
	logger.Info("cancellation notice sequence completed", "orderId", notice.OrderID)
	return nil
}
