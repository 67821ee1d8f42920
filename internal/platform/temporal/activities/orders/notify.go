package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	storeports "github.com/petopia/petopia-server/internal/domains/store/ports"
)

// SendCancellationEmailActivityName mails the customer about a cancelled order.
const SendCancellationEmailActivityName = "orders.activities.SendCancellationEmail"

// Activities groups activities that talk to customers about their orders.
type Activities struct {
	notifier storeports.CancellationNotifier
}

// NewActivities wires the delivery channel used by the cancellation workflow.
func NewActivities(notifier storeports.CancellationNotifier) *Activities {
	return &Activities{notifier: notifier}
}

// SendCancellationEmail delivers the cancellation notice.
func (a *Activities) SendCancellationEmail(ctx context.Context, notice storeports.CancellationNotice) error {
	logger := activity.GetLogger(ctx)
	if a == nil || a.notifier == nil {
		logger.Error("cancellation activity not initialized", "orderId", notice.OrderID)
		return errors.New("cancellation activity not initialized")
	}
	logger.Info("SendCancellationEmail activity started", "orderId", notice.OrderID, "userId", notice.UserID)
	if err := a.notifier.NotifyCancellation(ctx, notice); err != nil {
		logger.Error("SendCancellationEmail activity failed", "orderId", notice.OrderID, "error", err)
		return err
	}
	logger.Info("SendCancellationEmail activity completed", "orderId", notice.OrderID)
	return nil
}
