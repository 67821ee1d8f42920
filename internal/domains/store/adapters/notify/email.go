// Package notify delivers order notifications to customers.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/petopia/petopia-server/internal/domains/store/ports"
	"github.com/petopia/petopia-server/internal/platform/mail"
)

var _ ports.CancellationNotifier = (*EmailNotifier)(nil)

// EmailNotifier mails the customer when an order is cancelled.
type EmailNotifier struct {
	directory ports.CustomerDirectory
	sender    mail.Sender
}

func NewEmailNotifier(directory ports.CustomerDirectory, sender mail.Sender) *EmailNotifier {
	return &EmailNotifier{directory: directory, sender: sender}
}

func (n *EmailNotifier) NotifyCancellation(ctx context.Context, notice ports.CancellationNotice) error {
	if n == nil || n.directory == nil || n.sender == nil {
		return errors.New("email notifier not configured")
	}
	contact, err := n.directory.Contact(ctx, notice.UserID)
	if err != nil {
		return fmt.Errorf("resolve contact for user %d: %w", notice.UserID, err)
	}
	if strings.TrimSpace(contact.Email) == "" {
		return fmt.Errorf("user %d has no email address", notice.UserID)
	}
	return n.sender.Send(ctx, CancellationMessage(contact, notice))
}

// CancellationMessage renders the cancellation email.
func CancellationMessage(contact ports.Contact, notice ports.CancellationNotice) mail.Message {
	name := strings.TrimSpace(contact.Name)
	if name == "" {
		name = "there"
	}
	var body strings.Builder
	fmt.Fprintf(&body, "Hi %s,\n\n", name)
	fmt.Fprintf(&body, "Your Petopia order #%d has been cancelled.\n", notice.OrderID)
	fmt.Fprintf(&body, "Items: %d\nOrder total: %s\n", notice.ItemCount, notice.TotalAmount.StringFixed(2))
	if !notice.CancelledAt.IsZero() {
		fmt.Fprintf(&body, "Cancelled at: %s\n", notice.CancelledAt.UTC().Format("2006-01-02 15:04 MST"))
	}
	body.WriteString("\nAny reserved stock has been released. If you paid already, the refund follows separately.\n\nPetopia")
	return mail.Message{
		To:      contact.Email,
		Subject: fmt.Sprintf("Your Petopia order #%d was cancelled", notice.OrderID),
		Body:    body.String(),
	}
}
