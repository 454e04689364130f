package listener

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"invoiceservice/internal/domain"
	"invoiceservice/internal/domain/invoice"
	"invoiceservice/internal/domain/notification"
	"invoiceservice/internal/infrastructure/mail"
)

// InvoiceStatusChanged reacts to INVOICE_STATUS_CHANGED: persists an in-app
// notification whose severity tracks the new status, and for Overdue also
// sends an alert email. Same isolation contract as InvoiceCreated.
type InvoiceStatusChanged struct {
	notifications notification.Service
	gateway       mail.Gateway
	log           *zap.Logger
}

func NewInvoiceStatusChanged(
	notifications notification.Service,
	gateway mail.Gateway,
	log *zap.Logger,
) *InvoiceStatusChanged {
	return &InvoiceStatusChanged{
		notifications: notifications,
		gateway:       gateway,
		log:           log,
	}
}

func severityFor(status string) notification.Type {
	switch invoice.Status(status) {
	case invoice.StatusPaid:
		return notification.TypeSuccess
	case invoice.StatusOverdue:
		return notification.TypeWarning
	case invoice.StatusCancelled:
		return notification.TypeError
	default:
		return notification.TypeInfo
	}
}

func (l *InvoiceStatusChanged) Handle(ctx context.Context, e domain.Event) error {
	p, ok := e.Payload.(domain.InvoiceStatusChangedPayload)
	if !ok {
		return &domain.DomainError{
			Code:    domain.ErrorCodeValidation,
			Message: fmt.Sprintf("unexpected payload %T for %s", e.Payload, e.Type),
		}
	}

	number := p.InvoiceNumber
	if number == "" {
		number = p.InvoiceID
	}

	if _, err := l.notifications.Create(ctx,
		p.UserID,
		severityFor(p.Status),
		"Invoice Status Updated",
		fmt.Sprintf("Invoice #%s is now %s.", number, p.Status),
		invoiceEntityType,
		p.InvoiceID,
	); err != nil {
		l.log.Error("status changed: notification write failed",
			zap.String("invoice_id", p.InvoiceID),
			zap.Error(err),
		)
	}

	if invoice.Status(p.Status) == invoice.StatusOverdue {
		// The recipient is the documented placeholder, not the customer's
		// real address; the created-invoice path is the only one that
		// resolves it. Kept as-is rather than silently fixed.
		delivered := l.gateway.Send(ctx, mail.Message{
			To:       placeholderInbox,
			Subject:  fmt.Sprintf("Invoice Overdue #%s", p.InvoiceID),
			HTMLBody: invoiceOverdueBody(p.InvoiceID),
		})

		l.log.Info("overdue alert attempted",
			zap.String("invoice_id", p.InvoiceID),
			zap.Bool("email_delivered", delivered),
		)
	}

	return nil
}
