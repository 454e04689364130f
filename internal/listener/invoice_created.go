package listener

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"invoiceservice/internal/domain"
	"invoiceservice/internal/domain/customer"
	"invoiceservice/internal/domain/notification"
	"invoiceservice/internal/domain/user"
	"invoiceservice/internal/infrastructure/mail"
)

const (
	systemName        = "Online Billing System"
	placeholderInbox  = "customer@example.com"
	invoiceEntityType = "Invoice"
)

// InvoiceCreated reacts to INVOICE_CREATED: optionally persists an in-app
// notification for the invoice owner, then emails the customer a summary.
// Every step is best-effort; nothing here may fail the publisher.
type InvoiceCreated struct {
	notifications notification.Service
	gateway       mail.Gateway
	users         user.Repository
	customers     customer.Repository

	// Historical behavior conflicted on whether creation also produces an
	// in-app notification; kept configurable instead of guessing.
	notifyInApp bool

	log *zap.Logger
}

func NewInvoiceCreated(
	notifications notification.Service,
	gateway mail.Gateway,
	users user.Repository,
	customers customer.Repository,
	notifyInApp bool,
	log *zap.Logger,
) *InvoiceCreated {
	return &InvoiceCreated{
		notifications: notifications,
		gateway:       gateway,
		users:         users,
		customers:     customers,
		notifyInApp:   notifyInApp,
		log:           log,
	}
}

func (l *InvoiceCreated) Handle(ctx context.Context, e domain.Event) error {
	p, ok := e.Payload.(domain.InvoiceCreatedPayload)
	if !ok {
		// Unrecoverable payload gap: logged and abandoned, no retry.
		return &domain.DomainError{
			Code:    domain.ErrorCodeValidation,
			Message: fmt.Sprintf("unexpected payload %T for %s", e.Payload, e.Type),
		}
	}

	number := p.InvoiceNumber
	if number == "" {
		number = p.InvoiceID
	}

	if l.notifyInApp {
		if _, err := l.notifications.Create(ctx,
			p.UserID,
			notification.TypeInfo,
			"New Invoice Created",
			fmt.Sprintf("Invoice #%s has been created. Total: $%.2f", number, p.Total),
			invoiceEntityType,
			p.InvoiceID,
		); err != nil {
			// The email below must still be attempted.
			l.log.Error("invoice created: notification write failed",
				zap.String("invoice_id", p.InvoiceID),
				zap.Error(err),
			)
		}
	}

	fromName := systemName
	replyTo := ""
	if u, err := l.users.GetByID(ctx, p.UserID); err == nil {
		fromName = fmt.Sprintf("%s (via %s)", u.Name, systemName)
		replyTo = u.Email
	} else {
		l.log.Warn("invoice created: sender lookup failed, using system identity",
			zap.String("user_id", p.UserID),
			zap.Error(err),
		)
	}

	to := placeholderInbox
	if c, err := l.customers.GetByID(ctx, p.CustomerID); err == nil && c.Email != "" {
		to = c.Email
	} else if err != nil {
		l.log.Warn("invoice created: customer lookup failed, using placeholder recipient",
			zap.String("customer_id", p.CustomerID),
			zap.Error(err),
		)
	}

	delivered := l.gateway.Send(ctx, mail.Message{
		To:       to,
		Subject:  fmt.Sprintf("New Invoice #%s", number),
		HTMLBody: invoiceCreatedBody(number, p.Total, p.Date, p.Status),
		ReplyTo:  replyTo,
		FromName: fromName,
	})

	l.log.Info("invoice created processed",
		zap.String("invoice_id", p.InvoiceID),
		zap.Bool("email_delivered", delivered),
	)

	return nil
}
