package invoice

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/google/uuid"

	"invoiceservice/internal/domain"
	"invoiceservice/internal/domain/customer"
)

type ItemInput struct {
	Name     string
	Quantity int
	Price    float64
}

type CreateInput struct {
	CustomerID string
	Items      []ItemInput
	Date       time.Time
	Tax        float64
	Status     Status
}

type Service interface {
	Create(ctx context.Context, userID string, in CreateInput) (Invoice, error)
	GetByID(ctx context.Context, requestingUserID, id string) (Invoice, error)
	UpdateStatus(ctx context.Context, requestingUserID, id string, status Status) (Invoice, error)
	ListForUser(ctx context.Context, userID string) ([]Invoice, error)
}

type service struct {
	uow       domain.UnitOfWork
	invoices  Repository
	customers customer.Repository
	events    domain.EventBus
}

func NewService(
	uow domain.UnitOfWork,
	invoices Repository,
	customers customer.Repository,
	events domain.EventBus,
) Service {
	return &service{
		uow:       uow,
		invoices:  invoices,
		customers: customers,
		events:    events,
	}
}

func (s *service) Create(ctx context.Context, userID string, in CreateInput) (Invoice, error) {
	if in.CustomerID == "" || len(in.Items) == 0 {
		return Invoice{}, &domain.DomainError{
			Code:       domain.ErrorCodeValidation,
			Message:    "customer and items are required",
			HTTPStatus: http.StatusBadRequest,
		}
	}

	status := in.Status
	if status == "" {
		status = StatusUnpaid
	}
	if !status.Valid() {
		return Invoice{}, &domain.DomainError{
			Code:       domain.ErrorCodeValidation,
			Message:    "invalid status",
			HTTPStatus: http.StatusBadRequest,
		}
	}

	var res Invoice

	err := s.uow.WithinTx(ctx, func(ctx context.Context) error {
		cust, err := s.customers.GetByID(ctx, in.CustomerID)
		if err != nil {
			return err
		}
		if cust.UserID != userID {
			return &domain.DomainError{
				Code:       domain.ErrorCodeNotAuthorized,
				Message:    "customer does not belong to user",
				HTTPStatus: http.StatusUnauthorized,
			}
		}

		// Totals are recomputed server-side; client-supplied amounts are
		// never trusted.
		var subtotal float64
		items := make([]Item, 0, len(in.Items))
		for _, it := range in.Items {
			subtotal += it.Price * float64(it.Quantity)
			items = append(items, Item{
				Name:     it.Name,
				Quantity: it.Quantity,
				Price:    it.Price,
			})
		}

		date := in.Date
		if date.IsZero() {
			date = time.Now()
		}

		inv := Invoice{
			ID:            uuid.NewString(),
			UserID:        userID,
			CustomerID:    cust.ID,
			InvoiceNumber: newInvoiceNumber(date),
			Date:          date,
			Status:        status,
			Items:         items,
			Subtotal:      subtotal,
			Tax:           in.Tax,
			Total:         subtotal + in.Tax,
		}

		created, err := s.invoices.CreateWithItems(ctx, inv)
		if err != nil {
			return err
		}
		res = created

		return nil
	})
	if err != nil {
		return Invoice{}, err
	}

	// Published only after the transaction commits: side effects must be
	// initiated after the primary write is durable, never before.
	if s.events != nil {
		s.events.Publish(ctx, domain.Event{
			Type: domain.EventInvoiceCreated,
			Payload: domain.InvoiceCreatedPayload{
				InvoiceID:     res.ID,
				InvoiceNumber: res.InvoiceNumber,
				UserID:        res.UserID,
				CustomerID:    res.CustomerID,
				Total:         res.Total,
				Date:          res.Date,
				Status:        string(res.Status),
			},
		})
	}

	return res, nil
}

func (s *service) GetByID(ctx context.Context, requestingUserID, id string) (Invoice, error) {
	inv, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		return Invoice{}, err
	}

	if inv.UserID != requestingUserID {
		return Invoice{}, &domain.DomainError{
			Code:       domain.ErrorCodeNotAuthorized,
			Message:    "not authorized",
			HTTPStatus: http.StatusUnauthorized,
		}
	}

	return inv, nil
}

func (s *service) UpdateStatus(ctx context.Context, requestingUserID, id string, status Status) (Invoice, error) {
	if !status.Valid() {
		return Invoice{}, &domain.DomainError{
			Code:       domain.ErrorCodeValidation,
			Message:    "invalid status",
			HTTPStatus: http.StatusBadRequest,
		}
	}

	var res Invoice

	err := s.uow.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.invoices.LockByID(ctx, id)
		if err != nil {
			return err
		}

		if current.UserID != requestingUserID {
			return &domain.DomainError{
				Code:       domain.ErrorCodeNotAuthorized,
				Message:    "not authorized",
				HTTPStatus: http.StatusUnauthorized,
			}
		}

		updated, err := s.invoices.UpdateStatus(ctx, id, status)
		if err != nil {
			return err
		}
		res = updated

		return nil
	})
	if err != nil {
		return Invoice{}, err
	}

	if s.events != nil {
		s.events.Publish(ctx, domain.Event{
			Type: domain.EventInvoiceStatusChanged,
			Payload: domain.InvoiceStatusChangedPayload{
				InvoiceID:     res.ID,
				InvoiceNumber: res.InvoiceNumber,
				UserID:        res.UserID,
				Status:        string(res.Status),
			},
		})
	}

	return res, nil
}

func (s *service) ListForUser(ctx context.Context, userID string) ([]Invoice, error) {
	return s.invoices.ListForUser(ctx, userID)
}

// newInvoiceNumber builds a human-readable number with a random suffix for
// uniqueness. Collisions fail on the unique index and surface as a 500; a
// counter table would be the production-grade replacement.
func newInvoiceNumber(date time.Time) string {
	return fmt.Sprintf("INV-%s-%04d", date.Format("20060102"), 1000+rand.Intn(9000))
}
