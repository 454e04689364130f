package invoice_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"invoiceservice/internal/domain"
	"invoiceservice/internal/domain/customer"
	"invoiceservice/internal/domain/invoice"
)

type uowStub struct{}

func (uowStub) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type eventBusFake struct{ events []domain.Event }

func (e *eventBusFake) Publish(ctx context.Context, ev domain.Event) { e.events = append(e.events, ev) }

type customerRepoFake struct{ byID map[string]customer.Customer }

func (r *customerRepoFake) Create(ctx context.Context, c customer.Customer) (customer.Customer, error) {
	r.byID[c.ID] = c
	return c, nil
}
func (r *customerRepoFake) GetByID(ctx context.Context, id string) (customer.Customer, error) {
	c, ok := r.byID[id]
	if !ok {
		return customer.Customer{}, &domain.DomainError{Code: domain.ErrorCodeNotFound, Message: "customer not found", HTTPStatus: 404}
	}
	return c, nil
}
func (r *customerRepoFake) ListForUser(ctx context.Context, userID string) ([]customer.Customer, error) {
	return nil, nil
}

type invoiceRepoFake struct {
	byID      map[string]invoice.Invoice
	createErr error
}

func newInvoiceRepoFake() *invoiceRepoFake {
	return &invoiceRepoFake{byID: map[string]invoice.Invoice{}}
}

func (r *invoiceRepoFake) CreateWithItems(ctx context.Context, inv invoice.Invoice) (invoice.Invoice, error) {
	if r.createErr != nil {
		return invoice.Invoice{}, r.createErr
	}
	now := time.Now().UTC()
	inv.CreatedAt = &now
	r.byID[inv.ID] = inv
	return inv, nil
}
func (r *invoiceRepoFake) GetByID(ctx context.Context, id string) (invoice.Invoice, error) {
	inv, ok := r.byID[id]
	if !ok {
		return invoice.Invoice{}, &domain.DomainError{Code: domain.ErrorCodeNotFound, Message: "invoice not found", HTTPStatus: 404}
	}
	return inv, nil
}
func (r *invoiceRepoFake) LockByID(ctx context.Context, id string) (invoice.Invoice, error) {
	return r.GetByID(ctx, id)
}
func (r *invoiceRepoFake) UpdateStatus(ctx context.Context, id string, status invoice.Status) (invoice.Invoice, error) {
	inv, ok := r.byID[id]
	if !ok {
		return invoice.Invoice{}, &domain.DomainError{Code: domain.ErrorCodeNotFound, Message: "invoice not found", HTTPStatus: 404}
	}
	inv.Status = status
	r.byID[id] = inv
	return inv, nil
}
func (r *invoiceRepoFake) ListForUser(ctx context.Context, userID string) ([]invoice.Invoice, error) {
	var res []invoice.Invoice
	for _, inv := range r.byID {
		if inv.UserID == userID {
			res = append(res, inv)
		}
	}
	return res, nil
}

func newTestService() (invoice.Service, *invoiceRepoFake, *eventBusFake) {
	repo := newInvoiceRepoFake()
	customers := &customerRepoFake{byID: map[string]customer.Customer{
		"c1": {ID: "c1", UserID: "u1", Name: "Acme", Email: "cust@example.com"},
	}}
	events := &eventBusFake{}
	svc := invoice.NewService(uowStub{}, repo, customers, events)
	return svc, repo, events
}

func TestCreate_ComputesTotalsAndPublishes(t *testing.T) {
	svc, _, events := newTestService()

	inv, err := svc.Create(context.Background(), "u1", invoice.CreateInput{
		CustomerID: "c1",
		Items: []invoice.ItemInput{
			{Name: "Widget", Quantity: 3, Price: 9.99},
			{Name: "Gadget", Quantity: 1, Price: 50},
		},
		Tax: 5,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	wantSubtotal := 3*9.99 + 50
	if inv.Subtotal != wantSubtotal || inv.Total != wantSubtotal+5 {
		t.Fatalf("unexpected totals: subtotal=%v total=%v", inv.Subtotal, inv.Total)
	}
	if inv.Status != invoice.StatusUnpaid {
		t.Fatalf("expected default status Unpaid, got %s", inv.Status)
	}
	if !strings.HasPrefix(inv.InvoiceNumber, "INV-") {
		t.Fatalf("unexpected invoice number %q", inv.InvoiceNumber)
	}

	if len(events.events) != 1 || events.events[0].Type != domain.EventInvoiceCreated {
		t.Fatalf("expected one INVOICE_CREATED event, got %+v", events.events)
	}
	p, ok := events.events[0].Payload.(domain.InvoiceCreatedPayload)
	if !ok {
		t.Fatalf("unexpected payload type %T", events.events[0].Payload)
	}
	if p.InvoiceID != inv.ID || p.UserID != "u1" || p.CustomerID != "c1" || p.Total != inv.Total {
		t.Fatalf("payload does not match invoice: %+v", p)
	}
}

func TestCreate_RequiresCustomerAndItems(t *testing.T) {
	svc, _, events := newTestService()

	_, err := svc.Create(context.Background(), "u1", invoice.CreateInput{CustomerID: "c1"})
	var de *domain.DomainError
	if err == nil || !errors.As(err, &de) || de.Code != domain.ErrorCodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
	if len(events.events) != 0 {
		t.Fatal("no event may be published on validation failure")
	}
}

func TestCreate_ForeignCustomerRejected(t *testing.T) {
	svc, _, events := newTestService()

	_, err := svc.Create(context.Background(), "intruder", invoice.CreateInput{
		CustomerID: "c1",
		Items:      []invoice.ItemInput{{Name: "Widget", Quantity: 1, Price: 1}},
	})
	var de *domain.DomainError
	if err == nil || !errors.As(err, &de) || de.Code != domain.ErrorCodeNotAuthorized {
		t.Fatalf("expected NOT_AUTHORIZED, got %v", err)
	}
	if len(events.events) != 0 {
		t.Fatal("no event may be published when the write is rejected")
	}
}

func TestCreate_RepoFailurePublishesNothing(t *testing.T) {
	svc, repo, events := newTestService()
	repo.createErr = errors.New("db down")

	_, err := svc.Create(context.Background(), "u1", invoice.CreateInput{
		CustomerID: "c1",
		Items:      []invoice.ItemInput{{Name: "Widget", Quantity: 1, Price: 1}},
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if len(events.events) != 0 {
		t.Fatal("no event may be published when the write fails")
	}
}

func TestUpdateStatus_Publishes(t *testing.T) {
	svc, _, events := newTestService()

	inv, err := svc.Create(context.Background(), "u1", invoice.CreateInput{
		CustomerID: "c1",
		Items:      []invoice.ItemInput{{Name: "Widget", Quantity: 1, Price: 1}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	events.events = nil

	updated, err := svc.UpdateStatus(context.Background(), "u1", inv.ID, invoice.StatusPaid)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if updated.Status != invoice.StatusPaid {
		t.Fatalf("expected Paid, got %s", updated.Status)
	}

	if len(events.events) != 1 || events.events[0].Type != domain.EventInvoiceStatusChanged {
		t.Fatalf("expected one INVOICE_STATUS_CHANGED event, got %+v", events.events)
	}
	p := events.events[0].Payload.(domain.InvoiceStatusChangedPayload)
	if p.InvoiceID != inv.ID || p.UserID != "u1" || p.Status != "Paid" {
		t.Fatalf("unexpected payload %+v", p)
	}
}

func TestUpdateStatus_InvalidStatus(t *testing.T) {
	svc, _, events := newTestService()

	_, err := svc.UpdateStatus(context.Background(), "u1", "whatever", invoice.Status("Weird"))
	var de *domain.DomainError
	if err == nil || !errors.As(err, &de) || de.Code != domain.ErrorCodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
	if len(events.events) != 0 {
		t.Fatal("no event may be published for an invalid status")
	}
}

func TestUpdateStatus_NotOwner(t *testing.T) {
	svc, _, events := newTestService()

	inv, err := svc.Create(context.Background(), "u1", invoice.CreateInput{
		CustomerID: "c1",
		Items:      []invoice.ItemInput{{Name: "Widget", Quantity: 1, Price: 1}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	events.events = nil

	_, err = svc.UpdateStatus(context.Background(), "intruder", inv.ID, invoice.StatusPaid)
	var de *domain.DomainError
	if err == nil || !errors.As(err, &de) || de.Code != domain.ErrorCodeNotAuthorized {
		t.Fatalf("expected NOT_AUTHORIZED, got %v", err)
	}
	if len(events.events) != 0 {
		t.Fatal("no event may be published on a rejected transition")
	}
}
