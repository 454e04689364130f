package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"invoiceservice/internal/app/dto"
	httpapi "invoiceservice/internal/app/http"
	"invoiceservice/internal/app/http/handler"
	"invoiceservice/internal/domain/customer"
	"invoiceservice/internal/domain/invoice"
	"invoiceservice/internal/domain/notification"
	userdomain "invoiceservice/internal/domain/user"
	"invoiceservice/internal/infrastructure/async"
	"invoiceservice/internal/infrastructure/db/pg"
	"invoiceservice/internal/infrastructure/logging"
	"invoiceservice/internal/infrastructure/mail"
	"invoiceservice/internal/listener"
)

var migrateOnce sync.Once

func ensureMigrations(t *testing.T, db *sql.DB) {
	t.Helper()

	migrateOnce.Do(func() {
		if err := goose.SetDialect("postgres"); err != nil {
			t.Fatalf("goose.SetDialect: %v", err)
		}

		dir := "migrations"
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			alt := filepath.Join("..", "migrations")
			if _, err2 := os.Stat(alt); err2 == nil {
				dir = alt
			} else {
				t.Fatalf("migrations directory not found: tried %q (%v) and %q (%v)", dir, err, alt, err2)
			}
		}

		if err := goose.Up(db, dir); err != nil {
			t.Fatalf("goose.Up: %v", err)
		}
	})
}

func resetDB(t *testing.T, db *sql.DB) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, `
		TRUNCATE TABLE notifications, invoice_items, invoices, customers, users
		RESTART IDENTITY CASCADE;
	`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}

func getTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping DB-backed tests")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		t.Fatalf("ping db: %v", err)
	}

	ensureMigrations(t, db)
	resetDB(t, db)

	return db
}

func setupTestServer(t *testing.T) (*httptest.Server, func()) {
	t.Helper()

	db := getTestDB(t)

	log, err := logging.NewLogger()
	if err != nil {
		_ = db.Close()
		t.Fatalf("create logger: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	pool := async.NewWorkerPool(ctx, 4, 10*time.Second, log)
	eventBus := async.NewEventBus(pool, log)
	uow := pg.NewTxManager(db)

	userRepo := pg.NewUserRepository(db)
	customerRepo := pg.NewCustomerRepository(db)
	invoiceRepo := pg.NewInvoiceRepository(db)
	notificationRepo := pg.NewNotificationRepository(db)

	jwtSecret := []byte("integration-secret")

	userSvc := userdomain.NewService(userRepo, jwtSecret)
	customerSvc := customer.NewService(customerRepo)
	invoiceSvc := invoice.NewService(uow, invoiceRepo, customerRepo, eventBus)
	notificationSvc := notification.NewService(notificationRepo)

	gateway := mail.NewNoopGateway(log)
	listener.Register(eventBus,
		listener.NewInvoiceCreated(notificationSvc, gateway, userRepo, customerRepo, true, log),
		listener.NewInvoiceStatusChanged(notificationSvc, gateway, log),
	)

	h := handler.New(userSvc, customerSvc, invoiceSvc, notificationSvc, log)
	router := httpapi.NewRouter(h, jwtSecret, log)

	ts := httptest.NewServer(router)

	cleanup := func() {
		ts.Close()
		eventBus.Close()
		cancel()
		_ = log.Sync()
		_ = db.Close()
	}

	return ts, cleanup
}

func doJSON(t *testing.T, client *http.Client, method, url, token string, body any, wantStatus int, out any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do %s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		var errBody map[string]any
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		t.Fatalf("unexpected status %d, want %d, body=%v", resp.StatusCode, wantStatus, errBody)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
}

func registerUser(t *testing.T, client *http.Client, baseURL, name, email string) dto.AuthResponse {
	t.Helper()

	var auth dto.AuthResponse
	doJSON(t, client, http.MethodPost, baseURL+"/auth/register", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": "hunter22",
	}, http.StatusCreated, &auth)

	if auth.Token == "" || auth.User.ID == "" {
		t.Fatalf("registration must return a token and an id, got %+v", auth)
	}
	return auth
}

// waitForNotification polls the list endpoint until a notification with
// the wanted title shows up. Dispatch is asynchronous, so the write can
// land shortly after the triggering request returns.
func waitForNotification(t *testing.T, client *http.Client, baseURL, token, title string) dto.Notification {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		var list dto.NotificationList
		doJSON(t, client, http.MethodGet, baseURL+"/notifications", token, nil, http.StatusOK, &list)

		for _, n := range list.Items {
			if n.Title == title {
				return n
			}
		}
		time.Sleep(100 * time.Millisecond)
	}

	t.Fatalf("notification %q never appeared", title)
	return dto.Notification{}
}

func TestIntegration_InvoiceCreatedNotification(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()

	client := &http.Client{Timeout: 3 * time.Second}
	auth := registerUser(t, client, ts.URL, "Alice", "alice@example.com")

	var cust dto.Customer
	doJSON(t, client, http.MethodPost, ts.URL+"/customers", auth.Token, map[string]string{
		"name":  "Acme",
		"email": "acme@example.com",
	}, http.StatusCreated, &cust)

	var inv dto.Invoice
	doJSON(t, client, http.MethodPost, ts.URL+"/invoices", auth.Token, map[string]any{
		"customerId": cust.ID,
		"items": []map[string]any{
			{"name": "Widget", "quantity": 2, "price": 10.5},
		},
		"tax": 1,
	}, http.StatusCreated, &inv)

	if inv.Total != 22 {
		t.Fatalf("expected total 22, got %v", inv.Total)
	}
	if inv.Status != "Unpaid" {
		t.Fatalf("expected default status Unpaid, got %s", inv.Status)
	}

	n := waitForNotification(t, client, ts.URL, auth.Token, "New Invoice Created")
	if n.Type != "info" || n.IsRead {
		t.Fatalf("unexpected notification %+v", n)
	}
	if n.EntityType != "Invoice" || n.EntityID != inv.ID {
		t.Fatalf("notification must reference the invoice, got %+v", n)
	}
}

func TestIntegration_StatusChangeAndReadFlow(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()

	client := &http.Client{Timeout: 3 * time.Second}
	auth := registerUser(t, client, ts.URL, "Bob", "bob@example.com")

	var cust dto.Customer
	doJSON(t, client, http.MethodPost, ts.URL+"/customers", auth.Token, map[string]string{
		"name": "Initech",
	}, http.StatusCreated, &cust)

	var inv dto.Invoice
	doJSON(t, client, http.MethodPost, ts.URL+"/invoices", auth.Token, map[string]any{
		"customerId": cust.ID,
		"items":      []map[string]any{{"name": "Audit", "quantity": 1, "price": 100}},
	}, http.StatusCreated, &inv)

	var updated dto.Invoice
	doJSON(t, client, http.MethodPut, ts.URL+"/invoices/"+inv.ID+"/status", auth.Token,
		map[string]string{"status": "Overdue"}, http.StatusOK, &updated)
	if updated.Status != "Overdue" {
		t.Fatalf("expected Overdue, got %s", updated.Status)
	}

	n := waitForNotification(t, client, ts.URL, auth.Token, "Invoice Status Updated")
	if n.Type != "warning" {
		t.Fatalf("Overdue must map to warning, got %s", n.Type)
	}

	var read dto.Notification
	doJSON(t, client, http.MethodPatch, ts.URL+"/notifications/"+n.ID+"/read", auth.Token,
		nil, http.StatusOK, &read)
	if !read.IsRead {
		t.Fatal("notification must be read after the mark call")
	}

	// Second call stays 200 on an already-read record.
	doJSON(t, client, http.MethodPatch, ts.URL+"/notifications/"+n.ID+"/read", auth.Token,
		nil, http.StatusOK, &read)
	if !read.IsRead {
		t.Fatal("repeated mark must keep the record read")
	}

	var all dto.MarkAllReadResponse
	doJSON(t, client, http.MethodPatch, ts.URL+"/notifications/read-all", auth.Token,
		nil, http.StatusOK, &all)

	var unread dto.NotificationList
	doJSON(t, client, http.MethodGet, ts.URL+"/notifications?unreadOnly=true", auth.Token,
		nil, http.StatusOK, &unread)
	if unread.Pagination.Total != 0 {
		t.Fatalf("expected no unread notifications, got %d", unread.Pagination.Total)
	}
}

func TestIntegration_NotificationsRequireAuth(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()

	client := &http.Client{Timeout: 3 * time.Second}

	var errResp dto.ErrorResponse
	doJSON(t, client, http.MethodGet, ts.URL+"/notifications", "", nil, http.StatusUnauthorized, &errResp)
	if errResp.Error.Code != "NOT_AUTHORIZED" {
		t.Fatalf("unexpected error code %q", errResp.Error.Code)
	}
}

func TestIntegration_NotificationsAreScopedToOwner(t *testing.T) {
	ts, cleanup := setupTestServer(t)
	defer cleanup()

	client := &http.Client{Timeout: 3 * time.Second}
	alice := registerUser(t, client, ts.URL, "Alice", fmt.Sprintf("alice-%d@example.com", time.Now().UnixNano()))
	mallory := registerUser(t, client, ts.URL, "Mallory", fmt.Sprintf("mallory-%d@example.com", time.Now().UnixNano()))

	var cust dto.Customer
	doJSON(t, client, http.MethodPost, ts.URL+"/customers", alice.Token, map[string]string{
		"name": "Acme",
	}, http.StatusCreated, &cust)

	var inv dto.Invoice
	doJSON(t, client, http.MethodPost, ts.URL+"/invoices", alice.Token, map[string]any{
		"customerId": cust.ID,
		"items":      []map[string]any{{"name": "Widget", "quantity": 1, "price": 1}},
	}, http.StatusCreated, &inv)

	n := waitForNotification(t, client, ts.URL, alice.Token, "New Invoice Created")

	var errResp dto.ErrorResponse
	doJSON(t, client, http.MethodPatch, ts.URL+"/notifications/"+n.ID+"/read", mallory.Token,
		nil, http.StatusUnauthorized, &errResp)
	if errResp.Error.Code != "NOT_AUTHORIZED" {
		t.Fatalf("unexpected error code %q", errResp.Error.Code)
	}

	var list dto.NotificationList
	doJSON(t, client, http.MethodGet, ts.URL+"/notifications", mallory.Token, nil, http.StatusOK, &list)
	if list.Pagination.Total != 0 {
		t.Fatalf("another user's notifications leaked: %+v", list.Items)
	}
}
