package pg

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"invoiceservice/internal/domain"
	"invoiceservice/internal/domain/invoice"
)

type InvoiceRepository struct {
	db *sql.DB
}

func NewInvoiceRepository(db *sql.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

func (r *InvoiceRepository) CreateWithItems(ctx context.Context, inv invoice.Invoice) (invoice.Invoice, error) {
	var createdAt, updatedAt sql.NullTime
	if err := queryRow(ctx, r.db,
		`INSERT INTO invoices (id, user_id, customer_id, invoice_number, date, status, subtotal, tax, total)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING created_at, updated_at`,
		inv.ID, inv.UserID, inv.CustomerID, inv.InvoiceNumber,
		inv.Date, string(inv.Status), inv.Subtotal, inv.Tax, inv.Total,
	).Scan(&createdAt, &updatedAt); err != nil {
		return invoice.Invoice{}, err
	}
	if createdAt.Valid {
		t := createdAt.Time
		inv.CreatedAt = &t
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		inv.UpdatedAt = &t
	}

	for _, it := range inv.Items {
		if _, err := exec(ctx, r.db,
			`INSERT INTO invoice_items (invoice_id, name, quantity, price)
			 VALUES ($1, $2, $3, $4)`,
			inv.ID, it.Name, it.Quantity, it.Price,
		); err != nil {
			return invoice.Invoice{}, err
		}
	}

	return inv, nil
}

func (r *InvoiceRepository) GetByID(ctx context.Context, id string) (invoice.Invoice, error) {
	return r.getByID(ctx, id, false)
}

func (r *InvoiceRepository) LockByID(ctx context.Context, id string) (invoice.Invoice, error) {
	return r.getByID(ctx, id, true)
}

func (r *InvoiceRepository) getByID(ctx context.Context, id string, forUpdate bool) (invoice.Invoice, error) {
	q := `SELECT user_id, customer_id, invoice_number, date, status, subtotal, tax, total, created_at, updated_at
	        FROM invoices
	       WHERE id = $1`
	if forUpdate {
		q += ` FOR UPDATE`
	}

	var inv invoice.Invoice
	var status string
	var createdAt, updatedAt sql.NullTime

	err := queryRow(ctx, r.db, q, id).Scan(
		&inv.UserID, &inv.CustomerID, &inv.InvoiceNumber,
		&inv.Date, &status, &inv.Subtotal, &inv.Tax, &inv.Total,
		&createdAt, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return invoice.Invoice{}, &domain.DomainError{
			Code:       domain.ErrorCodeNotFound,
			Message:    "invoice not found",
			HTTPStatus: http.StatusNotFound,
		}
	}
	if err != nil {
		return invoice.Invoice{}, err
	}

	inv.ID = id
	inv.Status = invoice.Status(status)
	if createdAt.Valid {
		t := createdAt.Time
		inv.CreatedAt = &t
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		inv.UpdatedAt = &t
	}

	items, err := r.getItems(ctx, id)
	if err != nil {
		return invoice.Invoice{}, err
	}
	inv.Items = items

	return inv, nil
}

func (r *InvoiceRepository) UpdateStatus(ctx context.Context, id string, status invoice.Status) (invoice.Invoice, error) {
	if _, err := exec(ctx, r.db,
		`UPDATE invoices
		    SET status = $2,
		        updated_at = NOW()
		  WHERE id = $1`,
		id, string(status),
	); err != nil {
		return invoice.Invoice{}, err
	}

	return r.getByID(ctx, id, false)
}

func (r *InvoiceRepository) ListForUser(ctx context.Context, userID string) ([]invoice.Invoice, error) {
	rows, err := query(ctx, r.db,
		`SELECT id, customer_id, invoice_number, date, status, subtotal, tax, total, created_at, updated_at
		   FROM invoices
		  WHERE user_id = $1
		  ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []invoice.Invoice
	for rows.Next() {
		var inv invoice.Invoice
		var status string
		var createdAt, updatedAt sql.NullTime

		if err := rows.Scan(
			&inv.ID, &inv.CustomerID, &inv.InvoiceNumber,
			&inv.Date, &status, &inv.Subtotal, &inv.Tax, &inv.Total,
			&createdAt, &updatedAt,
		); err != nil {
			return nil, err
		}

		inv.UserID = userID
		inv.Status = invoice.Status(status)
		if createdAt.Valid {
			t := createdAt.Time
			inv.CreatedAt = &t
		}
		if updatedAt.Valid {
			t := updatedAt.Time
			inv.UpdatedAt = &t
		}

		res = append(res, inv)
	}

	return res, rows.Err()
}

func (r *InvoiceRepository) getItems(ctx context.Context, invoiceID string) ([]invoice.Item, error) {
	rows, err := query(ctx, r.db,
		`SELECT name, quantity, price
		   FROM invoice_items
		  WHERE invoice_id = $1
		  ORDER BY id`,
		invoiceID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []invoice.Item
	for rows.Next() {
		var it invoice.Item
		if err := rows.Scan(&it.Name, &it.Quantity, &it.Price); err != nil {
			return nil, err
		}
		items = append(items, it)
	}

	return items, rows.Err()
}
