package pg

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"invoiceservice/internal/domain"
	"invoiceservice/internal/domain/customer"
)

type CustomerRepository struct {
	db *sql.DB
}

func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) Create(ctx context.Context, c customer.Customer) (customer.Customer, error) {
	err := queryRow(ctx, r.db,
		`INSERT INTO customers (id, user_id, name, email, phone, address)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at`,
		c.ID, c.UserID, c.Name, c.Email, c.Phone, c.Address,
	).Scan(&c.CreatedAt)
	if err != nil {
		return customer.Customer{}, err
	}

	return c, nil
}

func (r *CustomerRepository) GetByID(ctx context.Context, id string) (customer.Customer, error) {
	var c customer.Customer

	err := queryRow(ctx, r.db,
		`SELECT id, user_id, name, email, phone, address, created_at
		   FROM customers
		  WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.UserID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return customer.Customer{}, &domain.DomainError{
			Code:       domain.ErrorCodeNotFound,
			Message:    "customer not found",
			HTTPStatus: http.StatusNotFound,
		}
	}
	if err != nil {
		return customer.Customer{}, err
	}

	return c, nil
}

func (r *CustomerRepository) ListForUser(ctx context.Context, userID string) ([]customer.Customer, error) {
	rows, err := query(ctx, r.db,
		`SELECT id, user_id, name, email, phone, address, created_at
		   FROM customers
		  WHERE user_id = $1
		  ORDER BY name`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []customer.Customer
	for rows.Next() {
		var c customer.Customer
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, c)
	}

	return res, rows.Err()
}
