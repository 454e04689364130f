package pg

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"invoiceservice/internal/domain"
	"invoiceservice/internal/domain/user"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u user.User) (user.User, error) {
	var exists bool
	if err := queryRow(ctx, r.db,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`,
		u.Email,
	).Scan(&exists); err != nil {
		return user.User{}, err
	}
	if exists {
		return user.User{}, &domain.DomainError{
			Code:       domain.ErrorCodeUserExists,
			Message:    "email already registered",
			HTTPStatus: http.StatusConflict,
		}
	}

	err := queryRow(ctx, r.db,
		`INSERT INTO users (id, name, email, password_hash)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		u.ID, u.Name, u.Email, u.PasswordHash,
	).Scan(&u.CreatedAt)
	if err != nil {
		return user.User{}, err
	}

	return u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	var u user.User

	err := queryRow(ctx, r.db,
		`SELECT id, name, email, password_hash, created_at
		   FROM users
		  WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return user.User{}, userNotFound()
	}
	if err != nil {
		return user.User{}, err
	}

	return u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User

	err := queryRow(ctx, r.db,
		`SELECT id, name, email, password_hash, created_at
		   FROM users
		  WHERE email = $1`,
		email,
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return user.User{}, userNotFound()
	}
	if err != nil {
		return user.User{}, err
	}

	return u, nil
}

func userNotFound() *domain.DomainError {
	return &domain.DomainError{
		Code:       domain.ErrorCodeNotFound,
		Message:    "user not found",
		HTTPStatus: http.StatusNotFound,
	}
}
