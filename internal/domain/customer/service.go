package customer

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"invoiceservice/internal/domain"
)

type Service interface {
	Create(ctx context.Context, userID string, c Customer) (Customer, error)
	GetByID(ctx context.Context, requestingUserID, id string) (Customer, error)
	ListForUser(ctx context.Context, userID string) ([]Customer, error)
}

type service struct {
	customers Repository
}

func NewService(customers Repository) Service {
	return &service{customers: customers}
}

func (s *service) Create(ctx context.Context, userID string, c Customer) (Customer, error) {
	if c.Name == "" {
		return Customer{}, &domain.DomainError{
			Code:       domain.ErrorCodeValidation,
			Message:    "name is required",
			HTTPStatus: http.StatusBadRequest,
		}
	}

	c.ID = uuid.NewString()
	c.UserID = userID

	return s.customers.Create(ctx, c)
}

func (s *service) GetByID(ctx context.Context, requestingUserID, id string) (Customer, error) {
	c, err := s.customers.GetByID(ctx, id)
	if err != nil {
		return Customer{}, err
	}

	if c.UserID != requestingUserID {
		return Customer{}, &domain.DomainError{
			Code:       domain.ErrorCodeNotAuthorized,
			Message:    "not authorized",
			HTTPStatus: http.StatusUnauthorized,
		}
	}

	return c, nil
}

func (s *service) ListForUser(ctx context.Context, userID string) ([]Customer, error) {
	return s.customers.ListForUser(ctx, userID)
}
