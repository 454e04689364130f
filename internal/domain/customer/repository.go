package customer

import "context"

type Repository interface {
	Create(ctx context.Context, c Customer) (Customer, error)
	GetByID(ctx context.Context, id string) (Customer, error)
	ListForUser(ctx context.Context, userID string) ([]Customer, error)
}
