package invoice

import "context"

type Repository interface {
	CreateWithItems(ctx context.Context, inv Invoice) (Invoice, error)
	GetByID(ctx context.Context, id string) (Invoice, error)
	// LockByID takes a row lock so a status transition cannot race a
	// concurrent update within the same transaction scope.
	LockByID(ctx context.Context, id string) (Invoice, error)
	UpdateStatus(ctx context.Context, id string, status Status) (Invoice, error)
	ListForUser(ctx context.Context, userID string) ([]Invoice, error)
}
