package notification

import "context"

type Repository interface {
	Create(ctx context.Context, n Notification) (Notification, error)
	GetByID(ctx context.Context, id string) (Notification, error)
	// ListForUser returns one page plus the total count of matching records
	// before pagination.
	ListForUser(ctx context.Context, userID string, opts ListOptions) ([]Notification, int, error)
	MarkAsRead(ctx context.Context, id string) (Notification, error)
	MarkAllAsRead(ctx context.Context, userID string) (int64, error)
}
