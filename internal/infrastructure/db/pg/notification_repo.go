package pg

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"invoiceservice/internal/domain"
	"invoiceservice/internal/domain/notification"
)

type NotificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n notification.Notification) (notification.Notification, error) {
	err := queryRow(ctx, r.db,
		`INSERT INTO notifications (id, user_id, type, title, message, entity_type, entity_id)
		 VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''))
		 RETURNING is_read, created_at, updated_at`,
		n.ID, n.UserID, string(n.Type), n.Title, n.Message, n.EntityType, n.EntityID,
	).Scan(&n.IsRead, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return notification.Notification{}, &domain.DomainError{
			Code:       domain.ErrorCodePersistence,
			Message:    "could not store notification: " + err.Error(),
			HTTPStatus: http.StatusInternalServerError,
		}
	}

	return n, nil
}

func (r *NotificationRepository) GetByID(ctx context.Context, id string) (notification.Notification, error) {
	n, err := scanNotification(queryRow(ctx, r.db,
		`SELECT id, user_id, type, title, message,
		        COALESCE(entity_type, ''), COALESCE(entity_id, ''),
		        is_read, created_at, updated_at
		   FROM notifications
		  WHERE id = $1`,
		id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return notification.Notification{}, notFound()
	}
	if err != nil {
		return notification.Notification{}, err
	}

	return n, nil
}

func (r *NotificationRepository) ListForUser(ctx context.Context, userID string, opts notification.ListOptions) ([]notification.Notification, int, error) {
	filter := `WHERE user_id = $1`
	if opts.UnreadOnly {
		filter += ` AND is_read = FALSE`
	}

	var total int
	if err := queryRow(ctx, r.db,
		`SELECT COUNT(*) FROM notifications `+filter,
		userID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (opts.Page - 1) * opts.Limit

	rows, err := query(ctx, r.db,
		`SELECT id, user_id, type, title, message,
		        COALESCE(entity_type, ''), COALESCE(entity_id, ''),
		        is_read, created_at, updated_at
		   FROM notifications `+filter+`
		  ORDER BY created_at DESC
		  LIMIT $2 OFFSET $3`,
		userID, opts.Limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var res []notification.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, 0, err
		}
		res = append(res, n)
	}

	return res, total, rows.Err()
}

func (r *NotificationRepository) MarkAsRead(ctx context.Context, id string) (notification.Notification, error) {
	// Unconditional SET keeps the operation idempotent: re-reading an
	// already-read record returns it unchanged apart from updated_at.
	n, err := scanNotification(queryRow(ctx, r.db,
		`UPDATE notifications
		    SET is_read = TRUE,
		        updated_at = NOW()
		  WHERE id = $1
		  RETURNING id, user_id, type, title, message,
		            COALESCE(entity_type, ''), COALESCE(entity_id, ''),
		            is_read, created_at, updated_at`,
		id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return notification.Notification{}, notFound()
	}
	if err != nil {
		return notification.Notification{}, err
	}

	return n, nil
}

func (r *NotificationRepository) MarkAllAsRead(ctx context.Context, userID string) (int64, error) {
	res, err := exec(ctx, r.db,
		`UPDATE notifications
		    SET is_read = TRUE,
		        updated_at = NOW()
		  WHERE user_id = $1
		    AND is_read = FALSE`,
		userID,
	)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNotification(row rowScanner) (notification.Notification, error) {
	var n notification.Notification
	var typ string

	err := row.Scan(
		&n.ID, &n.UserID, &typ, &n.Title, &n.Message,
		&n.EntityType, &n.EntityID,
		&n.IsRead, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		return notification.Notification{}, err
	}

	n.Type = notification.Type(typ)
	return n, nil
}

func notFound() *domain.DomainError {
	return &domain.DomainError{
		Code:       domain.ErrorCodeNotFound,
		Message:    "notification not found",
		HTTPStatus: http.StatusNotFound,
	}
}
