package notification

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"invoiceservice/internal/domain"
)

const (
	defaultLimit = 20
	defaultPage  = 1
)

type Service interface {
	Create(ctx context.Context, userID string, typ Type, title, message, entityType, entityID string) (Notification, error)
	ListForUser(ctx context.Context, userID string, opts ListOptions) ([]Notification, Page, error)
	// MarkAsRead enforces ownership: requestingUserID must own the record.
	// Calling it on an already-read record succeeds and returns it unchanged.
	MarkAsRead(ctx context.Context, requestingUserID, id string) (Notification, error)
	MarkAllAsRead(ctx context.Context, userID string) (int64, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, userID string, typ Type, title, message, entityType, entityID string) (Notification, error) {
	if userID == "" || title == "" || message == "" {
		return Notification{}, &domain.DomainError{
			Code:       domain.ErrorCodeValidation,
			Message:    "userId, title and message are required",
			HTTPStatus: http.StatusBadRequest,
		}
	}
	if typ == "" {
		typ = TypeInfo
	}

	return s.repo.Create(ctx, Notification{
		ID:         uuid.NewString(),
		UserID:     userID,
		Type:       typ,
		Title:      title,
		Message:    message,
		EntityType: entityType,
		EntityID:   entityID,
	})
}

func (s *service) ListForUser(ctx context.Context, userID string, opts ListOptions) ([]Notification, Page, error) {
	if opts.Limit <= 0 {
		opts.Limit = defaultLimit
	}
	if opts.Page <= 0 {
		opts.Page = defaultPage
	}

	items, total, err := s.repo.ListForUser(ctx, userID, opts)
	if err != nil {
		return nil, Page{}, err
	}

	pages := (total + opts.Limit - 1) / opts.Limit

	return items, Page{Total: total, Page: opts.Page, Pages: pages}, nil
}

func (s *service) MarkAsRead(ctx context.Context, requestingUserID, id string) (Notification, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Notification{}, err
	}

	// The repo does not scope single-record operations by owner; the check
	// lives here.
	if current.UserID != requestingUserID {
		return Notification{}, &domain.DomainError{
			Code:       domain.ErrorCodeNotAuthorized,
			Message:    "not authorized",
			HTTPStatus: http.StatusUnauthorized,
		}
	}

	return s.repo.MarkAsRead(ctx, id)
}

func (s *service) MarkAllAsRead(ctx context.Context, userID string) (int64, error) {
	return s.repo.MarkAllAsRead(ctx, userID)
}
