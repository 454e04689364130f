package notification

import "time"

type Type string

const (
	TypeInfo    Type = "info"
	TypeWarning Type = "warning"
	TypeSuccess Type = "success"
	TypeError   Type = "error"
)

// Notification is an in-app alert owned by exactly one user. EntityType and
// EntityID optionally link it back to the domain object that caused it.
// IsRead only ever moves false -> true.
type Notification struct {
	ID         string
	UserID     string
	Type       Type
	Title      string
	Message    string
	EntityType string
	EntityID   string
	IsRead     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type ListOptions struct {
	UnreadOnly bool
	Limit      int
	Page       int
}

type Page struct {
	Total int
	Page  int
	Pages int
}
