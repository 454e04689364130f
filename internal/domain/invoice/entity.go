package invoice

import "time"

type Status string

const (
	StatusUnpaid    Status = "Unpaid"
	StatusPaid      Status = "Paid"
	StatusOverdue   Status = "Overdue"
	StatusCancelled Status = "Cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusUnpaid, StatusPaid, StatusOverdue, StatusCancelled:
		return true
	}
	return false
}

type Item struct {
	Name     string
	Quantity int
	Price    float64
}

type Invoice struct {
	ID            string
	UserID        string
	CustomerID    string
	InvoiceNumber string
	Date          time.Time
	Status        Status
	Items         []Item
	Subtotal      float64
	Tax           float64
	Total         float64
	CreatedAt     *time.Time
	UpdatedAt     *time.Time
}
