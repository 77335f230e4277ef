package shared

import "time"

// Notice is a message for librarians written by self-service operations.
type Notice struct {
	ID        int64
	Message   string
	CreatedAt time.Time
}

// UserAccount is the credential row behind a subscriber or librarian login.
type UserAccount struct {
	UserID       int
	PasswordHash string
	Role         string
}

// Report kinds stored in the reports table.
const (
	ReportKindSubscriberStatus = "subscriber-status"
	ReportKindBorrowStats      = "borrow-stats"
	ReportKindNewSubscribers   = "new-subscribers"
)

// StatusPoint is the subscriber population on one day of a report month.
type StatusPoint struct {
	Date   time.Time `json:"date"`
	Active int       `json:"active"`
	Frozen int       `json:"frozen"`
}

// GenreBorrowStats aggregates finished borrows of a genre over a month.
type GenreBorrowStats struct {
	Genre       string  `json:"genre"`
	AvgDays     float64 `json:"avg_days"`
	LatePercent float64 `json:"late_percent"`
}
