package borrow

import (
	"time"
)

const (
	// LoanPeriod is how long a borrow runs before it is due.
	LoanPeriod = 14 * 24 * time.Hour
	// ExtensionWindow is how close to the due date a subscriber must be
	// before they may extend on their own.
	ExtensionWindow = 7 * 24 * time.Hour
	// FreezeThreshold is the lateness at which a return freezes the account.
	FreezeThreshold = 7 * 24 * time.Hour
	// ReminderLead is how long before the due date the reminder fires.
	ReminderLead = 24 * time.Hour
	// ExtensionDays is the default number of days an extension adds.
	ExtensionDays = 7
	// FreezeDuration is how long a frozen account stays frozen.
	FreezeDuration = 30 * 24 * time.Hour
	// PickupWindow is how long an arrived order waits before it is canceled.
	PickupWindow = 2 * 24 * time.Hour
)

// Borrow is one lending of a copy to a subscriber. DateOfReturn is nil while
// the borrow is active; at most one active borrow exists per copy.
type Borrow struct {
	SubscriberID int
	CopyID       int
	DateOfBorrow time.Time
	DueDate      time.Time
	DateOfReturn *time.Time
}

func (b Borrow) Active() bool {
	return b.DateOfReturn == nil
}

// Overdue reports whether today is past the due date.
func (b Borrow) Overdue(today time.Time) bool {
	return today.After(b.DueDate)
}

// DaysLate is the lateness of a return made today, in whole days. Zero or
// negative means the return is on time.
func (b Borrow) DaysLate(today time.Time) int {
	return int(today.Sub(b.DueDate) / (24 * time.Hour))
}

// ExtensionWindowOpen reports whether a subscriber-initiated extension is
// allowed today: the window opens at dueDate-7d and closes at the due date.
// Librarian-initiated extensions bypass this check.
func (b Borrow) ExtensionWindowOpen(today time.Time) bool {
	return !today.Before(b.DueDate.Add(-ExtensionWindow)) && !b.Overdue(today)
}

// ReminderTime is when the due-date reminder for this borrow should fire.
func (b Borrow) ReminderTime() time.Time {
	return b.DueDate.Add(-ReminderLead)
}
