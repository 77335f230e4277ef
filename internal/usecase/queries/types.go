package queries

import "time"

// Read-side views are flattened for presentation and carry no behavior.

type TitleView struct {
	ID           int
	Name         string
	Author       string
	Description  string
	Genre        string
	NumOfCopies  int
	Availability int
	// NextReturn is the soonest due date among active borrows; nil when a
	// free copy is on the shelf.
	NextReturn *time.Time
}

type CopyView struct {
	ID       int
	TitleID  int
	Shelf    string
	Borrowed bool
}

type SubscriberView struct {
	ID     int
	Name   string
	Phone  string
	Email  string
	Status string
}

type BorrowView struct {
	CopyID       int
	TitleID      int
	TitleName    string
	DateOfBorrow time.Time
	DueDate      time.Time
}

type OrderView struct {
	ID         int
	TitleID    int
	TitleName  string
	CopyID     *int
	OrderDate  time.Time
	ArriveDate *time.Time
}

type ActivityView struct {
	Type        string
	Description string
	Date        time.Time
}

type NoticeView struct {
	ID        int64
	Message   string
	CreatedAt time.Time
}
