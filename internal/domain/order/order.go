package order

import "time"

// Order is a reservation of a title placed while all copies are out.
// CopyID is nil while the order waits; once a returned copy is assigned the
// pickup window starts and ArriveDate is set.
type Order struct {
	ID           int
	SubscriberID int
	TitleID      int
	CopyID       *int
	OrderDate    time.Time
	ArriveDate   *time.Time
}

func (o Order) Waiting() bool {
	return o.CopyID == nil
}

// EarmarkedFor reports whether the order holds the given copy for the given
// subscriber.
func (o Order) EarmarkedFor(subscriberID int) bool {
	return o.SubscriberID == subscriberID
}
