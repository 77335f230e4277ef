package catalog

// Title is a book title in the catalog. NumOfCopies and NumOfOrders are
// denormalized aggregates kept in sync with the copies and orders tables
// inside the same transaction as every borrow/order/return/cancel.
type Title struct {
	ID          int
	Name        string
	Author      string
	Description string
	Genre       string
	NumOfCopies int
	NumOfOrders int
}

// Availability is the title's availability number:
//
//	> 0  free copies remain
//	 0   every copy is borrowed
//	< 0  |n| outstanding orders are waiting
func (t Title) Availability(borrowedCopies int) int {
	return t.NumOfCopies - borrowedCopies - t.NumOfOrders
}

// OrderBacklogFull reports whether the wait list already holds one order slot
// per copy; further orders are rejected.
func (t Title) OrderBacklogFull() bool {
	return t.NumOfOrders >= t.NumOfCopies
}
