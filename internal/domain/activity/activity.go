package activity

import "time"

// Type classifies an audit-log entry. The strings are stored as-is and
// queried by the report generator; do not rename them casually.
type Type string

const (
	TypeBorrow          Type = "borrow"
	TypeReturn          Type = "return"
	TypeLateReturn      Type = "late return"
	TypeExtension       Type = "extension"
	TypeManualExtension Type = "manual extension"
	TypeOrder           Type = "order"
	TypeFreeze          Type = "freeze"
	TypeUnfreeze        Type = "unfreeze"
	TypeNewSubscriber   Type = "new subscriber"
	TypeUpdateDetails   Type = "update subscriber"
)

// Activity is one append-only audit entry. Entries are never mutated or
// deleted. Status-affecting entries (freeze, unfreeze, new subscriber) carry
// a snapshot of the active/frozen subscriber population for later reporting.
type Activity struct {
	ID           int64
	SubscriberID int
	Type         Type
	Description  string
	Date         time.Time
	ActiveCount  *int
	FrozenCount  *int
}

// WithCounts attaches a population snapshot to the entry.
func (a Activity) WithCounts(active, frozen int) Activity {
	a.ActiveCount = &active
	a.FrozenCount = &frozen
	return a
}
