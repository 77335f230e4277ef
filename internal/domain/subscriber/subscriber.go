package subscriber

type Status string

const (
	StatusActive Status = "active"
	StatusFrozen Status = "frozen"
)

// Subscriber is a library member. Status transitions are driven only by the
// lifecycle engine, never by a plain detail update.
type Subscriber struct {
	ID     int
	Name   string
	Phone  string
	Email  string
	Status Status
}

func (s Subscriber) Frozen() bool {
	return s.Status == StatusFrozen
}

// ActorSelf is the actor value for subscriber-initiated operations; any other
// actor value is interpreted as a librarian's name.
const ActorSelf = "subscriber"
