package settings

// EventKind enumerates the mutation kinds an observer can receive.
type EventKind string

// Mutation kinds.
const (
	EventCreated EventKind = "created"
	EventUpdated EventKind = "updated"
	EventDeleted EventKind = "deleted"
)

// Event describes one successful mutation. Value holds the typed new
// value and is nil for deletions; OldValue holds the typed previous
// value and is nil for creations.
type Event struct {
	Kind     EventKind
	Key      string
	Owner    OwnerRef
	Value    any
	OldValue any
}

// Observer receives mutation events synchronously, in call order.
type Observer func(Event)

// Subscribe registers an observer. Observers must be registered before
// the service starts handling mutations; registration is not
// synchronized against concurrent Set/Forget calls.
func (s *Service) Subscribe(fn Observer) {
	s.observers = append(s.observers, fn)
}

func (s *Service) publish(event Event) {
	for _, fn := range s.observers {
		fn(event)
	}
}
