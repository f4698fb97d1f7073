package optimistic

// LoadStatus is the load-state tag of an authoritative value.
type LoadStatus int

const (
	Uninitialized LoadStatus = iota
	Loading
	Success
	Failure
)

func (s LoadStatus) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Failure:
		return "failure"
	default:
		return "unknown"
	}
}

// Async wraps a value loaded from somewhere slow. Loading and Failure keep
// the last successfully loaded value, so callers can keep showing it.
type Async[T any] struct {
	Status   LoadStatus
	Value    T
	HasValue bool
	Err      error
}

// Get returns the last loaded value, if any.
func (a Async[T]) Get() (T, bool) {
	return a.Value, a.HasValue
}

func (a Async[T]) loading() Async[T] {
	return Async[T]{Status: Loading, Value: a.Value, HasValue: a.HasValue}
}

func (a Async[T]) failed(err error) Async[T] {
	return Async[T]{Status: Failure, Value: a.Value, HasValue: a.HasValue, Err: err}
}

func succeeded[T any](v T) Async[T] {
	return Async[T]{Status: Success, Value: v, HasValue: true}
}
