package optimistic

// Setting is an authoritative setting as reported by the service.
type Setting[T any] struct {
	Value     T
	IsDefault bool
	// Default is what Value would be if IsDefault were true.
	Default T
}

// State is an immutable snapshot of a presenter.
type State[T comparable] struct {
	Authoritative  Async[Setting[T]]
	PendingValue   *T
	PendingDefault *bool
	Change         Action
	Restore        Action
}

// Action returns the outcome tracked for kind.
func (s State[T]) Action(kind ActionKind) Action {
	if kind == ActionRestoreDefault {
		return s.Restore
	}
	return s.Change
}

// Busy reports whether anything is in flight.
func (s State[T]) Busy() bool {
	return s.Authoritative.Status == Loading ||
		s.Change.Status == InProgress ||
		s.Restore.Status == InProgress
}

// Displayed is the setting the user should see: pending intent layered
// over the authoritative value. ok is false when there is nothing to show.
func (s State[T]) Displayed() (Setting[T], bool) {
	out, ok := s.Authoritative.Get()
	if s.PendingDefault != nil {
		out.IsDefault = *s.PendingDefault
		if out.IsDefault {
			out.Value = out.Default
		}
	}
	if s.PendingValue != nil {
		out.Value = *s.PendingValue
		out.IsDefault = false
		ok = true
	}
	return out, ok
}

func ptr[T any](v T) *T {
	return &v
}
