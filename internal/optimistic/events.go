package optimistic

// Event is a user action accepted by Presenter.Send. The set is closed.
type Event interface {
	isEvent()
}

// ChangeValue asks for a new value.
type ChangeValue[T any] struct {
	Value T
}

// SetDefault with IsDefault true restores the service default. With
// IsDefault false it pins the current default as an explicit value.
type SetDefault struct {
	IsDefault bool
}

// DismissError resets a finished action back to NotStarted.
type DismissError struct {
	Kind ActionKind
}

// Reload fetches the authoritative value again, e.g. after a failed load.
type Reload struct{}

func (ChangeValue[T]) isEvent() {}
func (SetDefault) isEvent()     {}
func (DismissError) isEvent()   {}
func (Reload) isEvent()         {}
