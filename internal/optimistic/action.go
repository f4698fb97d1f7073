package optimistic

// ActionKind names one of the independent user actions a presenter tracks.
type ActionKind int

const (
	ActionChange ActionKind = iota
	ActionRestoreDefault
)

func (k ActionKind) String() string {
	switch k {
	case ActionChange:
		return "change"
	case ActionRestoreDefault:
		return "restore-default"
	default:
		return "unknown"
	}
}

// ActionStatus is the state of the latest request of one action kind.
type ActionStatus int

const (
	NotStarted ActionStatus = iota
	InProgress
	Succeeded
	Failed
)

func (s ActionStatus) String() string {
	switch s {
	case NotStarted:
		return "not-started"
	case InProgress:
		return "in-progress"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Action is the outcome of the latest request of one kind. Err is set
// only when Status is Failed.
type Action struct {
	Status ActionStatus
	Err    error
}
