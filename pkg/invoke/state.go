package invoke

// State is the stage a run has reached.
type State uint8

const (
	Idle State = iota
	Resolving
	WindowInvoking
	MethodInvoking
	// Done is reached after the entry point was invoked, even if it
	// faulted.
	Done
	// Failed is reached when the entry point could not be resolved.
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Resolving:
		return "resolving"
	case WindowInvoking:
		return "window-invoking"
	case MethodInvoking:
		return "method-invoking"
	case Done:
		return "done"
	case Failed:
		return "failed"
	}
	return "unknown"
}
