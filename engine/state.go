package engine

import "sync/atomic"

// State is a controller's current position in its operation cycle. States
// exist for external observability only; transitions never feed back into
// control flow.
type State uint8

const (
	// StateIdle means the controller is not running a command.
	StateIdle State = iota
	// StateDescend means the controller is walking the tree.
	StateDescend
	// StateAllocate means the controller is requesting an address.
	StateAllocate
	// StateWrite means the controller is writing a node record.
	StateWrite
	// StateLink means the controller is rewriting a parent link.
	StateLink
	// StateLocate means the delete controller is calling into search.
	StateLocate
	// StateSplice means the delete controller is unlinking a node.
	StateSplice
	// StatePromote means the delete controller is copying a successor
	// into the target via the insert controller's write primitive.
	StatePromote
	// StateComplete means the controller is delivering its completion.
	StateComplete
)

// String returns a string representation of the State.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDescend:
		return "descend"
	case StateAllocate:
		return "allocate"
	case StateWrite:
		return "write"
	case StateLink:
		return "link"
	case StateLocate:
		return "locate"
	case StateSplice:
		return "splice"
	case StatePromote:
		return "promote"
	case StateComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// stateVar is an atomically readable controller state register.
type stateVar struct {
	v atomic.Uint32
}

func (s *stateVar) set(st State) {
	s.v.Store(uint32(st))
}

func (s *stateVar) get() State {
	return State(s.v.Load())
}
