package system

import "time"

// Phase orders systems within a single tick.
type Phase int

const (
	PhaseEvents     Phase = iota // 0: swap + dispatch last tick's events
	PhaseScript                  // 1: Lua update hooks
	PhaseUpdate                  // 2: component integration
	PhasePostUpdate              // 3: group policies that read settled state
	PhaseCleanup                 // 4: destroy queued entities
)

func (p Phase) String() string {
	switch p {
	case PhaseEvents:
		return "events"
	case PhaseScript:
		return "script"
	case PhaseUpdate:
		return "update"
	case PhasePostUpdate:
		return "post_update"
	case PhaseCleanup:
		return "cleanup"
	}
	return "unknown"
}

// System is the interface every ECS system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
