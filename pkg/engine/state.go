// ABOUTME: Engine lifecycle states
// ABOUTME: Uninitialized -> Ready -> Playing <-> Stopped, any -> Disposed
package engine

// State is the engine's lifecycle state
type State int

const (
	Uninitialized State = iota
	Ready
	Playing
	Stopped
	Disposed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Ready:
		return "ready"
	case Playing:
		return "playing"
	case Stopped:
		return "stopped"
	case Disposed:
		return "disposed"
	default:
		return "unknown"
	}
}
