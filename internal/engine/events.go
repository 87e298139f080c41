package engine

// ControlKind discriminates the three control streams the wizard controller
// listens to for its whole lifetime.
type ControlKind int

const (
	ControlPageMove ControlKind = iota
	ControlError
	ControlPanic
)

// String returns the string representation of a control kind.
func (k ControlKind) String() string {
	switch k {
	case ControlPageMove:
		return "page_move"
	case ControlError:
		return "error"
	case ControlPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// ControlEvent is one engine push on a control stream. Page is meaningful
// for ControlPageMove, Notice for ControlError.
type ControlEvent struct {
	Kind   ControlKind
	Page   int
	Notice Notification
}
