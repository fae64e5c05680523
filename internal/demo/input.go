package demo

// Action is a player intent, abstracted from physical key presses.
type Action int

const (
	ActionNone       Action = iota
	ActionAimLeft           // Rotate the launch heading counterclockwise
	ActionAimRight          // Rotate the launch heading clockwise
	ActionLaunch            // Launch a drill from the player's house
	ActionExplode           // Detonate the player's newest drill
	ActionPause             // Toggle pause
	ActionCycleHouse        // Select the next house to launch from
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionAimLeft:
		return "AimLeft"
	case ActionAimRight:
		return "AimRight"
	case ActionLaunch:
		return "Launch"
	case ActionExplode:
		return "Explode"
	case ActionPause:
		return "Pause"
	case ActionCycleHouse:
		return "CycleHouse"
	default:
		return "Unknown"
	}
}

// InputFrame holds the actions triggered during one tick.
type InputFrame struct {
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{Actions: make(map[Action]bool)}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	return f.Actions[a]
}

// Clear resets all actions.
func (f *InputFrame) Clear() {
	clear(f.Actions)
}
