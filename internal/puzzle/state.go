package puzzle

// State represents the traversal state of a puzzle.
type State int

const (
	// StatePlaying accepts moves.
	StatePlaying State = iota
	// StateSolved is terminal until Reset: every tile has been visited.
	StateSolved
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StateSolved:
		return "solved"
	default:
		return "unknown"
	}
}

// Outcome describes how a successful move relocated the token.
type Outcome int

const (
	// Stepped means the token moved to an adjacent occupied cell.
	Stepped Outcome = iota
	// Teleported means the token crossed a portal into another cell.
	Teleported
)

// String returns a human-readable outcome name.
func (o Outcome) String() string {
	switch o {
	case Stepped:
		return "stepped"
	case Teleported:
		return "teleported"
	default:
		return "unknown"
	}
}
