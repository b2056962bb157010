// Package game runs the interactive build and play session: it turns key
// events into builder and traversal commands and renders the result.
package game

// Mode represents the current session mode.
type Mode int

const (
	// ModeBuild grows a tile graph from the cursor.
	ModeBuild Mode = iota
	// ModePlay moves the token over a fixed topology.
	ModePlay
)

// String returns a human-readable mode name.
func (m Mode) String() string {
	switch m {
	case ModeBuild:
		return "build"
	case ModePlay:
		return "play"
	default:
		return "unknown"
	}
}
