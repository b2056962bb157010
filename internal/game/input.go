package game

import (
	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/shapetrail/internal/world"
)

// Command is one discrete user intent.
type Command int

const (
	// CmdNone is an unbound key.
	CmdNone Command = iota
	// CmdUp moves the cursor or token up.
	CmdUp
	// CmdDown moves the cursor or token down.
	CmdDown
	// CmdLeft moves the cursor or token left.
	CmdLeft
	// CmdRight moves the cursor or token right.
	CmdRight
	// CmdRotate turns the pending tile by 90 degrees.
	CmdRotate
	// CmdUndo removes the last placed tile.
	CmdUndo
	// CmdClear empties the build.
	CmdClear
	// CmdSelectSquare makes the pending tile a square.
	CmdSelectSquare
	// CmdSelectTriangle makes the pending tile a triangle.
	CmdSelectTriangle
	// CmdSelectRightTriangle makes the pending tile a right triangle.
	CmdSelectRightTriangle
	// CmdNextColor cycles the pending tile's color.
	CmdNextColor
	// CmdGenerate grows the build with random tiles.
	CmdGenerate
	// CmdSave writes the build to the level store.
	CmdSave
	// CmdReset restarts the current puzzle.
	CmdReset
	// CmdToggleMode switches between building and playtesting.
	CmdToggleMode
	// CmdQuit ends the session.
	CmdQuit
)

var commandNames = map[Command]string{
	CmdNone:                "none",
	CmdUp:                  "up",
	CmdDown:                "down",
	CmdLeft:                "left",
	CmdRight:               "right",
	CmdRotate:              "rotate",
	CmdUndo:                "undo",
	CmdClear:               "clear",
	CmdSelectSquare:        "select_square",
	CmdSelectTriangle:      "select_triangle",
	CmdSelectRightTriangle: "select_right_triangle",
	CmdNextColor:           "next_color",
	CmdGenerate:            "generate",
	CmdSave:                "save",
	CmdReset:               "reset",
	CmdToggleMode:          "toggle_mode",
	CmdQuit:                "quit",
}

// String returns a human-readable command name.
func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return "unknown"
}

// Direction returns the grid direction of a movement command.
func (c Command) Direction() (world.Direction, bool) {
	switch c {
	case CmdUp:
		return world.Up, true
	case CmdDown:
		return world.Down, true
	case CmdLeft:
		return world.Left, true
	case CmdRight:
		return world.Right, true
	default:
		return 0, false
	}
}

// TranslateKey maps a key event to a command for the given mode.
// Keys with no meaning in that mode map to CmdNone.
func TranslateKey(ev *tcell.EventKey, mode Mode) Command {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return CmdQuit
	case tcell.KeyUp:
		return CmdUp
	case tcell.KeyDown:
		return CmdDown
	case tcell.KeyLeft:
		return CmdLeft
	case tcell.KeyRight:
		return CmdRight
	case tcell.KeyTab:
		return CmdToggleMode
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if mode == ModeBuild {
			return CmdUndo
		}
		return CmdNone
	case tcell.KeyRune:
		return translateRune(ev.Rune(), mode)
	}
	return CmdNone
}

func translateRune(r rune, mode Mode) Command {
	switch r {
	case 'q', 'Q':
		return CmdQuit
	case 'w', 'W':
		return CmdUp
	case 's', 'S':
		return CmdDown
	case 'a', 'A':
		return CmdLeft
	case 'd', 'D':
		return CmdRight
	}

	if mode == ModePlay {
		switch r {
		case 'r', 'R', 'x', 'X':
			return CmdReset
		}
		return CmdNone
	}

	switch r {
	case 'r', 'R':
		return CmdRotate
	case 'u', 'U', 'z', 'Z':
		return CmdUndo
	case 'c', 'C':
		return CmdClear
	case '1':
		return CmdSelectSquare
	case '2':
		return CmdSelectTriangle
	case '3':
		return CmdSelectRightTriangle
	case 'n', 'N':
		return CmdNextColor
	case 'g', 'G':
		return CmdGenerate
	case 'p', 'P':
		return CmdSave
	}
	return CmdNone
}

// helpText lists the keys for a mode.
func helpText(mode Mode, canToggle bool) string {
	var s string
	if mode == ModeBuild {
		s = "arrows/wasd place  r rotate  u undo  c clear  1-3 shape  n color  g generate  p save"
		if canToggle {
			s += "  tab test"
		}
	} else {
		s = "arrows/wasd move  r reset"
		if canToggle {
			s += "  tab edit"
		}
	}
	return s + "  q quit"
}
