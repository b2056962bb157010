package game

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/shapetrail/internal/world"
)

func key(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestTranslateKey(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		mode Mode
		want Command
	}{
		{"arrow up", key(tcell.KeyUp), ModeBuild, CmdUp},
		{"arrow down play", key(tcell.KeyDown), ModePlay, CmdDown},
		{"arrow left", key(tcell.KeyLeft), ModeBuild, CmdLeft},
		{"arrow right", key(tcell.KeyRight), ModePlay, CmdRight},
		{"wasd", runeKey('a'), ModePlay, CmdLeft},
		{"wasd upper", runeKey('D'), ModeBuild, CmdRight},
		{"escape", key(tcell.KeyEscape), ModePlay, CmdQuit},
		{"ctrl-c", key(tcell.KeyCtrlC), ModeBuild, CmdQuit},
		{"q", runeKey('q'), ModeBuild, CmdQuit},
		{"tab", key(tcell.KeyTab), ModeBuild, CmdToggleMode},
		{"rotate", runeKey('r'), ModeBuild, CmdRotate},
		{"r resets in play", runeKey('r'), ModePlay, CmdReset},
		{"x resets in play", runeKey('x'), ModePlay, CmdReset},
		{"undo", runeKey('u'), ModeBuild, CmdUndo},
		{"backspace undo", key(tcell.KeyBackspace2), ModeBuild, CmdUndo},
		{"backspace ignored in play", key(tcell.KeyBackspace2), ModePlay, CmdNone},
		{"clear", runeKey('c'), ModeBuild, CmdClear},
		{"clear ignored in play", runeKey('c'), ModePlay, CmdNone},
		{"square", runeKey('1'), ModeBuild, CmdSelectSquare},
		{"triangle", runeKey('2'), ModeBuild, CmdSelectTriangle},
		{"right triangle", runeKey('3'), ModeBuild, CmdSelectRightTriangle},
		{"next color", runeKey('n'), ModeBuild, CmdNextColor},
		{"generate", runeKey('g'), ModeBuild, CmdGenerate},
		{"save", runeKey('p'), ModeBuild, CmdSave},
		{"unbound rune", runeKey('k'), ModeBuild, CmdNone},
		{"unbound key", key(tcell.KeyF5), ModePlay, CmdNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TranslateKey(tt.ev, tt.mode); got != tt.want {
				t.Errorf("TranslateKey() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCommandDirection(t *testing.T) {
	tests := []struct {
		cmd  Command
		want world.Direction
		ok   bool
	}{
		{CmdUp, world.Up, true},
		{CmdDown, world.Down, true},
		{CmdLeft, world.Left, true},
		{CmdRight, world.Right, true},
		{CmdRotate, 0, false},
	}
	for _, tt := range tests {
		got, ok := tt.cmd.Direction()
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("%v.Direction() = %v, %v, want %v, %v", tt.cmd, got, ok, tt.want, tt.ok)
		}
	}
}

func TestCommandString(t *testing.T) {
	if got := CmdSelectRightTriangle.String(); got != "select_right_triangle" {
		t.Errorf("String() = %q, want %q", got, "select_right_triangle")
	}
	if got := Command(99).String(); got != "unknown" {
		t.Errorf("Command(99).String() = %q, want %q", got, "unknown")
	}
}

func TestModeString(t *testing.T) {
	tests := []struct {
		mode     Mode
		expected string
	}{
		{ModeBuild, "build"},
		{ModePlay, "play"},
		{Mode(7), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.expected {
			t.Errorf("Mode(%d).String() = %q, want %q", tt.mode, got, tt.expected)
		}
	}
}
