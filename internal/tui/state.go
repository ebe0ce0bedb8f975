package tui

import (
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// ViewState is the externally observable state of the panel. Exactly one is
// active at any time: fetch outcomes drive loading/error/normal, the user
// drives minimized and the fullscreen flag, and neither overrides the other.
type ViewState int

const (
	StateLoading ViewState = iota
	StateError
	StateMinimized
	StateNormal
)

func (s ViewState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateError:
		return "error"
	case StateMinimized:
		return "minimized"
	case StateNormal:
		return "normal"
	default:
		return "unknown"
	}
}

// phase is the fetch side of the state, tracked apart from the user-driven
// minimize flag so a cycle finishing in the background cannot un-minimize
// the panel.
type phase int

const (
	phaseLoading phase = iota
	phaseReady
	phaseFailed
)

// rect is a screen-cell rectangle used for panel placement and mouse
// hit-testing.
type rect struct {
	x, y, w, h int
}

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

// Options configure the panel model.
type Options struct {
	PollInterval  time.Duration
	BlinkInterval time.Duration

	// OnClose is invoked exactly once per dismissal event (close glyph,
	// click outside the panel, Escape). The panel holds no notion of
	// "closed"; whatever the callback's message means to the host decides
	// what happens next. Defaults to emitting CloseMsg.
	OnClose func() tea.Msg

	Logger *slog.Logger
}
