package tui

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mariusvb/commitfeed/internal/github"
)

// Source produces the ranked commit entries for one poll cycle.
type Source interface {
	Refresh(ctx context.Context) ([]github.Commit, error)
}

const (
	panelWidth  = 64 // total columns of the floating panel, borders included
	normalRows  = 10 // list rows shown while windowed
	blinkOnTime = time.Second

	errFeedUnavailable = "couldn't load commit activity"
)

// Model is the commit feed panel. It owns two recurring timers: the poll
// tick that re-runs the fetch pipeline, and the faster cosmetic tick that
// blinks the live indicator and refreshes the clock label. Both stop
// rescheduling once the panel is dismissed.
type Model struct {
	src    Source
	logger *slog.Logger

	pollInterval  time.Duration
	blinkInterval time.Duration
	onClose       func() tea.Msg

	ctx    context.Context
	cancel context.CancelFunc

	phase      phase
	entries    []github.Commit
	errText    string
	generation int
	dismissed  bool

	minimized  bool
	fullscreen bool

	blinkOn bool
	clock   time.Time

	width  int
	height int
	offset int
	panel  rect

	keys keyMap
	spin spinner.Model
}

func NewModel(src Source, opts Options) Model {
	if opts.PollInterval <= 0 {
		opts.PollInterval = 5 * time.Minute
	}
	if opts.BlinkInterval <= 0 {
		opts.BlinkInterval = 3 * time.Second
	}
	if opts.OnClose == nil {
		opts.OnClose = func() tea.Msg { return CloseMsg{} }
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		src:           src,
		logger:        opts.Logger,
		pollInterval:  opts.PollInterval,
		blinkInterval: opts.BlinkInterval,
		onClose:       opts.OnClose,
		ctx:           ctx,
		cancel:        cancel,
		generation:    1,
		clock:         time.Now(),
		keys:          defaultKeyMap(),
		spin:          sp,
	}
}

func (m Model) Init() tea.Cmd {
	m.logger.Info("panel mounted",
		"poll_interval", m.pollInterval,
		"blink_interval", m.blinkInterval)
	return tea.Batch(
		m.spin.Tick,
		fetchCmd(m.ctx, m.src, m.generation),
		pollTickCmd(m.pollInterval),
		blinkTickCmd(m.blinkInterval),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		m.clampOffset()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case feedMsg:
		// Results from a superseded cycle or a dismissed panel are stale
		// and must not be committed.
		if m.dismissed || msg.generation != m.generation {
			return m, nil
		}
		if msg.err != nil {
			m.logger.Error("poll cycle failed", "err", msg.err)
			m.phase = phaseFailed
			m.errText = errFeedUnavailable
			m.entries = nil
			m.offset = 0
		} else {
			m.phase = phaseReady
			m.errText = ""
			m.entries = msg.entries
			m.clampOffset()
		}
		m.layout()
		return m, nil

	case pollTickMsg:
		if m.dismissed {
			return m, nil
		}
		m.generation++
		return m, tea.Batch(
			fetchCmd(m.ctx, m.src, m.generation),
			pollTickCmd(m.pollInterval),
		)

	case blinkTickMsg:
		if m.dismissed {
			return m, nil
		}
		m.blinkOn = true
		m.clock = time.Time(msg)
		return m, tea.Batch(blinkOffCmd(), blinkTickCmd(m.blinkInterval))

	case blinkOffMsg:
		m.blinkOn = false
		return m, nil

	case spinner.TickMsg:
		if m.phase != phaseLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ForceQuit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Close):
		return m.dismiss()
	case key.Matches(msg, m.keys.Minimize):
		return m.toggleMinimize(), nil
	case key.Matches(msg, m.keys.Fullscreen):
		return m.toggleFullscreen(), nil
	case key.Matches(msg, m.keys.Up):
		return m.scrollBy(-1), nil
	case key.Matches(msg, m.keys.Down):
		return m.scrollBy(1), nil
	case key.Matches(msg, m.keys.PageUp):
		return m.scrollBy(-m.bodyRows()), nil
	case key.Matches(msg, m.keys.PageDown):
		return m.scrollBy(m.bodyRows()), nil
	case key.Matches(msg, m.keys.Top):
		m.offset = 0
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.offset = len(m.entries)
		m.clampOffset()
		return m, nil
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action == tea.MouseActionPress &&
		(msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown) {
		if !m.minimized && m.panel.contains(msg.X, msg.Y) {
			delta := 1
			if msg.Button == tea.MouseButtonWheelUp {
				delta = -1
			}
			return m.scrollBy(delta), nil
		}
		return m, nil
	}

	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	switch {
	case m.closeGlyph().contains(msg.X, msg.Y):
		return m.dismiss()
	case m.minimized && m.panel.contains(msg.X, msg.Y):
		return m.toggleMinimize(), nil
	case !m.minimized && m.minimizeGlyph().contains(msg.X, msg.Y):
		return m.toggleMinimize(), nil
	case !m.minimized && m.fullscreenGlyph().contains(msg.X, msg.Y):
		return m.toggleFullscreen(), nil
	case m.panel.contains(msg.X, msg.Y):
		return m, nil
	default:
		// Click landed on the backdrop outside the panel.
		return m.dismiss()
	}
}

// dismiss tears the panel down: the context is canceled so in-flight cycles
// stop mattering, the timers stop rescheduling, the screen hold is released,
// and the close callback fires exactly once per dismissal event.
func (m Model) dismiss() (tea.Model, tea.Cmd) {
	if m.dismissed {
		return m, nil
	}
	m.dismissed = true
	m.cancel()
	m.fullscreen = false
	m.logger.Info("panel dismissed")
	return m, m.onClose
}

func (m Model) toggleMinimize() Model {
	m.minimized = !m.minimized
	if m.minimized && m.fullscreen {
		// Minimizing away from fullscreen releases the screen hold too.
		m.fullscreen = false
	}
	m.layout()
	m.clampOffset()
	return m
}

func (m Model) toggleFullscreen() Model {
	if m.minimized {
		m.minimized = false
		m.fullscreen = true
	} else {
		m.fullscreen = !m.fullscreen
	}
	m.layout()
	m.clampOffset()
	return m
}

func (m Model) scrollBy(delta int) Model {
	if m.minimized {
		return m
	}
	m.offset += delta
	m.clampOffset()
	return m
}

func (m *Model) clampOffset() {
	maxOffset := len(m.entries) - m.bodyRows()
	if maxOffset < 0 {
		maxOffset = 0
	}
	if m.offset > maxOffset {
		m.offset = maxOffset
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// bodyRows is how many list rows fit in the current panel shape.
func (m Model) bodyRows() int {
	if m.fullscreen {
		return max(1, m.height-4)
	}
	return normalRows
}

// layout recomputes the panel rectangle for the current size and state; all
// mouse hit-testing derives from it.
func (m *Model) layout() {
	if m.width <= 0 || m.height <= 0 {
		m.panel = rect{}
		return
	}

	if m.fullscreen && !m.minimized {
		m.panel = rect{0, 0, m.width, m.height}
		return
	}

	w := min(panelWidth, m.width)
	h := 3
	if !m.minimized {
		h = m.bodyLines() + 4 // title, footer, borders
	}
	if h > m.height {
		h = m.height
	}

	m.panel = rect{(m.width - w) / 2, (m.height - h) / 2, w, h}
}

func (m Model) bodyLines() int {
	switch m.phase {
	case phaseLoading:
		return 1
	case phaseFailed:
		return 2
	default:
		if len(m.entries) == 0 {
			return 1
		}
		return min(len(m.entries), m.bodyRows())
	}
}

// ViewState derives the externally observable state; exactly one of the
// four is active at any time.
func (m Model) ViewState() ViewState {
	switch {
	case m.minimized:
		return StateMinimized
	case m.phase == phaseLoading:
		return StateLoading
	case m.phase == phaseFailed:
		return StateError
	default:
		return StateNormal
	}
}

// Fullscreen reports whether the panel currently holds the whole screen.
func (m Model) Fullscreen() bool { return m.fullscreen }

// Title row sits just under the top border; content starts after the border
// column and one cell of padding.
func (m Model) titleRowY() int { return m.panel.y + 1 }
func (m Model) contentX() int  { return m.panel.x + 2 }
func (m Model) contentW() int  { return m.panel.w - 4 }

// The glyph block is right-aligned on the title row: "⤢ - ✕" while
// windowed, just "✕" while minimized. Each glyph is one cell wide.
func (m Model) closeGlyph() rect {
	return rect{m.contentX() + m.contentW() - 1, m.titleRowY(), 1, 1}
}

func (m Model) minimizeGlyph() rect {
	return rect{m.contentX() + m.contentW() - 3, m.titleRowY(), 1, 1}
}

func (m Model) fullscreenGlyph() rect {
	return rect{m.contentX() + m.contentW() - 5, m.titleRowY(), 1, 1}
}

func fetchCmd(ctx context.Context, src Source, generation int) tea.Cmd {
	return func() tea.Msg {
		entries, err := src.Refresh(ctx)
		return feedMsg{generation: generation, entries: entries, err: err}
	}
}

func pollTickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return pollTickMsg(t)
	})
}

func blinkTickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return blinkTickMsg(t)
	})
}

func blinkOffCmd() tea.Cmd {
	return tea.Tick(blinkOnTime, func(time.Time) tea.Msg {
		return blinkOffMsg{}
	})
}
