package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/mariusvb/commitfeed/internal/github"
)

func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 || m.dismissed {
		return ""
	}

	var panel string
	if m.minimized {
		panel = m.renderMinimized()
	} else {
		panel = m.renderPanel()
	}
	return m.compose(panel)
}

// compose paints the panel onto the otherwise empty backdrop at its
// computed rectangle. While fullscreen the panel covers every backdrop
// cell, the terminal rendition of locking the page behind a modal.
func (m Model) compose(panel string) string {
	lines := strings.Split(panel, "\n")
	pad := strings.Repeat(" ", max(0, m.panel.x))

	var b strings.Builder
	for row := 0; row < m.height; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		if i := row - m.panel.y; i >= 0 && i < len(lines) {
			b.WriteString(pad)
			b.WriteString(lines[i])
		}
	}
	return b.String()
}

func (m Model) renderPanel() string {
	cw := m.contentW()

	body := m.renderBody(cw)
	if m.fullscreen {
		// The box has to span the whole window, short body or not.
		for len(body) < m.bodyRows() {
			body = append(body, "")
		}
	}

	rows := make([]string, 0, len(body)+2)
	rows = append(rows, m.renderTitle(cw, false))
	rows = append(rows, body...)
	rows = append(rows, m.renderFooter(cw))

	style := panelStyle
	if m.phase == phaseFailed {
		style = panelErrorStyle
	}
	return style.Render(strings.Join(rows, "\n"))
}

func (m Model) renderMinimized() string {
	style := panelStyle
	if m.phase == phaseFailed {
		style = panelErrorStyle
	}
	return style.Render(m.renderTitle(m.contentW(), true))
}

// renderTitle builds the title row with the live dot on the left and the
// control glyphs right-aligned. The plain-text parts are measured with
// runewidth so the glyph columns line up with the hit rectangles.
func (m Model) renderTitle(cw int, minimized bool) string {
	name := " commitfeed"
	clock := "  updated " + m.clock.Format("15:04:05")
	glyphs := "⤢ - ✕"
	if minimized {
		glyphs = "✕"
	}

	used := 1 + runewidth.StringWidth(name) + runewidth.StringWidth(clock) + runewidth.StringWidth(glyphs)
	if cw-used < 1 {
		clock = ""
		used = 1 + runewidth.StringWidth(name) + runewidth.StringWidth(glyphs)
	}
	gap := max(1, cw-used)

	dot := liveOffStyle.Render("●")
	if m.blinkOn {
		dot = liveOnStyle.Render("●")
	}

	return dot + titleStyle.Render(name) + clockStyle.Render(clock) +
		strings.Repeat(" ", gap) + glyphStyle.Render(glyphs)
}

func (m Model) renderBody(cw int) []string {
	switch m.phase {
	case phaseLoading:
		return []string{m.spin.View() + emptyStyle.Render(" fetching commit activity…")}
	case phaseFailed:
		return []string{
			errorStyle.Render("✗ " + m.errText),
			emptyStyle.Render("  waiting for the next poll"),
		}
	}

	if len(m.entries) == 0 {
		return []string{emptyStyle.Render("no recent commits")}
	}

	end := min(len(m.entries), m.offset+m.bodyRows())
	rows := make([]string, 0, end-m.offset)
	for _, e := range m.entries[m.offset:end] {
		rows = append(rows, renderEntry(e, cw))
	}
	return rows
}

// renderEntry lays one commit out as sha, message, repository, age. The
// message takes whatever width the fixed columns leave over; rows always
// come out exactly the content width, dropping the repository and then the
// age column when the panel is too narrow to fit them.
func renderEntry(e github.Commit, cw int) string {
	const (
		shaW  = 7
		repoW = 16
		ageW  = 10
	)

	sha := e.SHA
	if len(sha) > shaW {
		sha = sha[:shaW]
	}
	out := shaStyle.Render(runewidth.FillRight(sha, shaW))

	tail := ""
	msgW := cw - shaW - repoW - ageW - 6
	switch {
	case msgW >= 8:
		repo := e.Repo
		if runewidth.StringWidth(repo) > repoW {
			repo = runewidth.Truncate(repo, repoW, "…")
		}
		tail = "  " + repoStyle.Render(runewidth.FillRight(repo, repoW)) +
			"  " + timeStyle.Render(runewidth.FillLeft(formatRelativeTime(e.Timestamp), ageW))
	case cw-shaW-ageW-4 >= 8:
		msgW = cw - shaW - ageW - 4
		tail = "  " + timeStyle.Render(runewidth.FillLeft(formatRelativeTime(e.Timestamp), ageW))
	default:
		msgW = max(1, cw-shaW-2)
	}

	msg := firstLine(e.Message)
	if runewidth.StringWidth(msg) > msgW {
		msg = runewidth.Truncate(msg, msgW, "…")
	}
	return out + "  " + messageStyle.Render(runewidth.FillRight(msg, msgW)) + tail
}

func (m Model) renderFooter(cw int) string {
	var pos string
	if m.phase == phaseReady && len(m.entries) > 0 {
		top := m.offset + 1
		bottom := min(len(m.entries), m.offset+m.bodyRows())
		pos = fmt.Sprintf("%d-%d of %d", top, bottom, len(m.entries))
	}

	help := "esc close · m min · f full · j/k scroll"
	if cw-runewidth.StringWidth(pos)-runewidth.StringWidth(help) < 1 {
		help = "esc close"
	}
	gap := max(1, cw-runewidth.StringWidth(pos)-runewidth.StringWidth(help))

	return footerStyle.Render(pos) + strings.Repeat(" ", gap) + footerStyle.Render(help)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimRight(s, "\r")
}

func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("Jan 2")
	}
}
