package tui

import (
	"time"

	"github.com/mariusvb/commitfeed/internal/github"
)

// CloseMsg is what the default close callback emits when the user dismisses
// the panel. Hosts route it however they like; the bundled program quits.
type CloseMsg struct{}

// feedMsg carries one poll cycle's outcome. The generation stamp lets the
// model discard results from a cycle that is no longer current.
type feedMsg struct {
	generation int
	entries    []github.Commit
	err        error
}

// pollTickMsg fires once per poll interval and starts the next cycle.
type pollTickMsg time.Time

// blinkTickMsg fires on the cosmetic cadence: it lights the live indicator
// and refreshes the wall-clock label, regardless of fetch outcomes.
type blinkTickMsg time.Time

// blinkOffMsg turns the live indicator back off one second after a blink.
type blinkOffMsg struct{}
