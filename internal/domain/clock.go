package domain

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// clock stamps loaded_at on the facts of a run.
var clock clockwork.Clock = clockwork.NewRealClock()

// SetClock replaces the clock behind loaded_at; nil restores the real one.
func SetClock(c clockwork.Clock) {
	if c == nil {
		c = clockwork.NewRealClock()
	}
	clock = c
}

// loadTimestamp is the UTC instant recorded on facts built now.
func loadTimestamp() time.Time {
	return clock.Now().UTC()
}
