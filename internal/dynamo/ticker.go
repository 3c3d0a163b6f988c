package dynamo

import "time"

// Ticker gates Advance calls on wall-clock time between frames.
type Ticker struct {
	sim      *Simulator
	interval time.Duration
	repeats  int
	last     time.Time
	started  bool
}

// NewTicker advances sim repeats times whenever more than interval has
// passed since the previous advance.
func NewTicker(sim *Simulator, interval time.Duration, repeats int) *Ticker {
	if repeats < 1 {
		repeats = 1
	}
	if interval < 0 {
		interval = 0
	}
	return &Ticker{sim: sim, interval: interval, repeats: repeats}
}

// Tick reports whether the simulator was advanced for this frame time.
func (t *Ticker) Tick(now time.Time) bool {
	if t.started && now.Sub(t.last) <= t.interval {
		return false
	}
	t.sim.AdvanceN(t.repeats)
	t.last = now
	t.started = true
	return true
}

// Restart forgets the last advance time, so the next Tick always advances.
func (t *Ticker) Restart() {
	t.started = false
	t.last = time.Time{}
}

func (t *Ticker) Simulator() *Simulator   { return t.sim }
func (t *Ticker) Interval() time.Duration { return t.interval }
func (t *Ticker) Repeats() int            { return t.repeats }
