package rewind

// Participant is the contract every rewindable object implements.
//
// Participants register themselves with a Coordinator when they spawn or
// enable and unregister when they despawn. Participants are identified by
// value equality of the interface, so implementations should be pointers.
type Participant interface {
	// BeginRewind freezes live simulation (physics, input, timers).
	BeginRewind()

	// EndRewind resumes live simulation after the last ApplyState.
	EndRewind()

	// CaptureState returns the current state. The coordinator overwrites
	// Timestamp so every participant in one pass shares the same time.
	CaptureState() Snapshot

	// ApplyState restores a previously recorded or interpolated state.
	ApplyState(s Snapshot)
}

// Liveness is implemented by participants that can be destroyed while
// still registered. A participant reporting false is skipped and dropped
// from the registry on the next recording pass.
type Liveness interface {
	Alive() bool
}

// Clock supplies the simulation time used to stamp snapshots and to start
// the rewind playhead.
type Clock interface {
	Now() float64
}

// SimClock is a manually advanced Clock.
type SimClock struct {
	now float64
}

// NewSimClock creates a clock starting at start seconds.
func NewSimClock(start float64) *SimClock {
	return &SimClock{now: start}
}

// Now returns the current clock value.
func (c *SimClock) Now() float64 {
	return c.now
}

// Advance moves the clock forward by dt seconds. Negative dt is ignored.
func (c *SimClock) Advance(dt float64) {
	if dt > 0 {
		c.now += dt
	}
}

// Set moves the clock to an absolute value.
func (c *SimClock) Set(now float64) {
	c.now = now
}
