package rewind

import (
	"fmt"
	"io"
	"math"
	"reflect"

	"github.com/charmbracelet/log"
)

// Config controls history length and playback speed.
type Config struct {
	HistorySeconds   float64 // Maximum rewind history kept per participant
	SamplesPerSecond int     // Recording rate on the fixed-step clock
	SpeedMultiplier  float64 // Playback speed; 1 = real time, 2 = double speed
}

// DefaultConfig returns the settings the game ships with.
func DefaultConfig() Config {
	return Config{
		HistorySeconds:   5,
		SamplesPerSecond: 50,
		SpeedMultiplier:  1,
	}
}

// Capacity returns the per-participant buffer size.
func (c Config) Capacity() int {
	return int(math.Ceil(c.HistorySeconds * float64(c.SamplesPerSecond)))
}

// Validate reports settings that cannot produce a usable buffer.
func (c Config) Validate() error {
	if c.HistorySeconds <= 0 {
		return fmt.Errorf("%w: history seconds must be positive, got %v", ErrInvalidArgument, c.HistorySeconds)
	}
	if c.SamplesPerSecond <= 0 {
		return fmt.Errorf("%w: samples per second must be positive, got %d", ErrInvalidArgument, c.SamplesPerSecond)
	}
	if c.SpeedMultiplier <= 0 {
		return fmt.Errorf("%w: speed multiplier must be positive, got %v", ErrInvalidArgument, c.SpeedMultiplier)
	}
	if c.Capacity() <= 0 {
		return fmt.Errorf("%w: history holds no samples", ErrInvalidArgument)
	}
	return nil
}

// track is the registry entry for one participant.
type track struct {
	p       Participant
	buf     *RingBuffer[Snapshot]
	policy  BlendPolicy
	last    Snapshot // Last snapshot applied during the current rewind
	applied bool
}

// Coordinator owns the participant registry and drives recording and
// rewind playback.
//
// It runs in one of two modes. While recording, FixedUpdate samples every
// participant at SamplesPerSecond. While rewinding, Update walks a playhead
// backward and applies interpolated snapshots. A Coordinator is not safe
// for concurrent use; drive it from the simulation goroutine.
type Coordinator struct {
	cfg      Config
	clock    Clock
	logger   *log.Logger
	capacity int
	interval float64

	tracks map[Participant]*track
	order  []*track // Registration order, for deterministic passes

	rewinding   bool
	playhead    float64
	recordTimer float64
	passes      int

	started  signal[struct{}]
	stopped  signal[struct{}]
	progress signal[float64]
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option {
	return func(c *Coordinator) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewCoordinator creates a coordinator using clock as the live time source.
func NewCoordinator(cfg Config, clock Clock, opts ...Option) (*Coordinator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if clock == nil {
		return nil, fmt.Errorf("%w: clock is required", ErrInvalidArgument)
	}

	c := &Coordinator{
		cfg:      cfg,
		clock:    clock,
		logger:   log.New(io.Discard),
		capacity: cfg.Capacity(),
		interval: 1 / float64(cfg.SamplesPerSecond),
		tracks:   make(map[Participant]*track),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Config returns the coordinator settings.
func (c *Coordinator) Config() Config {
	return c.cfg
}

// MaxRewindDuration returns the configured history length in seconds.
func (c *Coordinator) MaxRewindDuration() float64 {
	return c.cfg.HistorySeconds
}

// Len returns the number of registered participants.
func (c *Coordinator) Len() int {
	return len(c.order)
}

// Registered reports whether p is in the registry.
func (c *Coordinator) Registered(p Participant) bool {
	if !usable(p) {
		return false
	}
	_, ok := c.tracks[p]
	return ok
}

// Register adds p with an empty history. Registering nil or an already
// registered participant is a no-op.
func (c *Coordinator) Register(p Participant) {
	if !usable(p) {
		if p != nil && !isNil(p) {
			c.logger.Warn("rewind: participant type is not comparable, ignoring", "type", fmt.Sprintf("%T", p))
		}
		return
	}
	if _, ok := c.tracks[p]; ok {
		return
	}

	buf, err := NewRingBuffer[Snapshot](c.capacity)
	if err != nil {
		// Capacity is validated in NewCoordinator.
		panic(err)
	}

	t := &track{p: p, buf: buf}
	if pp, ok := p.(PolicyProvider); ok {
		t.policy = pp.BlendPolicy()
	}
	c.tracks[p] = t
	c.order = append(c.order, t)

	c.logger.Debug("registered participant", "type", fmt.Sprintf("%T", p), "capacity", c.capacity)
}

// Unregister removes p and its history. Unknown participants are ignored.
func (c *Coordinator) Unregister(p Participant) {
	if !usable(p) {
		return
	}
	if _, ok := c.tracks[p]; !ok {
		return
	}
	c.remove(p)
}

// IsRewinding reports whether playback is running.
func (c *Coordinator) IsRewinding() bool {
	return c.rewinding
}

// CanRewind reports whether any participant has recorded history.
func (c *Coordinator) CanRewind() bool {
	for _, t := range c.order {
		if t.buf != nil && t.buf.HasStates() {
			return true
		}
	}
	return false
}

// Playhead returns the virtual time being displayed while rewinding.
func (c *Coordinator) Playhead() float64 {
	return c.playhead
}

// RewindProgress returns 0 when live and 1 at the oldest reachable point.
// It is 0 whenever no rewind is running or no history exists.
func (c *Coordinator) RewindProgress() float64 {
	if !c.rewinding {
		return 0
	}
	oldest, newest, ok := c.historyRange()
	if !ok {
		return 0
	}
	total := newest - oldest
	if total <= 0 {
		return 0
	}
	return clamp01(1 - (c.playhead-oldest)/total)
}

// RemainingRewindTime returns how many seconds of history lie behind the
// playhead while rewinding, or behind the live clock otherwise.
func (c *Coordinator) RemainingRewindTime() float64 {
	oldest, _, ok := c.historyRange()
	if !ok {
		return 0
	}
	from := c.clock.Now()
	if c.rewinding {
		from = c.playhead
	}
	return math.Max(0, from-oldest)
}

// History returns a copy of the recorded snapshots for p, oldest first.
func (c *Coordinator) History(p Participant) []Snapshot {
	if !usable(p) {
		return nil
	}
	t, ok := c.tracks[p]
	if !ok || t.buf == nil {
		return nil
	}
	out := make([]Snapshot, 0, t.buf.Count())
	for i := range t.buf.Count() {
		out = append(out, t.buf.at(i))
	}
	return out
}

// LastApplied returns the most recent snapshot applied to p during the
// current or last rewind.
func (c *Coordinator) LastApplied(p Participant) (Snapshot, bool) {
	if !usable(p) {
		return Snapshot{}, false
	}
	t, ok := c.tracks[p]
	if !ok || !t.applied {
		return Snapshot{}, false
	}
	return t.last, true
}

// StartRewind switches to playback. It does nothing when already rewinding
// or when there is no history.
func (c *Coordinator) StartRewind() {
	if c.rewinding {
		c.logger.Debug("start rewind ignored: already rewinding")
		return
	}
	if !c.CanRewind() {
		c.logger.Debug("start rewind ignored: no history", "registered", len(c.order))
		return
	}

	c.rewinding = true
	c.playhead = c.clock.Now()
	c.logger.Debug("rewind started", "time", c.playhead)

	for _, t := range c.live() {
		t.applied = false
		c.call(t, "begin", t.p.BeginRewind)
	}
	c.sweep()
	c.started.emit(struct{}{})
}

// StopRewind returns to recording. History newer than the playhead is
// discarded, since that future never happened.
func (c *Coordinator) StopRewind() {
	if !c.rewinding {
		return
	}
	c.rewinding = false
	c.trimFuture()
	c.logger.Debug("rewind stopped", "playhead", c.playhead)

	for _, t := range c.live() {
		c.call(t, "end", t.p.EndRewind)
	}
	c.sweep()
	c.stopped.emit(struct{}{})
}

// ClearHistory empties every participant's buffer regardless of mode.
func (c *Coordinator) ClearHistory() {
	for _, t := range c.order {
		if t.buf != nil {
			t.buf.Clear()
		}
	}
}

// FixedUpdate advances the recording clock by dt seconds and samples all
// participants once the sample interval has elapsed. It does nothing while
// rewinding.
func (c *Coordinator) FixedUpdate(dt float64) {
	if c.rewinding || len(c.order) == 0 {
		return
	}
	c.recordTimer += dt
	if c.recordTimer < c.interval {
		return
	}
	c.recordTimer = 0
	c.record()
}

// Update advances rewind playback by dt seconds of frame time. It does
// nothing while recording.
func (c *Coordinator) Update(dt float64) {
	if !c.rewinding {
		return
	}

	c.playhead -= dt * c.cfg.SpeedMultiplier
	if oldest, _, ok := c.historyRange(); ok && c.playhead < oldest {
		c.playhead = oldest
	}

	for _, t := range c.live() {
		if !t.buf.HasStates() {
			continue
		}
		before, after, f, err := t.buf.InterpolationStates(c.playhead, timestampOf)
		if err != nil {
			continue
		}
		s := Lerp(before, after, f, t.policy)
		if c.call(t, "apply", func() { t.p.ApplyState(s) }) {
			t.last = s
			t.applied = true
		}
	}
	c.sweep()
	c.progress.emit(c.RewindProgress())
}

// record samples every live participant against a single clock value.
func (c *Coordinator) record() {
	now := c.clock.Now()

	// Hooks may register or unregister participants; iterate a copy.
	for _, t := range append([]*track(nil), c.order...) {
		if t.buf == nil {
			continue
		}
		if !alive(t.p) {
			t.buf = nil
			continue
		}
		var s Snapshot
		if !c.call(t, "capture", func() { s = t.p.CaptureState() }) {
			continue
		}
		s.Timestamp = now
		t.buf.Add(s)
	}
	c.sweep()

	c.passes++
	if c.passes%c.cfg.SamplesPerSecond == 0 && len(c.order) > 0 {
		c.logger.Debug("recording", "participants", len(c.order), "buffered", c.order[0].buf.Count())
	}
}

// trimFuture drops snapshots newer than the playhead from every buffer.
func (c *Coordinator) trimFuture() {
	for _, t := range c.order {
		if t.buf == nil || !t.buf.HasStates() {
			continue
		}
		keep := t.buf.CountAtOrBefore(c.playhead, timestampOf)
		//nolint:errcheck // keep is never negative
		t.buf.TrimToCount(keep)
	}
}

// historyRange returns the oldest and newest timestamps across all buffers.
func (c *Coordinator) historyRange() (oldest, newest float64, ok bool) {
	oldest = math.Inf(1)
	newest = math.Inf(-1)
	for _, t := range c.order {
		if t.buf == nil || !t.buf.HasStates() {
			continue
		}
		o, _ := t.buf.Oldest()
		n, _ := t.buf.Newest()
		oldest = math.Min(oldest, o.Timestamp)
		newest = math.Max(newest, n.Timestamp)
		ok = true
	}
	return oldest, newest, ok
}

// live returns the tracks whose participant is still alive. Dead ones are
// marked for removal by the next sweep.
func (c *Coordinator) live() []*track {
	out := make([]*track, 0, len(c.order))
	for _, t := range c.order {
		if t.buf == nil {
			continue
		}
		if !alive(t.p) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// call runs a participant hook. A panicking hook marks the participant as
// destroyed; it reports whether the hook completed.
func (c *Coordinator) call(t *track, hook string, fn func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Warn("rewind: participant hook failed, dropping participant",
				"hook", hook, "type", fmt.Sprintf("%T", t.p), "panic", r)
			t.buf = nil
			ok = false
		}
	}()
	fn()
	return true
}

// sweep removes tracks whose buffer was released during a pass.
func (c *Coordinator) sweep() {
	var dead []Participant
	for _, t := range c.order {
		if t.buf == nil {
			dead = append(dead, t.p)
		}
	}
	for _, p := range dead {
		c.remove(p)
		c.logger.Debug("removed destroyed participant", "type", fmt.Sprintf("%T", p))
	}
}

func (c *Coordinator) remove(p Participant) {
	delete(c.tracks, p)
	for i, t := range c.order {
		if t.p == p {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

func timestampOf(s Snapshot) float64 {
	return s.Timestamp
}

func alive(p Participant) bool {
	if l, ok := p.(Liveness); ok {
		return l.Alive()
	}
	return true
}

// usable reports whether p can be used as a registry key.
func usable(p Participant) bool {
	if p == nil || isNil(p) {
		return false
	}
	return reflect.TypeOf(p).Comparable()
}

func isNil(p Participant) bool {
	v := reflect.ValueOf(p)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}
