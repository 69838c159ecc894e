package platformer

import "math"

// Animation state references shared by every sprite. They are the values
// recorded as a snapshot's animation state.
const (
	AnimIdle = iota
	AnimRun
	AnimJump
	AnimFall
	AnimAttack
	AnimHurt
	AnimCrawl
	AnimWindup
	AnimSpit
	AnimDead
)

// Clip is a looping sequence of glyphs played over Duration seconds.
type Clip struct {
	Frames   []rune
	Duration float64
	Loop     bool
}

// Sprite is a minimal animator: a current clip and a normalized phase. It
// implements rewind.Animator.
type Sprite struct {
	clips map[int]Clip
	state int
	phase float64
	speed float64
}

// NewSprite creates a sprite playing state at normal speed.
func NewSprite(clips map[int]Clip, state int) *Sprite {
	return &Sprite{clips: clips, state: state, speed: 1}
}

// State implements rewind.Animator.
func (s *Sprite) State() (int, float64) {
	return s.state, s.phase
}

// Play implements rewind.Animator.
func (s *Sprite) Play(state int, phase float64) {
	s.state, s.phase = state, phase
}

// Speed implements rewind.Animator.
func (s *Sprite) Speed() float64 {
	return s.speed
}

// SetSpeed implements rewind.Animator.
func (s *Sprite) SetSpeed(speed float64) {
	s.speed = speed
}

// Switch changes clip, restarting it only when the state differs.
func (s *Sprite) Switch(state int) {
	if s.state != state {
		s.state, s.phase = state, 0
	}
}

// Advance moves the phase forward by dt seconds of animation time.
func (s *Sprite) Advance(dt float64) {
	clip, ok := s.clips[s.state]
	if !ok || clip.Duration <= 0 {
		return
	}
	s.phase += dt * s.speed / clip.Duration
	if clip.Loop {
		s.phase -= math.Floor(s.phase)
	} else {
		s.phase = math.Min(s.phase, 1)
	}
}

// Finished reports whether a one-shot clip has played to the end.
func (s *Sprite) Finished() bool {
	clip, ok := s.clips[s.state]
	return ok && !clip.Loop && s.phase >= 1
}

// Glyph returns the frame for the current phase.
func (s *Sprite) Glyph() rune {
	clip, ok := s.clips[s.state]
	if !ok || len(clip.Frames) == 0 {
		return '?'
	}
	i := int(s.phase * float64(len(clip.Frames)))
	return clip.Frames[min(max(i, 0), len(clip.Frames)-1)]
}

var playerClips = map[int]Clip{
	AnimIdle:   {Frames: []rune{'@'}, Duration: 1, Loop: true},
	AnimRun:    {Frames: []rune{'@', 'a'}, Duration: 0.3, Loop: true},
	AnimJump:   {Frames: []rune{'@'}, Duration: 1, Loop: true},
	AnimFall:   {Frames: []rune{'@'}, Duration: 1, Loop: true},
	AnimAttack: {Frames: []rune{'@'}, Duration: 0.25},
	AnimHurt:   {Frames: []rune{'@', ' '}, Duration: 0.2, Loop: true},
	AnimDead:   {Frames: []rune{'x'}, Duration: 1, Loop: true},
}

var slimeClips = map[int]Clip{
	AnimCrawl:  {Frames: []rune{'s', 'S'}, Duration: 0.6, Loop: true},
	AnimWindup: {Frames: []rune{'S', '§'}, Duration: 0.2, Loop: true},
	AnimSpit:   {Frames: []rune{'O'}, Duration: 0.3},
	AnimDead:   {Frames: []rune{'_'}, Duration: 1, Loop: true},
}
