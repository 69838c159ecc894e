package platformer

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/timeslip/internal/config"
	"github.com/vovakirdan/timeslip/internal/rewind"
)

// SlimeState is a phase of the slime's behaviour.
type SlimeState int

const (
	SlimePatrol SlimeState = iota
	SlimeChase
	SlimeWindup
	SlimeSpit
)

func (s SlimeState) String() string {
	switch s {
	case SlimePatrol:
		return "patrol"
	case SlimeChase:
		return "chase"
	case SlimeWindup:
		return "windup"
	case SlimeSpit:
		return "spit"
	default:
		return "unknown"
	}
}

// Slime extras.
const (
	keyState    = "state"
	keyTimer    = "timer"
	keyDir      = "dir"
	keyDetect   = "detectRange"
	keyCooldown = "cooldown"
	keyDead     = "dead"
)

var slimePolicy = rewind.BlendPolicy{
	keyDetect:   rewind.BlendFloat,
	keyCooldown: rewind.BlendFloat,
}

const spitSeconds = 0.3

// Slime patrols, chases the player when close, and spits fireballs after a
// wind-up. Its phase timer lives in the snapshot so a rewind resumes the
// behaviour exactly where it was.
type Slime struct {
	body   *Body
	sprite *Sprite
	bodies *rewind.BodyTrack
	anims  *rewind.AnimTrack
	cfg    config.SlimeConfig
	pool   *FireballPool

	state    SlimeState
	timer    float64
	dir      int
	detect   float64
	cooldown float64
	dead     bool
}

// NewSlime spawns a slime in tile (x, y) that fires from pool.
func NewSlime(x, y int, cfg config.SlimeConfig, pool *FireballPool) *Slime {
	body := NewBody(float64(x), float64(y)+0.2, 1, 0.8)
	sprite := NewSprite(slimeClips, AnimCrawl)
	return &Slime{
		body:   body,
		sprite: sprite,
		bodies: rewind.NewBodyTrack(body),
		anims:  rewind.NewAnimTrack(sprite),
		cfg:    cfg,
		pool:   pool,
		dir:    -1,
		detect: cfg.DetectRange,
	}
}

func (s *Slime) BeginRewind() {
	s.bodies.Begin()
	s.anims.Begin()
}

func (s *Slime) EndRewind() {
	s.bodies.End()
	s.anims.End()
}

func (s *Slime) CaptureState() rewind.Snapshot {
	snap := rewind.Snapshot{Vitality: 1}
	if s.dead {
		snap.Vitality = 0
	}
	s.bodies.Capture(&snap)
	s.anims.Capture(&snap)
	snap.SetEnum(keyState, int(s.state))
	snap.SetFloat(keyTimer, s.timer)
	snap.SetInt(keyDir, s.dir)
	snap.SetFloat(keyDetect, s.detect)
	snap.SetFloat(keyCooldown, s.cooldown)
	snap.SetBool(keyDead, s.dead)
	return snap
}

func (s *Slime) ApplyState(snap rewind.Snapshot) {
	s.bodies.Apply(snap)
	s.anims.Apply(snap)
	s.state = SlimeState(snap.Extras.Enum(keyState, int(SlimePatrol)))
	s.timer = snap.Extras.Float(keyTimer, 0)
	s.dir = snap.Extras.Int(keyDir, s.dir)
	s.detect = snap.Extras.Float(keyDetect, s.detect)
	s.cooldown = snap.Extras.Float(keyCooldown, 0)
	s.dead = snap.Extras.Bool(keyDead, false)
}

// BlendPolicy implements rewind.PolicyProvider.
func (s *Slime) BlendPolicy() rewind.BlendPolicy {
	return slimePolicy
}

// State returns the behaviour phase.
func (s *Slime) State() SlimeState { return s.state }

// Dead reports whether the slime has been defeated.
func (s *Slime) Dead() bool { return s.dead }

// Body returns the slime's physics body.
func (s *Slime) Body() *Body { return s.body }

// Glyph returns the glyph to draw.
func (s *Slime) Glyph() rune { return s.sprite.Glyph() }

// Kill defeats the slime. It reports false if it was already dead.
func (s *Slime) Kill() bool {
	if s.dead {
		return false
	}
	s.dead = true
	s.body.Vel[0] = 0
	s.sprite.Switch(AnimDead)
	return true
}

// Update runs one live fixed step. speed scales movement; detect is the
// current detection range in tiles.
func (s *Slime) Update(player *Player, level *Level, phys config.PhysicsConfig, speed, detect, dt float64) {
	s.detect = detect
	if s.dead {
		s.body.Step(level, phys.Gravity, phys.MaxFallSpeed, dt)
		return
	}

	s.cooldown = max(s.cooldown-dt, 0)

	px, py := player.body.Box.Center()
	sx, sy := s.body.Box.Center()
	dx, dy := px-sx, py-sy
	sees := player.health > 0 && math.Abs(dx) <= s.detect && math.Abs(dy) < 2

	switch s.state {
	case SlimePatrol:
		s.body.Vel[0] = float64(s.dir) * s.cfg.PatrolSpeed * speed
		if sees {
			s.state = SlimeChase
		}

	case SlimeChase:
		s.dir = sign(dx, s.dir)
		s.body.Vel[0] = float64(s.dir) * s.cfg.ChaseSpeed * speed
		switch {
		case !sees:
			s.state = SlimePatrol
		case s.cooldown <= 0:
			s.state = SlimeWindup
			s.timer = s.cfg.WindupSeconds
		}

	case SlimeWindup:
		s.body.Vel[0] = 0
		s.dir = sign(dx, s.dir)
		s.timer -= dt
		if s.timer <= 0 {
			s.spit()
		}

	case SlimeSpit:
		s.body.Vel[0] = 0
		s.timer -= dt
		if s.timer <= 0 {
			s.state = SlimeChase
		}
	}

	s.body.Step(level, phys.Gravity, phys.MaxFallSpeed, dt)
	if s.state == SlimePatrol && (s.body.HitWall || s.atLedge(level)) {
		s.dir = -s.dir
	}

	s.animate()
	s.sprite.Advance(dt)
}

func (s *Slime) spit() {
	cx, cy := s.body.Box.Center()
	v := mgl64.Vec2{float64(s.dir) * s.cfg.FireballSpeed, 0}
	s.pool.Fire(cx+float64(s.dir)*0.8, cy, v, s.cfg.FireballLife)
	s.state = SlimeSpit
	s.timer = spitSeconds
	s.cooldown = s.cfg.SpitCooldown
}

func (s *Slime) atLedge(level *Level) bool {
	if !s.body.OnGround {
		return false
	}
	var probeX float64
	if s.dir > 0 {
		probeX = s.body.Box.Right() + 0.05
	} else {
		probeX = s.body.Box.X - 0.05
	}
	below := int(math.Floor(s.body.Box.Bottom() + 0.5))
	return !level.Solid(int(math.Floor(probeX)), below)
}

func (s *Slime) animate() {
	switch s.state {
	case SlimeWindup:
		s.sprite.Switch(AnimWindup)
	case SlimeSpit:
		s.sprite.Switch(AnimSpit)
	default:
		s.sprite.Switch(AnimCrawl)
	}
}

func sign(v float64, fallback int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return fallback
	}
}
