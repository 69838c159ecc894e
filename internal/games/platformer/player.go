package platformer

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/timeslip/internal/config"
	"github.com/vovakirdan/timeslip/internal/core"
	"github.com/vovakirdan/timeslip/internal/rewind"
)

// Player extras.
const (
	keyFlip   = "flip"
	keyInvuln = "invuln"
	keyAttack = "attack"
	keyScore  = "score"
)

var playerPolicy = rewind.BlendPolicy{
	keyInvuln: rewind.BlendFloat,
	keyAttack: rewind.BlendFloat,
}

// Intent is the player input for one fixed step.
type Intent struct {
	Move   int // -1, 0 or +1
	Jump   bool
	Attack bool
}

// Player is the controllable character. Health is recorded as snapshot
// vitality, so a rewind undoes damage.
type Player struct {
	body   *Body
	sprite *Sprite
	bodies *rewind.BodyTrack
	anims  *rewind.AnimTrack
	cfg    config.PlayerConfig

	facing int
	health int
	invuln float64
	attack float64
	score  int
}

// NewPlayer spawns a player standing in tile (x, y).
func NewPlayer(x, y int, cfg config.PlayerConfig) *Player {
	body := NewBody(float64(x)+0.1, float64(y)+0.1, 0.8, 0.9)
	sprite := NewSprite(playerClips, AnimIdle)
	return &Player{
		body:   body,
		sprite: sprite,
		bodies: rewind.NewBodyTrack(body),
		anims:  rewind.NewAnimTrack(sprite),
		cfg:    cfg,
		facing: 1,
		health: cfg.Health,
	}
}

func (p *Player) BeginRewind() {
	p.bodies.Begin()
	p.anims.Begin()
}

func (p *Player) EndRewind() {
	p.bodies.End()
	p.anims.End()
}

func (p *Player) CaptureState() rewind.Snapshot {
	s := rewind.Snapshot{Vitality: p.health}
	p.bodies.Capture(&s)
	p.anims.Capture(&s)
	s.SetBool(keyFlip, p.facing < 0)
	s.SetFloat(keyInvuln, p.invuln)
	s.SetFloat(keyAttack, p.attack)
	s.SetInt(keyScore, p.score)
	return s
}

func (p *Player) ApplyState(s rewind.Snapshot) {
	p.bodies.Apply(s)
	p.anims.Apply(s)
	p.health = s.Vitality
	p.facing = 1
	if s.Extras.Bool(keyFlip, false) {
		p.facing = -1
	}
	p.invuln = s.Extras.Float(keyInvuln, 0)
	p.attack = s.Extras.Float(keyAttack, 0)
	p.score = s.Extras.Int(keyScore, p.score)
}

// BlendPolicy implements rewind.PolicyProvider.
func (p *Player) BlendPolicy() rewind.BlendPolicy {
	return playerPolicy
}

// Update runs one live fixed step.
func (p *Player) Update(in Intent, level *Level, phys config.PhysicsConfig, dt float64) {
	if p.health <= 0 {
		p.body.Vel[0] = 0
		p.body.Step(level, phys.Gravity, phys.MaxFallSpeed, dt)
		p.sprite.Switch(AnimDead)
		return
	}

	target := float64(in.Move) * p.cfg.MoveSpeed
	p.body.Vel[0] = core.Approach(p.body.Vel[0], target, p.cfg.Acceleration*dt)
	if in.Move != 0 {
		p.facing = in.Move
	}
	if in.Jump && p.body.OnGround {
		p.body.Vel[1] = -p.cfg.JumpSpeed
	}
	if in.Attack && p.attack <= 0 {
		p.attack = p.cfg.AttackSeconds
	}

	p.body.Step(level, phys.Gravity, phys.MaxFallSpeed, dt)

	p.invuln = max(p.invuln-dt, 0)
	p.attack = max(p.attack-dt, 0)

	p.animate()
	p.sprite.Advance(dt)
}

func (p *Player) animate() {
	switch {
	case p.attack > 0:
		p.sprite.Switch(AnimAttack)
	case p.invuln > p.cfg.InvulnSeconds/2:
		p.sprite.Switch(AnimHurt)
	case !p.body.OnGround && p.body.Vel[1] < 0:
		p.sprite.Switch(AnimJump)
	case !p.body.OnGround:
		p.sprite.Switch(AnimFall)
	case p.body.Vel[0] != 0:
		p.sprite.Switch(AnimRun)
	default:
		p.sprite.Switch(AnimIdle)
	}
}

// Hurt applies damage from a source at fromX unless the player is
// invulnerable. It reports whether damage was taken.
func (p *Player) Hurt(damage int, fromX float64) bool {
	if p.invuln > 0 || p.health <= 0 {
		return false
	}
	p.health = max(p.health-damage, 0)
	p.invuln = p.cfg.InvulnSeconds

	cx, _ := p.body.Box.Center()
	push := 1.0
	if fromX > cx {
		push = -1
	}
	p.body.Vel = mgl64.Vec2{push * p.cfg.MoveSpeed, -p.cfg.JumpSpeed / 2}
	return true
}

// Kill drops health to zero regardless of invulnerability.
func (p *Player) Kill() {
	p.health = 0
}

// AttackBox returns the area hit by the current attack, if one is active.
func (p *Player) AttackBox() (core.Box, bool) {
	if p.attack <= 0 {
		return core.Box{}, false
	}
	b := p.body.Box
	reach := p.cfg.AttackReach
	if p.facing > 0 {
		return core.Box{X: b.Right(), Y: b.Y, W: reach, H: b.H}, true
	}
	return core.Box{X: b.X - reach, Y: b.Y, W: reach, H: b.H}, true
}

// AddScore adds points to the player's recorded score.
func (p *Player) AddScore(points int) {
	p.score += points
}

// Score returns the current score.
func (p *Player) Score() int {
	return p.score
}

// Health returns the current health.
func (p *Player) Health() int {
	return p.health
}

// Body returns the player's physics body.
func (p *Player) Body() *Body {
	return p.body
}

// Facing returns +1 when facing right and -1 when facing left.
func (p *Player) Facing() int {
	return p.facing
}

// Glyph returns the glyph to draw for the player.
func (p *Player) Glyph() rune {
	return p.sprite.Glyph()
}
