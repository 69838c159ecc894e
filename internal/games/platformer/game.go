package platformer

import (
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/timeslip/internal/config"
	"github.com/vovakirdan/timeslip/internal/core"
	"github.com/vovakirdan/timeslip/internal/registry"
	"github.com/vovakirdan/timeslip/internal/rewind"
)

// Game states
const (
	StatePlaying  = "playing"
	StateDown     = "down" // Out of health; a rewind can still save the run
	StateGameOver = "gameover"
	StateWin      = "win"
	StatePaused   = "paused"
)

const (
	fireballPoolSize = 8
	downSeconds      = 3.0
	minScreenW       = 40
	minScreenH       = 12
)

// configPath stores the custom config path set via CLI
var configPath string

// difficultyPreset stores the difficulty preset set via CLI
var difficultyPreset config.DifficultyPreset

// logger receives coordinator debug output; nil discards it.
var logger *log.Logger

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset. Unknown names clear it.
func SetDifficultyPreset(preset string) {
	p, err := config.ParsePreset(preset)
	if err != nil || preset == "" {
		difficultyPreset = ""
		return
	}
	difficultyPreset = p
}

// SetLogger sets the logger handed to every new coordinator.
func SetLogger(l *log.Logger) {
	logger = l
}

// Game is one level of timeslip.
type Game struct {
	levelID string

	runtime    core.RuntimeConfig
	cfg        config.TimeslipConfig
	difficulty *config.DifficultyManager
	level      *Level

	// Created on the first Reset and kept for the life of the Game so
	// subscribers survive restarts.
	clock   *rewind.SimClock
	coord   *rewind.Coordinator
	control *RewindControl
	effects *RewindEffects

	participants []rewind.Participant
	player       *Player
	mana         *Mana
	slimes       []*Slime
	pool         *FireballPool
	platforms    []*MovingPlatform
	orbs         []*Orb

	state        string
	step         float64 // Fixed step length in seconds
	acc          float64
	steps        int
	liveTime     float64
	downTimer    float64
	jumpQueued   bool
	attackQueued bool

	screenTooSmall bool
	err            error
}

// New creates a game for a built-in level.
func New(levelID string) *Game {
	return &Game{levelID: levelID}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return g.levelID
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	if name, ok := levelNames[g.levelID]; ok {
		return name
	}
	return g.levelID
}

// Coordinator implements registry.Rewinder. It is nil before the first
// Reset.
func (g *Game) Coordinator() *rewind.Coordinator {
	return g.coord
}

// Reset initializes or restarts the game.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime
	g.err = nil

	cfg, err := config.Load(configPath)
	if err != nil {
		if logger != nil {
			logger.Warn("using default config", "err", err)
		}
		cfg = config.DefaultTimeslipConfig()
	}
	if difficultyPreset != "" {
		config.ApplyPreset(&cfg, difficultyPreset)
	}
	g.cfg = cfg
	g.difficulty = config.NewDifficultyManager(cfg.Difficulty)
	g.step = 1 / cfg.Physics.StepRate

	g.screenTooSmall = runtime.ScreenW < minScreenW || runtime.ScreenH < minScreenH

	level, err := LoadLevel(g.levelID)
	if err != nil {
		g.err = err
		return
	}
	g.level = level

	if err := g.ensureCoordinator(); err != nil {
		g.err = err
		return
	}

	g.mana = NewMana(cfg.Player.MaxMana, cfg.Player.ManaDrain, cfg.Player.ManaRegen)
	g.control.Reset(g.mana, cfg.Rewind.Input)
	g.despawn()
	g.clock.Set(0)
	g.spawn()

	g.state = StatePlaying
	g.acc = 0
	g.steps = 0
	g.liveTime = 0
	g.downTimer = 0
	g.jumpQueued, g.attackQueued = false, false
}

func (g *Game) ensureCoordinator() error {
	if g.coord != nil {
		return nil
	}
	g.clock = rewind.NewSimClock(0)

	var opts []rewind.Option
	if logger != nil {
		opts = append(opts, rewind.WithLogger(logger.WithPrefix("rewind")))
	}
	coord, err := rewind.NewCoordinator(rewind.Config{
		HistorySeconds:   g.cfg.Rewind.HistorySeconds,
		SamplesPerSecond: g.cfg.Rewind.SamplesPerSecond,
		SpeedMultiplier:  g.cfg.Rewind.SpeedMultiplier,
	}, g.clock, opts...)
	if err != nil {
		return err
	}

	g.coord = coord
	g.effects = NewRewindEffects(coord)
	g.control = NewRewindControl(coord, g.clock, nil, g.cfg.Rewind.Input)
	return nil
}

// spawn creates every dynamic object and registers it for recording.
func (g *Game) spawn() {
	g.player = NewPlayer(g.level.PlayerX, g.level.PlayerY, g.cfg.Player)
	g.pool = NewFireballPool(fireballPoolSize)
	g.slimes = g.slimes[:0]
	g.platforms = g.platforms[:0]
	g.orbs = g.orbs[:0]

	g.register(g.player)
	for _, f := range g.pool.All() {
		g.register(f)
	}

	for _, sp := range g.level.Spawns {
		switch sp.Kind {
		case 'S':
			s := NewSlime(sp.X, sp.Y, g.cfg.Slime, g.pool)
			g.slimes = append(g.slimes, s)
			g.register(s)
		case 'o':
			o := NewOrb(sp.X, sp.Y)
			g.orbs = append(g.orbs, o)
			g.register(o)
		case '-':
			m := NewMovingPlatform(sp.X, sp.Y)
			g.platforms = append(g.platforms, m)
			g.register(m)
		}
	}
}

func (g *Game) register(p rewind.Participant) {
	g.coord.Register(p)
	g.participants = append(g.participants, p)
}

// despawn unregisters everything from the previous run.
func (g *Game) despawn() {
	for _, p := range g.participants {
		g.coord.Unregister(p)
	}
	g.participants = g.participants[:0]
	g.coord.ClearHistory()
}

// Step advances the game by one platform frame.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.err != nil || g.screenTooSmall {
		return core.StepResult{State: g.State()}
	}

	// Handle restart
	if in.Has(core.ActionRestart) && g.over() {
		g.Reset(g.runtime)
		return core.StepResult{State: g.State()}
	}

	// Handle pause toggle
	if in.Has(core.ActionPause) && !g.coord.IsRewinding() {
		switch g.state {
		case StatePaused:
			g.state = StatePlaying
		case StatePlaying:
			g.state = StatePaused
		}
	}

	if g.state == StatePaused || g.over() {
		return core.StepResult{State: g.State()}
	}

	frame := g.runtime.FrameSeconds()
	if in.Has(core.ActionJump) {
		g.jumpQueued = true
	}
	if in.Has(core.ActionAttack) {
		g.attackQueued = true
	}

	g.effects.Tick()
	if g.control.Frame(in.Has(core.ActionRewind), frame) {
		if g.state == StateDown {
			g.state = StatePlaying
		}
		g.acc = 0
		g.jumpQueued, g.attackQueued = false, false
		return core.StepResult{State: g.State()}
	}

	switch g.state {
	case StateDown:
		g.downTimer -= frame
		if g.downTimer <= 0 || !g.mana.CanStart() || !g.coord.CanRewind() {
			g.state = StateGameOver
		}
	case StatePlaying:
		g.acc += frame
		for g.acc >= g.step && g.state == StatePlaying {
			g.acc -= g.step
			g.fixedStep(in)
		}
	}

	return core.StepResult{State: g.State()}
}

// fixedStep runs one live simulation step and records it.
func (g *Game) fixedStep(in core.InputFrame) {
	dt := g.step
	score := g.player.Score()

	intent := Intent{Jump: g.jumpQueued, Attack: g.attackQueued}
	if in.Has(core.ActionLeft) {
		intent.Move--
	}
	if in.Has(core.ActionRight) {
		intent.Move++
	}
	g.jumpQueued, g.attackQueued = false, false

	for _, m := range g.platforms {
		m.Update(g.level, dt)
	}

	prevBottom := g.player.body.Box.Bottom()
	g.player.Update(intent, g.level, g.cfg.Physics, dt)
	for _, m := range g.platforms {
		m.Carry(g.player.body, prevBottom)
	}

	speed := g.difficulty.EnemySpeed(1, score, g.steps)
	detect := g.difficulty.DetectRange(g.cfg.Slime.DetectRange, score, g.steps)
	for _, s := range g.slimes {
		s.Update(g.player, g.level, g.cfg.Physics, speed, detect, dt)
	}
	g.pool.Update(g.level, dt)
	for _, o := range g.orbs {
		if o.Alive() {
			o.Update(dt)
		}
	}

	g.interact()

	g.mana.SetDrain(g.difficulty.ManaDrain(g.cfg.Player.ManaDrain, score, g.steps))
	g.mana.Regen(dt)

	g.clock.Advance(dt)
	g.coord.FixedUpdate(dt)
	g.steps++
	g.liveTime += dt

	switch {
	case g.state == StateWin:
	case g.player.Health() <= 0:
		g.state = StateDown
		g.downTimer = downSeconds
	}
}

// interact resolves contacts between the player and everything else.
func (g *Game) interact() {
	pb := g.player.body

	if box, ok := g.player.AttackBox(); ok {
		for _, s := range g.slimes {
			if !s.Dead() && box.Intersects(s.body.Box) && s.Kill() {
				g.player.AddScore(g.cfg.Slime.Points)
			}
		}
	}

	for _, s := range g.slimes {
		if !s.Dead() && pb.Box.Intersects(s.body.Box) {
			cx, _ := s.body.Box.Center()
			g.player.Hurt(g.cfg.Slime.Damage, cx)
		}
	}

	for _, f := range g.pool.All() {
		if f.Active() && pb.Box.Intersects(f.body.Box) {
			f.active = false
			cx, _ := f.body.Box.Center()
			g.player.Hurt(g.cfg.Slime.Damage, cx)
		}
	}

	for _, o := range g.orbs {
		if o.Alive() && pb.Box.Intersects(o.Box()) && o.Collect() {
			g.mana.Add(g.cfg.Player.OrbMana)
			g.player.AddScore(g.cfg.Player.OrbPoints)
		}
	}

	px, _ := pb.Box.Center()
	if pb.Overlaps(g.level, func(t Tile) bool { return t == TileSpikes }) {
		g.player.Hurt(1, px)
	}
	if pb.Box.Y > float64(g.level.Height+2) {
		g.player.Kill()
	}
	if g.player.Health() > 0 && pb.Overlaps(g.level, func(t Tile) bool { return t == TileExit }) {
		g.state = StateWin
	}
}

func (g *Game) over() bool {
	return g.state == StateGameOver || g.state == StateWin
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	st := core.GameState{
		GameOver: g.over(),
		Won:      g.state == StateWin,
		Paused:   g.state == StatePaused,
	}
	if g.player != nil {
		st.Score = g.player.Score()
	}
	if g.mana != nil {
		st.Mana, st.MaxMana = g.mana.Value(), g.mana.Max()
	}
	if g.coord != nil {
		st.Rewinding = g.coord.IsRewinding()
		st.RewindProgress = g.coord.RewindProgress()
		st.RewindRemaining = g.coord.RemainingRewindTime()
		st.Rewinds = g.control.Rewinds()
		st.SecondsRewound = g.control.SecondsRewound()
	}
	st.PlaySeconds = g.liveTime
	return st
}

// Register the levels with the registry
func init() {
	registry.Register("timeslip", func() registry.Game {
		return New("timeslip")
	})
	registry.Register("playground", func() registry.Game {
		return New("playground")
	})
}
