package platformer

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/timeslip/internal/config"
	"github.com/vovakirdan/timeslip/internal/rewind"
)

func arenaLevel(t *testing.T) *Level {
	t.Helper()
	level, err := ParseLevel("arena", "Arena", []string{
		"#..................#",
		"#..................#",
		"#P...........S.....#",
		"####################",
	})
	if err != nil {
		t.Fatalf("ParseLevel() error: %v", err)
	}
	return level
}

func recordStep(clock *rewind.SimClock, coord *rewind.Coordinator) {
	clock.Advance(testDt)
	coord.FixedUpdate(testDt)
}

func TestSlimeStateMachine(t *testing.T) {
	level := arenaLevel(t)
	cfg := config.DefaultTimeslipConfig()
	pool := NewFireballPool(2)
	player := NewPlayer(level.PlayerX, level.PlayerY, cfg.Player)
	slime := NewSlime(13, 2, cfg.Slime, pool)

	update := func() {
		slime.Update(player, level, cfg.Physics, 1, cfg.Slime.DetectRange, testDt)
	}

	update()
	if slime.State() != SlimePatrol {
		t.Fatalf("far player: state = %v, expected patrol", slime.State())
	}

	player.body.Box.X = slime.body.Box.X - 3
	update()
	if slime.State() != SlimeChase {
		t.Fatalf("near player: state = %v, expected chase", slime.State())
	}

	update()
	if slime.State() != SlimeWindup {
		t.Fatalf("chase with no cooldown: state = %v, expected windup", slime.State())
	}

	update()
	if slime.body.Vel[0] != 0 {
		t.Errorf("slime moving during windup: %v", slime.body.Vel[0])
	}

	for range 40 {
		if slime.State() == SlimeSpit {
			break
		}
		update()
	}
	if slime.State() != SlimeSpit {
		t.Fatalf("state = %v after windup, expected spit", slime.State())
	}
	if pool.ActiveCount() != 1 {
		t.Errorf("ActiveCount() = %d, expected 1 fireball", pool.ActiveCount())
	}
	fb := pool.All()[0]
	if fb.body.Vel[0] >= 0 {
		t.Errorf("fireball velocity = %v, expected toward the player (negative x)", fb.body.Vel)
	}

	for range 30 {
		update()
	}
	if slime.State() != SlimeChase {
		t.Errorf("state = %v after spit, expected chase", slime.State())
	}
}

func TestSlimePatrolTurnsAtWall(t *testing.T) {
	level := arenaLevel(t)
	cfg := config.DefaultTimeslipConfig()
	player := NewPlayer(level.PlayerX, level.PlayerY, cfg.Player)
	slime := NewSlime(2, 2, cfg.Slime, NewFireballPool(1))
	player.body.Box.X = 17 // Out of sight behind the slime's back

	for range 100 {
		slime.Update(player, level, cfg.Physics, 1, 0, testDt)
	}
	if slime.dir != 1 {
		t.Errorf("dir = %d after reaching the left wall, expected 1", slime.dir)
	}
	if slime.body.Box.X < 1 {
		t.Errorf("slime entered the wall: x = %v", slime.body.Box.X)
	}
}

func TestSlimeRevivesOnRewind(t *testing.T) {
	cfg := config.DefaultTimeslipConfig()
	slime := NewSlime(5, 2, cfg.Slime, NewFireballPool(1))

	clock := rewind.NewSimClock(0)
	coord, err := rewind.NewCoordinator(rewind.DefaultConfig(), clock)
	if err != nil {
		t.Fatalf("NewCoordinator() error: %v", err)
	}
	coord.Register(slime)

	for range 10 {
		recordStep(clock, coord)
	}
	if !slime.Kill() {
		t.Fatal("Kill() on a live slime returned false")
	}
	if slime.Kill() {
		t.Error("second Kill() returned true")
	}
	for range 10 {
		recordStep(clock, coord)
	}

	coord.StartRewind()
	coord.Update(0.3)
	coord.StopRewind()

	if slime.Dead() {
		t.Error("slime still dead after rewinding past its death")
	}
}

func TestFireballPool(t *testing.T) {
	pool := NewFireballPool(2)
	if !pool.Fire(0, 0, mgl64.Vec2{1, 0}, 1) || !pool.Fire(0, 0, mgl64.Vec2{1, 0}, 1) {
		t.Fatal("Fire() failed with idle fireballs")
	}
	if pool.Fire(0, 0, mgl64.Vec2{1, 0}, 1) {
		t.Error("Fire() succeeded with every fireball in flight")
	}
	if pool.ActiveCount() != 2 {
		t.Errorf("ActiveCount() = %d, expected 2", pool.ActiveCount())
	}
}

func TestFireballExpires(t *testing.T) {
	level := boxLevel(t)

	tests := []struct {
		name string
		v    mgl64.Vec2
		life float64
	}{
		{name: "lifetime", v: mgl64.Vec2{0, 0}, life: 0.1},
		{name: "wall", v: mgl64.Vec2{10, 0}, life: 5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pool := NewFireballPool(1)
			pool.Fire(3.5, 1.5, tc.v, tc.life)
			for range 20 {
				pool.Update(level, testDt)
			}
			if pool.ActiveCount() != 0 {
				t.Errorf("fireball still active")
			}
		})
	}
}

func TestFireballReturnsOnRewind(t *testing.T) {
	level := boxLevel(t)
	pool := NewFireballPool(1)
	fb := pool.All()[0]

	clock := rewind.NewSimClock(0)
	coord, err := rewind.NewCoordinator(rewind.DefaultConfig(), clock)
	if err != nil {
		t.Fatalf("NewCoordinator() error: %v", err)
	}
	coord.Register(fb)

	pool.Fire(3.5, 1.5, mgl64.Vec2{0, 0}, 0.1)
	for range 20 {
		pool.Update(level, testDt)
		recordStep(clock, coord)
	}
	if fb.Active() {
		t.Fatal("fireball should have expired")
	}

	coord.StartRewind()
	coord.Update(10) // Back to the oldest snapshot
	if !fb.Active() {
		t.Error("expired fireball not restored by rewind")
	}
	coord.StopRewind()
}

func TestOrbDroppedOnceCollected(t *testing.T) {
	orb := NewOrb(1, 1)
	clock := rewind.NewSimClock(0)
	coord, err := rewind.NewCoordinator(rewind.DefaultConfig(), clock)
	if err != nil {
		t.Fatalf("NewCoordinator() error: %v", err)
	}
	coord.Register(orb)
	recordStep(clock, coord)

	if !orb.Collect() {
		t.Fatal("Collect() on a fresh orb returned false")
	}
	if orb.Collect() {
		t.Error("second Collect() returned true")
	}
	recordStep(clock, coord)

	if coord.Registered(orb) {
		t.Error("collected orb still registered")
	}
}

func TestMovingPlatformCarries(t *testing.T) {
	level := boxLevel(t)
	m := NewMovingPlatform(1, 2)
	rider := NewBody(1.5, 1.0, 0.8, 0.9) // Bottom at 1.9, just above the platform top

	for range 5 {
		prevBottom := rider.Box.Bottom()
		m.Update(level, testDt)
		rider.Step(level, 60, 24, testDt)
		m.Carry(rider, prevBottom)
	}

	if !rider.OnGround {
		t.Fatal("rider did not land on the platform")
	}
	if !near(rider.Box.Bottom(), m.Box().Y) {
		t.Errorf("rider bottom = %v, expected platform top %v", rider.Box.Bottom(), m.Box().Y)
	}
	if rider.Box.X <= 1.5 {
		t.Errorf("rider x = %v, expected to be carried right", rider.Box.X)
	}
}

func TestMovingPlatformReverses(t *testing.T) {
	level := boxLevel(t)
	m := NewMovingPlatform(1, 1)

	for range 100 {
		m.Update(level, testDt)
	}
	if m.Box().Right() > 6+1e-9 || m.Box().X < 1-1e-9 {
		t.Errorf("platform left the room: %+v", m.Box())
	}
}
