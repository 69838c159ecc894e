package core

// RuntimeConfig is handed to a game on every Reset.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Frames per second driven by the platform (default 60)
	Seed     int64 // RNG seed; 0 lets the platform pick one
}

// DefaultConfig returns a RuntimeConfig for a standard 80x24 terminal.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
	}
}

// FrameSeconds returns the wall-clock length of one platform frame.
func (c RuntimeConfig) FrameSeconds() float64 {
	if c.TickRate <= 0 {
		return 1.0 / 60
	}
	return 1 / float64(c.TickRate)
}

// GameState is what a game reports to the platform after each frame.
type GameState struct {
	Score    int
	GameOver bool
	Won      bool // Level finished rather than lost
	Paused   bool

	// Rewind status for the HUD.
	Rewinding       bool
	RewindProgress  float64 // 0 live, 1 at the oldest recorded moment
	RewindRemaining float64 // Seconds of history left behind the playhead
	Mana            float64
	MaxMana         float64

	// Per-run statistics.
	Rewinds        int
	SecondsRewound float64
	PlaySeconds    float64 // Live play time, excluding pauses and rewinds
}

// StepResult is returned by Game.Step() after each frame.
type StepResult struct {
	State GameState
}
