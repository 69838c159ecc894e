package platformer

// Mana pays for rewinds. It drains per second of rewind and regenerates
// during live play. Mana is not recorded, so rewinding never refunds it.
type Mana struct {
	value float64
	max   float64
	drain float64
	regen float64
}

// NewMana creates a full mana pool.
func NewMana(maxMana, drain, regen float64) *Mana {
	return &Mana{value: maxMana, max: maxMana, drain: drain, regen: regen}
}

// Value returns the current mana.
func (m *Mana) Value() float64 { return m.value }

// Max returns the pool size.
func (m *Mana) Max() float64 { return m.max }

// SetDrain changes the per-second rewind cost.
func (m *Mana) SetDrain(drain float64) { m.drain = drain }

// CanStart reports whether a rewind may begin.
func (m *Mana) CanStart() bool {
	return m.value > 0
}

// Drain charges dt seconds of rewind and reports whether mana remains.
func (m *Mana) Drain(dt float64) bool {
	m.value = max(m.value-m.drain*dt, 0)
	return m.value > 0
}

// Regen restores dt seconds worth of mana.
func (m *Mana) Regen(dt float64) {
	m.Add(m.regen * dt)
}

// Add restores mana up to the pool size.
func (m *Mana) Add(v float64) {
	m.value = min(m.value+v, m.max)
}
