package aw20216s

// numPatterns is the number of breathing pattern generators.
const numPatterns = 3

// Pattern selects what drives a channel: plain PWM or one of the three
// breathing pattern generators. The value is the 2-bit code stored in the
// pattern selection page.
type Pattern byte

const (
	PWM      Pattern = iota // Host controlled PWM
	Pattern0                // Breathing generator 0
	Pattern1                // Breathing generator 1
	Pattern2                // Breathing generator 2
)

func (p Pattern) String() string {
	switch p {
	case PWM:
		return "PWM"
	case Pattern0:
		return "Pattern0"
	case Pattern1:
		return "Pattern1"
	case Pattern2:
		return "Pattern2"
	default:
		return "Pattern(?)"
	}
}

// slot returns the generator index of p, or false for PWM.
func (p Pattern) slot() (int, bool) {
	if p < Pattern0 || p > Pattern2 {
		return 0, false
	}
	return int(p - Pattern0), true
}

// Channel is one color of an RGB pixel.
type Channel byte

const (
	Red Channel = iota
	Green
	Blue
)

// PatternState is the host view of a breathing generator.
type PatternState int

const (
	Idle       PatternState = iota // Generator disabled
	Configured                     // Enabled, waiting for StartBreathing
	Running                        // Started
)

func (s PatternState) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Configured:
		return "Configured"
	case Running:
		return "Running"
	default:
		return "PatternState(?)"
	}
}

// patternSlot mirrors one PATxCFG register.
type patternSlot struct {
	cfg    byte
	loaded bool // cfg holds the device value
	state  PatternState
}

// patternConfig returns the configuration mirror of slot, reading it from
// the device the first time.
func (d *Dev) patternConfig(slot int) (byte, error) {
	s := &d.patterns[slot]
	if !s.loaded {
		v, err := d.readRegister(PageFunction, regPAT0CF+byte(slot))
		if err != nil {
			return 0, err
		}
		s.cfg = v
		s.loaded = true
	}
	return s.cfg, nil
}

// setPatternConfig changes the bits in mask to value in the configuration
// register of slot, preserving every other bit.
func (d *Dev) setPatternConfig(slot int, mask, value byte) error {
	cfg, err := d.patternConfig(slot)
	if err != nil {
		return err
	}
	cfg = cfg&^mask | value&mask
	if err := d.writeRegister(PageFunction, regPAT0CF+byte(slot), cfg); err != nil {
		d.patterns[slot].loaded = false
		return err
	}
	d.patterns[slot].cfg = cfg
	return nil
}

// ConfigureBreathing programs the four timers of pattern p and enables it in
// autonomous mode with a linear or logarithmic curve.
//
// Bits of the configuration register other than enable, mode and curve are
// preserved. It does nothing for PWM.
func (d *Dev) ConfigureBreathing(p Pattern, t0, t1, t2, t3 byte, logarithmic bool) error {
	slot, ok := p.slot()
	if !ok {
		return nil
	}
	if d.halted {
		return ErrHalted
	}

	base := regPAT0T0 + byte(slot*timersPerPattern)
	for i, t := range [timersPerPattern]byte{t0, t1, t2, t3} {
		if err := d.writeRegister(PageFunction, base+byte(i), t); err != nil {
			return err
		}
	}

	cfg := byte(patEnable | patAuto)
	if logarithmic {
		cfg |= patLog
	}
	if err := d.setPatternConfig(slot, patControlled, cfg); err != nil {
		return err
	}
	d.patterns[slot].state = Configured
	return nil
}

// SetBreathingBrightness sets the brightness range pattern p oscillates in,
// from low to high.
// It takes effect on the next breathing cycle and does nothing for PWM.
func (d *Dev) SetBreathingBrightness(p Pattern, low, high byte) error {
	slot, ok := p.slot()
	if !ok {
		return nil
	}
	if d.halted {
		return ErrHalted
	}
	if err := d.writeRegister(PageFunction, regPWMH0+byte(slot), high); err != nil {
		return err
	}
	return d.writeRegister(PageFunction, regPWML0+byte(slot), low)
}

// EnableBreathing turns pattern p on or off.
//
// Only the enable bit changes; the curve and mode set by ConfigureBreathing
// are kept. It does nothing for PWM.
func (d *Dev) EnableBreathing(p Pattern, on bool) error {
	slot, ok := p.slot()
	if !ok {
		return nil
	}
	if d.halted {
		return ErrHalted
	}

	var v byte
	state := Idle
	if on {
		v = patEnable
		state = Configured
	}
	if err := d.setPatternConfig(slot, patEnable, v); err != nil {
		return err
	}
	d.patterns[slot].state = state
	return nil
}

// StartBreathing starts pattern p. It does nothing for PWM.
//
// The start register is written without reading it back: the device clears
// start bits once consumed, so other patterns are unaffected.
func (d *Dev) StartBreathing(p Pattern) error {
	slot, ok := p.slot()
	if !ok {
		return nil
	}
	if d.halted {
		return ErrHalted
	}
	if err := d.writeRegister(PageFunction, regPATGO, 1<<slot); err != nil {
		return err
	}
	if d.patterns[slot].state == Configured {
		d.patterns[slot].state = Running
	}
	return nil
}

// BreathingState returns the state of pattern p as last set through this
// handle. PWM is always Idle.
func (d *Dev) BreathingState(p Pattern) PatternState {
	slot, ok := p.slot()
	if !ok {
		return Idle
	}
	return d.patterns[slot].state
}

// SetChannelPattern binds channel ch of the pixel at (x, y) to pattern p.
//
// Three channels share one selection register, two bits each; the other two
// fields are preserved. Coordinates outside the configured geometry and
// unknown patterns are ignored.
func (d *Dev) SetChannelPattern(x, y int, ch Channel, p Pattern) error {
	if !d.in(x, y) || ch > Blue || p > Pattern2 {
		return nil
	}
	if d.halted {
		return ErrHalted
	}

	led := d.fb.PixOffset(x, y) + int(ch)
	reg := byte(led / 3)
	shift := uint(led%3) * 2

	v, err := d.readRegister(PagePattern, reg)
	if err != nil {
		return err
	}
	v &^= 0x03 << shift
	v |= byte(p) << shift
	return d.writeRegister(PagePattern, reg, v)
}

// SetPixelPattern binds the red, green and blue channels of the pixel at
// (x, y) to the given patterns.
func (d *Dev) SetPixelPattern(x, y int, r, g, b Pattern) error {
	for ch, p := range [3]Pattern{r, g, b} {
		if err := d.SetChannelPattern(x, y, Channel(ch), p); err != nil {
			return err
		}
	}
	return nil
}
