package cmu

// Driver configuration. Frequencies are in Hz, integer-only.
type Config struct {
	XtalHz       uint32 // board crystal or external clock frequency
	HRCHighRange bool   // ICG HRCFREQS[3]; selects the 48 MHz HRC family
}

// DefaultConfig matches the evaluation board: 8 MHz crystal, 32 MHz HRC family.
func DefaultConfig() Config {
	return Config{XtalHz: 8_000_000}
}

// Validate checks the fields frequency queries depend on.
func (c Config) Validate() error {
	if c.XtalHz == 0 {
		return ErrInvalidXtalHz
	}
	return nil
}

// Device is the clock management unit behind a register block.
// It is not safe for concurrent use.
type Device struct {
	regs Registers

	xtalHz  uint32
	hrcHigh bool
}

// New constructs a Device over regs. A zero XtalHz falls back to the default.
func New(regs Registers, cfg Config) *Device {
	xtal := cfg.XtalHz
	if xtal == 0 {
		xtal = DefaultConfig().XtalHz
	}
	return &Device{
		regs:    regs,
		xtalHz:  xtal,
		hrcHigh: cfg.HRCHighRange,
	}
}

// Config returns the board description the Device was built with.
func (d *Device) Config() Config {
	return Config{XtalHz: d.xtalHz, HRCHighRange: d.hrcHigh}
}
