package cmu

// XtalConfig is the crystal oscillator setup applied by ConfigureXtal.
type XtalConfig struct {
	State      OscState
	Drive      XtalDrive
	Mode       XtalMode
	SuperDrive bool
	Stb        XtalStb
}

// DefaultXtalConfig returns the power-on-reset crystal setup.
func DefaultXtalConfig() XtalConfig {
	return XtalConfig{
		State:      OscOff,
		Drive:      DriveHigh,
		Mode:       ModeResonator,
		SuperDrive: true,
		Stb:        Stb32768,
	}
}

// Validate rejects unknown codes and super drive below high drive.
func (c XtalConfig) Validate() error {
	switch {
	case !c.State.valid():
		return ErrInvalidState
	case !c.Drive.valid():
		return ErrInvalidDrive
	case !c.Mode.valid():
		return ErrInvalidMode
	case !c.Stb.valid():
		return ErrInvalidStb
	case c.SuperDrive && c.Drive != DriveHigh:
		return ErrSuperDriveNotHigh
	}
	return nil
}

// HRCConfig is the internal high-speed RC setup.
type HRCConfig struct {
	State OscState
	Freq  HRCFreq
}

func DefaultHRCConfig() HRCConfig {
	return HRCConfig{State: OscOff, Freq: HRCDiv1}
}

func (c HRCConfig) Validate() error {
	if !c.State.valid() {
		return ErrInvalidState
	}
	if !c.Freq.valid() {
		return ErrInvalidHRCFreq
	}
	return nil
}

// LRCConfig is the internal low-speed RC setup.
type LRCConfig struct {
	State OscState
}

func DefaultLRCConfig() LRCConfig {
	return LRCConfig{State: OscOn}
}

func (c LRCConfig) Validate() error {
	if !c.State.valid() {
		return ErrInvalidState
	}
	return nil
}

// stopBit returns the STP field for s: the hardware bit means "stopped".
func stopBit(s OscState, bit uint32) uint32 {
	if s == OscOff {
		return bit
	}
	return 0
}

// inUse reports whether stopping src would pull the system clock away.
func (d *Device) inUse(s OscState, src Source) bool {
	return s == OscOff && d.Source() == src
}

// ConfigureXtal writes drive, mode, super drive, stabilisation wait and run
// state. Nothing is written when cfg is invalid. It does not wait for the
// crystal to stabilise; see WaitStable.
func (d *Device) ConfigureXtal(cfg XtalConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if d.inUse(cfg.State, SourceXtal) {
		return ErrOscInUse
	}
	defer d.unlocked(GroupClock)()

	v := uint32(cfg.Drive) << CMU_XTALCFGR_XTALDRV_Pos
	if cfg.Mode == ModeExtClock {
		v |= CMU_XTALCFGR_XTALMS
	}
	if cfg.SuperDrive {
		v |= CMU_XTALCFGR_SUPDRV
	}
	d.replace(RegXTALCFGR, v, CMU_XTALCFGR_XTALDRV_Msk|CMU_XTALCFGR_XTALMS|CMU_XTALCFGR_SUPDRV)
	d.replace(RegXTALSTBCR, uint32(cfg.Stb), CMU_XTALSTBCR_XTALSTB_Msk)
	d.replace(RegXTALCR, stopBit(cfg.State, CMU_XTALCR_XTALSTP), CMU_XTALCR_XTALSTP)
	return nil
}

// ConfigureHRC selects the HRC step and run state. The frequency select sits
// behind both protect groups.
func (d *Device) ConfigureHRC(state OscState, freq HRCFreq) error {
	if err := (HRCConfig{State: state, Freq: freq}).Validate(); err != nil {
		return err
	}
	if d.inUse(state, SourceHRC) {
		return ErrOscInUse
	}
	defer d.unlocked(GroupClock)()
	defer d.unlocked(GroupHRCTrim)()

	d.replace(RegHRCCFGR, uint32(freq), CMU_HRCCFGR_HRCFREQS_Msk)
	d.replace(RegHRCCR, stopBit(state, CMU_HRCCR_HRCSTP), CMU_HRCCR_HRCSTP)
	return nil
}

// ConfigureLRC starts or stops the low-speed RC.
func (d *Device) ConfigureLRC(state OscState) error {
	if !state.valid() {
		return ErrInvalidState
	}
	if d.inUse(state, SourceLRC) {
		return ErrOscInUse
	}
	defer d.unlocked(GroupClock)()

	d.replace(RegLRCCR, stopBit(state, CMU_LRCCR_LRCSTP), CMU_LRCCR_LRCSTP)
	return nil
}

// Running reports whether src is not stopped. It says nothing about stability.
func (d *Device) Running(src Source) bool {
	switch src {
	case SourceXtal:
		return !d.hasBits(RegXTALCR, CMU_XTALCR_XTALSTP)
	case SourceHRC:
		return !d.hasBits(RegHRCCR, CMU_HRCCR_HRCSTP)
	case SourceLRC:
		return !d.hasBits(RegLRCCR, CMU_LRCCR_LRCSTP)
	}
	return false
}

// StableFlags is a snapshot of the oscillator stable flags.
type StableFlags uint8

const (
	StableHRC  StableFlags = CMU_OSCSTBSR_HRCSTBF
	StableXtal StableFlags = CMU_OSCSTBSR_XTALSTBF
)

func (f StableFlags) Has(flag StableFlags) bool { return f&flag != 0 }

func (d *Device) StableFlags() StableFlags {
	return StableFlags(d.regs.Read(RegOSCSTBSR) & (CMU_OSCSTBSR_HRCSTBF | CMU_OSCSTBSR_XTALSTBF))
}

func (d *Device) stable(src Source) bool {
	switch src {
	case SourceHRC:
		return d.StableFlags().Has(StableHRC)
	case SourceXtal:
		return d.StableFlags().Has(StableXtal)
	}
	// LRC has no flag.
	return d.Running(SourceLRC)
}

// WaitStable polls the stable flag of src at most polls times and returns
// ErrTimeout when it never sets. polls == 0 performs no read.
func (d *Device) WaitStable(src Source, polls uint32) error {
	if !src.valid() {
		return ErrInvalidSource
	}
	for i := uint32(0); i < polls; i++ {
		if d.stable(src) {
			return nil
		}
	}
	return ErrTimeout
}
