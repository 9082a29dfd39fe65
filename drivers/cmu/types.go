package cmu

import "clocktree-go/x/mathx"

// OscState is the requested run state of an oscillator.
type OscState uint8

const (
	OscOff OscState = iota
	OscOn
)

func (s OscState) valid() bool { return s <= OscOn }

func (s OscState) String() string {
	if s == OscOn {
		return "on"
	}
	return "off"
}

// XtalDrive is the crystal drive strength (XTALDRV field code).
type XtalDrive uint8

const (
	DriveHigh XtalDrive = iota
	DriveMid
	DriveLow
	DriveUltraLow
)

func (d XtalDrive) valid() bool { return d <= DriveUltraLow }

// XtalMode selects a resonator across XTAL pins or an external clock input.
type XtalMode uint8

const (
	ModeResonator XtalMode = iota
	ModeExtClock
)

func (m XtalMode) valid() bool { return m <= ModeExtClock }

// XtalStb selects the stabilisation wait in crystal cycles.
type XtalStb uint8

const (
	Stb256    XtalStb = iota // 2^8
	Stb512                   // 2^9
	Stb1024                  // 2^10
	Stb2048                  // 2^11
	Stb8192                  // 2^13
	Stb32768                 // 2^15
	Stb65536                 // 2^16
	Stb131072                // 2^17
)

var stbExp = [...]uint8{8, 9, 10, 11, 13, 15, 16, 17}

func (s XtalStb) valid() bool { return s <= Stb131072 }

// Cycles returns the crystal cycle count of the wait, 0 if s is unknown.
func (s XtalStb) Cycles() uint32 {
	if int(s) >= len(stbExp) {
		return 0
	}
	return 1 << stbExp[s]
}

// StbFromExp maps a power-of-two exponent (8..17) to its selector.
func StbFromExp(exp uint8) (XtalStb, bool) {
	for i, e := range stbExp {
		if e == exp {
			return XtalStb(i), true
		}
	}
	return 0, false
}

// HRCFreq is one of the six HRC frequency steps. The Hz value of a step
// depends on the reset-time range bit; see Hz.
type HRCFreq uint8

const (
	HRCDiv1  HRCFreq = iota // 32 MHz / 48 MHz
	HRCDiv2                 // 16 / 24
	HRCDiv4                 // 8 / 12
	HRCDiv8                 // 4 / 6
	HRCDiv16                // 2 / 3
	HRCDiv32                // 1 / 1.5
)

func (f HRCFreq) valid() bool { return f <= HRCDiv32 }

// Hz returns the HRC output for this step in the given range.
func (f HRCFreq) Hz(highRange bool) uint32 {
	if !f.valid() {
		return 0
	}
	base := uint32(32_000_000)
	if highRange {
		base = 48_000_000
	}
	return base >> f
}

// HRCFreqFor returns the step that yields exactly hz in the given range.
func HRCFreqFor(hz uint32, highRange bool) (HRCFreq, bool) {
	for f := HRCDiv1; f <= HRCDiv32; f++ {
		if f.Hz(highRange) == hz {
			return f, true
		}
	}
	return 0, false
}

// StdMode is the crystal failure response mode.
type StdMode uint8

const (
	StdInterrupt StdMode = iota
	StdReset
)

func (m StdMode) valid() bool { return m <= StdReset }

// Source is a system clock source (CKSW field code).
type Source uint8

const (
	SourceHRC Source = iota
	SourceXtal
	SourceLRC
)

func (s Source) valid() bool { return s <= SourceLRC }

func (s Source) String() string {
	switch s {
	case SourceHRC:
		return "hrc"
	case SourceXtal:
		return "xtal"
	case SourceLRC:
		return "lrc"
	}
	return "source?"
}

// ParseSource accepts "hrc", "xtal" or "lrc".
func ParseSource(s string) (Source, bool) {
	switch s {
	case "hrc":
		return SourceHRC, true
	case "xtal":
		return SourceXtal, true
	case "lrc":
		return SourceLRC, true
	}
	return 0, false
}

// Dividers are stored as log2 of the ratio.

// SysDiv divides the selected source into the system clock (1..64).
type SysDiv uint8

const (
	SysDiv1 SysDiv = iota
	SysDiv2
	SysDiv4
	SysDiv8
	SysDiv16
	SysDiv32
	SysDiv64
)

// BusDiv divides the system clock into HCLK (1..32).
type BusDiv uint8

const (
	BusDiv1 BusDiv = iota
	BusDiv2
	BusDiv4
	BusDiv8
	BusDiv16
	BusDiv32
)

// ADCDiv divides the system clock into the ADC clock (1..64).
type ADCDiv uint8

const (
	ADCDiv1 ADCDiv = iota
	ADCDiv2
	ADCDiv4
	ADCDiv8
	ADCDiv16
	ADCDiv32
	ADCDiv64
)

const (
	sysDivSteps = 7
	busDivSteps = 6
	adcDivSteps = 7
	mcoDivSteps = 8
)

func (d SysDiv) valid() bool { return d < sysDivSteps }
func (d BusDiv) valid() bool { return d < busDivSteps }
func (d ADCDiv) valid() bool { return d < adcDivSteps }

func (d SysDiv) Ratio() uint32 { return 1 << d }
func (d BusDiv) Ratio() uint32 { return 1 << d }
func (d ADCDiv) Ratio() uint32 { return 1 << d }

// SysDivFromRatio maps 1, 2, 4 .. 64 to its selector.
func SysDivFromRatio(ratio uint32) (SysDiv, bool) {
	n, ok := divFromRatio(ratio, sysDivSteps)
	return SysDiv(n), ok
}

// BusDivFromRatio maps 1, 2, 4 .. 32 to its selector.
func BusDivFromRatio(ratio uint32) (BusDiv, bool) {
	n, ok := divFromRatio(ratio, busDivSteps)
	return BusDiv(n), ok
}

// ADCDivFromRatio maps 1, 2, 4 .. 64 to its selector.
func ADCDivFromRatio(ratio uint32) (ADCDiv, bool) {
	n, ok := divFromRatio(ratio, adcDivSteps)
	return ADCDiv(n), ok
}

func divFromRatio(ratio uint32, steps uint8) (uint8, bool) {
	if !mathx.IsPow2(ratio) {
		return 0, false
	}
	n := mathx.Log2(ratio)
	if n >= steps {
		return 0, false
	}
	return n, true
}

// SysDivFor returns the smallest system divider that keeps srcHz/div at or
// below maxHz. ok is false when even ÷64 is too fast or maxHz is zero.
func SysDivFor(srcHz, maxHz uint32) (SysDiv, bool) {
	if maxHz == 0 {
		return 0, false
	}
	need := mathx.CeilLog2(mathx.CeilDiv(srcHz, maxHz))
	if need >= sysDivSteps {
		return SysDiv64, false
	}
	return SysDiv(mathx.Clamp(need, 0, sysDivSteps-1)), true
}

// MCOSource selects the clock routed to the MCO pin (MCOSEL code).
type MCOSource uint8

const (
	MCOHRC    MCOSource = 0
	MCOLRC    MCOSource = 1
	MCOXtal   MCOSource = 2
	MCOSysClk MCOSource = 4
)

func (s MCOSource) valid() bool {
	switch s {
	case MCOHRC, MCOLRC, MCOXtal, MCOSysClk:
		return true
	}
	return false
}

func (s MCOSource) String() string {
	switch s {
	case MCOHRC:
		return "hrc"
	case MCOLRC:
		return "lrc"
	case MCOXtal:
		return "xtal"
	case MCOSysClk:
		return "sysclk"
	}
	return "mco?"
}

// ParseMCOSource accepts "hrc", "lrc", "xtal" or "sysclk".
func ParseMCOSource(s string) (MCOSource, bool) {
	switch s {
	case "hrc":
		return MCOHRC, true
	case "lrc":
		return MCOLRC, true
	case "xtal":
		return MCOXtal, true
	case "sysclk":
		return MCOSysClk, true
	}
	return 0, false
}

// MCODiv divides the MCO output (1..128).
type MCODiv uint8

const (
	MCODiv1 MCODiv = iota
	MCODiv2
	MCODiv4
	MCODiv8
	MCODiv16
	MCODiv32
	MCODiv64
	MCODiv128
)

func (d MCODiv) valid() bool   { return d < mcoDivSteps }
func (d MCODiv) Ratio() uint32 { return 1 << d }

// MCODivFromRatio maps 1, 2, 4 .. 128 to its selector.
func MCODivFromRatio(ratio uint32) (MCODiv, bool) {
	n, ok := divFromRatio(ratio, mcoDivSteps)
	return MCODiv(n), ok
}

// ParseDrive accepts "high", "mid", "low" or "ulow".
func ParseDrive(s string) (XtalDrive, bool) {
	switch s {
	case "high":
		return DriveHigh, true
	case "mid":
		return DriveMid, true
	case "low":
		return DriveLow, true
	case "ulow":
		return DriveUltraLow, true
	}
	return 0, false
}

func (d XtalDrive) String() string {
	switch d {
	case DriveHigh:
		return "high"
	case DriveMid:
		return "mid"
	case DriveLow:
		return "low"
	case DriveUltraLow:
		return "ulow"
	}
	return "drive?"
}

// ParseMode accepts "resonator" or "extclk".
func ParseMode(s string) (XtalMode, bool) {
	switch s {
	case "resonator":
		return ModeResonator, true
	case "extclk":
		return ModeExtClock, true
	}
	return 0, false
}

func (m XtalMode) String() string {
	if m == ModeExtClock {
		return "extclk"
	}
	return "resonator"
}

// ParseState accepts "on" or "off".
func ParseState(s string) (OscState, bool) {
	switch s {
	case "on":
		return OscOn, true
	case "off":
		return OscOff, true
	}
	return 0, false
}

// ParseStdMode accepts "interrupt" or "reset".
func ParseStdMode(s string) (StdMode, bool) {
	switch s {
	case "interrupt":
		return StdInterrupt, true
	case "reset":
		return StdReset, true
	}
	return 0, false
}

func (m StdMode) String() string {
	if m == StdReset {
		return "reset"
	}
	return "interrupt"
}
