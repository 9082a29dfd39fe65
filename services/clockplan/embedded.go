package clockplan

import (
	"golang.org/x/exp/slices"

	"clocktree-go/drivers/cmu"
)

// -----------------------------------------------------------------------------
// Embedded board programs
//
// Key: board/profile name as accepted by Embedded and `clkctl run -b`.
// -----------------------------------------------------------------------------

var embedded = map[string]func() Program{
	// Evaluation board: 8 MHz crystal on XTAL pins, failure resets the part.
	"evb-xtal8": func() Program {
		return Program{
			Name:  "evb-xtal8",
			Board: cmu.Config{XtalHz: 8_000_000},
			Xtal: &cmu.XtalConfig{
				State: cmu.OscOn,
				Drive: cmu.DriveMid,
				Mode:  cmu.ModeResonator,
				Stb:   cmu.Stb8192,
			},
			FailureDetect: &cmu.FailureDetectConfig{
				Enable:      true,
				Mode:        cmu.StdReset,
				ResetEnable: true,
			},
			Switch: cmu.SwitchState{Source: cmu.SourceXtal, ADCDiv: cmu.ADCDiv2},
			Gates:  cmu.PeriphUART1 | cmu.PeriphTIMA,
			MCO:    &cmu.MCOConfig{Source: cmu.MCOSysClk, Div: cmu.MCODiv8, Enable: true},
		}
	},
	// Crystal-less: HRC at 32 MHz, bus at 16 MHz.
	"hrc32": func() Program {
		return Program{
			Name:   "hrc32",
			Board:  cmu.DefaultConfig(),
			HRC:    &cmu.HRCConfig{State: cmu.OscOn, Freq: cmu.HRCDiv1},
			Switch: cmu.SwitchState{Source: cmu.SourceHRC, BusDiv: cmu.BusDiv2, ADCDiv: cmu.ADCDiv4},
			Gates:  cmu.PeriphUART1 | cmu.PeriphUART2 | cmu.PeriphI2C | cmu.PeriphSPI,
		}
	},
	// Back to LRC with everything else stopped and gated.
	"lowpower": func() Program {
		return Program{
			Name:   "lowpower",
			Board:  cmu.DefaultConfig(),
			Xtal:   &cmu.XtalConfig{State: cmu.OscOff, Drive: cmu.DriveHigh, SuperDrive: true, Stb: cmu.Stb32768},
			HRC:    &cmu.HRCConfig{State: cmu.OscOff},
			LRC:    &cmu.LRCConfig{State: cmu.OscOn},
			Switch: cmu.SwitchState{Source: cmu.SourceLRC},
		}
	},
}

// EmbeddedLookup allows overriding how board programs are resolved.
var EmbeddedLookup = func(name string) (Program, bool) {
	f, ok := embedded[name]
	if !ok {
		return Program{}, false
	}
	return f(), true
}

// Embedded returns the built-in program for name.
func Embedded(name string) (Program, bool) { return EmbeddedLookup(name) }

// EmbeddedNames lists the built-in programs in name order.
func EmbeddedNames() []string {
	names := make([]string, 0, len(embedded))
	for n := range embedded {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}
