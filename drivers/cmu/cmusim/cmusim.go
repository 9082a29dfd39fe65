// Package cmusim is an in-memory HC32M120 clock register block. It enforces
// the write-protect keys, models oscillator stabilisation as a countdown of
// stable-flag reads, and can inject a crystal failure.
package cmusim

import "clocktree-go/drivers/cmu"

// Default stabilisation, in OSCSTBSR reads after start.
const (
	DefaultHRCStableAfter  = 4
	DefaultXtalStableAfter = 64
)

// Sim implements cmu.Registers. The zero value is not usable; call New.
type Sim struct {
	regs [cmu.NumRegs]uint32

	faprtKey1 bool
	faprtOpen bool

	stableAfter [3]uint32 // per cmu.Source
	countdown   [3]uint32
	noXtal      bool

	writes           [cmu.NumRegs]int
	rejected         int
	unstableSwitches int
	resets           int
	interrupts       int
}

// New returns a block in its power-on-reset state.
func New() *Sim {
	s := &Sim{}
	s.stableAfter[cmu.SourceHRC] = DefaultHRCStableAfter
	s.stableAfter[cmu.SourceXtal] = DefaultXtalStableAfter
	s.Reset()
	return s
}

// Reset loads the power-on image. Write counters survive; stabilisation
// settings survive.
func (s *Sim) Reset() {
	for r := cmu.Reg(0); r < cmu.NumRegs; r++ {
		s.regs[r] = cmu.PowerOnReset(r)
	}
	s.faprtKey1, s.faprtOpen = false, false
	s.countdown = [3]uint32{}
}

// SetStableAfter sets how many stable-flag reads src needs after a start
// before its flag reads set. Zero makes it stable at once.
func (s *Sim) SetStableAfter(src cmu.Source, reads uint32) {
	if src != cmu.SourceHRC && src != cmu.SourceXtal {
		return
	}
	s.stableAfter[src] = reads
}

// RemoveXtal makes the crystal never stabilise.
func (s *Sim) RemoveXtal() { s.noXtal = true }

func (s *Sim) Read(r cmu.Reg) uint32 {
	switch r {
	case cmu.RegOSCSTBSR:
		s.tick(cmu.SourceHRC, cmu.CMU_OSCSTBSR_HRCSTBF)
		s.tick(cmu.SourceXtal, cmu.CMU_OSCSTBSR_XTALSTBF)
	case cmu.RegFAPRT:
		if s.faprtOpen {
			return cmu.EFM_FAPRT_OPEN
		}
		return cmu.EFM_FAPRT_CLOSE
	}
	if r >= cmu.NumRegs {
		return 0
	}
	return s.regs[r]
}

func (s *Sim) tick(src cmu.Source, flag uint32) {
	if !s.running(src) || s.regs[cmu.RegOSCSTBSR]&flag != 0 {
		return
	}
	if src == cmu.SourceXtal && s.noXtal {
		return
	}
	if s.countdown[src] > 0 {
		s.countdown[src]--
	}
	if s.countdown[src] == 0 {
		s.regs[cmu.RegOSCSTBSR] |= flag
	}
}

func (s *Sim) running(src cmu.Source) bool {
	switch src {
	case cmu.SourceXtal:
		return s.regs[cmu.RegXTALCR]&cmu.CMU_XTALCR_XTALSTP == 0
	case cmu.SourceHRC:
		return s.regs[cmu.RegHRCCR]&cmu.CMU_HRCCR_HRCSTP == 0
	case cmu.SourceLRC:
		return s.regs[cmu.RegLRCCR]&cmu.CMU_LRCCR_LRCSTP == 0
	}
	return false
}

func (s *Sim) stable(src cmu.Source) bool {
	switch src {
	case cmu.SourceXtal:
		return s.regs[cmu.RegOSCSTBSR]&cmu.CMU_OSCSTBSR_XTALSTBF != 0
	case cmu.SourceHRC:
		return s.regs[cmu.RegOSCSTBSR]&cmu.CMU_OSCSTBSR_HRCSTBF != 0
	}
	return s.running(src)
}

func (s *Sim) Write(r cmu.Reg, v uint32) {
	if r >= cmu.NumRegs {
		return
	}
	switch r {
	case cmu.RegFPRC:
		if v&cmu.PWC_FPRC_KEY_Msk != cmu.PWC_FPRC_KEY {
			s.rejected++
			return
		}
		s.store(r, v&^cmu.PWC_FPRC_KEY_Msk)
		return
	case cmu.RegFAPRT:
		s.writes[r]++
		switch {
		case v == cmu.EFM_FAPRT_KEY1:
			s.faprtKey1, s.faprtOpen = true, false
		case v == cmu.EFM_FAPRT_KEY2 && s.faprtKey1:
			s.faprtKey1, s.faprtOpen = false, true
		default:
			s.faprtKey1, s.faprtOpen = false, false
		}
		return
	case cmu.RegOSCSTBSR:
		s.rejected++
		return
	}
	if g, ok := r.Protected(); ok && !s.open(g) {
		s.rejected++
		return
	}
	switch r {
	case cmu.RegXTALCR:
		s.oscWrite(cmu.SourceXtal, r, v, cmu.CMU_OSCSTBSR_XTALSTBF)
		return
	case cmu.RegHRCCR:
		s.oscWrite(cmu.SourceHRC, r, v, cmu.CMU_OSCSTBSR_HRCSTBF)
		return
	case cmu.RegXTALSTDSR:
		// write 0 to clear
		s.store(r, s.regs[r]&v)
		return
	case cmu.RegCKSWR:
		if !s.stable(cmu.Source(v & cmu.CMU_CKSWR_CKSW_Msk)) {
			s.unstableSwitches++
		}
	}
	s.store(r, v)
}

func (s *Sim) store(r cmu.Reg, v uint32) {
	s.writes[r]++
	s.regs[r] = v & widthMask(r)
}

func widthMask(r cmu.Reg) uint32 {
	switch r.Width() {
	case 8:
		return 0xFF
	case 16:
		return 0xFFFF
	}
	return 0xFFFFFFFF
}

// oscWrite restarts the stabilisation countdown on a stop-to-run edge and
// drops the stable flag on stop.
func (s *Sim) oscWrite(src cmu.Source, r cmu.Reg, v, flag uint32) {
	was := s.running(src)
	s.store(r, v)
	now := s.running(src)
	switch {
	case !now:
		s.regs[cmu.RegOSCSTBSR] &^= flag
		s.countdown[src] = 0
	case !was:
		s.countdown[src] = s.stableAfter[src]
		if s.countdown[src] == 0 && !(src == cmu.SourceXtal && s.noXtal) {
			s.regs[cmu.RegOSCSTBSR] |= flag
		}
	}
}

func (s *Sim) open(g cmu.Group) bool {
	switch g {
	case cmu.GroupClock:
		return s.regs[cmu.RegFPRC]&cmu.PWC_FPRC_FPRCB0 != 0
	case cmu.GroupHRCTrim:
		// the trim register also sits in the clock group
		return s.faprtOpen && s.regs[cmu.RegFPRC]&cmu.PWC_FPRC_FPRCB0 != 0
	}
	return false
}
