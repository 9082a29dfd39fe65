package cmusim

import "clocktree-go/drivers/cmu"

// FailXtal models loss of the crystal signal. With detection enabled the
// failure flag latches; in reset mode with reset enabled the whole block
// returns to its power-on image, otherwise an enabled interrupt is counted.
// The crystal stops stabilising until Restore.
func (s *Sim) FailXtal() {
	s.noXtal = true
	s.regs[cmu.RegOSCSTBSR] &^= cmu.CMU_OSCSTBSR_XTALSTBF
	cr := s.regs[cmu.RegXTALSTDCR]
	if cr&cmu.CMU_XTALSTDCR_XTALSTDE == 0 {
		return
	}
	if cr&cmu.CMU_XTALSTDCR_XTALSTDRIS != 0 && cr&cmu.CMU_XTALSTDCR_XTALSTDRE != 0 {
		s.resets++
		s.Reset()
		return
	}
	s.regs[cmu.RegXTALSTDSR] |= cmu.CMU_XTALSTDSR_XTALSTDF
	if cr&cmu.CMU_XTALSTDCR_XTALSTDIE != 0 {
		s.interrupts++
	}
}

// Restore reconnects the crystal.
func (s *Sim) Restore() { s.noXtal = false }

// SetFailureFlag latches the failure flag directly, bypassing the monitor.
func (s *Sim) SetFailureFlag() {
	s.regs[cmu.RegXTALSTDSR] |= cmu.CMU_XTALSTDSR_XTALSTDF
}

// Poke stores v into r with no protection or side effects.
func (s *Sim) Poke(r cmu.Reg, v uint32) {
	if r < cmu.NumRegs {
		s.regs[r] = v & widthMask(r)
	}
}

// Peek returns r without the side effects of Read.
func (s *Sim) Peek(r cmu.Reg) uint32 {
	if r >= cmu.NumRegs {
		return 0
	}
	return s.regs[r]
}

// Writes counts accepted writes to r.
func (s *Sim) Writes(r cmu.Reg) int {
	if r >= cmu.NumRegs {
		return 0
	}
	return s.writes[r]
}

// TotalWrites counts accepted writes across the block.
func (s *Sim) TotalWrites() int {
	n := 0
	for _, w := range s.writes {
		n += w
	}
	return n
}

// Rejected counts writes dropped by a closed protect group, a bad key or a
// read-only register.
func (s *Sim) Rejected() int { return s.rejected }

// UnstableSwitches counts source selections made before the target was stable.
func (s *Sim) UnstableSwitches() int { return s.unstableSwitches }

// Resets counts failure-triggered resets.
func (s *Sim) Resets() int { return s.resets }

// Interrupts counts failure interrupts raised.
func (s *Sim) Interrupts() int { return s.interrupts }

// Image returns a copy of every register.
func (s *Sim) Image() [cmu.NumRegs]uint32 { return s.regs }
