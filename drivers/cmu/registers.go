// Package cmu provides constants for register identifiers and bitfields used
// in the operation of the HC32M120 clock management unit.
//
// Mask names follow the device-file convention <PERIPH>_<REG>_<FIELD>.
//
// The field layouts follow the vendor clock driver. The bus addresses in
// addr.go, and so the MMIO backend built with the hc32m120 tag, have not been
// verified against the vendor register map; the simulator and the bridges
// only depend on Reg and are unaffected.
package cmu

// Reg identifies one clock-tree control register. Backends map it to an
// address (MMIO), a wire index (bridges) or a slot (simulator).
type Reg uint8

const (
	RegXTALCR    Reg = iota // XTAL stop control
	RegXTALCFGR             // XTAL drive / mode / super drive
	RegXTALSTBCR            // XTAL stabilisation wait selector
	RegXTALSTDCR            // XTAL failure detect control
	RegXTALSTDSR            // XTAL failure detect status
	RegHRCCR                // HRC stop control
	RegHRCCFGR              // HRC frequency select (trim group)
	RegLRCCR                // LRC stop control
	RegOSCSTBSR             // oscillator stable flags, R
	RegCKSWR                // system clock source select
	RegSCKDIVR              // system / bus / ADC dividers
	RegFCG                  // peripheral function clock gates
	RegMCOCFGR              // clock output mux
	RegFPRC                 // PWC write protection (clock group key)
	RegFAPRT                // EFM write protection (HRC trim key)

	NumRegs
)

var regNames = [NumRegs]string{
	"XTALCR", "XTALCFGR", "XTALSTBCR", "XTALSTDCR", "XTALSTDSR",
	"HRCCR", "HRCCFGR", "LRCCR", "OSCSTBSR", "CKSWR",
	"SCKDIVR", "FCG", "MCOCFGR", "FPRC", "FAPRT",
}

func (r Reg) String() string {
	if r < NumRegs {
		return regNames[r]
	}
	return "REG?"
}

// Width returns the register width in bits.
func (r Reg) Width() uint8 {
	switch r {
	case RegSCKDIVR, RegFPRC, RegFAPRT:
		return 16
	case RegFCG:
		return 32
	default:
		return 8
	}
}

// Protected reports the write-protect group guarding r, if any.
func (r Reg) Protected() (Group, bool) {
	switch r {
	case RegXTALCR, RegXTALCFGR, RegXTALSTBCR, RegXTALSTDCR, RegXTALSTDSR,
		RegHRCCR, RegLRCCR, RegCKSWR:
		return GroupClock, true
	case RegHRCCFGR:
		return GroupHRCTrim, true
	}
	return 0, false
}

// Power-on reset image. The part boots LRC-only: XTAL and HRC stopped,
// system clock on LRC, every divider at 1, all gates closed.
var porImage = [NumRegs]uint32{
	RegXTALCR:    0x01,
	RegXTALCFGR:  0x80,
	RegXTALSTBCR: 0x05,
	RegHRCCR:     0x01,
	RegCKSWR:     0x02,
}

// PowerOnReset returns the documented reset value of r.
func PowerOnReset(r Reg) uint32 {
	if r < NumRegs {
		return porImage[r]
	}
	return 0
}

const (
	// --- XTALCR ---
	CMU_XTALCR_XTALSTP = 0x01

	// --- XTALCFGR ---
	CMU_XTALCFGR_XTALDRV_Pos = 4
	CMU_XTALCFGR_XTALDRV_Msk = 0x30
	CMU_XTALCFGR_XTALMS      = 0x40
	CMU_XTALCFGR_SUPDRV      = 0x80

	// --- XTALSTBCR ---
	CMU_XTALSTBCR_XTALSTB_Msk = 0x07

	// --- XTALSTDCR ---
	CMU_XTALSTDCR_XTALSTDIE  = 0x01
	CMU_XTALSTDCR_XTALSTDRE  = 0x02
	CMU_XTALSTDCR_XTALSTDRIS = 0x04
	CMU_XTALSTDCR_XTALSTDE   = 0x80
	CMU_XTALSTDCR_Msk        = 0x87

	// --- XTALSTDSR ---
	CMU_XTALSTDSR_XTALSTDF = 0x01

	// --- HRCCR / HRCCFGR / LRCCR ---
	CMU_HRCCR_HRCSTP         = 0x01
	CMU_HRCCFGR_HRCFREQS_Msk = 0x07
	CMU_LRCCR_LRCSTP         = 0x01

	// --- OSCSTBSR ---
	CMU_OSCSTBSR_HRCSTBF  = 0x01
	CMU_OSCSTBSR_XTALSTBF = 0x08

	// --- CKSWR ---
	CMU_CKSWR_CKSW_Msk = 0x03

	// --- SCKDIVR ---
	CMU_SCKDIVR_SYSDIV_Pos  = 0
	CMU_SCKDIVR_SYSDIV_Msk  = 0x0007
	CMU_SCKDIVR_HCLKDIV_Pos = 4
	CMU_SCKDIVR_HCLKDIV_Msk = 0x0070
	CMU_SCKDIVR_ADCDIV_Pos  = 8
	CMU_SCKDIVR_ADCDIV_Msk  = 0x0700

	// --- MCOCFGR ---
	CMU_MCOCFGR_MCOSEL_Msk = 0x07
	CMU_MCOCFGR_MCODIV_Pos = 4
	CMU_MCOCFGR_MCODIV_Msk = 0x70
	CMU_MCOCFGR_MCOEN      = 0x80

	// --- PWC FPRC ---
	PWC_FPRC_FPRCB0  = 0x0001 // clock group write enable
	PWC_FPRC_FPRCB1  = 0x0002
	PWC_FPRC_FPRCB3  = 0x0008
	PWC_FPRC_KEY     = 0xA500 // must accompany every FPRC write
	PWC_FPRC_KEY_Msk = 0xFF00

	// --- EFM FAPRT ---
	EFM_FAPRT_KEY1  = 0x0123
	EFM_FAPRT_KEY2  = 0x3210
	EFM_FAPRT_CLOSE = 0x0000
	EFM_FAPRT_OPEN  = 0x0001 // read-back: trim group writable
)

// LRC nominal frequency.
const LRCHz = 32_768
