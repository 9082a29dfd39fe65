package cmu

// Peripheral bases.
const (
	CMU_BASE uintptr = 0x40048000
	PWC_BASE uintptr = 0x40048400
	EFM_BASE uintptr = 0x40010400
)

// Register addresses used by the MMIO backend. They have not been checked
// against the vendor hc32m120.h or the reference manual register map; treat
// the on-chip backend as unverified.
var regAddr = [NumRegs]uintptr{
	RegXTALCR:    CMU_BASE + 0x0010,
	RegXTALCFGR:  CMU_BASE + 0x0011,
	RegXTALSTBCR: CMU_BASE + 0x0012,
	RegXTALSTDCR: CMU_BASE + 0x0014,
	RegXTALSTDSR: CMU_BASE + 0x0015,
	RegHRCCR:     CMU_BASE + 0x0016,
	RegHRCCFGR:   CMU_BASE + 0x0017,
	RegLRCCR:     CMU_BASE + 0x0018,
	RegOSCSTBSR:  CMU_BASE + 0x001A,
	RegCKSWR:     CMU_BASE + 0x001B,
	RegSCKDIVR:   CMU_BASE + 0x0020,
	RegFCG:       CMU_BASE + 0x0024,
	RegMCOCFGR:   CMU_BASE + 0x0028,
	RegFPRC:      PWC_BASE + 0x03FE,
	RegFAPRT:     EFM_BASE + 0x0000,
}

// Addr returns the bus address of r on the part.
func Addr(r Reg) (uintptr, bool) {
	if r >= NumRegs {
		return 0, false
	}
	return regAddr[r], true
}
