//go:build hc32m120

package cmu

import (
	"runtime/volatile"
	"unsafe"
)

// MMIO is the on-chip register block at the addresses in addr.go, which
// are not yet verified against the vendor register map.
type MMIO struct{}

func (MMIO) Read(r Reg) uint32 {
	if r >= NumRegs {
		return 0
	}
	p := unsafe.Pointer(regAddr[r])
	switch r.Width() {
	case 8:
		return uint32(volatile.LoadUint8((*uint8)(p)))
	case 16:
		return uint32(volatile.LoadUint16((*uint16)(p)))
	}
	return volatile.LoadUint32((*uint32)(p))
}

func (MMIO) Write(r Reg, v uint32) {
	if r >= NumRegs {
		return
	}
	p := unsafe.Pointer(regAddr[r])
	switch r.Width() {
	case 8:
		volatile.StoreUint8((*uint8)(p), uint8(v))
	case 16:
		volatile.StoreUint16((*uint16)(p), uint16(v))
	default:
		volatile.StoreUint32((*uint32)(p), v)
	}
}
