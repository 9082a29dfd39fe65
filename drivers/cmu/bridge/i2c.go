// Package bridge provides cmu.Registers backends that reach the clock
// registers of a remote HC32M120 through a transport: an I2C register
// window or the serial line monitor served by regmon.
//
// cmu.Registers cannot fail, so both backends latch the first transport
// error. Once latched, reads return 0 and writes are dropped until Reset.
// Check Err after each operation that matters.
package bridge

import (
	"clocktree-go/drivers/cmu"
	"clocktree-go/errcode"

	"tinygo.org/x/drivers"
)

// AddressDefault is the 7-bit address of the register window.
const AddressDefault = 0x3C

// I2C is a register window on an I2C target. Register r is at window
// offset r; values are 32-bit words, low byte first.
type I2C struct {
	bus  drivers.I2C
	addr uint16
	err  error

	// Fixed buffers to avoid per-call heap allocations.
	w [5]byte
	r [4]byte
}

// NewI2C returns a window at addr; 0 selects AddressDefault.
func NewI2C(bus drivers.I2C, addr uint16) *I2C {
	if addr == 0 {
		addr = AddressDefault
	}
	return &I2C{bus: bus, addr: addr}
}

func (b *I2C) Read(r cmu.Reg) uint32 {
	if b.err != nil {
		return 0
	}
	b.w[0] = byte(r)
	if err := b.bus.Tx(b.addr, b.w[:1], b.r[:4]); err != nil {
		b.latch("i2c read", err)
		return 0
	}
	return uint32(b.r[0]) | uint32(b.r[1])<<8 | uint32(b.r[2])<<16 | uint32(b.r[3])<<24
}

func (b *I2C) Write(r cmu.Reg, v uint32) {
	if b.err != nil {
		return
	}
	b.w[0] = byte(r)
	b.w[1] = byte(v)
	b.w[2] = byte(v >> 8)
	b.w[3] = byte(v >> 16)
	b.w[4] = byte(v >> 24)
	if err := b.bus.Tx(b.addr, b.w[:5], nil); err != nil {
		b.latch("i2c write", err)
	}
}

// Err returns the latched transport error, nil if none.
func (b *I2C) Err() error { return b.err }

// Reset clears the latched error.
func (b *I2C) Reset() { b.err = nil }

func (b *I2C) latch(op string, err error) {
	b.err = &errcode.E{C: errcode.BusError, Op: op, Msg: err.Error(), Err: err}
}
