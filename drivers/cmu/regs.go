package cmu

// Registers is the raw register block. Reads return the current hardware
// value; writes replace the whole register. Neither can fail: backends that
// sit on a fallible transport latch the error themselves.
type Registers interface {
	Read(r Reg) uint32
	Write(r Reg, v uint32)
}

// Read returns the raw value of r.
func (d *Device) Read(r Reg) uint32 { return d.regs.Read(r) }

// modify is the read-modify-write primitive: set bits are ORed in, clear bits
// are removed, everything else is written back unchanged.
func (d *Device) modify(r Reg, set, clear uint32) {
	cur := d.regs.Read(r)
	d.regs.Write(r, (cur|set)&^clear)
}

// replace swaps the field selected by mask for value (already shifted).
func (d *Device) replace(r Reg, value, mask uint32) {
	cur := d.regs.Read(r)
	d.regs.Write(r, (cur&^mask)|(value&mask))
}

func (d *Device) field(r Reg, mask uint32, pos uint8) uint32 {
	return (d.regs.Read(r) & mask) >> pos
}

func (d *Device) hasBits(r Reg, mask uint32) bool {
	return d.regs.Read(r)&mask == mask
}
