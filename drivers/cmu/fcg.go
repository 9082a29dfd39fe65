package cmu

// Periph is a set of peripheral function clock gates (FCG bits).
type Periph uint32

const (
	PeriphADC   Periph = 1 << 0
	PeriphCTC   Periph = 1 << 1
	PeriphCMP   Periph = 1 << 2
	PeriphAOS   Periph = 1 << 3
	PeriphDMA   Periph = 1 << 4
	PeriphCRC   Periph = 1 << 5
	PeriphTIMB1 Periph = 1 << 8
	PeriphTIMB2 Periph = 1 << 9
	PeriphTIMB3 Periph = 1 << 10
	PeriphTIMB4 Periph = 1 << 11
	PeriphTIM0  Periph = 1 << 12
	PeriphTIM2  Periph = 1 << 13
	PeriphTIM4  Periph = 1 << 14
	PeriphTIMA  Periph = 1 << 15
	PeriphEMB   Periph = 1 << 16
	PeriphUART1 Periph = 1 << 20
	PeriphUART2 Periph = 1 << 21
	PeriphUART3 Periph = 1 << 22
	PeriphI2C   Periph = 1 << 24
	PeriphSPI   Periph = 1 << 25

	PeriphAll = PeriphADC | PeriphCTC | PeriphCMP | PeriphAOS | PeriphDMA | PeriphCRC |
		PeriphTIMB1 | PeriphTIMB2 | PeriphTIMB3 | PeriphTIMB4 |
		PeriphTIM0 | PeriphTIM2 | PeriphTIM4 | PeriphTIMA | PeriphEMB |
		PeriphUART1 | PeriphUART2 | PeriphUART3 | PeriphI2C | PeriphSPI
)

func (p Periph) Has(flag Periph) bool { return p&flag == flag }

var periphNames = [...]struct {
	p    Periph
	name string
}{
	{PeriphADC, "adc"}, {PeriphCTC, "ctc"}, {PeriphCMP, "cmp"}, {PeriphAOS, "aos"},
	{PeriphDMA, "dma"}, {PeriphCRC, "crc"},
	{PeriphTIMB1, "timb1"}, {PeriphTIMB2, "timb2"}, {PeriphTIMB3, "timb3"}, {PeriphTIMB4, "timb4"},
	{PeriphTIM0, "tim0"}, {PeriphTIM2, "tim2"}, {PeriphTIM4, "tim4"}, {PeriphTIMA, "tima"},
	{PeriphEMB, "emb"},
	{PeriphUART1, "uart1"}, {PeriphUART2, "uart2"}, {PeriphUART3, "uart3"},
	{PeriphI2C, "i2c"}, {PeriphSPI, "spi"},
}

// ParsePeriph accepts a lower-case block name ("uart1", "tima") or "all".
func ParsePeriph(s string) (Periph, bool) {
	if s == "all" {
		return PeriphAll, true
	}
	for _, e := range periphNames {
		if e.name == s {
			return e.p, true
		}
	}
	return 0, false
}

// Names lists the blocks in p in bit order.
func (p Periph) Names() []string {
	var out []string
	for _, e := range periphNames {
		if p.Has(e.p) {
			out = append(out, e.name)
		}
	}
	return out
}

// SetPeriphClocks opens (enable) or closes the gates in mask with a single
// read-modify-write. Reserved FCG bits are never touched.
func (d *Device) SetPeriphClocks(mask Periph, enable bool) {
	m := uint32(mask & PeriphAll)
	if enable {
		d.modify(RegFCG, m, 0)
		return
	}
	d.modify(RegFCG, 0, m)
}

// PeriphClocks returns the open gates.
func (d *Device) PeriphClocks() Periph {
	return Periph(d.regs.Read(RegFCG)) & PeriphAll
}

// PeriphClockEnabled reports whether every gate in p is open.
func (d *Device) PeriphClockEnabled(p Periph) bool {
	return d.PeriphClocks().Has(p)
}
