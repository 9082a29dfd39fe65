package cmu

// Group is a write-protect group guarding a set of registers.
type Group uint8

const (
	GroupClock   Group = iota // PWC FPRC.FPRCB0: oscillator, failure detect and switch registers
	GroupHRCTrim              // EFM FAPRT: HRC frequency select
)

func (g Group) String() string {
	if g == GroupHRCTrim {
		return "hrc-trim"
	}
	return "clock"
}

// Unlock opens g for writing. The key rides in the same write as the
// enable bit; other FPRC bits are kept.
func (d *Device) Unlock(g Group) {
	switch g {
	case GroupClock:
		cur := d.regs.Read(RegFPRC) &^ PWC_FPRC_KEY_Msk
		d.regs.Write(RegFPRC, PWC_FPRC_KEY|cur|PWC_FPRC_FPRCB0)
	case GroupHRCTrim:
		d.regs.Write(RegFAPRT, EFM_FAPRT_KEY1)
		d.regs.Write(RegFAPRT, EFM_FAPRT_KEY2)
	}
}

// Lock closes g. Only the group's own enable bit changes.
func (d *Device) Lock(g Group) {
	switch g {
	case GroupClock:
		cur := d.regs.Read(RegFPRC) &^ PWC_FPRC_KEY_Msk
		d.regs.Write(RegFPRC, PWC_FPRC_KEY|(cur&^PWC_FPRC_FPRCB0))
	case GroupHRCTrim:
		d.regs.Write(RegFAPRT, EFM_FAPRT_CLOSE)
	}
}

// Unlocked reports whether g currently accepts writes.
func (d *Device) Unlocked(g Group) bool {
	switch g {
	case GroupClock:
		return d.hasBits(RegFPRC, PWC_FPRC_FPRCB0)
	case GroupHRCTrim:
		return d.hasBits(RegFAPRT, EFM_FAPRT_OPEN)
	}
	return false
}

// unlocked opens g and returns the matching relock, for use with defer.
func (d *Device) unlocked(g Group) (relock func()) {
	d.Unlock(g)
	return func() { d.Lock(g) }
}
