package cmu

import "clocktree-go/x/timex"

// SourceHz returns the nominal output of src, 0 when it is stopped.
func (d *Device) SourceHz(src Source) uint32 {
	if !d.Running(src) {
		return 0
	}
	switch src {
	case SourceXtal:
		return d.xtalHz
	case SourceHRC:
		return HRCFreq(d.field(RegHRCCFGR, CMU_HRCCFGR_HRCFREQS_Msk, 0)).Hz(d.hrcHigh)
	case SourceLRC:
		return LRCHz
	}
	return 0
}

// SysClockHz is the selected source divided by SYSDIV.
func (d *Device) SysClockHz() uint32 {
	sw := d.Switch()
	return d.SourceHz(sw.Source) / sw.SysDiv.Ratio()
}

// BusClockHz is HCLK: the system clock divided by HCLKDIV.
func (d *Device) BusClockHz() uint32 {
	return d.Frequencies().BusHz
}

// ADCClockHz is the system clock divided by ADCDIV.
func (d *Device) ADCClockHz() uint32 {
	return d.Frequencies().ADCHz
}

// Frequencies is every derived clock at one instant.
type Frequencies struct {
	Source Source
	SrcHz  uint32
	SysHz  uint32
	BusHz  uint32
	ADCHz  uint32
}

func (d *Device) Frequencies() Frequencies {
	sw := d.Switch()
	f := Frequencies{Source: sw.Source, SrcHz: d.SourceHz(sw.Source)}
	f.SysHz = f.SrcHz / sw.SysDiv.Ratio()
	f.BusHz = f.SysHz / sw.BusDiv.Ratio()
	f.ADCHz = f.SysHz / sw.ADCDiv.Ratio()
	return f
}

// BusPeriodNs is one HCLK period in nanoseconds, for timer arithmetic.
func (f Frequencies) BusPeriodNs() uint64 {
	return timex.PeriodFromHz(f.BusHz)
}

// XtalStbNs is the stabilisation wait s lasts on this board's crystal.
func (d *Device) XtalStbNs(s XtalStb) uint64 {
	return timex.CyclesToNs(s.Cycles(), d.xtalHz)
}
