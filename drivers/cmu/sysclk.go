package cmu

// SwitchState is the system clock source together with its dividers.
type SwitchState struct {
	Source Source
	SysDiv SysDiv
	BusDiv BusDiv
	ADCDiv ADCDiv
}

// DefaultSwitchState is the power-on-reset switch: LRC, every divider at 1.
func DefaultSwitchState() SwitchState {
	return SwitchState{Source: SourceLRC}
}

// Validate rejects unknown source or divider codes.
func (s SwitchState) Validate() error {
	if !s.Source.valid() {
		return ErrInvalidSource
	}
	if !s.SysDiv.valid() || !s.BusDiv.valid() || !s.ADCDiv.valid() {
		return ErrInvalidDivider
	}
	return nil
}

// SetSource selects the system clock source. It does not check that src is
// running and stable; callers wait first (or use SwitchTo).
func (d *Device) SetSource(src Source) error {
	if !src.valid() {
		return ErrInvalidSource
	}
	defer d.unlocked(GroupClock)()

	d.replace(RegCKSWR, uint32(src), CMU_CKSWR_CKSW_Msk)
	return nil
}

// SwitchTo waits for src to stabilise and then selects it. On timeout the
// source is left unchanged.
func (d *Device) SwitchTo(src Source, polls uint32) error {
	if err := d.WaitStable(src, polls); err != nil {
		return err
	}
	return d.SetSource(src)
}

// Source returns the current system clock source.
func (d *Device) Source() Source {
	return Source(d.field(RegCKSWR, CMU_CKSWR_CKSW_Msk, 0))
}

func (d *Device) SetSysDiv(div SysDiv) error {
	if !div.valid() {
		return ErrInvalidDivider
	}
	d.replace(RegSCKDIVR, uint32(div)<<CMU_SCKDIVR_SYSDIV_Pos, CMU_SCKDIVR_SYSDIV_Msk)
	return nil
}

func (d *Device) SetBusDiv(div BusDiv) error {
	if !div.valid() {
		return ErrInvalidDivider
	}
	d.replace(RegSCKDIVR, uint32(div)<<CMU_SCKDIVR_HCLKDIV_Pos, CMU_SCKDIVR_HCLKDIV_Msk)
	return nil
}

func (d *Device) SetADCDiv(div ADCDiv) error {
	if !div.valid() {
		return ErrInvalidDivider
	}
	d.replace(RegSCKDIVR, uint32(div)<<CMU_SCKDIVR_ADCDIV_Pos, CMU_SCKDIVR_ADCDIV_Msk)
	return nil
}

// Switch reads back the source and all three dividers.
func (d *Device) Switch() SwitchState {
	v := d.regs.Read(RegSCKDIVR)
	return SwitchState{
		Source: d.Source(),
		SysDiv: SysDiv((v & CMU_SCKDIVR_SYSDIV_Msk) >> CMU_SCKDIVR_SYSDIV_Pos),
		BusDiv: BusDiv((v & CMU_SCKDIVR_HCLKDIV_Msk) >> CMU_SCKDIVR_HCLKDIV_Pos),
		ADCDiv: ADCDiv((v & CMU_SCKDIVR_ADCDIV_Msk) >> CMU_SCKDIVR_ADCDIV_Pos),
	}
}
