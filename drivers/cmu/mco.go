package cmu

// MCOConfig is the full output mux setting.
type MCOConfig struct {
	Source MCOSource
	Div    MCODiv
	Enable bool
}

func (c MCOConfig) Validate() error {
	if !c.Source.valid() || !c.Div.valid() {
		return ErrInvalidMCO
	}
	return nil
}

// ConfigureMCO routes src through div to the MCO pin. The output enable is
// left as it was.
func (d *Device) ConfigureMCO(src MCOSource, div MCODiv) error {
	if err := (MCOConfig{Source: src, Div: div}).Validate(); err != nil {
		return err
	}
	v := uint32(src) | uint32(div)<<CMU_MCOCFGR_MCODIV_Pos
	d.replace(RegMCOCFGR, v, CMU_MCOCFGR_MCOSEL_Msk|CMU_MCOCFGR_MCODIV_Msk)
	return nil
}

// EnableMCO drives (on) or releases the MCO pin.
func (d *Device) EnableMCO(on bool) {
	if on {
		d.modify(RegMCOCFGR, CMU_MCOCFGR_MCOEN, 0)
		return
	}
	d.modify(RegMCOCFGR, 0, CMU_MCOCFGR_MCOEN)
}

// MCO reads back the output mux.
func (d *Device) MCO() MCOConfig {
	v := d.regs.Read(RegMCOCFGR)
	return MCOConfig{
		Source: MCOSource(v & CMU_MCOCFGR_MCOSEL_Msk),
		Div:    MCODiv((v & CMU_MCOCFGR_MCODIV_Msk) >> CMU_MCOCFGR_MCODIV_Pos),
		Enable: v&CMU_MCOCFGR_MCOEN != 0,
	}
}

// MCOHz returns the pin frequency, 0 when the output is off or the source
// is stopped.
func (d *Device) MCOHz() uint32 {
	m := d.MCO()
	if !m.Enable {
		return 0
	}
	var hz uint32
	switch m.Source {
	case MCOHRC:
		hz = d.SourceHz(SourceHRC)
	case MCOLRC:
		hz = d.SourceHz(SourceLRC)
	case MCOXtal:
		hz = d.SourceHz(SourceXtal)
	case MCOSysClk:
		hz = d.SysClockHz()
	}
	return hz / m.Div.Ratio()
}
