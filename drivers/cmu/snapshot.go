package cmu

// State is a typed read of every clock register.
type State struct {
	Xtal   XtalConfig
	HRC    HRCConfig
	LRC    LRCConfig
	Std    FailureDetectConfig
	Switch SwitchState
	Stable StableFlags
	Failed bool
	Gates  Periph
	MCO    MCOConfig
}

func (d *Device) Snapshot() State {
	var s State
	d.SnapshotInto(&s)
	return s
}

func (d *Device) SnapshotInto(out *State) {
	var s State
	cfgr := d.regs.Read(RegXTALCFGR)
	s.Xtal = XtalConfig{
		State:      runState(d.Running(SourceXtal)),
		Drive:      XtalDrive((cfgr & CMU_XTALCFGR_XTALDRV_Msk) >> CMU_XTALCFGR_XTALDRV_Pos),
		SuperDrive: cfgr&CMU_XTALCFGR_SUPDRV != 0,
		Stb:        XtalStb(d.field(RegXTALSTBCR, CMU_XTALSTBCR_XTALSTB_Msk, 0)),
	}
	if cfgr&CMU_XTALCFGR_XTALMS != 0 {
		s.Xtal.Mode = ModeExtClock
	}
	s.HRC = HRCConfig{
		State: runState(d.Running(SourceHRC)),
		Freq:  HRCFreq(d.field(RegHRCCFGR, CMU_HRCCFGR_HRCFREQS_Msk, 0)),
	}
	s.LRC = LRCConfig{State: runState(d.Running(SourceLRC))}
	s.Std = d.FailureDetect()
	s.Switch = d.Switch()
	s.Stable = d.StableFlags()
	s.Failed = d.FailureFlag()
	s.Gates = d.PeriphClocks()
	s.MCO = d.MCO()
	*out = s
}

func runState(running bool) OscState {
	if running {
		return OscOn
	}
	return OscOff
}

// DeInit returns the clock tree to its power-on-reset configuration. The
// system clock is moved to LRC before anything it could depend on is stopped.
func (d *Device) DeInit() error {
	if err := d.ConfigureLRC(OscOn); err != nil {
		return err
	}
	if err := d.SetSource(SourceLRC); err != nil {
		return err
	}
	d.replace(RegSCKDIVR, PowerOnReset(RegSCKDIVR),
		CMU_SCKDIVR_SYSDIV_Msk|CMU_SCKDIVR_HCLKDIV_Msk|CMU_SCKDIVR_ADCDIV_Msk)
	d.replace(RegMCOCFGR, PowerOnReset(RegMCOCFGR),
		CMU_MCOCFGR_MCOSEL_Msk|CMU_MCOCFGR_MCODIV_Msk|CMU_MCOCFGR_MCOEN)
	if err := d.ConfigureFailureDetect(DefaultFailureDetectConfig()); err != nil {
		return err
	}
	d.ClearFailureFlag()
	if err := d.ConfigureXtal(DefaultXtalConfig()); err != nil {
		return err
	}
	h := DefaultHRCConfig()
	if err := d.ConfigureHRC(h.State, h.Freq); err != nil {
		return err
	}
	d.SetPeriphClocks(PeriphAll, false)
	return nil
}
