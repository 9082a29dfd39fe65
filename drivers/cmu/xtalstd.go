package cmu

// FailureDetectConfig is the crystal failure (oscillation stop) monitor setup.
type FailureDetectConfig struct {
	Enable          bool
	Mode            StdMode
	ResetEnable     bool
	InterruptEnable bool
}

func DefaultFailureDetectConfig() FailureDetectConfig {
	return FailureDetectConfig{Mode: StdInterrupt}
}

// Validate rejects a reset enable outside reset mode.
func (c FailureDetectConfig) Validate() error {
	if !c.Mode.valid() {
		return ErrInvalidStdMode
	}
	if c.ResetEnable && c.Mode != StdReset {
		return ErrResetNeedsResetMode
	}
	return nil
}

func (c FailureDetectConfig) bits() uint32 {
	var v uint32
	if c.Enable {
		v |= CMU_XTALSTDCR_XTALSTDE
	}
	if c.Mode == StdReset {
		v |= CMU_XTALSTDCR_XTALSTDRIS
	}
	if c.ResetEnable {
		v |= CMU_XTALSTDCR_XTALSTDRE
	}
	if c.InterruptEnable {
		v |= CMU_XTALSTDCR_XTALSTDIE
	}
	return v
}

// ConfigureFailureDetect writes all four monitor fields in one store.
func (d *Device) ConfigureFailureDetect(cfg FailureDetectConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	defer d.unlocked(GroupClock)()

	d.replace(RegXTALSTDCR, cfg.bits(), CMU_XTALSTDCR_Msk)
	return nil
}

// FailureDetect reads back the monitor setup.
func (d *Device) FailureDetect() FailureDetectConfig {
	v := d.regs.Read(RegXTALSTDCR)
	c := FailureDetectConfig{
		Enable:          v&CMU_XTALSTDCR_XTALSTDE != 0,
		ResetEnable:     v&CMU_XTALSTDCR_XTALSTDRE != 0,
		InterruptEnable: v&CMU_XTALSTDCR_XTALSTDIE != 0,
	}
	if v&CMU_XTALSTDCR_XTALSTDRIS != 0 {
		c.Mode = StdReset
	}
	return c
}

// FailureFlag reports a latched crystal failure.
func (d *Device) FailureFlag() bool {
	return d.hasBits(RegXTALSTDSR, CMU_XTALSTDSR_XTALSTDF)
}

// ClearFailureFlag clears the latched failure (write 0 to clear).
func (d *Device) ClearFailureFlag() {
	defer d.unlocked(GroupClock)()
	d.modify(RegXTALSTDSR, 0, CMU_XTALSTDSR_XTALSTDF)
}
