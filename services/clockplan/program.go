// Package clockplan turns a board's clock requirements into an ordered
// bring-up of the clock tree.
//
// A Program is the typed, validated form and is what firmware runs. On the
// host a Program is usually built from a YAML Plan (see Parse).
package clockplan

import (
	"clocktree-go/drivers/cmu"
	"clocktree-go/errcode"
)

// DefaultWaitPolls bounds every stabilisation wait when a Program leaves
// WaitPolls at zero.
const DefaultWaitPolls = 20000

// Program is a complete clock-tree setting. Nil oscillator, monitor and MCO
// entries are left as they are.
type Program struct {
	Name  string
	Board cmu.Config

	Xtal *cmu.XtalConfig
	HRC  *cmu.HRCConfig
	LRC  *cmu.LRCConfig

	WaitPolls     uint32
	FailureDetect *cmu.FailureDetectConfig

	Switch cmu.SwitchState
	Gates  cmu.Periph
	MCO    *cmu.MCOConfig
}

// ErrStopsSource reports a Program that stops its own system clock source.
var ErrStopsSource = errcode.New(errcode.InvalidConfig, "plan", "program stops the selected system clock source")

// Validate checks every part before anything is applied.
func (p *Program) Validate() error {
	if err := p.Board.Validate(); err != nil {
		return err
	}
	if p.Xtal != nil {
		if err := p.Xtal.Validate(); err != nil {
			return err
		}
	}
	if p.HRC != nil {
		if err := p.HRC.Validate(); err != nil {
			return err
		}
	}
	if p.LRC != nil {
		if err := p.LRC.Validate(); err != nil {
			return err
		}
	}
	if p.FailureDetect != nil {
		if err := p.FailureDetect.Validate(); err != nil {
			return err
		}
	}
	if err := p.Switch.Validate(); err != nil {
		return err
	}
	if p.MCO != nil {
		if err := p.MCO.Validate(); err != nil {
			return err
		}
	}
	if p.state(p.Switch.Source) == cmu.OscOff {
		return ErrStopsSource
	}
	return nil
}

// state returns the run state the Program requests for src, OscOn when it
// does not mention src.
func (p *Program) state(src cmu.Source) cmu.OscState {
	switch {
	case src == cmu.SourceXtal && p.Xtal != nil:
		return p.Xtal.State
	case src == cmu.SourceHRC && p.HRC != nil:
		return p.HRC.State
	case src == cmu.SourceLRC && p.LRC != nil:
		return p.LRC.State
	}
	return cmu.OscOn
}

func (p *Program) polls() uint32 {
	if p.WaitPolls == 0 {
		return DefaultWaitPolls
	}
	return p.WaitPolls
}

// StepError names the bring-up step that failed.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string { return e.Step + ": " + e.Err.Error() }
func (e *StepError) Unwrap() error { return e.Err }

func fail(step string, err error) error {
	if err == nil {
		return nil
	}
	return &StepError{Step: step, Err: err}
}

// Apply runs the Program on d:
//
//  1. start the oscillators it turns on, wait for each to stabilise
//  2. configure crystal failure detection
//  3. switch source and system divider, slowing down before speeding up
//  4. bus and ADC dividers, peripheral gates, MCO
//  5. stop the oscillators it turns off
//
// A stabilisation timeout aborts the Program with the system clock still on
// its previous source.
func (p *Program) Apply(d *cmu.Device) error {
	if err := p.Validate(); err != nil {
		return fail("validate", err)
	}

	// 1. start
	if p.LRC != nil && p.LRC.State == cmu.OscOn {
		if err := d.ConfigureLRC(cmu.OscOn); err != nil {
			return fail("lrc", err)
		}
	}
	if p.HRC != nil && p.HRC.State == cmu.OscOn {
		if err := p.configureHRC(d); err != nil {
			return fail("hrc", err)
		}
		if err := d.WaitStable(cmu.SourceHRC, p.polls()); err != nil {
			return fail("hrc wait", err)
		}
	}
	if p.Xtal != nil && p.Xtal.State == cmu.OscOn {
		if err := d.ConfigureXtal(*p.Xtal); err != nil {
			return fail("xtal", err)
		}
		if err := d.WaitStable(cmu.SourceXtal, p.polls()); err != nil {
			return fail("xtal wait", err)
		}
	}

	// 2. monitor
	if p.FailureDetect != nil {
		if err := d.ConfigureFailureDetect(*p.FailureDetect); err != nil {
			return fail("failure detect", err)
		}
	}

	// 3. switch
	if err := p.applySwitch(d); err != nil {
		return err
	}

	// 4. dividers, gates, MCO
	if err := d.SetBusDiv(p.Switch.BusDiv); err != nil {
		return fail("bus div", err)
	}
	if err := d.SetADCDiv(p.Switch.ADCDiv); err != nil {
		return fail("adc div", err)
	}
	d.SetPeriphClocks(p.Gates, true)
	d.SetPeriphClocks(cmu.PeriphAll&^p.Gates, false)
	if p.MCO != nil {
		if err := d.ConfigureMCO(p.MCO.Source, p.MCO.Div); err != nil {
			return fail("mco", err)
		}
		d.EnableMCO(p.MCO.Enable)
	}

	// 5. stop
	if p.Xtal != nil && p.Xtal.State == cmu.OscOff {
		if err := d.ConfigureXtal(*p.Xtal); err != nil {
			return fail("xtal stop", err)
		}
	}
	if p.HRC != nil && p.HRC.State == cmu.OscOff {
		if err := p.configureHRC(d); err != nil {
			return fail("hrc stop", err)
		}
	}
	if p.LRC != nil && p.LRC.State == cmu.OscOff {
		if err := d.ConfigureLRC(cmu.OscOff); err != nil {
			return fail("lrc stop", err)
		}
	}
	return nil
}

func (p *Program) configureHRC(d *cmu.Device) error {
	return d.ConfigureHRC(p.HRC.State, p.HRC.Freq)
}

// applySwitch orders the source and SYSDIV writes so the system clock never
// runs above the faster of its old and new settings.
func (p *Program) applySwitch(d *cmu.Device) error {
	target := p.Switch.Source
	if d.Source() != target {
		if err := d.WaitStable(target, p.polls()); err != nil {
			return fail("switch wait", err)
		}
	}
	if d.SourceHz(target) > d.SourceHz(d.Source()) {
		if err := d.SetSysDiv(p.Switch.SysDiv); err != nil {
			return fail("sys div", err)
		}
		return fail("source", d.SetSource(target))
	}
	if err := d.SetSource(target); err != nil {
		return fail("source", err)
	}
	return fail("sys div", d.SetSysDiv(p.Switch.SysDiv))
}
