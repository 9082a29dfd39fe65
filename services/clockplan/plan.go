//go:build !hc32m120

package clockplan

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"clocktree-go/drivers/cmu"
	"clocktree-go/errcode"
	"clocktree-go/x/mathx"
)

//go:embed plans/*.yaml
var planFS embed.FS

// Plan is the YAML form of a Program. Enumerations are the lower-case names
// accepted by the cmu Parse helpers; dividers and waits are plain ratios and
// cycle counts.
type Plan struct {
	Board        string `yaml:"board"`
	XtalHz       uint32 `yaml:"xtal_hz"`
	HRCHighRange bool   `yaml:"hrc_high_range"`

	Xtal *XtalPlan `yaml:"xtal"`
	HRC  *HRCPlan  `yaml:"hrc"`
	LRC  *LRCPlan  `yaml:"lrc"`

	WaitPolls     uint32       `yaml:"wait_polls"`
	FailureDetect *FailurePlan `yaml:"failure_detect"`
	Source        string       `yaml:"source"`
	SysDiv        uint32       `yaml:"sys_div"`
	MaxSysHz      uint32       `yaml:"max_sys_hz"`
	BusDiv        uint32       `yaml:"bus_div"`
	ADCDiv        uint32       `yaml:"adc_div"`
	Periph        []string     `yaml:"periph"`
	MCO           *MCOPlan     `yaml:"mco"`
}

type XtalPlan struct {
	State      string `yaml:"state"`
	Drive      string `yaml:"drive"`
	Mode       string `yaml:"mode"`
	SuperDrive bool   `yaml:"super_drive"`
	StbCycles  uint32 `yaml:"stb_cycles"`
}

type HRCPlan struct {
	State string `yaml:"state"`
	Hz    uint32 `yaml:"hz"`
}

type LRCPlan struct {
	State string `yaml:"state"`
}

type FailurePlan struct {
	Enable    bool   `yaml:"enable"`
	Mode      string `yaml:"mode"`
	Reset     bool   `yaml:"reset"`
	Interrupt bool   `yaml:"interrupt"`
}

type MCOPlan struct {
	Source string `yaml:"source"`
	Div    uint32 `yaml:"div"`
	Enable bool   `yaml:"enable"`
}

// Parse decodes one YAML plan. Unknown keys are rejected.
func Parse(data []byte) (*Plan, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var p Plan
	if err := dec.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("plan: empty document: %w", errcode.InvalidConfig)
		}
		return nil, fmt.Errorf("plan: %w", err)
	}
	return &p, nil
}

// EmbeddedPlan returns the YAML source of a built-in board program.
func EmbeddedPlan(name string) ([]byte, bool) {
	b, err := planFS.ReadFile("plans/" + name + ".yaml")
	return b, err == nil
}

func invalid(field, value string, sentinel error) error {
	return fmt.Errorf("%s %q: %w", field, value, sentinel)
}

// Build converts p into a validated Program.
func (p *Plan) Build() (Program, error) {
	prog := Program{
		Name:      p.Board,
		Board:     cmu.Config{XtalHz: p.XtalHz, HRCHighRange: p.HRCHighRange},
		WaitPolls: p.WaitPolls,
	}
	if prog.Board.XtalHz == 0 {
		prog.Board.XtalHz = cmu.DefaultConfig().XtalHz
	}

	if p.Xtal != nil {
		x, err := p.Xtal.build()
		if err != nil {
			return Program{}, err
		}
		prog.Xtal = &x
	}
	if p.HRC != nil {
		h, err := p.HRC.build(p.HRCHighRange)
		if err != nil {
			return Program{}, err
		}
		prog.HRC = &h
	}
	if p.LRC != nil {
		st, err := parseState("lrc.state", p.LRC.State)
		if err != nil {
			return Program{}, err
		}
		prog.LRC = &cmu.LRCConfig{State: st}
	}
	if p.FailureDetect != nil {
		f, err := p.FailureDetect.build()
		if err != nil {
			return Program{}, err
		}
		prog.FailureDetect = &f
	}

	src, ok := cmu.ParseSource(p.Source)
	if !ok {
		return Program{}, invalid("source", p.Source, cmu.ErrInvalidSource)
	}
	prog.Switch.Source = src

	sys, err := p.sysDiv(src, prog)
	if err != nil {
		return Program{}, err
	}
	prog.Switch.SysDiv = sys
	if prog.Switch.BusDiv, ok = cmu.BusDivFromRatio(ratio(p.BusDiv)); !ok {
		return Program{}, invalid("bus_div", fmt.Sprint(p.BusDiv), cmu.ErrInvalidDivider)
	}
	if prog.Switch.ADCDiv, ok = cmu.ADCDivFromRatio(ratio(p.ADCDiv)); !ok {
		return Program{}, invalid("adc_div", fmt.Sprint(p.ADCDiv), cmu.ErrInvalidDivider)
	}

	for _, name := range p.Periph {
		g, ok := cmu.ParsePeriph(name)
		if !ok {
			return Program{}, invalid("periph", name, errcode.InvalidConfig)
		}
		prog.Gates |= g
	}

	if p.MCO != nil {
		m, err := p.MCO.build()
		if err != nil {
			return Program{}, err
		}
		prog.MCO = &m
	}

	if err := prog.Validate(); err != nil {
		return Program{}, fmt.Errorf("plan %s: %w", p.Board, err)
	}
	return prog, nil
}

func ratio(v uint32) uint32 {
	if v == 0 {
		return 1
	}
	return v
}

// sysDiv takes sys_div when given, otherwise the smallest divider that
// keeps the system clock at or below max_sys_hz.
func (p *Plan) sysDiv(src cmu.Source, prog Program) (cmu.SysDiv, error) {
	if p.SysDiv != 0 || p.MaxSysHz == 0 {
		d, ok := cmu.SysDivFromRatio(ratio(p.SysDiv))
		if !ok {
			return 0, invalid("sys_div", fmt.Sprint(p.SysDiv), cmu.ErrInvalidDivider)
		}
		return d, nil
	}
	var hz uint32
	switch src {
	case cmu.SourceXtal:
		hz = prog.Board.XtalHz
	case cmu.SourceHRC:
		f := cmu.HRCDiv1
		if prog.HRC != nil {
			f = prog.HRC.Freq
		}
		hz = f.Hz(prog.Board.HRCHighRange)
	case cmu.SourceLRC:
		hz = cmu.LRCHz
	}
	d, ok := cmu.SysDivFor(hz, p.MaxSysHz)
	if !ok {
		return 0, invalid("max_sys_hz", fmt.Sprint(p.MaxSysHz), cmu.ErrInvalidDivider)
	}
	return d, nil
}

func parseState(field, s string) (cmu.OscState, error) {
	st, ok := cmu.ParseState(s)
	if !ok {
		return 0, invalid(field, s, cmu.ErrInvalidState)
	}
	return st, nil
}

func (x *XtalPlan) build() (cmu.XtalConfig, error) {
	c := cmu.DefaultXtalConfig()
	c.SuperDrive = x.SuperDrive

	st, err := parseState("xtal.state", x.State)
	if err != nil {
		return c, err
	}
	c.State = st
	if x.Drive != "" {
		d, ok := cmu.ParseDrive(x.Drive)
		if !ok {
			return c, invalid("xtal.drive", x.Drive, cmu.ErrInvalidDrive)
		}
		c.Drive = d
	}
	if x.Mode != "" {
		m, ok := cmu.ParseMode(x.Mode)
		if !ok {
			return c, invalid("xtal.mode", x.Mode, cmu.ErrInvalidMode)
		}
		c.Mode = m
	}
	if x.StbCycles != 0 {
		s, ok := cmu.StbFromExp(mathx.Log2(x.StbCycles))
		if !ok || !mathx.IsPow2(x.StbCycles) {
			return c, invalid("xtal.stb_cycles", fmt.Sprint(x.StbCycles), cmu.ErrInvalidStb)
		}
		c.Stb = s
	}
	return c, c.Validate()
}

func (h *HRCPlan) build(high bool) (cmu.HRCConfig, error) {
	c := cmu.DefaultHRCConfig()
	st, err := parseState("hrc.state", h.State)
	if err != nil {
		return c, err
	}
	c.State = st
	if h.Hz != 0 {
		f, ok := cmu.HRCFreqFor(h.Hz, high)
		if !ok {
			return c, invalid("hrc.hz", fmt.Sprint(h.Hz), cmu.ErrInvalidHRCFreq)
		}
		c.Freq = f
	}
	return c, nil
}

func (f *FailurePlan) build() (cmu.FailureDetectConfig, error) {
	c := cmu.FailureDetectConfig{
		Enable:          f.Enable,
		ResetEnable:     f.Reset,
		InterruptEnable: f.Interrupt,
	}
	if f.Mode != "" {
		m, ok := cmu.ParseStdMode(f.Mode)
		if !ok {
			return c, invalid("failure_detect.mode", f.Mode, cmu.ErrInvalidStdMode)
		}
		c.Mode = m
	}
	return c, c.Validate()
}

func (m *MCOPlan) build() (cmu.MCOConfig, error) {
	src, ok := cmu.ParseMCOSource(m.Source)
	if !ok {
		return cmu.MCOConfig{}, invalid("mco.source", m.Source, cmu.ErrInvalidMCO)
	}
	div, ok := cmu.MCODivFromRatio(ratio(m.Div))
	if !ok {
		return cmu.MCOConfig{}, invalid("mco.div", fmt.Sprint(m.Div), cmu.ErrInvalidMCO)
	}
	return cmu.MCOConfig{Source: src, Div: div, Enable: m.Enable}, nil
}
