// Package shell is a line-oriented command interpreter over a cmu.Device,
// used by the interactive console and by scripts.
//
// Lines are split like a POSIX shell (quotes, escapes, # comments). Options
// are key=value words after the positional arguments.
package shell

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"github.com/google/shlex"
	"golang.org/x/exp/slices"

	"clocktree-go/drivers/cmu"
	"clocktree-go/errcode"
	"clocktree-go/services/clockplan"
	"clocktree-go/x/fmtx"
	"clocktree-go/x/strconvx"
)

// ErrUsage reports a malformed command line.
var ErrUsage = errcode.New(errcode.InvalidParams, "shell", "usage")

type command struct {
	usage string
	run   func(s *Shell, args []string, opts map[string]string) error
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"xtal":   {"xtal on|off [drive=high|mid|low|ulow] [mode=resonator|extclk] [super=true|false] [stb=CYCLES] (super=false below drive=high)", (*Shell).xtal},
		"hrc":    {"hrc on|off [hz=HZ]", (*Shell).hrc},
		"lrc":    {"lrc on|off", (*Shell).lrc},
		"wait":   {"wait hrc|xtal|lrc [polls=N]", (*Shell).wait},
		"src":    {"src hrc|xtal|lrc [wait=N]", (*Shell).src},
		"div":    {"div sys|bus|adc RATIO", (*Shell).div},
		"fcg":    {"fcg on|off PERIPH...", (*Shell).fcg},
		"mco":    {"mco on|off | mco hrc|lrc|xtal|sysclk [div=N] [on=true|false]", (*Shell).mco},
		"std":    {"std off | std interrupt|reset [reset=true] [irq=true]", (*Shell).std},
		"clear":  {"clear", (*Shell).clear},
		"status": {"status", (*Shell).status},
		"freq":   {"freq", (*Shell).freq},
		"plan":   {"plan NAME", (*Shell).plan},
		"deinit": {"deinit", (*Shell).deinit},
		"help":   {"help", (*Shell).help},
	}
}

// Shell executes commands against one device. Output goes to out.
type Shell struct {
	dev   *cmu.Device
	out   io.Writer
	polls uint32
}

// New returns a Shell whose waits default to clockplan.DefaultWaitPolls.
func New(dev *cmu.Device, out io.Writer) *Shell {
	return &Shell{dev: dev, out: out, polls: clockplan.DefaultWaitPolls}
}

// Exec runs one command line. Blank lines and comments are no-ops.
func (s *Shell) Exec(line string) error {
	words, err := shlex.Split(line)
	if err != nil {
		return fmtx.Errorf("%w: %v", ErrUsage, err)
	}
	if len(words) == 0 {
		return nil
	}
	cmd, ok := commands[words[0]]
	if !ok {
		return fmtx.Errorf("%w: unknown command %q (try help)", ErrUsage, words[0])
	}
	args, opts := split(words[1:])
	if err := cmd.run(s, args, opts); err != nil {
		if errors.Is(err, ErrUsage) {
			return fmtx.Errorf("%w: %s", err, cmd.usage)
		}
		return err
	}
	return nil
}

// Run executes r line by line and stops at the first failing line.
func (s *Shell) Run(r io.Reader) error {
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		if err := s.Exec(sc.Text()); err != nil {
			return fmtx.Errorf("line %d: %w", n, err)
		}
	}
	return sc.Err()
}

func split(words []string) (args []string, opts map[string]string) {
	opts = map[string]string{}
	for _, w := range words {
		if k, v, ok := strings.Cut(w, "="); ok {
			opts[k] = v
			continue
		}
		args = append(args, w)
	}
	return args, opts
}

func usage() error { return ErrUsage }

func optUint(opts map[string]string, key string, def uint32) (uint32, error) {
	v, ok := opts[key]
	if !ok {
		return def, nil
	}
	n, err := strconvx.ParseUint(strings.ReplaceAll(v, "_", ""), 0, 32)
	if err != nil {
		return 0, fmtx.Errorf("%w: %s=%s", ErrUsage, key, v)
	}
	return uint32(n), nil
}

func optBool(opts map[string]string, key string, def bool) (bool, error) {
	v, ok := opts[key]
	if !ok {
		return def, nil
	}
	b, err := strconvx.ParseBool(v)
	if err != nil {
		return false, fmtx.Errorf("%w: %s=%s", ErrUsage, key, v)
	}
	return b, nil
}

func oneState(args []string) (cmu.OscState, error) {
	if len(args) != 1 {
		return 0, usage()
	}
	st, ok := cmu.ParseState(args[0])
	if !ok {
		return 0, usage()
	}
	return st, nil
}

func (s *Shell) xtal(args []string, opts map[string]string) error {
	st, err := oneState(args)
	if err != nil {
		return err
	}
	c := s.dev.Snapshot().Xtal
	c.State = st
	if v, ok := opts["drive"]; ok {
		if c.Drive, ok = cmu.ParseDrive(v); !ok {
			return usage()
		}
	}
	if v, ok := opts["mode"]; ok {
		if c.Mode, ok = cmu.ParseMode(v); !ok {
			return usage()
		}
	}
	if c.SuperDrive, err = optBool(opts, "super", c.SuperDrive); err != nil {
		return err
	}
	cycles, err := optUint(opts, "stb", c.Stb.Cycles())
	if err != nil {
		return err
	}
	if c.Stb, err = stbFromCycles(cycles); err != nil {
		return err
	}
	return s.dev.ConfigureXtal(c)
}

func stbFromCycles(cycles uint32) (cmu.XtalStb, error) {
	for st := cmu.Stb256; st <= cmu.Stb131072; st++ {
		if st.Cycles() == cycles {
			return st, nil
		}
	}
	return 0, cmu.ErrInvalidStb
}

func (s *Shell) hrc(args []string, opts map[string]string) error {
	st, err := oneState(args)
	if err != nil {
		return err
	}
	freq := s.dev.Snapshot().HRC.Freq
	if _, ok := opts["hz"]; ok {
		hz, err := optUint(opts, "hz", 0)
		if err != nil {
			return err
		}
		f, ok := cmu.HRCFreqFor(hz, s.dev.Config().HRCHighRange)
		if !ok {
			return cmu.ErrInvalidHRCFreq
		}
		freq = f
	}
	return s.dev.ConfigureHRC(st, freq)
}

func (s *Shell) lrc(args []string, _ map[string]string) error {
	st, err := oneState(args)
	if err != nil {
		return err
	}
	return s.dev.ConfigureLRC(st)
}

func oneSource(args []string) (cmu.Source, error) {
	if len(args) != 1 {
		return 0, usage()
	}
	src, ok := cmu.ParseSource(args[0])
	if !ok {
		return 0, usage()
	}
	return src, nil
}

func (s *Shell) wait(args []string, opts map[string]string) error {
	src, err := oneSource(args)
	if err != nil {
		return err
	}
	polls, err := optUint(opts, "polls", s.polls)
	if err != nil {
		return err
	}
	if err := s.dev.WaitStable(src, polls); err != nil {
		return err
	}
	fmtx.Fprintf(s.out, "%s stable\n", src)
	return nil
}

func (s *Shell) src(args []string, opts map[string]string) error {
	src, err := oneSource(args)
	if err != nil {
		return err
	}
	if _, ok := opts["wait"]; ok {
		polls, err := optUint(opts, "wait", s.polls)
		if err != nil {
			return err
		}
		return s.dev.SwitchTo(src, polls)
	}
	return s.dev.SetSource(src)
}

func (s *Shell) div(args []string, _ map[string]string) error {
	if len(args) != 2 {
		return usage()
	}
	r, err := strconvx.ParseUint(args[1], 10, 32)
	if err != nil {
		return usage()
	}
	ratio := uint32(r)
	switch args[0] {
	case "sys":
		d, ok := cmu.SysDivFromRatio(ratio)
		if !ok {
			return cmu.ErrInvalidDivider
		}
		return s.dev.SetSysDiv(d)
	case "bus":
		d, ok := cmu.BusDivFromRatio(ratio)
		if !ok {
			return cmu.ErrInvalidDivider
		}
		return s.dev.SetBusDiv(d)
	case "adc":
		d, ok := cmu.ADCDivFromRatio(ratio)
		if !ok {
			return cmu.ErrInvalidDivider
		}
		return s.dev.SetADCDiv(d)
	}
	return usage()
}

func (s *Shell) fcg(args []string, _ map[string]string) error {
	if len(args) < 2 {
		return usage()
	}
	st, ok := cmu.ParseState(args[0])
	if !ok {
		return usage()
	}
	var mask cmu.Periph
	for _, name := range args[1:] {
		p, ok := cmu.ParsePeriph(name)
		if !ok {
			return fmtx.Errorf("%w: unknown peripheral %q", ErrUsage, name)
		}
		mask |= p
	}
	s.dev.SetPeriphClocks(mask, st == cmu.OscOn)
	return nil
}

func (s *Shell) mco(args []string, opts map[string]string) error {
	if len(args) != 1 {
		return usage()
	}
	if st, ok := cmu.ParseState(args[0]); ok {
		s.dev.EnableMCO(st == cmu.OscOn)
		return nil
	}
	src, ok := cmu.ParseMCOSource(args[0])
	if !ok {
		return usage()
	}
	ratio, err := optUint(opts, "div", 1)
	if err != nil {
		return err
	}
	div, ok := cmu.MCODivFromRatio(ratio)
	if !ok {
		return cmu.ErrInvalidMCO
	}
	if err := s.dev.ConfigureMCO(src, div); err != nil {
		return err
	}
	on, err := optBool(opts, "on", s.dev.MCO().Enable)
	if err != nil {
		return err
	}
	s.dev.EnableMCO(on)
	return nil
}

func (s *Shell) std(args []string, opts map[string]string) error {
	if len(args) != 1 {
		return usage()
	}
	if args[0] == "off" {
		return s.dev.ConfigureFailureDetect(cmu.DefaultFailureDetectConfig())
	}
	mode, ok := cmu.ParseStdMode(args[0])
	if !ok {
		return usage()
	}
	c := cmu.FailureDetectConfig{Enable: true, Mode: mode}
	var err error
	if c.ResetEnable, err = optBool(opts, "reset", false); err != nil {
		return err
	}
	if c.InterruptEnable, err = optBool(opts, "irq", false); err != nil {
		return err
	}
	return s.dev.ConfigureFailureDetect(c)
}

func (s *Shell) clear(_ []string, _ map[string]string) error {
	s.dev.ClearFailureFlag()
	return nil
}

func (s *Shell) status(_ []string, _ map[string]string) error {
	st := s.dev.Snapshot()
	w := s.out
	fmtx.Fprintf(w, "xtal   %-3s drive=%s mode=%s super=%t stb=%d (%d us) stable=%t\n",
		st.Xtal.State, st.Xtal.Drive, st.Xtal.Mode, st.Xtal.SuperDrive, st.Xtal.Stb.Cycles(),
		s.dev.XtalStbNs(st.Xtal.Stb)/1000, st.Stable.Has(cmu.StableXtal))
	fmtx.Fprintf(w, "hrc    %-3s hz=%d stable=%t\n",
		st.HRC.State, st.HRC.Freq.Hz(s.dev.Config().HRCHighRange), st.Stable.Has(cmu.StableHRC))
	fmtx.Fprintf(w, "lrc    %-3s\n", st.LRC.State)
	fmtx.Fprintf(w, "std    enable=%t mode=%s reset=%t irq=%t failed=%t\n",
		st.Std.Enable, st.Std.Mode, st.Std.ResetEnable, st.Std.InterruptEnable, st.Failed)
	fmtx.Fprintf(w, "switch src=%s sys=/%d bus=/%d adc=/%d\n",
		st.Switch.Source, st.Switch.SysDiv.Ratio(), st.Switch.BusDiv.Ratio(), st.Switch.ADCDiv.Ratio())
	fmtx.Fprintf(w, "fcg    %s\n", strings.Join(st.Gates.Names(), " "))
	fmtx.Fprintf(w, "mco    src=%s div=/%d on=%t\n", st.MCO.Source, st.MCO.Div.Ratio(), st.MCO.Enable)
	return nil
}

func (s *Shell) freq(_ []string, _ map[string]string) error {
	f := s.dev.Frequencies()
	fmtx.Fprintf(s.out, "src=%s %d Hz\nsys %d Hz\nbus %d Hz (%d ns)\nadc %d Hz\nmco %d Hz\n",
		f.Source, f.SrcHz, f.SysHz, f.BusHz, f.BusPeriodNs(), f.ADCHz, s.dev.MCOHz())
	return nil
}

func (s *Shell) plan(args []string, _ map[string]string) error {
	if len(args) != 1 {
		return usage()
	}
	prog, ok := clockplan.Embedded(args[0])
	if !ok {
		return fmtx.Errorf("%w: unknown plan %q (have %s)", ErrUsage, args[0], strings.Join(clockplan.EmbeddedNames(), ", "))
	}
	return prog.Apply(s.dev)
}

func (s *Shell) deinit(_ []string, _ map[string]string) error {
	return s.dev.DeInit()
}

func (s *Shell) help(_ []string, _ map[string]string) error {
	names := make([]string, 0, len(commands))
	for n := range commands {
		names = append(names, n)
	}
	slices.Sort(names)
	for _, n := range names {
		fmtx.Fprintf(s.out, "%s\n", commands[n].usage)
	}
	return nil
}
