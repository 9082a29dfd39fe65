package clockplan

import (
	"errors"
	"reflect"
	"testing"

	"clocktree-go/drivers/cmu"
	"clocktree-go/drivers/cmu/cmusim"
	"clocktree-go/errcode"
)

func TestEmbeddedYAMLMatchesPrograms(t *testing.T) {
	for _, name := range EmbeddedNames() {
		raw, ok := EmbeddedPlan(name)
		if !ok {
			t.Fatalf("%s: no YAML", name)
		}
		p, err := Parse(raw)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		got, err := p.Build()
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		want, _ := Embedded(name)
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("%s: YAML builds\n%+v\nwant\n%+v", name, got, want)
		}
	}
}

func TestApplyEmbeddedPrograms(t *testing.T) {
	cases := map[string]struct {
		src   cmu.Source
		sysHz uint32
		busHz uint32
	}{
		"evb-xtal8": {cmu.SourceXtal, 8_000_000, 8_000_000},
		"hrc32":     {cmu.SourceHRC, 32_000_000, 16_000_000},
		"lowpower":  {cmu.SourceLRC, cmu.LRCHz, cmu.LRCHz},
	}
	for name, want := range cases {
		prog, ok := Embedded(name)
		if !ok {
			t.Fatalf("%s missing", name)
		}
		sim := cmusim.New()
		d := cmu.New(sim, prog.Board)
		if err := prog.Apply(d); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		f := d.Frequencies()
		if f.Source != want.src || f.SysHz != want.sysHz || f.BusHz != want.busHz {
			t.Fatalf("%s: %+v", name, f)
		}
		if d.PeriphClocks() != prog.Gates {
			t.Fatalf("%s: gates %#x want %#x", name, d.PeriphClocks(), prog.Gates)
		}
		if sim.UnstableSwitches() != 0 || sim.Rejected() != 0 {
			t.Fatalf("%s: unstable=%d rejected=%d", name, sim.UnstableSwitches(), sim.Rejected())
		}
		if d.Unlocked(cmu.GroupClock) || d.Unlocked(cmu.GroupHRCTrim) {
			t.Fatalf("%s: protect group left open", name)
		}
	}
}

func TestApplyHRCThenBackToLowPower(t *testing.T) {
	sim := cmusim.New()
	d := cmu.New(sim, cmu.DefaultConfig())

	hrc, _ := Embedded("hrc32")
	if err := hrc.Apply(d); err != nil {
		t.Fatal(err)
	}
	low, _ := Embedded("lowpower")
	if err := low.Apply(d); err != nil {
		t.Fatal(err)
	}
	if d.Running(cmu.SourceHRC) || d.Running(cmu.SourceXtal) {
		t.Fatal("oscillators left running")
	}
	if d.PeriphClocks() != 0 || d.SysClockHz() != cmu.LRCHz {
		t.Fatalf("gates=%#x sys=%d", d.PeriphClocks(), d.SysClockHz())
	}
}

func TestApplyXtalTimeoutKeepsSource(t *testing.T) {
	sim := cmusim.New()
	sim.RemoveXtal()
	d := cmu.New(sim, cmu.DefaultConfig())

	prog, _ := Embedded("evb-xtal8")
	prog.WaitPolls = 50
	err := prog.Apply(d)

	var se *StepError
	if !errors.As(err, &se) || se.Step != "xtal wait" {
		t.Fatalf("got %v", err)
	}
	if errcode.Of(err) != errcode.Timeout {
		t.Fatalf("code %q", errcode.Of(err))
	}
	if d.Source() != cmu.SourceLRC || d.FailureDetect().Enable {
		t.Fatal("plan continued past the failed wait")
	}
}

func TestDividerRaisedBeforeFasterSource(t *testing.T) {
	rec := &orderRegs{Registers: cmusim.New()}
	d := cmu.New(rec, cmu.DefaultConfig())

	prog := Program{
		Board:  cmu.DefaultConfig(),
		HRC:    &cmu.HRCConfig{State: cmu.OscOn, Freq: cmu.HRCDiv1},
		Switch: cmu.SwitchState{Source: cmu.SourceHRC, SysDiv: cmu.SysDiv2},
	}
	if err := prog.Apply(d); err != nil {
		t.Fatal(err)
	}
	if want := []cmu.Reg{cmu.RegSCKDIVR, cmu.RegCKSWR}; !reflect.DeepEqual(rec.order[:2], want) {
		t.Fatalf("speeding up: order %v", rec.order)
	}

	rec.order = nil
	back := Program{
		Board:  cmu.DefaultConfig(),
		Switch: cmu.SwitchState{Source: cmu.SourceLRC},
	}
	if err := back.Apply(d); err != nil {
		t.Fatal(err)
	}
	if want := []cmu.Reg{cmu.RegCKSWR, cmu.RegSCKDIVR}; !reflect.DeepEqual(rec.order[:2], want) {
		t.Fatalf("slowing down: order %v", rec.order)
	}
}

type orderRegs struct {
	cmu.Registers
	order []cmu.Reg
}

func (o *orderRegs) Write(r cmu.Reg, v uint32) {
	if r == cmu.RegSCKDIVR || r == cmu.RegCKSWR {
		o.order = append(o.order, r)
	}
	o.Registers.Write(r, v)
}

func TestValidateRejectsStoppedSource(t *testing.T) {
	prog := Program{
		Board:  cmu.DefaultConfig(),
		HRC:    &cmu.HRCConfig{State: cmu.OscOff},
		Switch: cmu.SwitchState{Source: cmu.SourceHRC},
	}
	if err := prog.Validate(); !errors.Is(err, ErrStopsSource) {
		t.Fatalf("got %v", err)
	}
}

func TestBuildErrors(t *testing.T) {
	cases := map[string]string{
		"unknown key":  "source: lrc\nbogus: 1\n",
		"bad source":   "source: pll\n",
		"bad drive":    "source: lrc\nxtal: {state: on, drive: max}\n",
		"super drive":  "source: lrc\nxtal: {state: on, drive: low, super_drive: true}\n",
		"bad stb":      "source: lrc\nxtal: {state: on, stb_cycles: 4096}\n",
		"bad hrc hz":   "source: lrc\nhrc: {state: on, hz: 5000000}\n",
		"reset mode":   "source: lrc\nfailure_detect: {enable: true, reset: true}\n",
		"bus div":      "source: lrc\nbus_div: 64\n",
		"periph":       "source: lrc\nperiph: [usb]\n",
		"mco div":      "source: lrc\nmco: {source: hrc, div: 3}\n",
		"stops source": "source: hrc\nhrc: {state: off}\n",
		"empty":        "",
	}
	for name, doc := range cases {
		p, err := Parse([]byte(doc))
		if err == nil {
			_, err = p.Build()
		}
		if err == nil {
			t.Fatalf("%s: accepted", name)
		}
		if name != "unknown key" && errcode.Of(err) != errcode.InvalidConfig {
			t.Fatalf("%s: code %q (%v)", name, errcode.Of(err), err)
		}
	}
}

func TestBuildPicksSysDivFromMax(t *testing.T) {
	p, err := Parse([]byte("hrc_high_range: true\nhrc: {state: on, hz: 48000000}\nsource: hrc\nmax_sys_hz: 20000000\n"))
	if err != nil {
		t.Fatal(err)
	}
	prog, err := p.Build()
	if err != nil {
		t.Fatal(err)
	}
	if prog.Switch.SysDiv != cmu.SysDiv4 {
		t.Fatalf("sys div %d", prog.Switch.SysDiv)
	}
}
