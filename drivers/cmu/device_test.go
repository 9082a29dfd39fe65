package cmu_test

import (
	"errors"
	"testing"

	"clocktree-go/drivers/cmu"
	"clocktree-go/drivers/cmu/cmusim"
	"clocktree-go/errcode"
)

func newDevice(t *testing.T) (*cmu.Device, *cmusim.Sim) {
	t.Helper()
	sim := cmusim.New()
	return cmu.New(sim, cmu.Config{XtalHz: 8_000_000}), sim
}

func TestPowerOnState(t *testing.T) {
	d, _ := newDevice(t)

	s := d.Snapshot()
	if s.Switch != cmu.DefaultSwitchState() {
		t.Fatalf("switch: got %+v", s.Switch)
	}
	if s.Xtal != cmu.DefaultXtalConfig() {
		t.Fatalf("xtal: got %+v want %+v", s.Xtal, cmu.DefaultXtalConfig())
	}
	if s.HRC != cmu.DefaultHRCConfig() || s.LRC != cmu.DefaultLRCConfig() {
		t.Fatalf("rc: got %+v %+v", s.HRC, s.LRC)
	}
	if s.Std != cmu.DefaultFailureDetectConfig() {
		t.Fatalf("std: got %+v", s.Std)
	}
	if got := d.SysClockHz(); got != cmu.LRCHz {
		t.Fatalf("sysclk: got %d want %d", got, cmu.LRCHz)
	}
	if d.Unlocked(cmu.GroupClock) || d.Unlocked(cmu.GroupHRCTrim) {
		t.Fatal("protect groups open at reset")
	}
}

func TestConfigureXtalRoundTripKeepsOtherBits(t *testing.T) {
	drives := []cmu.XtalDrive{cmu.DriveHigh, cmu.DriveMid, cmu.DriveLow, cmu.DriveUltraLow}
	modes := []cmu.XtalMode{cmu.ModeResonator, cmu.ModeExtClock}
	stbs := []cmu.XtalStb{cmu.Stb256, cmu.Stb2048, cmu.Stb8192, cmu.Stb131072}

	for _, drv := range drives {
		for _, mode := range modes {
			for _, stb := range stbs {
				d, sim := newDevice(t)
				// reserved bits outside the fields
				sim.Poke(cmu.RegXTALCFGR, 0x8F)
				sim.Poke(cmu.RegXTALSTBCR, 0xF8|0x05)

				cfg := cmu.XtalConfig{
					State:      cmu.OscOn,
					Drive:      drv,
					Mode:       mode,
					SuperDrive: drv == cmu.DriveHigh,
					Stb:        stb,
				}
				if err := d.ConfigureXtal(cfg); err != nil {
					t.Fatalf("%+v: %v", cfg, err)
				}
				if got := d.Snapshot().Xtal; got != cfg {
					t.Fatalf("round trip: got %+v want %+v", got, cfg)
				}
				if got := sim.Peek(cmu.RegXTALCFGR) & 0x0F; got != 0x0F {
					t.Fatalf("XTALCFGR reserved bits changed: %#x", got)
				}
				if got := sim.Peek(cmu.RegXTALSTBCR) & 0xF8; got != 0xF8 {
					t.Fatalf("XTALSTBCR reserved bits changed: %#x", got)
				}
				if sim.Rejected() != 0 {
					t.Fatalf("protected write rejected %d times", sim.Rejected())
				}
			}
		}
	}
}

func TestSuperDriveRequiresHighDrive(t *testing.T) {
	for _, drv := range []cmu.XtalDrive{cmu.DriveMid, cmu.DriveLow, cmu.DriveUltraLow} {
		d, sim := newDevice(t)
		before := sim.Image()

		err := d.ConfigureXtal(cmu.XtalConfig{State: cmu.OscOn, Drive: drv, SuperDrive: true, Stb: cmu.Stb8192})
		if !errors.Is(err, cmu.ErrSuperDriveNotHigh) {
			t.Fatalf("drive %s: got %v", drv, err)
		}
		if errcode.Of(err) != errcode.InvalidConfig {
			t.Fatalf("code: got %q", errcode.Of(err))
		}
		if sim.Image() != before || sim.TotalWrites() != 0 {
			t.Fatalf("drive %s: registers touched", drv)
		}
	}
}

func TestInvalidEnumsRejectedBeforeWrite(t *testing.T) {
	d, sim := newDevice(t)

	cases := map[string]error{
		"drive":  d.ConfigureXtal(cmu.XtalConfig{Drive: 9}),
		"stb":    d.ConfigureXtal(cmu.XtalConfig{Stb: 8}),
		"hrc":    d.ConfigureHRC(cmu.OscOn, 6),
		"state":  d.ConfigureLRC(2),
		"source": d.SetSource(3),
		"sysdiv": d.SetSysDiv(7),
		"busdiv": d.SetBusDiv(6),
		"mco":    d.ConfigureMCO(3, cmu.MCODiv1),
	}
	for name, err := range cases {
		if errcode.Of(err) != errcode.InvalidConfig {
			t.Fatalf("%s: got %v", name, err)
		}
	}
	if sim.TotalWrites() != 0 {
		t.Fatalf("invalid configs wrote %d registers", sim.TotalWrites())
	}
}

func TestWaitStableBoundary(t *testing.T) {
	const polls = 10
	cases := map[uint32]bool{
		0:  true,
		1:  true,
		5:  true,
		10: true,
		11: false,
		40: false,
	}
	for k, ok := range cases {
		d, sim := newDevice(t)
		sim.SetStableAfter(cmu.SourceXtal, k)
		if err := d.ConfigureXtal(cmu.XtalConfig{State: cmu.OscOn, Drive: cmu.DriveMid, Stb: cmu.Stb8192}); err != nil {
			t.Fatal(err)
		}
		err := d.WaitStable(cmu.SourceXtal, polls)
		if ok && err != nil {
			t.Fatalf("flag after %d reads, %d polls: %v", k, polls, err)
		}
		if !ok && !errors.Is(err, cmu.ErrTimeout) {
			t.Fatalf("flag after %d reads, %d polls: got %v want timeout", k, polls, err)
		}
	}
}

func TestWaitStableZeroPollsTimesOut(t *testing.T) {
	d, _ := newDevice(t)
	if err := d.WaitStable(cmu.SourceLRC, 0); errcode.Of(err) != errcode.Timeout {
		t.Fatalf("got %v", err)
	}
	if err := d.WaitStable(cmu.SourceLRC, 1); err != nil {
		t.Fatalf("running LRC: %v", err)
	}
}

func TestHRCNeedsTrimKey(t *testing.T) {
	d, sim := newDevice(t)
	sim.SetStableAfter(cmu.SourceHRC, 0)

	if err := d.ConfigureHRC(cmu.OscOn, cmu.HRCDiv4); err != nil {
		t.Fatal(err)
	}
	if sim.Rejected() != 0 {
		t.Fatalf("rejected %d writes", sim.Rejected())
	}
	if got := d.SourceHz(cmu.SourceHRC); got != 8_000_000 {
		t.Fatalf("hrc: got %d", got)
	}
	if !d.StableFlags().Has(cmu.StableHRC) {
		t.Fatal("HRC flag not set")
	}

	high := cmu.New(sim, cmu.Config{XtalHz: 8_000_000, HRCHighRange: true})
	if got := high.SourceHz(cmu.SourceHRC); got != 12_000_000 {
		t.Fatalf("hrc high range: got %d", got)
	}
}

func TestStoppingActiveSourceIsBusy(t *testing.T) {
	d, sim := newDevice(t)

	err := d.ConfigureLRC(cmu.OscOff)
	if !errors.Is(err, cmu.ErrOscInUse) || errcode.Of(err) != errcode.Busy {
		t.Fatalf("got %v", err)
	}
	if sim.TotalWrites() != 0 {
		t.Fatal("rejected stop wrote registers")
	}
}

func TestSetSourceDoesNotCheckStability(t *testing.T) {
	d, sim := newDevice(t)
	sim.RemoveXtal()
	if err := d.ConfigureXtal(cmu.XtalConfig{State: cmu.OscOn, Drive: cmu.DriveHigh, Stb: cmu.Stb8192}); err != nil {
		t.Fatal(err)
	}

	// SwitchTo waits and refuses.
	if err := d.SwitchTo(cmu.SourceXtal, 100); !errors.Is(err, cmu.ErrTimeout) {
		t.Fatalf("SwitchTo: got %v", err)
	}
	if d.Source() != cmu.SourceLRC {
		t.Fatal("SwitchTo changed source on timeout")
	}

	// SetSource is the bare write; the caller owns the wait.
	if err := d.SetSource(cmu.SourceXtal); err != nil {
		t.Fatal(err)
	}
	if d.Source() != cmu.SourceXtal {
		t.Fatal("source not switched")
	}
	if sim.UnstableSwitches() != 1 {
		t.Fatalf("unstable switches: got %d", sim.UnstableSwitches())
	}
}

func TestPeriphClocksIdempotentAndRestore(t *testing.T) {
	d, sim := newDevice(t)
	pre := uint32(cmu.PeriphADC|cmu.PeriphUART3) | 0x4000_0000 // reserved bit
	sim.Poke(cmu.RegFCG, pre)

	m := cmu.PeriphUART1 | cmu.PeriphTIMA | cmu.PeriphADC
	d.SetPeriphClocks(m, true)
	once := sim.Peek(cmu.RegFCG)
	d.SetPeriphClocks(m, true)
	if twice := sim.Peek(cmu.RegFCG); twice != once {
		t.Fatalf("not idempotent: %#x then %#x", once, twice)
	}
	if !d.PeriphClockEnabled(cmu.PeriphUART1 | cmu.PeriphTIMA) {
		t.Fatal("gates not open")
	}

	d.SetPeriphClocks(m, false)
	got := sim.Peek(cmu.RegFCG)
	if got&^uint32(m) != pre&^uint32(m) {
		t.Fatalf("bits outside mask changed: %#x want %#x", got, pre)
	}
	if got&uint32(m) != 0 {
		t.Fatalf("mask bits still set: %#x", got)
	}
	if got&0x4000_0000 == 0 {
		t.Fatal("reserved bit cleared")
	}
}

func TestMCOPreselectThenEnable(t *testing.T) {
	d, _ := newDevice(t)

	if err := d.ConfigureMCO(cmu.MCOLRC, cmu.MCODiv4); err != nil {
		t.Fatal(err)
	}
	if d.MCO().Enable {
		t.Fatal("configure enabled output")
	}
	if d.MCOHz() != 0 {
		t.Fatal("disabled output reports a frequency")
	}
	d.EnableMCO(true)
	if got := d.MCOHz(); got != cmu.LRCHz/4 {
		t.Fatalf("mco: got %d", got)
	}
	if err := d.ConfigureMCO(cmu.MCOSysClk, cmu.MCODiv1); err != nil {
		t.Fatal(err)
	}
	if got := d.MCO(); got != (cmu.MCOConfig{Source: cmu.MCOSysClk, Div: cmu.MCODiv1, Enable: true}) {
		t.Fatalf("reconfigure lost enable: %+v", got)
	}
}

func TestEndToEndLRCToXtal(t *testing.T) {
	d, sim := newDevice(t)
	sim.SetStableAfter(cmu.SourceXtal, 500)

	cfg := cmu.XtalConfig{State: cmu.OscOn, Drive: cmu.DriveMid, Mode: cmu.ModeResonator, Stb: cmu.Stb8192}
	if err := d.ConfigureXtal(cfg); err != nil {
		t.Fatal(err)
	}
	if err := d.WaitStable(cmu.SourceXtal, 20000); err != nil {
		t.Fatal(err)
	}
	if err := d.SetSource(cmu.SourceXtal); err != nil {
		t.Fatal(err)
	}
	if err := d.SetSysDiv(cmu.SysDiv4); err != nil {
		t.Fatal(err)
	}
	if got, want := d.SysClockHz(), uint32(8_000_000/4); got != want {
		t.Fatalf("sysclk: got %d want %d", got, want)
	}
	if sim.UnstableSwitches() != 0 || sim.Rejected() != 0 {
		t.Fatalf("unstable=%d rejected=%d", sim.UnstableSwitches(), sim.Rejected())
	}
	if d.Unlocked(cmu.GroupClock) {
		t.Fatal("clock group left open")
	}

	if err := d.SetBusDiv(cmu.BusDiv2); err != nil {
		t.Fatal(err)
	}
	f := d.Frequencies()
	if f.BusHz != 1_000_000 || f.ADCHz != 2_000_000 {
		t.Fatalf("frequencies: %+v", f)
	}
	if f.BusPeriodNs() != 1000 {
		t.Fatalf("bus period: %d", f.BusPeriodNs())
	}
	if ns := d.XtalStbNs(cfg.Stb); ns != 1_024_000 {
		t.Fatalf("stb wait: %d ns", ns)
	}
}

func TestFailureDetectResetCapable(t *testing.T) {
	d, sim := newDevice(t)

	cfg := cmu.FailureDetectConfig{Enable: true, Mode: cmu.StdReset, ResetEnable: true}
	if err := d.ConfigureFailureDetect(cfg); err != nil {
		t.Fatal(err)
	}
	if got := d.FailureDetect(); got != cfg {
		t.Fatalf("read back: %+v", got)
	}
	if w := sim.Writes(cmu.RegXTALSTDCR); w != 1 {
		t.Fatalf("XTALSTDCR writes: got %d want 1", w)
	}

	sim.SetFailureFlag()
	if !d.FailureFlag() {
		t.Fatal("flag not seen")
	}
	d.ClearFailureFlag()
	if d.FailureFlag() {
		t.Fatal("flag not cleared")
	}

	sim.FailXtal()
	if sim.Resets() != 1 || d.Source() != cmu.SourceLRC {
		t.Fatalf("resets=%d source=%s", sim.Resets(), d.Source())
	}
}

func TestFailureDetectInterruptMode(t *testing.T) {
	d, sim := newDevice(t)

	if err := d.ConfigureFailureDetect(cmu.FailureDetectConfig{Enable: true, InterruptEnable: true}); err != nil {
		t.Fatal(err)
	}
	sim.FailXtal()
	if !d.FailureFlag() || sim.Interrupts() != 1 || sim.Resets() != 0 {
		t.Fatalf("flag=%v irq=%d resets=%d", d.FailureFlag(), sim.Interrupts(), sim.Resets())
	}
}

func TestDeInitRestoresPowerOnImage(t *testing.T) {
	d, sim := newDevice(t)
	sim.SetStableAfter(cmu.SourceHRC, 0)

	if err := d.ConfigureHRC(cmu.OscOn, cmu.HRCDiv2); err != nil {
		t.Fatal(err)
	}
	if err := d.SwitchTo(cmu.SourceHRC, 10); err != nil {
		t.Fatal(err)
	}
	_ = d.SetSysDiv(cmu.SysDiv8)
	d.SetPeriphClocks(cmu.PeriphAll, true)
	_ = d.ConfigureMCO(cmu.MCOHRC, cmu.MCODiv2)
	d.EnableMCO(true)

	if err := d.DeInit(); err != nil {
		t.Fatal(err)
	}
	img := sim.Image()
	for r := cmu.Reg(0); r < cmu.NumRegs; r++ {
		if img[r] != cmu.PowerOnReset(r) {
			t.Fatalf("%s: got %#x want %#x", r, img[r], cmu.PowerOnReset(r))
		}
	}
}
