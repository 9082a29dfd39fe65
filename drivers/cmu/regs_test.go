package cmu

import "testing"

// ---- fakes ----

type write struct {
	r Reg
	v uint32
}

// fakeRegs stores every write verbatim and keeps a log.
type fakeRegs struct {
	v   [NumRegs]uint32
	log []write
}

func (f *fakeRegs) Read(r Reg) uint32     { return f.v[r] }
func (f *fakeRegs) Write(r Reg, v uint32) { f.v[r] = v; f.log = append(f.log, write{r, v}) }

// ---- tests ----

func TestModifyAndReplaceTouchOnlyMask(t *testing.T) {
	f := &fakeRegs{}
	d := New(f, DefaultConfig())

	f.v[RegSCKDIVR] = 0x0735
	d.modify(RegSCKDIVR, 0x0008, 0x0001)
	if got := f.v[RegSCKDIVR]; got != 0x073C {
		t.Fatalf("modify: got %#04x want 0x073c", got)
	}
	d.replace(RegSCKDIVR, 0x0020, CMU_SCKDIVR_HCLKDIV_Msk)
	if got := f.v[RegSCKDIVR]; got != 0x072C {
		t.Fatalf("replace: got %#04x want 0x072c", got)
	}
	if len(f.log) != 2 {
		t.Fatalf("want one write per call, got %d", len(f.log))
	}
}

func TestUnlockLockKeySequences(t *testing.T) {
	f := &fakeRegs{}
	d := New(f, DefaultConfig())

	d.Unlock(GroupClock)
	d.Lock(GroupClock)
	d.Unlock(GroupHRCTrim)
	d.Lock(GroupHRCTrim)

	want := []write{
		{RegFPRC, 0xA501},
		{RegFPRC, 0xA500},
		{RegFAPRT, 0x0123},
		{RegFAPRT, 0x3210},
		{RegFAPRT, 0x0000},
	}
	if len(f.log) != len(want) {
		t.Fatalf("writes: got %v want %v", f.log, want)
	}
	for i := range want {
		if f.log[i] != want[i] {
			t.Fatalf("write %d: got %s=%#x want %s=%#x", i, f.log[i].r, f.log[i].v, want[i].r, want[i].v)
		}
	}
}

func TestLockPreservesSentinelBits(t *testing.T) {
	f := &fakeRegs{}
	d := New(f, DefaultConfig())

	sentinel := uint32(PWC_FPRC_FPRCB1 | PWC_FPRC_FPRCB3)
	f.v[RegFPRC] = sentinel
	d.Unlock(GroupClock)
	if !d.Unlocked(GroupClock) {
		t.Fatal("clock group still locked")
	}
	d.Lock(GroupClock)
	if d.Unlocked(GroupClock) {
		t.Fatal("clock group still open")
	}
	if got := f.v[RegFPRC] &^ PWC_FPRC_KEY_Msk; got != sentinel {
		t.Fatalf("FPRC low byte: got %#x want %#x", got, sentinel)
	}
	for _, w := range f.log {
		if w.v&PWC_FPRC_KEY_Msk != PWC_FPRC_KEY {
			t.Fatalf("FPRC write without key: %#x", w.v)
		}
	}
}

func TestScopedUnlockRelocksOnValidationFailure(t *testing.T) {
	f := &fakeRegs{}
	d := New(f, DefaultConfig())

	if err := d.ConfigureFailureDetect(FailureDetectConfig{ResetEnable: true}); err != ErrResetNeedsResetMode {
		t.Fatalf("got %v want ErrResetNeedsResetMode", err)
	}
	if len(f.log) != 0 {
		t.Fatalf("rejected config wrote registers: %v", f.log)
	}

	d.ClearFailureFlag()
	if d.Unlocked(GroupClock) {
		t.Fatal("clock group left open")
	}
}
