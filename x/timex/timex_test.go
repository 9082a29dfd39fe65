package timex

import "testing"

func TestPeriodFromHz(t *testing.T) {
	cases := map[uint32]uint64{
		0:          1_000_000_000,
		1:          1_000_000_000,
		32_768:     30_517,
		8_000_000:  125,
		32_000_000: 31,
	}
	for hz, want := range cases {
		if got := PeriodFromHz(hz); got != want {
			t.Fatalf("PeriodFromHz(%d) = %d, want %d", hz, got, want)
		}
	}
}

func TestCyclesToNs(t *testing.T) {
	cases := []struct {
		cycles, hz uint32
		want       uint64
	}{
		{8192, 8_000_000, 1_024_000},
		{131072, 32_768, 4_000_000_000},
		{3, 32_000_000, 94},
		{1, 0, 1_000_000_000},
	}
	for _, c := range cases {
		if got := CyclesToNs(c.cycles, c.hz); got != c.want {
			t.Fatalf("CyclesToNs(%d, %d) = %d, want %d", c.cycles, c.hz, got, c.want)
		}
	}
}
