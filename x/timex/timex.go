package timex

// PeriodFromHz returns a nanosecond period for a requested frequency.
// freqHz==0 is coerced to 1 to avoid division by zero.
func PeriodFromHz(freqHz uint32) uint64 {
	if freqHz == 0 {
		freqHz = 1
	}
	return uint64(1_000_000_000 / uint64(freqHz))
}

// CyclesToNs returns how long cycles ticks of a freqHz clock take, rounded
// up. freqHz==0 is coerced to 1.
func CyclesToNs(cycles, freqHz uint32) uint64 {
	if freqHz == 0 {
		freqHz = 1
	}
	n := uint64(cycles) * 1_000_000_000
	return (n + uint64(freqHz) - 1) / uint64(freqHz)
}
