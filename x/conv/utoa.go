package conv

// Utoa writes base-10 representation of n into buf and returns the used slice.
// buf should be length >= 20 for uint64.
func Utoa(buf []byte, n uint64) []byte {
	if len(buf) == 0 {
		return buf[:0]
	}
	i := len(buf)
	if n == 0 {
		i--
		buf[i] = '0'
	} else {
		for n > 0 && i > 0 {
			i--
			buf[i] = byte('0' + (n % 10))
			n /= 10
		}
	}
	return buf[i:]
}

// AppendHz appends hz in Hz, kHz or MHz with trailing zero decimals dropped:
// "48 MHz", "1.5 MHz", "32.768 kHz", "0 Hz".
func AppendHz(dst []byte, hz uint32) []byte {
	var tmp [20]byte
	unit, div, width := " Hz", uint32(1), 0
	switch {
	case hz >= 1_000_000:
		unit, div, width = " MHz", 1_000_000, 6
	case hz >= 1_000:
		unit, div, width = " kHz", 1_000, 3
	}
	dst = append(dst, Utoa(tmp[:], uint64(hz/div))...)
	if frac := hz % div; frac != 0 {
		f := Utoa(tmp[:], uint64(frac))
		dst = append(dst, '.')
		for i := len(f); i < width; i++ {
			dst = append(dst, '0')
		}
		for f[len(f)-1] == '0' {
			f = f[:len(f)-1]
		}
		dst = append(dst, f...)
	}
	return append(dst, unit...)
}
