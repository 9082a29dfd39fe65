package strconvx

// Small replacements for the strconv subset the shell uses, for targets that
// do not link strconv. Supported bases: 2..36, or 0 to take the base from a
// 0x / 0b / 0o / 0 prefix. Digit separators are not accepted.

// NumError mirrors strconv.NumError.
type NumError struct {
	Func string
	Num  string
	Err  error
}

func (e *NumError) Error() string {
	return "strconvx." + e.Func + ": parsing \"" + e.Num + "\": " + e.Err.Error()
}

func (e *NumError) Unwrap() error { return e.Err }

type errString string

func (e errString) Error() string { return string(e) }

var (
	ErrSyntax error = errString("invalid syntax")
	ErrRange  error = errString("value out of range")
)

const digits = "0123456789abcdefghijklmnopqrstuvwxyz"

func formatUint(u uint64, base int) string {
	if base < 2 || base > 36 {
		base = 10
	}
	if u == 0 {
		return "0"
	}
	var buf [64]byte
	i := len(buf)
	b := uint64(base)
	for u > 0 {
		i--
		buf[i] = digits[u%b]
		u /= b
	}
	return string(buf[i:])
}

func parseBool(s string) (bool, error) {
	switch s {
	case "1", "t", "T", "true", "TRUE", "True":
		return true, nil
	case "0", "f", "F", "false", "FALSE", "False":
		return false, nil
	}
	return false, &NumError{"ParseBool", s, ErrSyntax}
}

func parseUint(s string, base, bitSize int) (uint64, error) {
	const fn = "ParseUint"
	orig := s
	if s == "" {
		return 0, &NumError{fn, orig, ErrSyntax}
	}
	if base == 0 {
		base = detectBase(&s)
	} else if base < 2 || base > 36 {
		return 0, &NumError{fn, orig, errString("invalid base " + formatUint(uint64(base), 10))}
	}
	if s == "" {
		return 0, &NumError{fn, orig, ErrSyntax}
	}
	if bitSize == 0 {
		bitSize = 64
	} else if bitSize < 0 || bitSize > 64 {
		return 0, &NumError{fn, orig, errString("invalid bit size " + formatUint(uint64(bitSize), 10))}
	}
	maxVal := uint64(1)<<uint(bitSize) - 1
	if bitSize == 64 {
		maxVal = ^uint64(0)
	}
	b := uint64(base)
	cutoff := ^uint64(0)/b + 1

	var n uint64
	for i := 0; i < len(s); i++ {
		c := s[i]
		var d uint64
		switch {
		case '0' <= c && c <= '9':
			d = uint64(c - '0')
		case 'a' <= c && c <= 'z':
			d = uint64(c-'a') + 10
		case 'A' <= c && c <= 'Z':
			d = uint64(c-'A') + 10
		default:
			return 0, &NumError{fn, orig, ErrSyntax}
		}
		if d >= b {
			return 0, &NumError{fn, orig, ErrSyntax}
		}
		if n >= cutoff {
			return maxVal, &NumError{fn, orig, ErrRange}
		}
		n *= b
		n1 := n + d
		if n1 < n || n1 > maxVal {
			return maxVal, &NumError{fn, orig, ErrRange}
		}
		n = n1
	}
	return n, nil
}

// detectBase strips a base prefix from *ps and returns the base it names.
// A bare leading 0 selects octal.
func detectBase(ps *string) int {
	s := *ps
	if len(s) < 2 || s[0] != '0' {
		return 10
	}
	switch s[1] {
	case 'x', 'X':
		*ps = s[2:]
		return 16
	case 'b', 'B':
		*ps = s[2:]
		return 2
	case 'o', 'O':
		*ps = s[2:]
		return 8
	}
	*ps = s[1:]
	return 8
}
