// Package fmtx is the fmt subset used by code that also runs on the part.
// Host builds delegate to fmt; hc32m120 builds use the small printer below,
// which knows %s %q %d %x %t %v %w %% with an optional '-' flag and width.
package fmtx

import (
	"unicode/utf8"

	"clocktree-go/x/strconvx"
)

type stringer interface{ String() string }

type builder struct{ buf []byte }

func (b *builder) str(s string) { b.buf = append(b.buf, s...) }

func (b *builder) pad(n int) {
	for ; n > 0; n-- {
		b.buf = append(b.buf, ' ')
	}
}

func sprintf(format string, a ...any) string {
	var b builder
	b.format(format, a)
	return string(b.buf)
}

type wrapError struct {
	msg string
	err error
}

func (e *wrapError) Error() string { return e.msg }
func (e *wrapError) Unwrap() error { return e.err }

type wrapErrors struct {
	msg  string
	errs []error
}

func (e *wrapErrors) Error() string   { return e.msg }
func (e *wrapErrors) Unwrap() []error { return e.errs }

type plainError struct{ s string }

func (e *plainError) Error() string { return e.s }

func errorf(format string, a ...any) error {
	var b builder
	wrapped := b.format(format, a)
	msg := string(b.buf)
	switch len(wrapped) {
	case 0:
		return &plainError{msg}
	case 1:
		return &wrapError{msg, wrapped[0]}
	}
	return &wrapErrors{msg, wrapped}
}

// format appends the formatted text and returns the %w operands.
func (b *builder) format(format string, args []any) (wrapped []error) {
	ai := 0
	for i := 0; i < len(format); {
		c := format[i]
		if c != '%' {
			b.buf = append(b.buf, c)
			i++
			continue
		}
		i++
		left := false
		for i < len(format) && format[i] == '-' {
			left = true
			i++
		}
		width := 0
		for i < len(format) && '0' <= format[i] && format[i] <= '9' {
			width = width*10 + int(format[i]-'0')
			i++
		}
		if i >= len(format) {
			b.str("%!(NOVERB)")
			break
		}
		verb := format[i]
		i++
		if verb == '%' {
			b.buf = append(b.buf, '%')
			continue
		}
		if ai >= len(args) {
			b.str("%!")
			b.buf = append(b.buf, verb)
			b.str("(MISSING)")
			continue
		}
		arg := args[ai]
		ai++
		if verb == 'w' {
			if err, ok := arg.(error); ok {
				wrapped = append(wrapped, err)
			}
			verb = 'v'
		}
		s := text(arg, verb)
		if n := width - utf8.RuneCountInString(s); n > 0 && !left {
			b.pad(n)
		}
		b.str(s)
		if n := width - utf8.RuneCountInString(s); n > 0 && left {
			b.pad(n)
		}
	}
	if ai < len(args) {
		b.str("%!(EXTRA)")
	}
	return wrapped
}

func text(arg any, verb byte) string {
	switch verb {
	case 's', 'v', 'q':
		var s string
		switch x := arg.(type) {
		case nil:
			return "<nil>"
		case error:
			s = x.Error()
		case stringer:
			s = x.String()
		case string:
			s = x
		case []byte:
			s = string(x)
		default:
			if verb == 'q' {
				return bad(verb)
			}
			return number(arg, 10)
		}
		if verb == 'q' {
			return quote(s)
		}
		return s
	case 'd':
		return number(arg, 10)
	case 'x':
		return number(arg, 16)
	case 't':
		if v, ok := arg.(bool); ok {
			return boolText(v)
		}
	}
	return bad(verb)
}

func bad(verb byte) string { return "%!" + string(rune(verb)) + "(?)" }

func boolText(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

func number(arg any, base int) string {
	var u uint64
	neg := false
	switch x := arg.(type) {
	case bool:
		if base == 10 {
			return boolText(x)
		}
		return "%!x(?)"
	case int:
		neg, u = x < 0, abs(int64(x))
	case int8:
		neg, u = x < 0, abs(int64(x))
	case int16:
		neg, u = x < 0, abs(int64(x))
	case int32:
		neg, u = x < 0, abs(int64(x))
	case int64:
		neg, u = x < 0, abs(x)
	case uint:
		u = uint64(x)
	case uint8:
		u = uint64(x)
	case uint16:
		u = uint64(x)
	case uint32:
		u = uint64(x)
	case uint64:
		u = x
	case uintptr:
		u = uint64(x)
	default:
		return "%!d(?)"
	}
	s := strconvx.FormatUint(u, base)
	if neg {
		return "-" + s
	}
	return s
}

func abs(v int64) uint64 {
	if v < 0 {
		return uint64(-v)
	}
	return uint64(v)
}

const hex = "0123456789abcdef"

// quote escapes quotes, backslashes and control bytes; other bytes pass
// through unchanged.
func quote(s string) string {
	out := make([]byte, 0, len(s)+2)
	out = append(out, '"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\\', '"':
			out = append(out, '\\', c)
		case '\n':
			out = append(out, '\\', 'n')
		case '\r':
			out = append(out, '\\', 'r')
		case '\t':
			out = append(out, '\\', 't')
		default:
			if c < 0x20 || c == 0x7f {
				out = append(out, '\\', 'x', hex[c>>4], hex[c&0xf])
				continue
			}
			out = append(out, c)
		}
	}
	return string(append(out, '"'))
}
