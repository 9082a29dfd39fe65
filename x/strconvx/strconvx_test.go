package strconvx

import (
	"errors"
	"strconv"
	"testing"
)

func TestParseUintMatchesStrconv(t *testing.T) {
	type C struct {
		s       string
		base    int
		bitSize int
	}
	for _, c := range []C{
		{"0", 0, 32},
		{"8192", 0, 32},
		{"0x10", 0, 32},
		{"0XfF", 0, 32},
		{"0b101", 0, 32},
		{"0o77", 0, 32},
		{"075", 0, 32},
		{"4294967295", 0, 32},
		{"4294967296", 0, 32},
		{"18446744073709551615", 10, 64},
		{"18446744073709551616", 10, 64},
		{"zz", 36, 16},
		{"FF", 16, 8},
		{"100", 16, 8},
		{"08", 0, 32},
		{"0x", 0, 32},
		{"", 10, 32},
		{"-1", 10, 32},
		{"12a", 10, 32},
		{" 1", 10, 32},
	} {
		want, werr := strconv.ParseUint(c.s, c.base, c.bitSize)
		got, gerr := parseUint(c.s, c.base, c.bitSize)
		if got != want || (gerr == nil) != (werr == nil) {
			t.Fatalf("parseUint(%q,%d,%d) = %d,%v want %d,%v", c.s, c.base, c.bitSize, got, gerr, want, werr)
		}
		if werr != nil {
			var ne *NumError
			if !errors.As(gerr, &ne) {
				t.Fatalf("parseUint(%q): error %T is not *NumError", c.s, gerr)
			}
			if errors.Is(werr, strconv.ErrRange) != errors.Is(gerr, ErrRange) {
				t.Fatalf("parseUint(%q): range error mismatch: %v vs %v", c.s, gerr, werr)
			}
		}
	}
}

func TestParseBoolMatchesStrconv(t *testing.T) {
	for _, s := range []string{"1", "t", "T", "true", "TRUE", "True", "0", "f", "F", "false", "FALSE", "False", "yes", "", "tRuE"} {
		want, werr := strconv.ParseBool(s)
		got, gerr := parseBool(s)
		if got != want || (gerr == nil) != (werr == nil) {
			t.Fatalf("parseBool(%q) = %t,%v want %t,%v", s, got, gerr, want, werr)
		}
	}
}

func TestFormatUintMatchesStrconv(t *testing.T) {
	type C struct {
		u    uint64
		base int
	}
	for _, c := range []C{{0, 10}, {5, 2}, {255, 16}, {35, 36}, {1_024_000, 10}, {^uint64(0), 10}, {^uint64(0), 16}} {
		if got, want := formatUint(c.u, c.base), strconv.FormatUint(c.u, c.base); got != want {
			t.Fatalf("formatUint(%d,%d) = %q, want %q", c.u, c.base, got, want)
		}
	}
}

func TestExportedParse(t *testing.T) {
	n, err := ParseUint("0x20", 0, 32)
	if err != nil || n != 32 {
		t.Fatalf("ParseUint: %d %v", n, err)
	}
	if b, err := ParseBool("true"); err != nil || !b {
		t.Fatalf("ParseBool: %t %v", b, err)
	}
	if _, err := ParseUint("x", 10, 32); err == nil {
		t.Fatalf("ParseUint(x) should fail")
	}
}
