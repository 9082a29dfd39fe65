//go:build !hc32m120

package strconvx

import "strconv"

// Signature parity with strconv; delegate straight through.

func FormatUint(u uint64, base int) string { return strconv.FormatUint(u, base) }
func ParseBool(s string) (bool, error)     { return strconv.ParseBool(s) }
func ParseUint(s string, base, bitSize int) (uint64, error) {
	return strconv.ParseUint(s, base, bitSize)
}
