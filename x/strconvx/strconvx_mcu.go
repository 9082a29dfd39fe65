//go:build hc32m120

package strconvx

func FormatUint(u uint64, base int) string { return formatUint(u, base) }
func ParseBool(s string) (bool, error)     { return parseBool(s) }
func ParseUint(s string, base, bitSize int) (uint64, error) {
	return parseUint(s, base, bitSize)
}
