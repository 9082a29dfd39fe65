//go:build hc32m120

package fmtx

import "io"

func Sprintf(format string, a ...any) string { return sprintf(format, a...) }

func Fprintf(w io.Writer, format string, a ...any) (int, error) {
	return w.Write([]byte(sprintf(format, a...)))
}

func Errorf(format string, a ...any) error { return errorf(format, a...) }
