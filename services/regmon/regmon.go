// Package regmon serves the clock registers over a byte stream so a host can
// peek and poke them (see bridge.Serial for the client).
//
//	r RR            -> VVVVVVVV
//	w RR VVVVVVVV   -> ok
//	anything else   -> !message
//
// RR and VVVVVVVV are hex. Register indices follow cmu.Reg. Writes go to the
// block verbatim: protection keys are the client's job.
package regmon

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"

	"clocktree-go/drivers/cmu"
	"clocktree-go/x/conv"
)

// Serve answers requests on rw until EOF or ctx is cancelled. ctx is checked
// between lines. io.EOF is a clean shutdown and returns nil.
func Serve(ctx context.Context, rw io.ReadWriter, regs cmu.Registers) error {
	br := bufio.NewReader(rw)
	var out [16]byte
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := br.ReadBytes('\n')
		if len(line) > 0 {
			reply := Handle(out[:0], bytes.TrimRight(line, "\r\n"), regs)
			if _, werr := rw.Write(append(reply, '\n')); werr != nil {
				return werr
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// Handle executes one request line and appends the reply (without newline)
// to dst.
func Handle(dst, line []byte, regs cmu.Registers) []byte {
	f := bytes.Fields(line)
	if len(f) == 0 {
		return append(dst, "!empty"...)
	}
	switch {
	case string(f[0]) == "r" && len(f) == 2:
		r, ok := parseReg(f[1])
		if !ok {
			return append(dst, "!bad register"...)
		}
		var tmp [8]byte
		return append(dst, conv.U32Hex(tmp[:], regs.Read(r))...)
	case string(f[0]) == "w" && len(f) == 3:
		r, ok := parseReg(f[1])
		if !ok {
			return append(dst, "!bad register"...)
		}
		v, ok := conv.ParseHex32(f[2])
		if !ok {
			return append(dst, "!bad value"...)
		}
		regs.Write(r, v)
		return append(dst, "ok"...)
	}
	return append(dst, "!bad request"...)
}

func parseReg(b []byte) (cmu.Reg, bool) {
	v, ok := conv.ParseHex32(b)
	if !ok || v >= uint32(cmu.NumRegs) {
		return 0, false
	}
	return cmu.Reg(v), true
}
