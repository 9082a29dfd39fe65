package bridge

import (
	"bufio"
	"bytes"
	"io"

	"clocktree-go/drivers/cmu"
	"clocktree-go/errcode"
	"clocktree-go/x/conv"
)

// Serial drives a regmon monitor over a byte stream (a UART, a pipe).
//
//	r RR            -> VVVVVVVV
//	w RR VVVVVVVV   -> ok
//	any failure     -> !message
type Serial struct {
	w   io.Writer
	br  *bufio.Reader
	err error

	buf [16]byte
	tmp [8]byte
}

func NewSerial(rw io.ReadWriter) *Serial {
	return &Serial{w: rw, br: bufio.NewReader(rw)}
}

func (s *Serial) Read(r cmu.Reg) uint32 {
	if s.err != nil {
		return 0
	}
	line := append(s.buf[:0], 'r', ' ')
	line = append(line, conv.U8Hex(s.tmp[:2], uint8(r))...)
	line = append(line, '\n')
	reply, ok := s.roundTrip("serial read", line)
	if !ok {
		return 0
	}
	v, ok := conv.ParseHex32(reply)
	if !ok {
		s.err = errcode.New(errcode.BusError, "serial read", "malformed reply "+string(reply))
		return 0
	}
	return v
}

func (s *Serial) Write(r cmu.Reg, v uint32) {
	if s.err != nil {
		return
	}
	line := append(s.buf[:0], 'w', ' ')
	line = append(line, conv.U8Hex(s.tmp[:2], uint8(r))...)
	line = append(line, ' ')
	line = append(line, conv.U32Hex(s.tmp[:8], v)...)
	line = append(line, '\n')
	reply, ok := s.roundTrip("serial write", line)
	if ok && string(reply) != "ok" {
		s.err = errcode.New(errcode.BusError, "serial write", "unexpected reply "+string(reply))
	}
}

// Err returns the latched transport or monitor error, nil if none.
func (s *Serial) Err() error { return s.err }

// Reset clears the latched error.
func (s *Serial) Reset() { s.err = nil }

func (s *Serial) roundTrip(op string, line []byte) ([]byte, bool) {
	if _, err := s.w.Write(line); err != nil {
		s.err = &errcode.E{C: errcode.BusError, Op: op, Msg: err.Error(), Err: err}
		return nil, false
	}
	reply, err := s.br.ReadBytes('\n')
	if err != nil {
		s.err = &errcode.E{C: errcode.BusError, Op: op, Msg: err.Error(), Err: err}
		return nil, false
	}
	reply = bytes.TrimRight(reply, "\r\n")
	if len(reply) > 0 && reply[0] == '!' {
		s.err = errcode.New(errcode.BusError, op, string(reply[1:]))
		return nil, false
	}
	return reply, true
}
