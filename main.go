package main

import (
	"clocktree-go/drivers/cmu"
	"clocktree-go/services/clockplan"
	"clocktree-go/x/conv"
)

// Board program applied at boot.
const board = "evb-xtal8"

// bringUp applies the board program. On failure the tree is put back on the
// reset clock so the part keeps running on LRC.
func bringUp(regs cmu.Registers) *cmu.Device {
	prog, ok := clockplan.Embedded(board)
	if !ok {
		println("clock: no program", board)
		return cmu.New(regs, cmu.DefaultConfig())
	}
	dev := cmu.New(regs, prog.Board)
	if err := prog.Apply(dev); err != nil {
		println("clock:", err.Error())
		if err := dev.DeInit(); err != nil {
			println("clock: deinit:", err.Error())
		}
	}
	return dev
}

var line [64]byte

func hz(label string, v uint32) {
	println("clock:", label, string(conv.AppendHz(line[:0], v)))
}

func report(dev *cmu.Device) {
	f := dev.Frequencies()
	println("clock: source", f.Source.String())
	hz("src", f.SrcHz)
	hz("sys", f.SysHz)
	hz("bus", f.BusHz)
	hz("adc", f.ADCHz)
	if dev.FailureFlag() {
		println("clock: xtal failure flagged")
	}
}
