package main

import (
	"fmt"
	"log"
	"os"

	"go.bug.st/serial"

	"clocktree-go/drivers/cmu"
	"clocktree-go/drivers/cmu/bridge"
	"clocktree-go/drivers/cmu/cmusim"
	"clocktree-go/errcode"
	"clocktree-go/tools/icg"
)

// target is the device a command talks to plus whatever backs it.
type target struct {
	dev  *cmu.Device
	sim  *cmusim.Sim    // nil on a serial link
	link *bridge.Serial // nil on the simulator
	port serial.Port
}

// boardConfig merges the board flags with an optional ICG image.
func boardConfig() (cmu.Config, error) {
	cfg := cmu.Config{XtalHz: globalOpts.xtalHz, HRCHighRange: globalOpts.hrcHigh}
	if globalOpts.icgFile == "" {
		return cfg, cfg.Validate()
	}
	f, err := os.Open(globalOpts.icgFile)
	if err != nil {
		return cfg, err
	}
	defer f.Close()
	im, err := icg.Decode(f)
	if err != nil {
		return cfg, fmt.Errorf("%s: %w", globalOpts.icgFile, err)
	}
	cfg = im.Config(globalOpts.xtalHz)
	return cfg, cfg.Validate()
}

func openTarget(cfg cmu.Config) (*target, error) {
	if globalOpts.port == "" {
		sim := cmusim.New()
		sim.SetStableAfter(cmu.SourceHRC, globalOpts.stableAfter)
		sim.SetStableAfter(cmu.SourceXtal, globalOpts.stableAfter)
		return &target{dev: cmu.New(sim, cfg), sim: sim}, nil
	}

	p, err := serial.Open(globalOpts.port, &serial.Mode{BaudRate: globalOpts.baud})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", globalOpts.port, err)
	}
	log.Printf("attached to %s at %d baud", globalOpts.port, globalOpts.baud)
	link := bridge.NewSerial(p)
	return &target{dev: cmu.New(link, cfg), link: link, port: p}, nil
}

// check surfaces a transport failure that the register interface latched.
func (t *target) check() error {
	if t.link == nil {
		return nil
	}
	return t.link.Err()
}

func (t *target) Close() error {
	if t.port == nil {
		return nil
	}
	return t.port.Close()
}

// describe renders an error with its stable code.
func describe(err error) string {
	return fmt.Sprintf("%v [%s]", err, errcode.Of(err))
}
