//go:build hc32m120

package main

import (
	"time"

	"clocktree-go/drivers/cmu"
)

func main() {
	dev := bringUp(cmu.MMIO{})
	report(dev)

	// Periodic failure check.
	tick := time.NewTicker(1 * time.Second)
	defer tick.Stop()
	for range tick.C {
		if dev.FailureFlag() {
			println("clock: xtal failure, source", dev.Source().String())
			dev.ClearFailureFlag()
		}
	}
}
