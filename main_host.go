//go:build !hc32m120

package main

import "clocktree-go/drivers/cmu/cmusim"

// Host build: boot the same program against the simulator.
func main() {
	report(bringUp(cmusim.New()))
}
