// cmd/clkctl/main.go
//
// clkctl drives an HC32M120 clock tree from a host: against the built-in
// simulator by default, or against a live part through the register monitor
// on a serial port (--port).
package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
)

var (
	globalOpts = struct {
		port        string
		baud        int
		xtalHz      uint32
		hrcHigh     bool
		icgFile     string
		stableAfter uint32
	}{}

	rootCmd = &cobra.Command{
		Use:           "clkctl",
		Short:         "Configure and inspect the HC32M120 clock tree",
		Long:          "Apply clock plans, run shell scripts and inspect ICG words against a simulated or serial-attached HC32M120.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&globalOpts.port, "port", "p", "", "Serial port of a board running the register monitor. Default: simulator")
	pf.IntVarP(&globalOpts.baud, "baud", "B", 115200, "Serial baud rate")
	pf.Uint32Var(&globalOpts.xtalHz, "xtal-hz", 8_000_000, "Crystal frequency on the XTAL pins")
	pf.BoolVar(&globalOpts.hrcHigh, "hrc-high", false, "HRC runs on the 48 MHz range")
	pf.StringVar(&globalOpts.icgFile, "icg", "", "Take the HRC range from the ICG words of this Intel HEX image")
	pf.Uint32Var(&globalOpts.stableAfter, "sim-stable", 64, "Simulator: status reads before a started oscillator reports stable")

	rootCmd.AddCommand(runCmd, plansCmd, icgCmd, scriptCmd, consoleCmd, serveCmd)
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("clkctl: ")
	if err := rootCmd.Execute(); err != nil {
		log.Println(describe(err))
		os.Exit(1)
	}
}
