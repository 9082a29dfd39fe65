package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.bug.st/serial"

	"clocktree-go/drivers/cmu"
	"clocktree-go/drivers/cmu/cmusim"
	"clocktree-go/services/regmon"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a simulated clock tree on a serial port",
	Long:  "Run the register monitor over --port with the simulator behind it, so a second clkctl (or a board test rig) can attach through a null-modem pair.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if globalOpts.port == "" {
			return errors.New("serve needs --port")
		}
		p, err := serial.Open(globalOpts.port, &serial.Mode{BaudRate: globalOpts.baud})
		if err != nil {
			return err
		}

		sim := cmusim.New()
		sim.SetStableAfter(cmu.SourceHRC, globalOpts.stableAfter)
		sim.SetStableAfter(cmu.SourceXtal, globalOpts.stableAfter)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		// Closing the port is the only way to unblock a pending read.
		go func() {
			<-ctx.Done()
			p.Close()
		}()

		log.Printf("serving simulated CMU on %s at %d baud", globalOpts.port, globalOpts.baud)
		err = regmon.Serve(ctx, p, sim)
		log.Printf("stopped after %d register writes", sim.TotalWrites())
		if ctx.Err() != nil {
			return nil
		}
		return err
	},
}
