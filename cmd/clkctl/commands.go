package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"clocktree-go/services/clockplan"
	"clocktree-go/services/shell"
	"clocktree-go/tools/icg"
)

var (
	runOpts = struct {
		board string
		show  bool
	}{}

	runCmd = &cobra.Command{
		Use:   "run [plan.yaml]",
		Short: "Apply a clock plan",
		Long:  "Apply a YAML clock plan, or a built-in board program with --board, then print the resulting frequencies.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, err := loadProgram(args)
			if err != nil {
				return err
			}
			if globalOpts.icgFile != "" {
				cfg, err := boardConfig()
				if err != nil {
					return err
				}
				prog.Board.HRCHighRange = cfg.HRCHighRange
			}
			t, err := openTarget(prog.Board)
			if err != nil {
				return err
			}
			defer t.Close()

			out := cmd.OutOrStdout()
			applyErr := prog.Apply(t.dev)
			if err := t.check(); err != nil {
				return err
			}
			if applyErr != nil {
				return fmt.Errorf("%s: %w", prog.Name, applyErr)
			}
			fmt.Fprintf(out, "applied %s\n", prog.Name)
			sh := shell.New(t.dev, out)
			if err := sh.Exec("freq"); err != nil {
				return err
			}
			if runOpts.show {
				if err := sh.Exec("status"); err != nil {
					return err
				}
			}
			return t.check()
		},
	}

	plansCmd = &cobra.Command{
		Use:   "plans [name]",
		Short: "List built-in board programs or print one as YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				for _, n := range clockplan.EmbeddedNames() {
					fmt.Fprintln(out, n)
				}
				return nil
			}
			data, ok := clockplan.EmbeddedPlan(args[0])
			if !ok {
				return fmt.Errorf("no built-in plan %q", args[0])
			}
			_, err := out.Write(data)
			return err
		},
	}

	icgCmd = &cobra.Command{
		Use:   "icg <firmware.hex>",
		Short: "Decode the ICG words of an Intel HEX image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			im, err := icg.Decode(f)
			if err != nil {
				return err
			}
			printICG(cmd.OutOrStdout(), im)
			return nil
		},
	}

	scriptCmd = &cobra.Command{
		Use:   "script <file|->",
		Short: "Run shell commands from a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}
			cfg, err := boardConfig()
			if err != nil {
				return err
			}
			t, err := openTarget(cfg)
			if err != nil {
				return err
			}
			defer t.Close()

			runErr := shell.New(t.dev, cmd.OutOrStdout()).Run(r)
			if err := t.check(); err != nil {
				return err
			}
			return runErr
		},
	}
)

func init() {
	runCmd.Flags().StringVarP(&runOpts.board, "board", "b", "", "Built-in board program instead of a plan file")
	runCmd.Flags().BoolVarP(&runOpts.show, "show", "s", false, "Print the register state after applying")
}

func loadProgram(args []string) (clockplan.Program, error) {
	switch {
	case runOpts.board != "" && len(args) > 0:
		return clockplan.Program{}, errors.New("give either a plan file or --board, not both")
	case runOpts.board != "":
		prog, ok := clockplan.Embedded(runOpts.board)
		if !ok {
			return prog, fmt.Errorf("no built-in program %q", runOpts.board)
		}
		return prog, nil
	case len(args) == 0:
		return clockplan.Program{}, errors.New("missing plan file")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return clockplan.Program{}, err
	}
	plan, err := clockplan.Parse(data)
	if err != nil {
		return clockplan.Program{}, fmt.Errorf("%s: %w", args[0], err)
	}
	prog, err := plan.Build()
	if err != nil {
		return prog, fmt.Errorf("%s: %w", args[0], err)
	}
	if prog.Name == "" {
		prog.Name = args[0]
	}
	return prog, nil
}

func printICG(w io.Writer, im icg.Image) {
	for i, v := range im {
		fmt.Fprintf(w, "ICG%d  %08X\n", i, v)
	}
	rng := "32 MHz"
	if im.HRCHighRange() {
		rng = "48 MHz"
	}
	if f, ok := im.HRCFreq(); ok {
		fmt.Fprintf(w, "hrc   range=%s step=%d reset=%d Hz\n", rng, f, im.HRCHz())
	} else {
		fmt.Fprintf(w, "hrc   range=%s step=reserved\n", rng)
	}
}
