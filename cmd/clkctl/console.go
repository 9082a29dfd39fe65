package main

import (
	"fmt"
	"strings"

	tty "github.com/mattn/go-tty"
	"github.com/spf13/cobra"

	"clocktree-go/services/shell"
)

const prompt = "clk> "

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Interactive clock shell",
	Long:  "Read shell commands from the terminal until exit, quit or end of input. Errors are reported and the session continues.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := boardConfig()
		if err != nil {
			return err
		}
		t, err := openTarget(cfg)
		if err != nil {
			return err
		}
		defer t.Close()

		term, err := tty.Open()
		if err != nil {
			return err
		}
		defer term.Close()

		out := cmd.OutOrStdout()
		sh := shell.New(t.dev, out)
		fmt.Fprintln(out, "type help for commands")
		for {
			fmt.Fprint(out, prompt)
			line, err := term.ReadString()
			fmt.Fprintln(out)
			if err != nil {
				return nil
			}
			switch strings.TrimSpace(line) {
			case "exit", "quit":
				return nil
			}
			if err := sh.Exec(line); err != nil {
				fmt.Fprintln(out, "error:", describe(err))
			}
			if err := t.check(); err != nil {
				return err
			}
		}
	},
}
