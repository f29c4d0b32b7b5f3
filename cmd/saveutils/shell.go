package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nathoo/saveutils/cli"
	"github.com/nathoo/saveutils/engine"
	"github.com/nathoo/saveutils/tui"
)

var (
	shellPlain  bool
	shellTrace  bool
	shellReplay string
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Edit the save interactively",
	Long: `Opens an editing shell over the save. Changes stay in memory until
/save. With --replay the shell reads its commands from a file and echoes
them, which is handy for repeatable edits.`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

func runShell(cmd *cobra.Command, args []string) error {
	eng := engine.New(save, cfg.Engine())

	// Replay mode: open file, force plain, echo commands.
	if shellReplay != "" {
		f, err := os.Open(shellReplay)
		if err != nil {
			return fmt.Errorf("opening replay file: %w", err)
		}
		defer f.Close()
		c := cli.New(eng)
		c.In = f
		c.Out = cmd.OutOrStdout()
		c.EchoInput = true
		c.Trace = shellTrace
		c.Run()
		return nil
	}

	// Use plain CLI if --plain flag or stdout is not a terminal.
	if shellPlain || !isTerminal() {
		c := cli.New(eng)
		c.In = cmd.InOrStdin()
		c.Out = cmd.OutOrStdout()
		c.Trace = shellTrace
		c.Run()
		return nil
	}
	return tui.Run(eng)
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func init() {
	shellCmd.Flags().BoolVar(&shellPlain, "plain", false, "Use the line-based shell instead of the full-screen one")
	shellCmd.Flags().BoolVar(&shellTrace, "trace", false, "Print what each command touched")
	shellCmd.Flags().StringVar(&shellReplay, "replay", "", "Read shell commands from a file")
	rootCmd.AddCommand(shellCmd)
}
