package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nathoo/saveutils/config"
	"github.com/nathoo/saveutils/engine/savefile"
	"github.com/nathoo/saveutils/logging"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	inputPath string
	verbose   bool

	// Populated by the root pre-run for every sub-command.
	cfg  *config.Config
	save *savefile.SaveFile

	flushLogger = func() {}
)

var rootCmd = &cobra.Command{
	Use:               "saveutils",
	Short:             "Shadows of Doubt save file editor",
	Version:           fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		flushLogger()
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		flushLogger()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&inputPath, "input", "i", "", "Save file to operate on")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log at debug level")
	_ = rootCmd.MarkPersistentFlagRequired("input")
}

// setup loads configuration, installs the logger and parses the input save.
func setup(cmd *cobra.Command, args []string) error {
	c, err := config.Load()
	if err != nil {
		return err
	}
	cfg = c

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	flush, err := logging.Install(logging.Config{Level: level, Encoding: cfg.LogEncoding})
	if err != nil {
		return err
	}
	flushLogger = flush

	s, err := savefile.Load(inputPath)
	if err != nil {
		return err
	}
	save = s
	return nil
}
