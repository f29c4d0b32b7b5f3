package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nathoo/saveutils/script"
)

var (
	scriptFile   string
	scriptDryRun bool
)

var scriptCmd = &cobra.Command{
	Use:   "script",
	Short: "Run a Lua script against the save",
	Long: `Runs a Lua script with a global "save" table (get, has, set, safe_set,
keys). The save is written only if the script succeeds and changed it.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := script.Run(save, scriptFile)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if !report.Changed() {
			fmt.Fprintln(out, "Script made no changes.")
			return nil
		}
		if scriptDryRun {
			fmt.Fprintf(out, "Dry run: %d write(s) discarded.\n", len(report.Writes))
			return nil
		}
		if err := save.Persist(""); err != nil {
			return err
		}
		fmt.Fprintf(out, "Script wrote %d key(s) to %s.\n", len(report.Writes), save.Path)
		return nil
	},
}

func init() {
	scriptCmd.Flags().StringVarP(&scriptFile, "file", "f", "", "Lua script to run")
	scriptCmd.Flags().BoolVar(&scriptDryRun, "dry-run", false, "Run without writing the save")
	_ = scriptCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(scriptCmd)
}
