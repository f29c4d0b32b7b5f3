package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nathoo/saveutils/engine/cheats"
)

// statFlags holds the flag values of one stat command.
type statFlags struct {
	set    float64
	add    float64
	remove float64
}

var (
	moneyFlags  statFlags
	healthFlags statFlags
)

var moneyCmd = newStatCmd(cheats.Money, &moneyFlags)
var healthCmd = newStatCmd(cheats.Health, &healthFlags)

func newStatCmd(st cheats.Stat, f *statFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   st.Name,
		Short: fmt.Sprintf("Print or change the player's %s", st.Name),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStat(cmd, st, f)
		},
	}
	cmd.Flags().Float64Var(&f.set, "set", 0, "Overwrite the value")
	cmd.Flags().Float64Var(&f.add, "add", 0, "Add to the value")
	cmd.Flags().Float64Var(&f.remove, "remove", 0, "Subtract from the value")
	cmd.MarkFlagsMutuallyExclusive("set", "add", "remove")
	return cmd
}

func runStat(cmd *cobra.Command, st cheats.Stat, f *statFlags) error {
	out := cmd.OutOrStdout()
	flags := cmd.Flags()

	var (
		current float64
		err     error
	)
	switch {
	case flags.Changed("set"):
		current, err = f.set, cheats.Set(save, st, f.set)
	case flags.Changed("add"):
		current, err = cheats.Add(save, st, f.add)
	case flags.Changed("remove"):
		current, err = cheats.Remove(save, st, f.remove)
	default:
		current, err = cheats.Print(save, st)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s: %s\n", st.Name, formatStat(st, current))
		return nil
	}
	if err != nil {
		return err
	}

	if err := save.Persist(""); err != nil {
		return err
	}
	fmt.Fprintf(out, "%s is now %s.\n", st.Name, formatStat(st, current))
	return nil
}

func formatStat(st cheats.Stat, v float64) string {
	if st.Integer {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func init() {
	rootCmd.AddCommand(moneyCmd)
	rootCmd.AddCommand(healthCmd)
}
