package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nathoo/saveutils/engine/residence"
)

var (
	residenceSet  int64
	residenceCost int64
)

var residenceCmd = &cobra.Command{
	Use:   "residence",
	Short: "List owned apartments or change the primary residence",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("set") {
			return listResidences(cmd)
		}
		cost := cfg.ResidenceCost
		if cmd.Flags().Changed("cost") {
			cost = residenceCost
		}
		rej, err := residence.ChangeResidence(save, residenceSet, cost, residence.Options{})
		if err != nil {
			return err
		}
		if rej != nil {
			return errors.New(rej.String())
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Residence changed to apartment %d for %d.\n", residenceSet, cost)
		return nil
	},
}

func listResidences(cmd *cobra.Command) error {
	l, err := residence.ListResidences(save)
	if err != nil {
		return err
	}
	owned := make([]string, len(l.Owned))
	for i, id := range l.Owned {
		owned[i] = strconv.FormatInt(id, 10)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Current residence: %d\n", l.Current)
	if len(owned) == 0 {
		fmt.Fprintln(out, "Owned apartments: None")
		return nil
	}
	fmt.Fprintf(out, "Owned apartments: %s\n", strings.Join(owned, ", "))
	return nil
}

func init() {
	residenceCmd.Flags().Int64VarP(&residenceSet, "set", "s", 0, "Apartment id to move into")
	residenceCmd.Flags().Int64VarP(&residenceCost, "cost", "c", 0, "Moving fee (default from SAVEUTILS_RESIDENCE_COST)")
	rootCmd.AddCommand(residenceCmd)
}
