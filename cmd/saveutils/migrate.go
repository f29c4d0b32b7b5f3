package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nathoo/saveutils/engine/migration"
	"github.com/nathoo/saveutils/engine/savefile"
)

var (
	migrateOutput         string
	migrateNewGamePlus    bool
	migrateTravelExpenses int64
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Move the player from the input save into another save",
	Long: `Copies the player's identity, stats, upgrades, inventory and cases
from the input save into the output save and writes the output in place,
keeping a backup of it.
With --newgameplus the player must pay the travel expenses out of their
money plus the sale of every apartment they own.`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	target, err := savefile.Load(migrateOutput)
	if err != nil {
		return err
	}

	if migrateNewGamePlus {
		fare := cfg.TravelExpenses
		if cmd.Flags().Changed("travelexpenses") {
			fare = migrateTravelExpenses
		}
		if fare < 0 {
			return fmt.Errorf("travel expenses must not be negative, got %d", fare)
		}
		migrated, err := migration.MigrateAsNewGamePlus(save, target, fare)
		if err != nil {
			return err
		}
		if !migrated {
			fmt.Fprintf(out, "The player cannot afford the %d travel expenses. Nothing was migrated.\n", fare)
			return nil
		}
	} else if err := migration.MigratePlayer(save, target); err != nil {
		return err
	}

	fmt.Fprintf(out, "Migrated player into %s.\n", migrateOutput)
	return nil
}

func init() {
	migrateCmd.Flags().StringVarP(&migrateOutput, "output", "o", "", "Save file receiving the player")
	migrateCmd.Flags().BoolVarP(&migrateNewGamePlus, "newgameplus", "n", false, "Charge travel expenses for the move")
	migrateCmd.Flags().Int64VarP(&migrateTravelExpenses, "travelexpenses", "t", 0, "New Game Plus fare (default from SAVEUTILS_TRAVEL_EXPENSES)")
	_ = migrateCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(migrateCmd)
}
