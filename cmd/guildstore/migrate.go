package main

import (
	"github.com/spf13/cobra"

	"github.com/parsascontentcorner/guildstore/internal/database"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate {up|down|version|force N}",
		Short:     "Manage the database schema",
		Args:      cobra.RangeArgs(1, 2),
		ValidArgs: []string{"up", "down", "version", "force"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDB(func(db *database.DB) error {
				return db.Migrate(args[0], args[1:])
			})
		},
	}
}
