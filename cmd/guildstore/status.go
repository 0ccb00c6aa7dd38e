package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"

	"github.com/parsascontentcorner/guildstore/internal/database"
)

// schemaStatus is what the status command reports about the schema
type schemaStatus struct {
	Applied bool
	Version uint
	Dirty   bool
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check database connectivity and the applied schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withDB(func(db *database.DB) error {
				if err := db.Health(cmd.Context()); err != nil {
					return err
				}

				var status schemaStatus
				version, dirty, err := db.MigrationVersion()
				switch {
				case errors.Is(err, migrate.ErrNilVersion):
				case err != nil:
					return fmt.Errorf("failed to read schema version: %w", err)
				default:
					status = schemaStatus{Applied: true, Version: version, Dirty: dirty}
				}

				return writeStatus(cmd.OutOrStdout(), status)
			})
		},
	}
}

func writeStatus(w io.Writer, s schemaStatus) error {
	version := "none"
	if s.Applied {
		version = strconv.FormatUint(uint64(s.Version), 10)
		if s.Dirty {
			version += " (dirty)"
		}
	}

	_, err := fmt.Fprintf(w, "database: ok\nschema version: %s\n", version)
	return err
}
