package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/parsascontentcorner/guildstore/internal/database"
	"github.com/parsascontentcorner/guildstore/internal/models"
	"github.com/parsascontentcorner/guildstore/internal/repository"
)

func newMembersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "members",
		Short: "Inspect stored guild members",
	}
	cmd.AddCommand(newMembersListCmd(a))
	return cmd
}

func newMembersListCmd(a *app) *cobra.Command {
	var (
		guild  string
		role   string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the active members of a guild",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			guildID, err := models.ParseGuildID(guild)
			if err != nil {
				return fmt.Errorf("invalid --guild: %w", err)
			}

			var roleID models.RoleID
			if role != "" {
				if roleID, err = models.ParseRoleID(role); err != nil {
					return fmt.Errorf("invalid --role: %w", err)
				}
			}

			return a.withDB(func(db *database.DB) error {
				members, err := repository.NewGuildMemberRepository(db).GetAll(cmd.Context(), guildID)
				if err != nil {
					return err
				}
				if role != "" {
					members = members.WithRole(roleID)
				}

				if asJSON {
					return writeJSON(cmd.OutOrStdout(), members.Slice())
				}
				return writeMembers(cmd.OutOrStdout(), members)
			})
		},
	}

	cmd.Flags().StringVar(&guild, "guild", "", "guild snowflake")
	cmd.Flags().StringVar(&role, "role", "", "only list members holding this role snowflake")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	_ = cmd.MarkFlagRequired("guild")

	return cmd
}

func writeMembers(w io.Writer, members models.GuildMemberCollection) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "USER\tNICKNAME\tROLES\tJOINED")

	for _, m := range members.Slice() {
		roles := make([]string, len(m.RoleIDs))
		for i, r := range m.RoleIDs {
			roles[i] = r.String()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			m.UserID,
			m.DisplayName("-"),
			strings.Join(roles, ","),
			m.JoinedAt.UTC().Format(time.RFC3339),
		)
	}

	return tw.Flush()
}
