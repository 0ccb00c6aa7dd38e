package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/parsascontentcorner/guildstore/internal/database"
	"github.com/parsascontentcorner/guildstore/internal/models"
	"github.com/parsascontentcorner/guildstore/internal/repository"
)

func newChannelsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "channels",
		Short: "Inspect stored guild channels",
	}

	cmd.AddCommand(
		newChannelsListCmd(a),
		newChannelsShowCmd(a),
		newChannelsDeleteCmd(a),
	)

	return cmd
}

func newChannelsListCmd(a *app) *cobra.Command {
	var (
		guild       string
		channelType string
		activeOnly  bool
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the channels of a guild",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			guildID, err := models.ParseGuildID(guild)
			if err != nil {
				return fmt.Errorf("invalid --guild: %w", err)
			}

			var filter models.ChannelType
			if channelType != "" {
				if filter, err = parseChannelType(channelType); err != nil {
					return fmt.Errorf("invalid --type: %w", err)
				}
			}

			return a.withDB(func(db *database.DB) error {
				repo := repository.NewGuildChannelRepository(db)

				var channels models.GuildChannelCollection
				if activeOnly {
					channels, err = repo.GetAllActive(cmd.Context(), guildID)
				} else {
					channels, err = repo.GetAll(cmd.Context(), guildID)
				}
				if err != nil {
					return err
				}
				if channelType != "" {
					channels = channels.OfType(filter)
				}

				if asJSON {
					return writeJSON(cmd.OutOrStdout(), channels.Slice())
				}
				return writeChannels(cmd.OutOrStdout(), channels)
			})
		},
	}

	cmd.Flags().StringVar(&guild, "guild", "", "guild snowflake")
	cmd.Flags().StringVar(&channelType, "type", "", "only list channels of this type (text, voice, category, news, stage, forum)")
	cmd.Flags().BoolVar(&activeOnly, "active", false, "hide deleted channels")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	_ = cmd.MarkFlagRequired("guild")

	return cmd
}

func newChannelsShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show CHANNEL_ID",
		Short: "Print one channel as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			channelID, err := models.ParseChannelID(args[0])
			if err != nil {
				return err
			}

			return a.withDB(func(db *database.DB) error {
				channel, found, err := repository.NewGuildChannelRepository(db).FindByID(cmd.Context(), channelID)
				if err != nil {
					return err
				}
				if !found {
					return fmt.Errorf("channel %s not found", channelID)
				}
				return writeJSON(cmd.OutOrStdout(), channel)
			})
		},
	}
}

func newChannelsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete CHANNEL_ID",
		Short: "Mark a channel as deleted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			channelID, err := models.ParseChannelID(args[0])
			if err != nil {
				return err
			}

			return a.withDB(func(db *database.DB) error {
				if err := repository.NewGuildChannelRepository(db).Delete(cmd.Context(), channelID); err != nil {
					return err
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "channel %s marked inactive\n", channelID)
				return err
			})
		},
	}
}

var listableChannelTypes = []models.ChannelType{
	models.ChannelTypeGuildText,
	models.ChannelTypeGuildVoice,
	models.ChannelTypeGuildCategory,
	models.ChannelTypeGuildNews,
	models.ChannelTypeGuildStageVoice,
	models.ChannelTypeGuildForum,
}

func parseChannelType(name string) (models.ChannelType, error) {
	for _, t := range listableChannelTypes {
		if t.String() == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown channel type %q", name)
}

func writeChannels(w io.Writer, channels models.GuildChannelCollection) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTYPE\tPOS\tNAME\tCATEGORY\tDETAILS")

	for _, ch := range channels.Slice() {
		category := "-"
		if ch.HasCategory() {
			category = ch.CategoryID.String()
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\n", ch.ID, ch.Type, ch.Position, ch.Name, category, channelDetails(ch))
	}

	return tw.Flush()
}

func channelDetails(ch *models.GuildChannel) string {
	var parts []string
	switch attrs := ch.Attributes.(type) {
	case models.TextAttributes:
		if attrs.Topic != "" {
			parts = append(parts, "topic="+strconv.Quote(attrs.Topic))
		}
	case models.VoiceAttributes:
		parts = append(parts, fmt.Sprintf("bitrate=%d", attrs.Bitrate), fmt.Sprintf("user_limit=%d", attrs.UserLimit))
	}
	if n := len(ch.PermissionOverwrites); n > 0 {
		parts = append(parts, fmt.Sprintf("overwrites=%d", n))
	}
	return strings.Join(parts, " ")
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
