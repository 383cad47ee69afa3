package handler

import (
	"errors"
	"fmt"

	dapi "github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"

	"absence-bot/internal/locale"
	"absence-bot/internal/service"
	"absence-bot/pkg/dates"
)

func (h *Handler) onApplicationCommand(event *events.ApplicationCommandInteractionCreate) {
	data := event.SlashCommandInteractionData()

	if event.GuildID() == nil {
		h.reply(event, locale.T(locale.DefaultLanguage, "errors.guild_only", nil))
		return
	}
	guildID := *event.GuildID()
	lang := h.language(guildID)

	member := event.Member()
	if member == nil || !member.Permissions.Has(dapi.PermissionAdministrator) {
		h.reply(event, locale.T(lang, "errors.admin_only", nil))
		return
	}

	switch data.CommandName() {
	case "set_channel":
		h.setChannel(event, data)
	case "set_role":
		h.setRole(event, data)
	case "set_logging_channel":
		h.setLoggingChannel(event, data)
	case "set_language":
		h.setLanguage(event, data)
	case "show_config":
		h.showConfig(event)
	case "show_absent_users":
		h.showAbsentUsers(event)
	}
}

func (h *Handler) setChannel(event *events.ApplicationCommandInteractionCreate, data dapi.SlashCommandInteractionData) {
	guildID := *event.GuildID()
	lang := h.language(guildID)
	channel := data.Channel("channel")

	cfg, err := h.configs.Get(guildID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load guild config")
		h.reply(event, locale.T(lang, "errors.internal", nil))
		return
	}
	if cfg.ChannelID == channel.ID {
		h.reply(event, locale.T(lang, "admin.channel_already_set", locale.Params{"channel": channelMention(channel.ID)}))
		return
	}
	oldChannelID := cfg.ChannelID

	if _, err := h.configs.SetChannel(guildID, channel.ID); err != nil {
		h.logger.WithError(err).Error("Failed to update guild config")
		h.reply(event, locale.T(lang, "errors.internal", nil))
		return
	}
	h.reply(event, locale.T(lang, "admin.channel_updated", locale.Params{"channel": channelMention(channel.ID)}))

	// Moving the manager message involves several REST calls; do it off the
	// interaction path after responding.
	go func() {
		if oldChannelID != 0 {
			h.deleteManagerMessages(oldChannelID)
		}
		h.deleteManagerMessages(channel.ID)
		h.publishManager(guildID, channel.ID)
	}()
}

func (h *Handler) setRole(event *events.ApplicationCommandInteractionCreate, data dapi.SlashCommandInteractionData) {
	guildID := *event.GuildID()
	lang := h.language(guildID)
	role := data.Role("role")

	if _, err := h.configs.SetRoleName(guildID, role.Name); err != nil {
		h.logger.WithError(err).Error("Failed to update guild config")
		h.reply(event, locale.T(lang, "errors.internal", nil))
		return
	}
	h.reply(event, locale.T(lang, "admin.role_set", locale.Params{"role": role.Name}))
}

func (h *Handler) setLoggingChannel(event *events.ApplicationCommandInteractionCreate, data dapi.SlashCommandInteractionData) {
	guildID := *event.GuildID()
	lang := h.language(guildID)
	channel := data.Channel("channel")

	if _, err := h.configs.SetLoggingChannel(guildID, channel.ID); err != nil {
		h.logger.WithError(err).Error("Failed to update guild config")
		h.reply(event, locale.T(lang, "errors.internal", nil))
		return
	}
	h.reply(event, locale.T(lang, "admin.logging_channel_set", locale.Params{"channel": channelMention(channel.ID)}))
}

func (h *Handler) setLanguage(event *events.ApplicationCommandInteractionCreate, data dapi.SlashCommandInteractionData) {
	guildID := *event.GuildID()
	language := data.String("language")

	cfg, err := h.configs.SetLanguage(guildID, language)
	if err != nil {
		if errors.Is(err, service.ErrUnsupportedLanguage) {
			h.reply(event, locale.T(h.language(guildID), "errors.internal", nil))
			return
		}
		h.logger.WithError(err).Error("Failed to update guild config")
		h.reply(event, locale.T(h.language(guildID), "errors.internal", nil))
		return
	}

	response := locale.T(language, "admin.language_set", locale.Params{"language": locale.SupportedLanguages[language]})
	if cfg.ChannelID == 0 {
		response += "\n" + locale.T(language, "admin.language_set_no_channel", nil)
	}
	h.reply(event, response)

	// Republish the manager message in the new language.
	if cfg.ChannelID != 0 {
		channelID := cfg.ChannelID
		go func() {
			h.deleteManagerMessages(channelID)
			h.publishManager(guildID, channelID)
		}()
	}
}

func (h *Handler) showConfig(event *events.ApplicationCommandInteractionCreate) {
	guildID := *event.GuildID()
	lang := h.language(guildID)

	cfg, err := h.configs.Get(guildID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load guild config")
		h.reply(event, locale.T(lang, "errors.internal", nil))
		return
	}

	notSet := locale.T(lang, "common.not_set", nil)
	channelValue := notSet
	if cfg.ChannelID != 0 {
		channelValue = channelMention(cfg.ChannelID)
	}
	loggingValue := notSet
	if cfg.LoggingChannelID != 0 {
		loggingValue = channelMention(cfg.LoggingChannelID)
	}

	embed := dapi.NewEmbedBuilder().
		SetTitle(locale.T(lang, "admin.config_title", nil)).
		SetDescription(locale.T(lang, "admin.config_desc", nil)).
		SetColor(managerEmbedColor).
		AddField(locale.T(lang, "admin.config_channel", nil), channelValue, true).
		AddField(locale.T(lang, "admin.config_role", nil), "`"+cfg.RoleName+"`", true).
		AddField(locale.T(lang, "admin.config_logging", nil), loggingValue, true).
		SetFooterText(locale.T(lang, "admin.config_footer", nil)).
		Build()

	h.replyEmbed(event, embed)
}

func (h *Handler) showAbsentUsers(event *events.ApplicationCommandInteractionCreate) {
	guildID := *event.GuildID()
	lang := h.language(guildID)

	records, err := h.absences.ListGuildAbsences(guildID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list absence records")
		h.reply(event, locale.T(lang, "errors.internal", nil))
		return
	}
	if len(records) == 0 {
		h.reply(event, locale.T(lang, "admin.absent_users_none", nil))
		return
	}

	builder := dapi.NewEmbedBuilder().
		SetTitle(locale.T(lang, "admin.absent_users_title", nil)).
		SetDescription(locale.T(lang, "admin.absent_users_desc", nil)).
		SetColor(managerEmbedColor)

	for _, record := range records {
		value := locale.T(lang, "admin.absent_users_entry", locale.Params{"date": record.ReturnDate})
		if day, err := dates.Parse(record.ReturnDate); err == nil {
			value += "\n" + fmt.Sprintf("<t:%d:R>", day.Unix())
		} else {
			value = locale.T(lang, "admin.absent_users_invalid_date", locale.Params{"date": record.ReturnDate})
		}
		builder.AddField(record.Username, value, false)
	}

	h.replyEmbed(event, builder.Build())
}

func (h *Handler) replyEmbed(event responder, embed dapi.Embed) {
	err := event.CreateMessage(dapi.NewMessageCreateBuilder().
		SetEmbeds(embed).
		SetEphemeral(true).
		Build())
	if err != nil {
		h.logger.WithError(err).Error("Failed to respond to interaction")
	}
}

func channelMention(id snowflake.ID) string {
	return "<#" + id.String() + ">"
}
