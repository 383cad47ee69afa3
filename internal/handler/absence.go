package handler

import (
	"errors"
	"time"

	dapi "github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sirupsen/logrus"

	"absence-bot/internal/locale"
	"absence-bot/internal/service"
	"absence-bot/pkg/dates"
)

// managerThumbURL identifies the absence manager message: stale copies are
// found (and deleted) by this thumbnail, not by message id.
const managerThumbURL = "https://pbs.twimg.com/media/DtFE2_BX4AECJ8a.jpg:large"

const managerEmbedColor = 0x890024

func (h *Handler) setAbsenceDays(event *events.ComponentInteractionCreate, days int) {
	if event.GuildID() == nil {
		return
	}
	guildID := *event.GuildID()
	lang := h.language(guildID)
	user := event.User()
	until := dates.Midnight(time.Now()).AddDate(0, 0, days)

	if err := h.absences.SetAbsence(guildID, user.ID, user.Username, until); err != nil {
		h.replyAbsenceError(event, guildID, lang, err, true)
		return
	}
	h.reply(event, locale.T(lang, "absence.set_ok", locale.Params{"date": dates.Format(until)}))
}

func (h *Handler) endAbsence(event *events.ComponentInteractionCreate) {
	if event.GuildID() == nil {
		return
	}
	guildID := *event.GuildID()
	lang := h.language(guildID)

	err := h.absences.EndAbsence(guildID, event.User().ID)
	switch {
	case errors.Is(err, service.ErrNoActiveAbsence):
		h.reply(event, locale.T(lang, "absence.no_active", nil))
	case err != nil:
		h.replyAbsenceError(event, guildID, lang, err, false)
	default:
		h.reply(event, locale.T(lang, "absence.end_ok", nil))
	}
}

func (h *Handler) extendWeeks(event *events.ComponentInteractionCreate, weeks int) {
	guildID, ok := guildSuffixID(event.Data.CustomID())
	if !ok {
		return
	}
	lang := h.language(guildID)

	extended, err := h.absences.ExtendByWeeks(guildID, event.User().ID, weeks)
	switch {
	case errors.Is(err, service.ErrNoActiveAbsence):
		h.reply(event, locale.T(lang, "absence.no_active_hint", nil))
	case errors.Is(err, service.ErrBadStoredDate):
		h.reply(event, locale.T(lang, "absence.invalid_date", nil))
	case err != nil:
		h.logger.WithError(err).Error("Failed to extend absence")
		h.reply(event, locale.T(lang, "errors.internal", nil))
	default:
		h.reply(event, locale.T(lang, "absence.extend_ok", locale.Params{"date": dates.Format(extended)}))
	}
}

func (h *Handler) openSetModal(event *events.ComponentInteractionCreate) {
	if event.GuildID() == nil {
		return
	}
	lang := h.language(*event.GuildID())

	err := event.Modal(dapi.NewModalCreateBuilder().
		SetCustomID(modalSetDate).
		SetTitle(locale.T(lang, "ui.modal_set_title", nil)).
		AddActionRow(
			dapi.NewTextInput(inputReturnDate, dapi.TextInputStyleShort, locale.T(lang, "ui.input_return_label", nil)).
				WithPlaceholder(locale.T(lang, "ui.input_date_placeholder", nil)).
				WithRequired(true),
		).
		Build())
	if err != nil {
		h.logger.WithError(err).Error("Failed to open set-absence modal")
	}
}

func (h *Handler) openExtendModal(event *events.ComponentInteractionCreate) {
	guildID, ok := guildSuffixID(event.Data.CustomID())
	if !ok {
		return
	}
	lang := h.language(guildID)

	err := event.Modal(dapi.NewModalCreateBuilder().
		SetCustomID(modalExtendDate + ":" + guildID.String()).
		SetTitle(locale.T(lang, "ui.modal_extend_title", nil)).
		AddActionRow(
			dapi.NewTextInput(inputReturnDate, dapi.TextInputStyleShort, locale.T(lang, "ui.input_return_new_label", nil)).
				WithPlaceholder(locale.T(lang, "ui.input_date_placeholder", nil)).
				WithRequired(true),
		).
		Build())
	if err != nil {
		h.logger.WithError(err).Error("Failed to open extend-absence modal")
	}
}

func (h *Handler) submitSetDate(event *events.ModalSubmitInteractionCreate) {
	if event.GuildID() == nil {
		return
	}
	guildID := *event.GuildID()
	lang := h.language(guildID)
	user := event.User()

	until, err := dates.ValidateFuture(event.Data.Text(inputReturnDate), time.Now())
	if err != nil {
		h.reply(event, locale.T(lang, "absence.invalid_date", nil))
		return
	}

	if err := h.absences.SetAbsence(guildID, user.ID, user.Username, until); err != nil {
		h.replyAbsenceError(event, guildID, lang, err, true)
		return
	}
	h.reply(event, locale.T(lang, "absence.set_ok", locale.Params{"date": dates.Format(until)}))
}

func (h *Handler) submitExtendDate(event *events.ModalSubmitInteractionCreate) {
	guildID, ok := guildSuffixID(event.Data.CustomID)
	if !ok {
		return
	}
	lang := h.language(guildID)

	until, err := dates.ValidateFuture(event.Data.Text(inputReturnDate), time.Now())
	if err != nil {
		h.reply(event, locale.T(lang, "absence.invalid_date", nil))
		return
	}

	err = h.absences.ExtendTo(guildID, event.User().ID, until)
	switch {
	case errors.Is(err, service.ErrNoActiveAbsence):
		h.reply(event, locale.T(lang, "absence.no_active_hint", nil))
	case err != nil:
		h.logger.WithError(err).Error("Failed to extend absence")
		h.reply(event, locale.T(lang, "errors.internal", nil))
	default:
		h.reply(event, locale.T(lang, "absence.extend_ok", locale.Params{"date": dates.Format(until)}))
	}
}

// replyAbsenceError maps service errors of the set/end flows to localized
// replies.
func (h *Handler) replyAbsenceError(event responder, guildID snowflake.ID, lang string, err error, assign bool) {
	if errors.Is(err, service.ErrRoleModify) {
		cfg, cfgErr := h.configs.Get(guildID)
		roleName := ""
		if cfgErr == nil {
			roleName = cfg.RoleName
		}
		verb := "common.remove_verb"
		if assign {
			verb = "common.assign_verb"
		}
		h.reply(event, locale.T(lang, "errors.role_modify", locale.Params{
			"role":   roleName,
			"action": locale.T(lang, verb, nil),
		}))
		return
	}
	h.logger.WithError(err).Error("Absence operation failed")
	h.reply(event, locale.T(lang, "errors.internal", nil))
}

// managerMessage builds the absence manager embed with its button rows.
func managerMessage(lang string, withButtons bool) dapi.MessageCreate {
	embed := dapi.NewEmbedBuilder().
		SetTitle(locale.T(lang, "ui.manager_title", nil)).
		SetDescription(locale.T(lang, "ui.manager_desc", nil)).
		SetFooterText(locale.T(lang, "ui.manager_footer", nil)).
		SetThumbnail(managerThumbURL).
		SetColor(managerEmbedColor).
		Build()

	builder := dapi.NewMessageCreateBuilder().SetEmbeds(embed)
	if withButtons {
		builder.AddActionRow(
			dapi.NewPrimaryButton(locale.T(lang, "ui.btn_2w", nil), componentSetTwoWeeks),
			dapi.NewPrimaryButton(locale.T(lang, "ui.btn_4w", nil), componentSetFourWeeks),
		)
		builder.AddActionRow(
			dapi.NewSecondaryButton(locale.T(lang, "ui.btn_custom_date", nil), componentSetCustom),
			dapi.NewDangerButton(locale.T(lang, "ui.btn_end", nil), componentEndAbsence),
		)
	}
	return builder.Build()
}

// refreshManagerMessages republishes the manager message in every guild with
// a configured absence channel. Runs on ready, off the event loop.
func (h *Handler) refreshManagerMessages() {
	configs, err := h.configs.ListConfigured()
	if err != nil {
		h.logger.WithError(err).Error("Failed to list guild configs")
		return
	}
	for _, cfg := range configs {
		if cfg.ChannelID == 0 {
			continue
		}
		h.deleteManagerMessages(cfg.ChannelID)
		h.publishManager(cfg.GuildID, cfg.ChannelID)
	}
}

func (h *Handler) publishManager(guildID, channelID snowflake.ID) {
	lang := h.language(guildID)
	if _, err := h.client.Bot.Rest().CreateMessage(channelID, managerMessage(lang, true)); err != nil {
		h.logger.WithError(err).WithFields(logrus.Fields{
			"guild_id":   guildID,
			"channel_id": channelID,
		}).Error("Failed to publish absence manager message")
	}
}

// deleteManagerMessages removes previous manager messages from a channel,
// identified by the manager thumbnail on the bot's own messages.
func (h *Handler) deleteManagerMessages(channelID snowflake.ID) {
	messages, err := h.client.Bot.Rest().GetMessages(channelID, 0, 0, 0, 50)
	if err != nil {
		h.logger.WithError(err).WithField("channel_id", channelID).Warn("Failed to list channel messages")
		return
	}

	self, selfOK := h.client.Bot.Caches().SelfUser()
	for _, msg := range messages {
		if selfOK && msg.Author.ID != self.ID {
			continue
		}
		if len(msg.Embeds) == 0 {
			continue
		}
		thumb := msg.Embeds[0].Thumbnail
		if thumb == nil || thumb.URL != managerThumbURL {
			continue
		}
		if err := h.client.Bot.Rest().DeleteMessage(channelID, msg.ID); err != nil {
			h.logger.WithError(err).WithField("message_id", msg.ID).Warn("Failed to delete stale manager message")
		}
	}
}
