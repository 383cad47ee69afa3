package handler

import (
	"strings"

	dapi "github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sirupsen/logrus"

	"absence-bot/internal/service"
	"absence-bot/pkg/discord"
)

// Component and modal custom ids of the absence manager surface. The extend
// button ids live in pkg/discord because the sweep attaches them to DMs.
const (
	componentSetTwoWeeks  = "absence:set_2w"
	componentSetFourWeeks = "absence:set_4w"
	componentSetCustom    = "absence:set_custom"
	componentEndAbsence   = "absence:end"

	modalSetDate    = "absence:modal_set"
	modalExtendDate = "absence:modal_extend"

	inputReturnDate = "return_date"
)

// Handler wires Discord gateway events to the absence and config services.
type Handler struct {
	client   *discord.Client
	absences *service.AbsenceService
	configs  *service.GuildConfigService
	logger   *logrus.Logger
}

func NewHandler(
	client *discord.Client,
	absences *service.AbsenceService,
	configs *service.GuildConfigService,
	logger *logrus.Logger,
) *Handler {
	return &Handler{
		client:   client,
		absences: absences,
		configs:  configs,
		logger:   logger,
	}
}

// Register attaches the event listeners to the Discord client. Must be
// called before the gateway is opened.
func (h *Handler) Register() {
	h.client.Bot.AddEventListeners(&events.ListenerAdapter{
		OnReady:                         h.onReady,
		OnApplicationCommandInteraction: h.onApplicationCommand,
		OnComponentInteraction:          h.onComponent,
		OnModalSubmit:                   h.onModalSubmit,
	})
}

func (h *Handler) onReady(event *events.Ready) {
	h.logger.WithField("user", event.User.Username).Info("Bot ready")
	go h.refreshManagerMessages()
}

func (h *Handler) onComponent(event *events.ComponentInteractionCreate) {
	customID := event.Data.CustomID()

	switch {
	case customID == componentSetTwoWeeks:
		h.setAbsenceDays(event, 14)
	case customID == componentSetFourWeeks:
		h.setAbsenceDays(event, 28)
	case customID == componentSetCustom:
		h.openSetModal(event)
	case customID == componentEndAbsence:
		h.endAbsence(event)
	case strings.HasPrefix(customID, discord.ExtendTwoWeeksID+":"):
		h.extendWeeks(event, 2)
	case strings.HasPrefix(customID, discord.ExtendFourWeeksID+":"):
		h.extendWeeks(event, 4)
	case strings.HasPrefix(customID, discord.ExtendCustomID+":"):
		h.openExtendModal(event)
	}
}

func (h *Handler) onModalSubmit(event *events.ModalSubmitInteractionCreate) {
	customID := event.Data.CustomID

	switch {
	case customID == modalSetDate:
		h.submitSetDate(event)
	case strings.HasPrefix(customID, modalExtendDate+":"):
		h.submitExtendDate(event)
	}
}

// responder is satisfied by every interaction event type we reply to.
type responder interface {
	CreateMessage(messageCreate dapi.MessageCreate, opts ...rest.RequestOpt) error
}

func (h *Handler) reply(event responder, content string) {
	err := event.CreateMessage(dapi.NewMessageCreateBuilder().
		SetContent(content).
		SetEphemeral(true).
		Build())
	if err != nil {
		h.logger.WithError(err).Error("Failed to respond to interaction")
	}
}

// language returns the guild's configured language, falling back to the
// default when the config cannot be loaded.
func (h *Handler) language(guildID snowflake.ID) string {
	cfg, err := h.configs.Get(guildID)
	if err != nil {
		h.logger.WithError(err).WithField("guild_id", guildID).Warn("Failed to load guild config")
		return ""
	}
	return cfg.Language
}

// guildSuffixID parses the guild id appended to a component custom id.
func guildSuffixID(customID string) (snowflake.ID, bool) {
	idx := strings.LastIndex(customID, ":")
	if idx < 0 {
		return 0, false
	}
	id, err := snowflake.Parse(customID[idx+1:])
	if err != nil {
		return 0, false
	}
	return id, true
}
