package discord

import (
	"context"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sirupsen/logrus"
)

// Custom IDs of the extend buttons attached to return-day reminders. DMs
// carry no guild context, so the guild id is encoded into the component id.
const (
	ExtendTwoWeeksID  = "absence:extend_2w"
	ExtendFourWeeksID = "absence:extend_4w"
	ExtendCustomID    = "absence:extend_custom"
)

// ExtendComponentID appends the guild id to an extend button base id.
func ExtendComponentID(base string, guildID snowflake.ID) string {
	return base + ":" + guildID.String()
}

// Client wraps the disgo bot client and implements Gateway against it.
type Client struct {
	Bot    bot.Client
	logger *logrus.Logger
}

func NewClient(token string, logger *logrus.Logger) (*Client, error) {
	client, err := disgo.New(token,
		bot.WithGatewayConfigOpts(
			gateway.WithIntents(
				gateway.IntentGuilds,
				gateway.IntentGuildMembers,
				gateway.IntentDirectMessages,
			),
		),
	)
	if err != nil {
		return nil, err
	}

	return &Client{
		Bot:    client,
		logger: logger,
	}, nil
}

// Open connects to the Discord gateway.
func (c *Client) Open(ctx context.Context) error {
	return c.Bot.OpenGateway(ctx)
}

// Close shuts down the gateway connection.
func (c *Client) Close(ctx context.Context) {
	c.Bot.Close(ctx)
}

func (c *Client) ResolveGuild(guildID snowflake.ID) (*Guild, bool) {
	guild, ok := c.Bot.Caches().Guild(guildID)
	if !ok {
		return nil, false
	}
	return &Guild{ID: guild.ID, Name: guild.Name}, true
}

func (c *Client) ResolveRole(guildID snowflake.ID, name string) (*Role, bool) {
	roles, err := c.Bot.Rest().GetRoles(guildID)
	if err != nil {
		c.logger.WithError(err).WithField("guild_id", guildID).Warn("Failed to list guild roles")
		return nil, false
	}
	for _, role := range roles {
		if role.Name == name {
			return &Role{ID: role.ID, Name: role.Name}, true
		}
	}
	return nil, false
}

func (c *Client) ResolveMember(guildID, userID snowflake.ID) (*Member, bool) {
	member, ok := c.Bot.Caches().Member(guildID, userID)
	if !ok {
		// Cached member lists can lag real departures, so miss means a
		// live fetch before the member is declared gone.
		fetched, err := c.Bot.Rest().GetMember(guildID, userID)
		if err != nil {
			return nil, false
		}
		member = *fetched
	}

	name := member.User.Username
	if member.Nick != nil && *member.Nick != "" {
		name = *member.Nick
	}
	return &Member{
		ID:          member.User.ID,
		DisplayName: name,
		RoleIDs:     member.RoleIDs,
	}, true
}

func (c *Client) SetRole(guildID, userID, roleID snowflake.ID, grant bool) bool {
	var err error
	if grant {
		err = c.Bot.Rest().AddMemberRole(guildID, userID, roleID, rest.WithReason("Abwesenheit eingetragen"))
	} else {
		err = c.Bot.Rest().RemoveMemberRole(guildID, userID, roleID, rest.WithReason("Abwesenheit beendet"))
	}
	if err != nil {
		c.logger.WithError(err).WithFields(logrus.Fields{
			"guild_id": guildID,
			"user_id":  userID,
			"role_id":  roleID,
			"grant":    grant,
		}).Error("Failed to modify member role")
		return false
	}
	return true
}

func (c *Client) NotifyMember(userID snowflake.ID, content string, prompt *ExtendPrompt) bool {
	channel, err := c.Bot.Rest().CreateDMChannel(userID)
	if err != nil {
		c.logger.WithError(err).WithField("user_id", userID).Warn("Failed to create DM channel")
		return false
	}

	builder := discord.NewMessageCreateBuilder().SetContent(content)
	if prompt != nil {
		builder.AddActionRow(
			discord.NewPrimaryButton(prompt.TwoWeeksLabel, ExtendComponentID(ExtendTwoWeeksID, prompt.GuildID)),
			discord.NewPrimaryButton(prompt.FourWeeksLabel, ExtendComponentID(ExtendFourWeeksID, prompt.GuildID)),
			discord.NewSecondaryButton(prompt.CustomLabel, ExtendComponentID(ExtendCustomID, prompt.GuildID)),
		)
	}

	if _, err = c.Bot.Rest().CreateMessage(channel.ID(), builder.Build()); err != nil {
		// Closed DMs are routine, not an incident.
		c.logger.WithError(err).WithField("user_id", userID).Info("Could not DM member")
		return false
	}
	return true
}

func (c *Client) LogEvent(guildID, channelID snowflake.ID, message string) {
	if channelID == 0 {
		return
	}
	_, err := c.Bot.Rest().CreateMessage(channelID, discord.NewMessageCreateBuilder().SetContent(message).Build())
	if err != nil {
		c.logger.WithError(err).WithFields(logrus.Fields{
			"guild_id":   guildID,
			"channel_id": channelID,
		}).Warn("Failed to send log event")
	}
}
