package handler

import (
	"fmt"

	dapi "github.com/disgoorg/disgo/discord"
)

// Commands returns the admin command set registered globally on startup.
func Commands() []dapi.ApplicationCommandCreate {
	return []dapi.ApplicationCommandCreate{
		dapi.SlashCommandCreate{
			Name:        "set_channel",
			Description: "Sets the channel for absence messages.",
			Options: []dapi.ApplicationCommandOption{
				dapi.ApplicationCommandOptionChannel{
					Name:        "channel",
					Description: "Channel to host the absence manager message",
					Required:    true,
				},
			},
		},
		dapi.SlashCommandCreate{
			Name:        "set_role",
			Description: "Sets the role for absent members.",
			Options: []dapi.ApplicationCommandOption{
				dapi.ApplicationCommandOptionRole{
					Name:        "role",
					Description: "Role granted while a member is absent",
					Required:    true,
				},
			},
		},
		dapi.SlashCommandCreate{
			Name:        "set_logging_channel",
			Description: "Sets the channel for absence logs.",
			Options: []dapi.ApplicationCommandOption{
				dapi.ApplicationCommandOptionChannel{
					Name:        "channel",
					Description: "Channel receiving absence log events",
					Required:    true,
				},
			},
		},
		dapi.SlashCommandCreate{
			Name:        "set_language",
			Description: "Sets the bot language for this server.",
			Options: []dapi.ApplicationCommandOption{
				dapi.ApplicationCommandOptionString{
					Name:        "language",
					Description: "Language for messages and the manager embed",
					Required:    true,
					Choices: []dapi.ApplicationCommandOptionChoiceString{
						{Name: "Deutsch", Value: "de"},
						{Name: "English", Value: "en"},
					},
				},
			},
		},
		dapi.SlashCommandCreate{
			Name:        "show_config",
			Description: "Shows the current bot configuration for this server.",
		},
		dapi.SlashCommandCreate{
			Name:        "show_absent_users",
			Description: "Shows all currently absent users and their planned return date.",
		},
	}
}

// RegisterCommands publishes the command set with Discord. Called once
// before the gateway is opened.
func (h *Handler) RegisterCommands() error {
	_, err := h.client.Bot.Rest().SetGlobalCommands(h.client.Bot.ApplicationID(), Commands())
	if err != nil {
		return fmt.Errorf("register commands: %w", err)
	}
	return nil
}
