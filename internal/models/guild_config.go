package models

import (
	"time"

	"github.com/disgoorg/snowflake/v2"

	"absence-bot/internal/locale"
)

// DefaultRoleName is the marker role granted to absent members unless an
// administrator configured another one.
const DefaultRoleName = "Abwesend"

// GuildConfig holds the per-guild settings consumed by the sweep and the
// interactive surface. Written only through the admin commands.
type GuildConfig struct {
	ID               uint         `gorm:"primaryKey" json:"id"`
	GuildID          snowflake.ID `gorm:"uniqueIndex;not null" json:"guild_id"`
	ChannelID        snowflake.ID `json:"channel_id"`
	RoleName         string       `gorm:"type:varchar(100)" json:"role_name"`
	LoggingChannelID snowflake.ID `json:"logging_channel_id"`
	Language         string       `gorm:"type:varchar(8)" json:"language"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

func (GuildConfig) TableName() string {
	return "guild_configs"
}

// DefaultGuildConfig returns the unsaved config used for guilds that never
// ran an admin command.
func DefaultGuildConfig(guildID snowflake.ID) *GuildConfig {
	return &GuildConfig{
		GuildID:  guildID,
		RoleName: DefaultRoleName,
		Language: locale.DefaultLanguage,
	}
}
