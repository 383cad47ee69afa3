package repository

import (
	"errors"

	"github.com/disgoorg/snowflake/v2"
	"gorm.io/gorm"

	"absence-bot/internal/models"
)

// GuildConfigPatch carries a partial config update; nil fields are left
// untouched.
type GuildConfigPatch struct {
	ChannelID        *snowflake.ID
	RoleName         *string
	LoggingChannelID *snowflake.ID
	Language         *string
}

type GuildConfigRepository interface {
	// Get returns the guild's config, or an unsaved default when the guild
	// never configured anything.
	Get(guildID snowflake.ID) (*models.GuildConfig, error)
	// Update applies the non-nil patch fields, creating the row on first use.
	Update(guildID snowflake.ID, patch GuildConfigPatch) (*models.GuildConfig, error)
	// ListConfigured returns all guilds that have a saved config row.
	ListConfigured() ([]models.GuildConfig, error)
}

type GormGuildConfigRepository struct {
	db *gorm.DB
}

func NewGormGuildConfigRepository(db *gorm.DB) (GuildConfigRepository, error) {
	if err := db.AutoMigrate(&models.GuildConfig{}); err != nil {
		return nil, err
	}
	return &GormGuildConfigRepository{db: db}, nil
}

func (r *GormGuildConfigRepository) Get(guildID snowflake.ID) (*models.GuildConfig, error) {
	var config models.GuildConfig
	err := r.db.Where("guild_id = ?", guildID).First(&config).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.DefaultGuildConfig(guildID), nil
	}
	if err != nil {
		return nil, err
	}
	return &config, nil
}

func (r *GormGuildConfigRepository) Update(guildID snowflake.ID, patch GuildConfigPatch) (*models.GuildConfig, error) {
	var config *models.GuildConfig
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.GuildConfig
		err := tx.Where("guild_id = ?", guildID).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			existing = *models.DefaultGuildConfig(guildID)
		} else if err != nil {
			return err
		}

		if patch.ChannelID != nil {
			existing.ChannelID = *patch.ChannelID
		}
		if patch.RoleName != nil {
			existing.RoleName = *patch.RoleName
		}
		if patch.LoggingChannelID != nil {
			existing.LoggingChannelID = *patch.LoggingChannelID
		}
		if patch.Language != nil {
			existing.Language = *patch.Language
		}

		if err := tx.Save(&existing).Error; err != nil {
			return err
		}
		config = &existing
		return nil
	})
	return config, err
}

func (r *GormGuildConfigRepository) ListConfigured() ([]models.GuildConfig, error) {
	var configs []models.GuildConfig
	err := r.db.Order("guild_id").Find(&configs).Error
	return configs, err
}
