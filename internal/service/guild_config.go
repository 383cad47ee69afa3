package service

import (
	"errors"
	"fmt"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sirupsen/logrus"

	"absence-bot/internal/locale"
	"absence-bot/internal/models"
	"absence-bot/internal/repository"
)

// ErrUnsupportedLanguage is returned for language tags outside the catalog.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// GuildConfigService exposes the per-guild settings to the handlers and the
// sweep.
type GuildConfigService struct {
	configs repository.GuildConfigRepository
	logger  *logrus.Logger
}

func NewGuildConfigService(configs repository.GuildConfigRepository, logger *logrus.Logger) *GuildConfigService {
	return &GuildConfigService{
		configs: configs,
		logger:  logger,
	}
}

func (s *GuildConfigService) Get(guildID snowflake.ID) (*models.GuildConfig, error) {
	return s.configs.Get(guildID)
}

func (s *GuildConfigService) ListConfigured() ([]models.GuildConfig, error) {
	return s.configs.ListConfigured()
}

func (s *GuildConfigService) SetChannel(guildID, channelID snowflake.ID) (*models.GuildConfig, error) {
	return s.update(guildID, repository.GuildConfigPatch{ChannelID: &channelID})
}

func (s *GuildConfigService) SetRoleName(guildID snowflake.ID, roleName string) (*models.GuildConfig, error) {
	return s.update(guildID, repository.GuildConfigPatch{RoleName: &roleName})
}

func (s *GuildConfigService) SetLoggingChannel(guildID, channelID snowflake.ID) (*models.GuildConfig, error) {
	return s.update(guildID, repository.GuildConfigPatch{LoggingChannelID: &channelID})
}

func (s *GuildConfigService) SetLanguage(guildID snowflake.ID, language string) (*models.GuildConfig, error) {
	if _, ok := locale.SupportedLanguages[language]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, language)
	}
	return s.update(guildID, repository.GuildConfigPatch{Language: &language})
}

func (s *GuildConfigService) update(guildID snowflake.ID, patch repository.GuildConfigPatch) (*models.GuildConfig, error) {
	cfg, err := s.configs.Update(guildID, patch)
	if err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{
		"guild_id": guildID,
		"channel":  cfg.ChannelID,
		"role":     cfg.RoleName,
		"logging":  cfg.LoggingChannelID,
		"language": cfg.Language,
	}).Info("Guild config updated")
	return cfg, nil
}
