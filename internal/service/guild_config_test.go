package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"absence-bot/internal/models"
	"absence-bot/internal/repository"
	"absence-bot/internal/service"
)

func newGuildConfigService(t *testing.T) *service.GuildConfigService {
	t.Helper()
	configs, err := repository.NewGormGuildConfigRepository(openTestDB(t))
	require.NoError(t, err)
	return service.NewGuildConfigService(configs, testLogger())
}

func TestGuildConfigDefaults(t *testing.T) {
	svc := newGuildConfigService(t)

	cfg, err := svc.Get(testGuildID)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultRoleName, cfg.RoleName)
	assert.Equal(t, "de", cfg.Language)
}

func TestGuildConfigSetters(t *testing.T) {
	svc := newGuildConfigService(t)

	cfg, err := svc.SetChannel(testGuildID, testLogChanID)
	require.NoError(t, err)
	assert.Equal(t, testLogChanID, cfg.ChannelID)

	cfg, err = svc.SetRoleName(testGuildID, "Urlaub")
	require.NoError(t, err)
	assert.Equal(t, "Urlaub", cfg.RoleName)
	assert.Equal(t, testLogChanID, cfg.ChannelID)

	cfg, err = svc.SetLanguage(testGuildID, "en")
	require.NoError(t, err)
	assert.Equal(t, "en", cfg.Language)
}

func TestSetLanguageRejectsUnknownTag(t *testing.T) {
	svc := newGuildConfigService(t)

	_, err := svc.SetLanguage(testGuildID, "fr")
	require.ErrorIs(t, err, service.ErrUnsupportedLanguage)

	cfg, err := svc.Get(testGuildID)
	require.NoError(t, err)
	assert.Equal(t, "de", cfg.Language)
}
