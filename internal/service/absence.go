package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sirupsen/logrus"

	"absence-bot/internal/locale"
	"absence-bot/internal/models"
	"absence-bot/internal/repository"
	"absence-bot/pkg/dates"
	"absence-bot/pkg/discord"
)

var (
	// ErrNoActiveAbsence is returned when an extend or end targets a member
	// without a stored record.
	ErrNoActiveAbsence = errors.New("no active absence")
	// ErrRoleModify is returned when the marker role could not be granted
	// or revoked.
	ErrRoleModify = errors.New("cannot modify marker role")
	// ErrBadStoredDate is returned when a relative extend finds an
	// unparseable stored return date.
	ErrBadStoredDate = errors.New("stored return date is malformed")
)

// AbsenceService backs the interactive surface: declaring, extending and
// ending absences. The reconciliation sweep never goes through it.
type AbsenceService struct {
	records repository.AbsenceRecordRepository
	configs repository.GuildConfigRepository
	gateway discord.Gateway
	logger  *logrus.Logger
}

func NewAbsenceService(
	records repository.AbsenceRecordRepository,
	configs repository.GuildConfigRepository,
	gateway discord.Gateway,
	logger *logrus.Logger,
) *AbsenceService {
	return &AbsenceService{
		records: records,
		configs: configs,
		gateway: gateway,
		logger:  logger,
	}
}

// SetAbsence records an absence until the given day and grants the marker
// role. When the role cannot be granted the fresh record is rolled back so
// the store and the role assignment stay consistent.
func (s *AbsenceService) SetAbsence(guildID, userID snowflake.ID, username string, until time.Time) error {
	record := &models.AbsenceRecord{
		UserID:     userID,
		GuildID:    guildID,
		Username:   username,
		ReturnDate: dates.Format(until),
	}
	if err := s.records.Upsert(record); err != nil {
		return fmt.Errorf("store absence record: %w", err)
	}

	if err := s.setMarkerRole(guildID, userID, true); err != nil {
		if _, delErr := s.records.DeleteByKey(userID, guildID); delErr != nil {
			s.logger.WithError(delErr).Warn("Failed to roll back absence record")
		}
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":  userID,
		"guild_id": guildID,
		"until":    record.ReturnDate,
	}).Info("Absence recorded")
	s.logEvent(guildID, "log.absence_set", locale.Params{
		"user": mention(userID),
		"date": record.ReturnDate,
	})
	return nil
}

// ExtendTo moves an existing absence to a new return date and resets the
// notified flag, so the return-day reminder fires again for the new date.
func (s *AbsenceService) ExtendTo(guildID, userID snowflake.ID, until time.Time) error {
	record, err := s.records.GetByKey(userID, guildID)
	if err != nil {
		return fmt.Errorf("load absence record: %w", err)
	}
	if record == nil {
		return ErrNoActiveAbsence
	}

	record.ReturnDate = dates.Format(until)
	if err := s.records.Upsert(record); err != nil {
		return fmt.Errorf("store absence record: %w", err)
	}

	s.logEvent(guildID, "log.absence_extended_until", locale.Params{
		"user": mention(userID),
		"date": record.ReturnDate,
	})
	return nil
}

// ExtendByWeeks extends an existing absence relative to its stored return
// date and returns the new return date.
func (s *AbsenceService) ExtendByWeeks(guildID, userID snowflake.ID, weeks int) (time.Time, error) {
	record, err := s.records.GetByKey(userID, guildID)
	if err != nil {
		return time.Time{}, fmt.Errorf("load absence record: %w", err)
	}
	if record == nil {
		return time.Time{}, ErrNoActiveAbsence
	}

	current, err := record.ReturnDay()
	if err != nil {
		return time.Time{}, ErrBadStoredDate
	}

	extended := current.AddDate(0, 0, weeks*7)
	record.ReturnDate = dates.Format(extended)
	if err := s.records.Upsert(record); err != nil {
		return time.Time{}, fmt.Errorf("store absence record: %w", err)
	}

	s.logEvent(guildID, "log.absence_extended_by_days", locale.Params{
		"user": mention(userID),
		"days": weeks * 7,
		"date": record.ReturnDate,
	})
	return extended, nil
}

// EndAbsence deletes the record and revokes the marker role.
func (s *AbsenceService) EndAbsence(guildID, userID snowflake.ID) error {
	removed, err := s.records.DeleteByKey(userID, guildID)
	if err != nil {
		return fmt.Errorf("delete absence record: %w", err)
	}
	if !removed {
		return ErrNoActiveAbsence
	}

	if err := s.setMarkerRole(guildID, userID, false); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":  userID,
		"guild_id": guildID,
	}).Info("Absence ended")
	s.logEvent(guildID, "log.absence_ended", locale.Params{"user": mention(userID)})
	return nil
}

// ListGuildAbsences returns all absence records of one guild.
func (s *AbsenceService) ListGuildAbsences(guildID snowflake.ID) ([]models.AbsenceRecord, error) {
	return s.records.ListByGuild(guildID)
}

func (s *AbsenceService) setMarkerRole(guildID, userID snowflake.ID, grant bool) error {
	cfg, err := s.configs.Get(guildID)
	if err != nil {
		return fmt.Errorf("load guild config: %w", err)
	}

	role, ok := s.gateway.ResolveRole(guildID, cfg.RoleName)
	if !ok {
		return fmt.Errorf("%w: role %q not found", ErrRoleModify, cfg.RoleName)
	}
	member, ok := s.gateway.ResolveMember(guildID, userID)
	if !ok {
		return fmt.Errorf("%w: member not found", ErrRoleModify)
	}
	if !s.gateway.SetRole(guildID, member.ID, role.ID, grant) {
		return fmt.Errorf("%w: role %q", ErrRoleModify, role.Name)
	}
	return nil
}

func (s *AbsenceService) logEvent(guildID snowflake.ID, key string, params locale.Params) {
	cfg, err := s.configs.Get(guildID)
	if err != nil {
		s.logger.WithError(err).WithField("guild_id", guildID).Warn("Failed to load guild config for log event")
		return
	}
	guild, ok := s.gateway.ResolveGuild(guildID)
	if !ok {
		return
	}
	if params == nil {
		params = locale.Params{}
	}
	params["guild"] = guild.Name
	s.gateway.LogEvent(guildID, cfg.LoggingChannelID, locale.T(cfg.Language, key, params))
}

func mention(userID snowflake.ID) string {
	return "<@" + userID.String() + ">"
}
