package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"absence-bot/internal/locale"
	"absence-bot/internal/models"
	"absence-bot/internal/repository"
	"absence-bot/pkg/dates"
	"absence-bot/pkg/discord"
)

// SweepAction is the decision the sweep reached for one record.
type SweepAction int

const (
	ActionKeep SweepAction = iota
	ActionMarkNotified
	ActionRemove
)

// RemoveReason names the terminal condition behind an ActionRemove.
type RemoveReason string

const (
	ReasonGuildGone     RemoveReason = "guild_unreachable"
	ReasonMemberGone    RemoveReason = "member_left"
	ReasonRoleUndefined RemoveReason = "role_undefined"
	ReasonRoleDrift     RemoveReason = "role_drift"
	ReasonExpired       RemoveReason = "expired"
)

// SweepOutcome is the tagged result of classifying one record in one sweep.
type SweepOutcome struct {
	Action SweepAction
	Reason RemoveReason
}

// ReconcileService runs the periodic sweep that reconciles stored absence
// records against live Discord state. It is the sole process advancing
// absence state over time; every decision derives from the current record
// and current external state, never from elapsed time between sweeps.
type ReconcileService struct {
	records repository.AbsenceRecordRepository
	configs repository.GuildConfigRepository
	gateway discord.Gateway
	logger  *logrus.Logger

	// Now is the sweep's clock, replaceable in tests.
	Now func() time.Time
}

func NewReconcileService(
	records repository.AbsenceRecordRepository,
	configs repository.GuildConfigRepository,
	gateway discord.Gateway,
	logger *logrus.Logger,
) *ReconcileService {
	return &ReconcileService{
		records: records,
		configs: configs,
		gateway: gateway,
		logger:  logger,
		Now:     time.Now,
	}
}

// Start launches the sweep loop: one sweep immediately, then one per tick.
// A single goroutine drives the loop and the ticker drops ticks that fire
// while a sweep is still running, so sweeps never overlap.
func (s *ReconcileService) Start(ctx context.Context, interval time.Duration) {
	go func() {
		s.sweepOnce()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweepOnce()
			}
		}
	}()
}

func (s *ReconcileService) sweepOnce() {
	if err := s.RunSweep(); err != nil {
		s.logger.WithError(err).Error("Absence sweep failed")
	}
}

// RunSweep reads the full record set, classifies every record, and persists
// all resulting mutations in one write at the end. When no record changed,
// nothing is written.
func (s *ReconcileService) RunSweep() error {
	records, err := s.records.ListAll()
	if err != nil {
		return fmt.Errorf("list absence records: %w", err)
	}

	s.logger.WithField("records", len(records)).Debug("Running absence sweep")
	today := dates.Midnight(s.Now())

	var notified, removed []models.AbsenceRecord
	for _, record := range records {
		outcome := s.reconcileRecord(record, today)
		switch outcome.Action {
		case ActionMarkNotified:
			notified = append(notified, record)
		case ActionRemove:
			s.logger.WithFields(logrus.Fields{
				"user_id":  record.UserID,
				"guild_id": record.GuildID,
				"reason":   outcome.Reason,
			}).Info("Removing absence record")
			removed = append(removed, record)
		}
	}

	if len(notified) == 0 && len(removed) == 0 {
		return nil
	}
	return s.records.ApplySweep(notified, removed)
}

// reconcileRecord classifies one record against external state. The branch
// order is load-bearing: terminal resolution failures first, then role
// drift, then the date-driven transitions. First match wins and external
// failures for one record never leak into another's classification.
func (s *ReconcileService) reconcileRecord(record models.AbsenceRecord, today time.Time) SweepOutcome {
	guild, ok := s.gateway.ResolveGuild(record.GuildID)
	if !ok {
		// Kicked from the guild; nobody left to notify.
		return SweepOutcome{Action: ActionRemove, Reason: ReasonGuildGone}
	}

	cfg, err := s.configs.Get(record.GuildID)
	if err != nil {
		s.logger.WithError(err).WithField("guild_id", record.GuildID).
			Warn("Failed to load guild config, skipping record this sweep")
		return SweepOutcome{Action: ActionKeep}
	}
	lang := cfg.Language
	userMention := mention(record.UserID)

	member, ok := s.gateway.ResolveMember(record.GuildID, record.UserID)
	if !ok {
		s.gateway.LogEvent(guild.ID, cfg.LoggingChannelID, locale.T(lang, "log.entry_deleted_user_left", locale.Params{
			"guild":    guild.Name,
			"username": record.Username,
			"user_id":  record.UserID,
		}))
		return SweepOutcome{Action: ActionRemove, Reason: ReasonMemberGone}
	}

	role, ok := s.gateway.ResolveRole(record.GuildID, cfg.RoleName)
	if !ok {
		s.gateway.LogEvent(guild.ID, cfg.LoggingChannelID, locale.T(lang, "log.entry_deleted_role_not_found", locale.Params{
			"guild":     guild.Name,
			"role_name": cfg.RoleName,
			"user":      userMention,
		}))
		return SweepOutcome{Action: ActionRemove, Reason: ReasonRoleUndefined}
	}

	if !member.HasRole(role.ID) {
		// Someone removed the marker role outside the bot: the absence is
		// externally terminated. Must run before the expiry branch so a
		// manually cleared role is not treated as merely expired.
		s.gateway.LogEvent(guild.ID, cfg.LoggingChannelID, locale.T(lang, "log.entry_deleted_role_missing", locale.Params{
			"guild": guild.Name,
			"user":  userMention,
			"role":  role.Name,
		}))
		s.gateway.NotifyMember(record.UserID, locale.T(lang, "dm.absence_entry_deleted_role_removed", locale.Params{
			"guild": guild.Name,
			"role":  role.Name,
		}), nil)
		return SweepOutcome{Action: ActionRemove, Reason: ReasonRoleDrift}
	}

	returnDay, err := record.ReturnDay()
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"user_id":     record.UserID,
			"guild_id":    record.GuildID,
			"return_date": record.ReturnDate,
		}).Warn("Malformed return date, skipping date checks for record")
		return SweepOutcome{Action: ActionKeep}
	}

	if !record.Notified && returnDay.Equal(today) {
		delivered := s.gateway.NotifyMember(record.UserID, locale.T(lang, "dm.return_day_reached", locale.Params{
			"guild": guild.Name,
			"date":  record.ReturnDate,
		}), &discord.ExtendPrompt{
			GuildID:        record.GuildID,
			TwoWeeksLabel:  locale.T(lang, "ui.btn_extend_2w", nil),
			FourWeeksLabel: locale.T(lang, "ui.btn_extend_4w", nil),
			CustomLabel:    locale.T(lang, "ui.btn_extend_custom", nil),
		})
		if !delivered {
			s.logger.WithField("user_id", record.UserID).Info("Return-day reminder not delivered")
		}
		// The flag flips even when the DM bounced: the reminder is
		// best-effort and must not fire again for the same date.
		return SweepOutcome{Action: ActionMarkNotified}
	}

	if returnDay.Before(today) && member.HasRole(role.ID) {
		if !s.gateway.SetRole(record.GuildID, record.UserID, role.ID, false) {
			// Revocation failed; the record stays and the same decision is
			// re-evaluated next sweep. This is the system's only retry.
			return SweepOutcome{Action: ActionKeep}
		}
		s.gateway.NotifyMember(record.UserID, locale.T(lang, "dm.absence_expired_role_removed", locale.Params{
			"guild": guild.Name,
			"date":  record.ReturnDate,
			"role":  role.Name,
		}), nil)
		return SweepOutcome{Action: ActionRemove, Reason: ReasonExpired}
	}

	return SweepOutcome{Action: ActionKeep}
}
