package repository

import (
	"errors"

	"github.com/disgoorg/snowflake/v2"
	"gorm.io/gorm"

	"absence-bot/internal/models"
)

// AbsenceRecordRepository is the record store shared by the reconciliation
// sweep and the interactive surface.
type AbsenceRecordRepository interface {
	// Upsert creates the record or overwrites the existing one for the same
	// (user, guild) key, resetting the notified flag.
	Upsert(record *models.AbsenceRecord) error
	GetByKey(userID, guildID snowflake.ID) (*models.AbsenceRecord, error)
	ListAll() ([]models.AbsenceRecord, error)
	ListByGuild(guildID snowflake.ID) ([]models.AbsenceRecord, error)
	// DeleteByKey removes the record and reports whether one existed.
	DeleteByKey(userID, guildID snowflake.ID) (bool, error)
	// ApplySweep persists one sweep's outcomes in a single transaction.
	// Notified updates only apply while the stored return date still matches
	// the value the sweep classified, so a concurrent extend wins.
	ApplySweep(notified, removed []models.AbsenceRecord) error
}

type GormAbsenceRecordRepository struct {
	db *gorm.DB
}

func NewGormAbsenceRecordRepository(db *gorm.DB) (AbsenceRecordRepository, error) {
	if err := db.AutoMigrate(&models.AbsenceRecord{}); err != nil {
		return nil, err
	}
	return &GormAbsenceRecordRepository{db: db}, nil
}

func (r *GormAbsenceRecordRepository) Upsert(record *models.AbsenceRecord) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.AbsenceRecord
		err := tx.Where("user_id = ? AND guild_id = ?", record.UserID, record.GuildID).
			First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			record.Notified = false
			return tx.Create(record).Error
		}
		if err != nil {
			return err
		}
		existing.Username = record.Username
		existing.ReturnDate = record.ReturnDate
		existing.Notified = false
		return tx.Save(&existing).Error
	})
}

func (r *GormAbsenceRecordRepository) GetByKey(userID, guildID snowflake.ID) (*models.AbsenceRecord, error) {
	var record models.AbsenceRecord
	err := r.db.Where("user_id = ? AND guild_id = ?", userID, guildID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *GormAbsenceRecordRepository) ListAll() ([]models.AbsenceRecord, error) {
	var records []models.AbsenceRecord
	err := r.db.Order("guild_id, user_id").Find(&records).Error
	return records, err
}

func (r *GormAbsenceRecordRepository) ListByGuild(guildID snowflake.ID) ([]models.AbsenceRecord, error) {
	var records []models.AbsenceRecord
	err := r.db.Where("guild_id = ?", guildID).Order("user_id").Find(&records).Error
	return records, err
}

func (r *GormAbsenceRecordRepository) DeleteByKey(userID, guildID snowflake.ID) (bool, error) {
	result := r.db.Where("user_id = ? AND guild_id = ?", userID, guildID).
		Delete(&models.AbsenceRecord{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *GormAbsenceRecordRepository) ApplySweep(notified, removed []models.AbsenceRecord) error {
	if len(notified) == 0 && len(removed) == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, record := range notified {
			err := tx.Model(&models.AbsenceRecord{}).
				Where("user_id = ? AND guild_id = ? AND return_date = ?",
					record.UserID, record.GuildID, record.ReturnDate).
				Update("notified", true).Error
			if err != nil {
				return err
			}
		}
		for _, record := range removed {
			err := tx.Where("user_id = ? AND guild_id = ?", record.UserID, record.GuildID).
				Delete(&models.AbsenceRecord{}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}
