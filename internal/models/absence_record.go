package models

import (
	"time"

	"github.com/disgoorg/snowflake/v2"

	"absence-bot/pkg/dates"
)

// AbsenceRecord tracks one member's declared absence in one guild. There is
// at most one record per (user, guild); setting a new absence overwrites the
// previous one and resets Notified.
type AbsenceRecord struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	UserID    snowflake.ID `gorm:"not null;uniqueIndex:idx_user_guild" json:"user_id"`
	GuildID   snowflake.ID `gorm:"not null;uniqueIndex:idx_user_guild" json:"guild_id"`
	Username  string       `json:"username"` // display label only, may go stale
	ReturnDate string      `gorm:"type:varchar(10);not null" json:"return_date"`
	Notified  bool         `gorm:"default:false" json:"notified"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func (AbsenceRecord) TableName() string {
	return "absence_records"
}

// ReturnDay parses the stored return date. Day precision, local time.
func (r *AbsenceRecord) ReturnDay() (time.Time, error) {
	return dates.Parse(r.ReturnDate)
}
