package models

import "time"

// CalendarBlock is an explicit busy interval on a single day. Blocks are
// saved a week at a time keyed by WeekStart (the Monday of that week) and
// replaced wholesale on save.
type CalendarBlock struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index:idx_calendar_user_week" json:"user_id"`
	WeekStart string    `gorm:"type:varchar(10);not null;index:idx_calendar_user_week" json:"week_start"` // 2006-01-02
	Day       string    `gorm:"type:varchar(10);not null" json:"day"`                                     // 2006-01-02
	StartTime string    `gorm:"type:varchar(5);not null" json:"start_time"`                               // HH:MM
	EndTime   string    `gorm:"type:varchar(5);not null" json:"end_time"`                                 // HH:MM
	CreatedAt time.Time `json:"created_at"`
}
