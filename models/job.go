package models

import "time"

type Job struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PosterID    uint      `gorm:"not null;index" json:"poster_id"`
	Poster      User      `gorm:"foreignKey:PosterID" json:"poster,omitempty"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Company     string    `gorm:"type:varchar(255);not null" json:"company"`
	Location    string    `gorm:"type:varchar(255)" json:"location"`
	Type        string    `gorm:"type:varchar(50)" json:"type"` // full-time, part-time, internship
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type JobApplication struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	JobID       uint      `gorm:"not null;uniqueIndex:idx_job_applicant" json:"job_id"`
	Job         Job       `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"-"`
	ApplicantID uint      `gorm:"not null;uniqueIndex:idx_job_applicant" json:"applicant_id"`
	Applicant   User      `gorm:"foreignKey:ApplicantID" json:"applicant,omitempty"`
	Reference   string    `gorm:"type:varchar(64)" json:"reference"`
	CoverNote   string    `gorm:"type:text" json:"cover_note,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
