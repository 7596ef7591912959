package models

import "time"

// Notification types
const (
	NotifConnectionRequest  = "connection_request"
	NotifConnectionAccepted = "connection_accepted"
	NotifConnectionRejected = "connection_rejected"
	NotifNewMessage         = "new_message"
	NotifJobApplication     = "job_application"
)

type Notification struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;index" json:"user_id"`
	User          User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Type          string    `gorm:"type:varchar(50);not null" json:"type"`
	Title         string    `gorm:"type:varchar(100)" json:"title"`
	Message       string    `gorm:"type:text;not null" json:"message"`
	RelatedUserID *uint     `json:"related_user_id,omitempty"`
	ConnectionID  *uint     `json:"connection_id,omitempty"`
	IsRead        bool      `gorm:"default:false" json:"is_read"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
}
