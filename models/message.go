package models

import "time"

type Message struct {
	ID uint `gorm:"primaryKey" json:"id"`
	// ClientID is the sender-generated identifier echoed back in live
	// events so the client can reconcile its optimistic local copy.
	ClientID   string    `gorm:"type:varchar(64);index" json:"client_id,omitempty"`
	SenderID   uint      `gorm:"not null;index:idx_messages_pair" json:"sender_id"`
	ReceiverID uint      `gorm:"not null;index:idx_messages_pair" json:"receiver_id"`
	Body       string    `gorm:"type:text;not null" json:"body"`
	IsRead     bool      `gorm:"default:false" json:"is_read"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
}
