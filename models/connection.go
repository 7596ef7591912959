package models

import (
	"time"

	"gorm.io/gorm"
)

// Connection statuses. Accepted and rejected are terminal.
const (
	ConnectionPending  = "pending"
	ConnectionAccepted = "accepted"
	ConnectionRejected = "rejected"
)

// Connection is a single undirected edge between two users. PairLow/PairHigh
// hold the user ids in sorted order and back a unique index, so at most one
// row can exist per pair regardless of which side sent the request.
type Connection struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SenderID   uint      `gorm:"not null;index" json:"sender_id"`
	Sender     User      `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	ReceiverID uint      `gorm:"not null;index" json:"receiver_id"`
	Receiver   User      `gorm:"foreignKey:ReceiverID" json:"receiver,omitempty"`
	PairLow    uint      `gorm:"not null;uniqueIndex:idx_connection_pair" json:"-"`
	PairHigh   uint      `gorm:"not null;uniqueIndex:idx_connection_pair" json:"-"`
	Status     string    `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Note       string    `gorm:"type:varchar(500)" json:"note,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (c *Connection) BeforeSave(tx *gorm.DB) error {
	c.PairLow, c.PairHigh = c.SenderID, c.ReceiverID
	if c.PairLow > c.PairHigh {
		c.PairLow, c.PairHigh = c.PairHigh, c.PairLow
	}
	return nil
}
