package models

import "time"

// Post is a community feed entry. Anonymous posts keep AuthorID for
// accountability but expose only the alias in API responses.
type Post struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	AuthorID    uint      `gorm:"not null;index" json:"-"`
	Author      User      `gorm:"foreignKey:AuthorID" json:"-"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	IsAnonymous bool      `gorm:"default:false" json:"is_anonymous"`
	Alias       string    `gorm:"type:varchar(50)" json:"alias,omitempty"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
}

type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	Post      Post      `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	AuthorID  uint      `gorm:"not null" json:"author_id"`
	Author    User      `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

// PostLike is one user's like on one post; the unique index makes the
// like endpoint a toggle.
type PostLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_post_like" json:"post_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_post_like" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
