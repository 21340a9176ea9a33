package models

import "time"

type Comment struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	EventID   uint64    `gorm:"not null;index" json:"eventId"`
	AuthorID  uint64    `gorm:"not null;index" json:"-"`
	Author    User      `json:"author"`
	Text      string    `gorm:"type:varchar(7000);not null" json:"text"`
	CreatedOn time.Time `gorm:"type:timestamptz;autoCreateTime" json:"createdOn"`
	Edited    bool      `gorm:"not null;default:false" json:"edited"`
}

func (Comment) TableName() string {
	return "comments"
}

// CommentCount is a grouped projection used by the read-model enricher.
type CommentCount struct {
	EventID uint64
	Count   int64
}
