package models

import (
	"time"
)

// Potrait is the single profile avatar a user may carry. Replacing it is an
// atomic delete-then-create at the persistence layer.
type Potrait struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerID     uint      `gorm:"not null;uniqueIndex" json:"owner_id"`
	Owner       User      `gorm:"foreignKey:OwnerID" json:"-"`
	FileKey     string    `gorm:"not null" json:"-"`
	ThumbKey    string    `gorm:"not null" json:"-"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

func (p *Potrait) ResourceOwnerID() uint {
	return p.OwnerID
}
