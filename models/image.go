package models

import (
	"time"
)

const (
	ImagePrivacyPublic  = "public"
	ImagePrivacyPrivate = "private"
)

// ValidImagePrivacy reports whether the value is one of the privacy settings.
func ValidImagePrivacy(privacy string) bool {
	return privacy == ImagePrivacyPublic || privacy == ImagePrivacyPrivate
}

type Image struct {
	ID          uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerID     uint       `gorm:"not null;index" json:"owner_id"`
	Owner       User       `gorm:"foreignKey:OwnerID" json:"-"`
	Privacy     string     `gorm:"not null;default:'public';size:10" json:"privacy"`
	Title       string     `gorm:"not null;default:''" json:"title"`
	Caption     string     `gorm:"not null;default:''" json:"caption"`
	ViewCount   int64      `gorm:"not null;default:0" json:"view_count"`
	FileKey     string     `gorm:"not null" json:"-"`
	ContentType string     `json:"content_type"`
	Size        int64      `json:"size"`
	CreatedAt   time.Time  `json:"created_at"`
	EditedAt    *time.Time `json:"edited_at"`
}

func (i *Image) ResourceOwnerID() uint {
	return i.OwnerID
}

func (i *Image) ResourcePrivate() bool {
	return i.Privacy == ImagePrivacyPrivate
}
